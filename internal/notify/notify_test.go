package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-funnel/internal/common/logger"
)

type stubNotifier struct {
	name string
	err  error
	sent []string
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) Send(_ context.Context, message string) error {
	s.sent = append(s.sent, message)
	return s.err
}

func TestDispatchAllSucceed(t *testing.T) {
	a := &stubNotifier{name: "discord"}
	b := &stubNotifier{name: "whatsapp"}
	d := NewDispatcher(logger.NewTestLogger(t), a, b)

	results := d.Dispatch(context.Background(), "new member: dave@example.com")

	require.Len(t, results, 2)
	assert.Equal(t, EffectResult{Effect: "discord", Status: "ok"}, results[0])
	assert.Equal(t, EffectResult{Effect: "whatsapp", Status: "ok"}, results[1])
	assert.Equal(t, []string{"new member: dave@example.com"}, a.sent)
}

func TestDispatchFailureDoesNotBlockOthers(t *testing.T) {
	a := &stubNotifier{name: "discord", err: errors.New("webhook 403")}
	b := &stubNotifier{name: "telegram"}
	d := NewDispatcher(logger.NewTestLogger(t), a, b)

	results := d.Dispatch(context.Background(), "hello")

	require.Len(t, results, 2)
	assert.Equal(t, "error", results[0].Status)
	assert.Equal(t, "webhook 403", results[0].Error)
	assert.Equal(t, "ok", results[1].Status)
	assert.Len(t, b.sent, 1, "second channel still receives the message")
}

func TestDispatchNoNotifiers(t *testing.T) {
	d := NewDispatcher(logger.NewTestLogger(t))
	assert.Empty(t, d.Dispatch(context.Background(), "nobody listening"))
}
