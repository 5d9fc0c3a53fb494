package webhooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/notify"
)

type stubTracker struct {
	marked []string
	err    error
}

func (s *stubTracker) MarkCallBooked(_ context.Context, email string) error {
	s.marked = append(s.marked, email)
	return s.err
}

func newCalProcessor(t *testing.T, crm *stubTagger, tracker *stubTracker, channel *recordingNotifier) *CalProcessor {
	t.Helper()
	log := logger.NewTestLogger(t)
	return NewCalProcessor("15773882", crm, tracker, notify.NewDispatcher(log, channel), log)
}

func TestCalProcessorBookingCreated(t *testing.T) {
	crm := &stubTagger{}
	tracker := &stubTracker{}
	channel := &recordingNotifier{name: "discord"}
	p := newCalProcessor(t, crm, tracker, channel)

	payload := []byte(`{
		"triggerEvent": "BOOKING_CREATED",
		"payload": {"attendees": [{"email": "dave@example.com", "name": "Dave"}]}
	}`)

	results, err := p.Process(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, []string{"15773882:dave@example.com"}, crm.calls)
	assert.Equal(t, []string{"dave@example.com"}, tracker.marked)
	require.Len(t, channel.sent, 1)
	assert.Contains(t, channel.sent[0], "Dave (dave@example.com)")

	require.Len(t, results, 3)
	assert.Equal(t, "crm-call-booked-tag", results[0].Effect)
	assert.Equal(t, "sheet-call-booked", results[1].Effect)
}

func TestCalProcessorFlatResponsesShape(t *testing.T) {
	crm := &stubTagger{}
	tracker := &stubTracker{}
	p := newCalProcessor(t, crm, tracker, &recordingNotifier{name: "discord"})

	payload := []byte(`{
		"triggerEvent": "BOOKING_CREATED",
		"responses": {"email": "dave@example.com"}
	}`)

	_, err := p.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"dave@example.com"}, tracker.marked)
}

func TestCalProcessorSheetFailureDoesNotRejectEvent(t *testing.T) {
	crm := &stubTagger{}
	tracker := &stubTracker{err: assert.AnError}
	channel := &recordingNotifier{name: "discord"}
	p := newCalProcessor(t, crm, tracker, channel)

	payload := []byte(`{
		"triggerEvent": "BOOKING_CREATED",
		"payload": {"attendees": [{"email": "dave@example.com", "name": "Dave"}]}
	}`)

	results, err := p.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "error", results[1].Status)
	assert.Len(t, channel.sent, 1)
}

func TestCalProcessorPing(t *testing.T) {
	crm := &stubTagger{}
	tracker := &stubTracker{}
	channel := &recordingNotifier{name: "discord"}
	p := newCalProcessor(t, crm, tracker, channel)

	results, err := p.Process(context.Background(), []byte(`{"triggerEvent": "PING"}`))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, crm.calls)
	assert.Empty(t, tracker.marked)
}

func TestCalProcessorIgnoresOtherTriggers(t *testing.T) {
	crm := &stubTagger{}
	tracker := &stubTracker{}
	p := newCalProcessor(t, crm, tracker, &recordingNotifier{name: "discord"})

	payload := []byte(`{
		"triggerEvent": "BOOKING_CANCELLED",
		"payload": {"attendees": [{"email": "dave@example.com", "name": "Dave"}]}
	}`)

	results, err := p.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, crm.calls)
}

func TestCalProcessorUnrecognizedPayload(t *testing.T) {
	p := newCalProcessor(t, &stubTagger{}, &stubTracker{}, &recordingNotifier{name: "discord"})

	_, err := p.Process(context.Background(), []byte(`{"triggerEvent": "BOOKING_CREATED"}`))
	assert.Error(t, err)
}
