package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/111222333/invites", r.URL.Path)
		assert.Equal(t, "Bot bot-token", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(604800), payload["max_age"])
		assert.Equal(t, float64(1), payload["max_uses"])
		assert.Equal(t, true, payload["unique"])

		w.Write([]byte(`{"code":"aB3xYz"}`))
	}))
	defer server.Close()

	client := NewClient("bot-token", server.URL)
	inviteURL, err := client.CreateInvite(context.Background(), "111222333")
	require.NoError(t, err)
	assert.Equal(t, "https://discord.gg/aB3xYz", inviteURL)
}

func TestCreateInviteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Missing Permissions","code":50013}`))
	}))
	defer server.Close()

	client := NewClient("bot-token", server.URL)
	_, err := client.CreateInvite(context.Background(), "111222333")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestPostWebhookMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "New member joined", payload["content"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient("bot-token", "unused")
	err := client.PostWebhookMessage(context.Background(), server.URL, "New member joined")
	assert.NoError(t, err)
}
