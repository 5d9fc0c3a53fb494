package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/sheet-123/values/Form Responses 1!A:ZZ", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		w.Write([]byte(`{"values":[["Email","Call Booked"],["dave@example.com",""]]}`))
	}))
	defer server.Close()

	client := NewClient("token-abc", server.URL)
	values, err := client.GetValues(context.Background(), "sheet-123", "Form Responses 1!A:ZZ")
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, []string{"Email", "Call Booked"}, values[0])
}

func TestBatchUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/sheet-123/values:batchUpdate", r.URL.Path)

		var payload struct {
			ValueInputOption string `json:"valueInputOption"`
			Data             []struct {
				Range  string     `json:"range"`
				Values [][]string `json:"values"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "USER_ENTERED", payload.ValueInputOption)
		require.Len(t, payload.Data, 2)
		assert.Equal(t, "Form Responses 1!F4", payload.Data[0].Range)
		assert.Equal(t, [][]string{{"✓"}}, payload.Data[0].Values)

		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("token-abc", server.URL)
	err := client.BatchUpdate(context.Background(), "sheet-123", []CellUpdate{
		{Range: "Form Responses 1!F4", Value: "✓"},
		{Range: "Form Responses 1!G4", Value: "Call Booked"},
	})
	assert.NoError(t, err)
}

func TestBatchUpdateEmpty(t *testing.T) {
	client := NewClient("token-abc", "http://unreachable.invalid")
	assert.NoError(t, client.BatchUpdate(context.Background(), "sheet-123", nil))
}

func TestGetValuesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"status":"UNAUTHENTICATED"}}`))
	}))
	defer server.Close()

	client := NewClient("expired", server.URL)
	_, err := client.GetValues(context.Background(), "sheet-123", "A:ZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
