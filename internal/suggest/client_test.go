package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompleteSendsJSONMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req["model"])
		require.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])

		messages := req["messages"].([]any)
		require.Len(t, messages, 2)
		require.Equal(t, "system", messages[0].(map[string]any)["role"])
		require.Equal(t, "user", messages[1].(map[string]any)["role"])

		w.Write([]byte(`{"choices": [{"message": {"content": "{\"suggestions\": []}"}}]}`))
	}))
	defer srv.Close()

	c := NewAIClient(srv.URL, "test-key", "test-model")
	reply, err := c.Complete(context.Background(), "be helpful", "suggest things")
	require.NoError(t, err)
	require.Equal(t, `{"suggestions": []}`, reply)
}

func TestCompleteRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewAIClient(srv.URL, "test-key", "test-model")
	_, err := c.Complete(context.Background(), "sys", "user")
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestCompleteProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewAIClient(srv.URL, "test-key", "test-model")
	_, err := c.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRateLimited)
}

func TestConfigured(t *testing.T) {
	require.False(t, NewAIClient("http://x", "", "m").Configured())
	require.True(t, NewAIClient("http://x", "key", "m").Configured())
}
