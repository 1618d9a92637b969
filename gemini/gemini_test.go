package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlayerSummary(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  You should draft him.  "}]}}]}`))
	}))
	defer srv.Close()

	c := New("secret", srv.URL, 5*time.Second)
	text, err := c.GeneratePlayerSummary(context.Background(),
		"Jim Smith", "SoCal Hard Eights", "Games won: 20, Games lost: 2, Points won: 220, Points lost: 120", "Based on win/loss ratio and points")
	require.NoError(t, err)
	assert.Equal(t, "You should draft him.", text)

	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	prompt := got.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Jim Smith")
	assert.Contains(t, prompt, "SoCal Hard Eights")
	assert.Contains(t, prompt, "Match record summary: Games won: 20")
}

func TestGeneratePlayerSummaryErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http error", http.StatusForbidden, `{"error":{"message":"API key not valid"}}`, "status 403"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrEmptyResponse.Error()},
		{"blank text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":" "}]}}]}`, ErrEmptyResponse.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New("k", srv.URL, 5*time.Second).GeneratePlayerSummary(context.Background(), "a", "b", "c", "d")
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should contain %q", err, tt.want)
		})
	}
}

func TestNewDefaultsURL(t *testing.T) {
	assert.Equal(t, DefaultURL, New("k", "", time.Second).url)
}
