package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type geminiRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	SystemInstruction struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"systemInstruction"`
}

func newTestGemini(t *testing.T, srv *httptest.Server) *GeminiClient {
	t.Helper()
	c, err := NewGeminiClient(context.Background(), "gm-test", "", GeminiOptions{
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "", GeminiOptions{})
	assert.Error(t, err)
}

func TestGeminiComplete(t *testing.T) {
	var captured geminiRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"  Gist of it. \n"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	reply, err := newTestGemini(t, srv).Complete(context.Background(), "T", "Summarize")

	require.NoError(t, err)
	assert.Equal(t, "Gist of it.", reply)
	assert.True(t, strings.HasSuffix(path, "models/"+defaultGeminiModel+":generateContent"), path)
	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.Equal(t, "Summarize:\nT", captured.Contents[0].Parts[0].Text)
	require.Len(t, captured.SystemInstruction.Parts, 1)
	assert.Equal(t, SystemPrompt, captured.SystemInstruction.Parts[0].Text)
}

func TestGeminiCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "unauthenticated",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"code":401,"message":"request had invalid authentication credentials","status":"UNAUTHENTICATED"}}`,
			wantErr: ErrAuthentication,
		},
		{
			name:    "invalid key",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`,
			wantErr: ErrAuthentication,
		},
		{
			name:    "unavailable",
			status:  http.StatusServiceUnavailable,
			body:    `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`,
			wantErr: ErrNetwork,
		},
		{
			name:    "no candidates",
			status:  http.StatusOK,
			body:    `{"candidates":[]}`,
			wantErr: ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			reply, err := newTestGemini(t, srv).Complete(context.Background(), "T", "Summarize")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, reply)
		})
	}
}

func TestGeminiCompleteNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestGemini(t, srv)
	srv.Close()

	_, err := c.Complete(context.Background(), "T", "Summarize")

	assert.ErrorIs(t, err, ErrNetwork)
}
