package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenagpt/chat-service/internal/genai"
)

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"world"}]}}]}`))
	}))
	defer srv.Close()

	p := New(srv.URL, "test-key", "gemini-1.5-flash")
	reply, err := p.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", reply)
}

func TestGenerate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	p := New(srv.URL, "k", "gemini-1.5-flash")
	_, err := p.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerate_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	p := New(srv.URL, "k", "gemini-1.5-flash")
	_, err := p.Generate(context.Background(), "hello")
	assert.True(t, errors.Is(err, genai.ErrEmptyResponse))
}

func TestGenerate_Unreachable(t *testing.T) {
	p := New("http://127.0.0.1:1", "k", "gemini-1.5-flash")
	_, err := p.Generate(context.Background(), "hello")
	assert.Error(t, err)
}
