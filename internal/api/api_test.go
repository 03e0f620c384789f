package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenagpt/chat-service/internal/auth"
	"github.com/meenagpt/chat-service/internal/model"
	"github.com/meenagpt/chat-service/internal/store/sqlite"
)

// scriptedProvider lets a test switch the gateway's behavior mid-flight and
// records whether it was called at all.
type scriptedProvider struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.reply, p.err
}

func (p *scriptedProvider) set(reply string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reply, p.err = reply, err
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type testEnv struct {
	srv      *httptest.Server
	provider *scriptedProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	provider := &scriptedProvider{reply: "ok"}
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	router := NewRouter(sqlite.NewWithDB(db), issuer, provider)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, provider: provider}
}

// doJSON performs a request with an optional token and decodes the JSON body.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (e *testEnv) register(t *testing.T, name, email string) string {
	t.Helper()
	var out struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}
	resp := e.doJSON(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": name, "email": email, "password": "p"}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out.Token)
	require.NotEmpty(t, out.User.UserID)
	return out.Token
}

func TestRegisterThenEmptyThreadList(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "A", "a@x.com")

	var threads []model.ThreadSummary
	resp := env.doJSON(t, http.MethodGet, "/api/threads", tok, nil, &threads)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, threads)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A", "a@x.com")

	var out map[string]string
	resp := env.doJSON(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": "B", "email": "a@x.com", "password": "q"}, &out)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, out["error"])
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	resp := env.doJSON(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "a@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A", "a@x.com")

	// Wrong password
	resp := env.doJSON(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "a@x.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Unknown email gets the same answer
	resp = env.doJSON(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "b@x.com", "password": "p"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Correct credentials yield a working token
	var out struct {
		Token string `json:"token"`
	}
	resp = env.doJSON(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "a@x.com", "password": "p"}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var threads []model.ThreadSummary
	resp = env.doJSON(t, http.MethodGet, "/api/threads", out.Token, nil, &threads)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChat_NewThread(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "A", "a@x.com")
	env.provider.set("world", nil)

	var out map[string]string
	resp := env.doJSON(t, http.MethodPost, "/api/chat", tok,
		map[string]string{"threadId": "t1", "message": "hello"}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "world", out["reply"])

	var msgs []model.Message
	resp = env.doJSON(t, http.MethodGet, "/api/threads/t1", tok, nil, &msgs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "world", msgs[1].Content)

	// The thread shows up in the listing, titled from the first message.
	var threads []model.ThreadSummary
	env.doJSON(t, http.MethodGet, "/api/threads", tok, nil, &threads)
	require.Len(t, threads, 1)
	assert.Equal(t, "t1", threads[0].ThreadID)
	assert.Equal(t, "hello", threads[0].Title)
}

func TestChat_ExistingThreadAppendsWithoutMutation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "A", "a@x.com")
	env.provider.set("r1", nil)
	env.doJSON(t, http.MethodPost, "/api/chat", tok,
		map[string]string{"threadId": "t1", "message": "first"}, nil)

	var before []model.Message
	env.doJSON(t, http.MethodGet, "/api/threads/t1", tok, nil, &before)
	require.Len(t, before, 2)

	env.provider.set("r2", nil)
	resp := env.doJSON(t, http.MethodPost, "/api/chat", tok,
		map[string]string{"threadId": "t1", "message": "second"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var after []model.Message
	env.doJSON(t, http.MethodGet, "/api/threads/t1", tok, nil, &after)
	require.Len(t, after, 4)
	for i := range before {
		assert.Equal(t, before[i].Role, after[i].Role)
		assert.Equal(t, before[i].Content, after[i].Content)
	}
	assert.Equal(t, "second", after[2].Content)
	assert.Equal(t, "r2", after[3].Content)
}

func TestChat_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "A", "a@x.com")

	for _, body := range []map[string]string{
		{"message": "hello"},
		{"threadId": "t1"},
		{},
	} {
		resp := env.doJSON(t, http.MethodPost, "/api/chat", tok, body, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestChat_GenerationFailureStillSucceeds(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "A", "a@x.com")
	env.provider.set("", errors.New("upstream exploded"))

	var out map[string]string
	resp := env.doJSON(t, http.MethodPost, "/api/chat", tok,
		map[string]string{"threadId": "t1", "message": "hello"}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out["reply"])

	// Both messages persisted, assistant side holds the fallback text.
	var msgs []model.Message
	env.doJSON(t, http.MethodGet, "/api/threads/t1", tok, nil, &msgs)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, out["reply"], msgs[1].Content)
}

func TestGetThread_IdempotentAndNotFound(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "A", "a@x.com")
	env.provider.set("w", nil)
	env.doJSON(t, http.MethodPost, "/api/chat", tok,
		map[string]string{"threadId": "t1", "message": "h"}, nil)

	var first, second []model.Message
	env.doJSON(t, http.MethodGet, "/api/threads/t1", tok, nil, &first)
	env.doJSON(t, http.MethodGet, "/api/threads/t1", tok, nil, &second)
	assert.Equal(t, first, second)

	resp := env.doJSON(t, http.MethodGet, "/api/threads/nope", tok, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteThread(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "A", "a@x.com")

	// Deleting a non-existent thread is a 404 and changes nothing.
	resp := env.doJSON(t, http.MethodDelete, "/api/threads/nope", tok, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.provider.set("w", nil)
	env.doJSON(t, http.MethodPost, "/api/chat", tok,
		map[string]string{"threadId": "t1", "message": "h"}, nil)

	var out map[string]string
	resp = env.doJSON(t, http.MethodDelete, "/api/threads/t1", tok, nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out["success"])

	resp = env.doJSON(t, http.MethodGet, "/api/threads/t1", tok, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenameThread(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "A", "a@x.com")
	env.provider.set("w", nil)
	env.doJSON(t, http.MethodPost, "/api/chat", tok,
		map[string]string{"threadId": "t1", "message": "h"}, nil)

	resp := env.doJSON(t, http.MethodPatch, "/api/threads/t1", tok,
		map[string]string{"title": "My chat"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var threads []model.ThreadSummary
	env.doJSON(t, http.MethodGet, "/api/threads", tok, nil, &threads)
	require.Len(t, threads, 1)
	assert.Equal(t, "My chat", threads[0].Title)

	resp = env.doJSON(t, http.MethodPatch, "/api/threads/nope", tok,
		map[string]string{"title": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.doJSON(t, http.MethodPatch, "/api/threads/t1", tok,
		map[string]string{"title": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/threads"},
		{http.MethodGet, "/api/threads/t1"},
		{http.MethodDelete, "/api/threads/t1"},
		{http.MethodPatch, "/api/threads/t1"},
		{http.MethodPost, "/api/chat"},
	}
	for _, c := range cases {
		var out map[string]string
		resp := env.doJSON(t, c.method, c.path, "",
			map[string]string{"threadId": "t1", "message": "h", "title": "x"}, &out)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", c.method, c.path)
		assert.NotEmpty(t, out["error"])
	}

	// No side effects: the gateway was never invoked and no thread exists.
	assert.Equal(t, 0, env.provider.callCount())
	tok := env.register(t, "A", "a@x.com")
	resp := env.doJSON(t, http.MethodGet, "/api/threads/t1", tok, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestThreads_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	tokA := env.register(t, "A", "a@x.com")
	tokB := env.register(t, "B", "b@x.com")
	env.provider.set("w", nil)
	env.doJSON(t, http.MethodPost, "/api/chat", tokA,
		map[string]string{"threadId": "t1", "message": "h"}, nil)

	resp := env.doJSON(t, http.MethodGet, "/api/threads/t1", tokB, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var threads []model.ThreadSummary
	env.doJSON(t, http.MethodGet, "/api/threads", tokB, nil, &threads)
	assert.Empty(t, threads)

	resp = env.doJSON(t, http.MethodDelete, "/api/threads/t1", tokB, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestThreadList_MostRecentFirst(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "A", "a@x.com")
	env.provider.set("w", nil)

	for i := 0; i < 3; i++ {
		env.doJSON(t, http.MethodPost, "/api/chat", tok,
			map[string]string{"threadId": fmt.Sprintf("t%d", i), "message": fmt.Sprintf("m%d", i)}, nil)
		time.Sleep(5 * time.Millisecond)
	}
	// Touch t0 so it moves back to the front.
	env.doJSON(t, http.MethodPost, "/api/chat", tok,
		map[string]string{"threadId": "t0", "message": "again"}, nil)

	var threads []model.ThreadSummary
	env.doJSON(t, http.MethodGet, "/api/threads", tok, nil, &threads)
	require.Len(t, threads, 3)
	assert.Equal(t, "t0", threads[0].ThreadID)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	var out map[string]interface{}
	resp := env.doJSON(t, http.MethodGet, "/api/health", "", nil, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", out["status"])
}
