package client

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// fakeBackend simulates the transactional backend for tests: it issues
// session ids, records every lifecycle call, and routes everything else
// to a configurable handler.
type fakeBackend struct {
	mu           sync.Mutex
	sessionSeq   int
	acquireCalls int
	acquired     []string
	committed    []string
	rollbacks    []rollbackCall

	failAcquire  bool
	failCommit   bool
	failRollback bool

	handle http.HandlerFunc
}

type rollbackCall struct {
	session string
	close   string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/session/new":
		b.serveAcquire(w)
	case strings.HasPrefix(r.URL.Path, "/session/save/"):
		b.serveCommit(w, strings.TrimPrefix(r.URL.Path, "/session/save/"))
	case strings.HasPrefix(r.URL.Path, "/session/rollback/"):
		b.serveRollback(w, strings.TrimPrefix(r.URL.Path, "/session/rollback/"), r.URL.Query().Get("close"))
	default:
		if b.handle != nil {
			b.handle(w, r)

			return
		}

		writeJSON(w, http.StatusNotFound, failureBody(404, "Record not found", r.URL.Query().Get("_session")))
	}
}

func (b *fakeBackend) serveAcquire(w http.ResponseWriter) {
	b.mu.Lock()
	b.acquireCalls++

	if b.failAcquire {
		b.mu.Unlock()
		writeJSON(w, http.StatusServiceUnavailable, failureBody(500, "no sessions available", ""))

		return
	}

	b.sessionSeq++
	id := fmt.Sprintf("%032x", b.sessionSeq)
	b.acquired = append(b.acquired, id)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, successBody(fmt.Sprintf(`{"session_id": %q}`, id), 200, id))
}

func (b *fakeBackend) serveCommit(w http.ResponseWriter, session string) {
	b.mu.Lock()
	fail := b.failCommit

	if !fail {
		b.committed = append(b.committed, session)
	}
	b.mu.Unlock()

	if fail {
		writeJSON(w, http.StatusInternalServerError, failureBody(500, "commit failed", session))

		return
	}

	writeJSON(w, http.StatusOK, summaryBody(session))
}

func (b *fakeBackend) serveRollback(w http.ResponseWriter, session, closeValue string) {
	b.mu.Lock()
	fail := b.failRollback

	if !fail {
		b.rollbacks = append(b.rollbacks, rollbackCall{session: session, close: closeValue})
	}
	b.mu.Unlock()

	if fail {
		writeJSON(w, http.StatusInternalServerError, failureBody(500, "rollback failed", session))

		return
	}

	writeJSON(w, http.StatusOK, summaryBody(session))
}

func (b *fakeBackend) acquiredSessions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.acquired...)
}

func (b *fakeBackend) committedSessions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.committed...)
}

func (b *fakeBackend) rollbackCalls() []rollbackCall {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]rollbackCall(nil), b.rollbacks...)
}

func (b *fakeBackend) totalAcquireCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.acquireCalls
}

// newTestClient starts an httptest server around the backend and builds
// a client pointed at it.
func newTestClient(t *testing.T, backend *fakeBackend, config *txapi.Config) *Client {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	if config == nil {
		config = &txapi.Config{}
	}

	config.Endpoint = server.URL

	client, err := New(config)
	require.NoError(t, err)

	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func successBody(result string, code int, session string) string {
	return fmt.Sprintf(`{"result": %s, "success": true, "info": {"code": %d, "message": "OK", "session": %q}}`,
		result, code, session)
}

func failureBody(code int, message, session string) string {
	return fmt.Sprintf(`{"result": null, "success": false, "info": {"code": %d, "message": %q, "session": %q}}`,
		code, message, session)
}

func summaryBody(session string) string {
	return successBody(`{"CREATE": [], "UPDATE": [], "DELETE": []}`, 200, session)
}

// testLogger collects structured log calls for assertions.
type testLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *testLogger) Debug(_ string, _ map[string]interface{}) {}
func (l *testLogger) Info(_ string, _ map[string]interface{})  {}
func (l *testLogger) Error(_ string, _ map[string]interface{}) {}

func (l *testLogger) Warn(msg string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.warns = append(l.warns, msg)
}

func (l *testLogger) warnMessages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.warns...)
}
