package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	txhttp "github.com/txapi-io/txapi-client/internal/http"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

func TestSessionsClient_Acquire(t *testing.T) {
	backend := &fakeBackend{}
	client := newTestClient(t, backend, nil)

	id, err := client.Sessions().Acquire(context.Background())
	require.NoError(t, err)
	assert.Len(t, id, 32)

	acquired := backend.acquiredSessions()
	require.Len(t, acquired, 1)
	assert.Equal(t, acquired[0], id)
}

func TestSessionsClient_AcquireFailure(t *testing.T) {
	backend := &fakeBackend{failAcquire: true}
	client := newTestClient(t, backend, nil)

	id, err := client.Sessions().Acquire(context.Background())
	require.Error(t, err)
	assert.Empty(t, id)
	assert.Contains(t, err.Error(), "acquiring session")

	failure := &txapi.APIFailure{}
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 500, failure.Code)
}

func TestSessionsClient_AcquireWithoutSessionID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/session/new", r.URL.Path)

		writeJSON(w, http.StatusOK, successBody(`{}`, 200, ""))
	}))
	defer server.Close()

	sessions := NewSessionsClient(txhttp.NewClient(server.URL, nil))

	id, err := sessions.Acquire(context.Background())
	require.ErrorIs(t, err, txapi.ErrNoSessionID)
	assert.Empty(t, id)
}

func TestSessionsClient_Commit(t *testing.T) {
	backend := &fakeBackend{}
	client := newTestClient(t, backend, nil)

	id, err := client.Sessions().Acquire(context.Background())
	require.NoError(t, err)

	env, err := client.Sessions().Commit(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, env.Success)

	objects, err := env.SessionObjects()
	require.NoError(t, err)
	assert.Contains(t, objects, txapi.ActionCreate)

	assert.Equal(t, []string{id}, backend.committedSessions())
}

func TestSessionsClient_Rollback(t *testing.T) {
	backend := &fakeBackend{}
	client := newTestClient(t, backend, nil)

	t.Run("close discards the session", func(t *testing.T) {
		id, err := client.Sessions().Acquire(context.Background())
		require.NoError(t, err)

		env, err := client.Sessions().Rollback(context.Background(), id, true)
		require.NoError(t, err)
		assert.True(t, env.Success)

		rollbacks := backend.rollbackCalls()
		require.NotEmpty(t, rollbacks)
		last := rollbacks[len(rollbacks)-1]
		assert.Equal(t, id, last.session)
		assert.Equal(t, "y", last.close)
	})

	t.Run("keep leaves the session open", func(t *testing.T) {
		id, err := client.Sessions().Acquire(context.Background())
		require.NoError(t, err)

		_, err = client.Sessions().Rollback(context.Background(), id, false)
		require.NoError(t, err)

		rollbacks := backend.rollbackCalls()
		require.NotEmpty(t, rollbacks)
		last := rollbacks[len(rollbacks)-1]
		assert.Equal(t, id, last.session)
		assert.Equal(t, "n", last.close)
	})
}

func TestSessionsClient_RollbackFailure(t *testing.T) {
	backend := &fakeBackend{failRollback: true}
	client := newTestClient(t, backend, nil)

	env, err := client.Sessions().Rollback(context.Background(), "someexplicitsession", true)
	require.Error(t, err)
	assert.Nil(t, env)
	assert.Contains(t, err.Error(), "rolling back session someexplicitsession")
}

func TestSessionsClient_NonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer server.Close()

	sessions := NewSessionsClient(txhttp.NewClient(server.URL, nil))

	_, err := sessions.Acquire(context.Background())
	require.ErrorIs(t, err, txapi.ErrUnexpectedContentType)
}

func TestSessionsClient_ModuleSurface(t *testing.T) {
	sessions := NewSessionsClient(nil)

	assert.Equal(t, "/session", sessions.BasePath())

	actions := sessions.Actions()
	assert.Equal(t, "/session/new", actions["get"])
	assert.Equal(t, "/session/save/{session}", actions["save"])
	assert.Equal(t, "/session/rollback/{session}", actions["rollback"])
}
