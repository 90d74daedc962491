package authclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-token", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user_id":42,"username":"alice"}`))
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL).Verify(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id.UserID)
	assert.Equal(t, "alice", id.Username)
}

func TestVerify_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Verify(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestVerify_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL).Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUnavailable)
}

type mapCache struct {
	entries map[string]*Identity
	sets    int
}

func (m *mapCache) Get(ctx context.Context, token string) (*Identity, error) {
	if id, ok := m.entries[token]; ok {
		return id, nil
	}
	return nil, ErrCacheMiss
}

func (m *mapCache) Set(ctx context.Context, token string, id *Identity) error {
	m.entries[token] = id
	m.sets++
	return nil
}

func TestVerify_CacheShortCircuits(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"user_id":7,"username":"bob"}`))
	}))
	defer srv.Close()

	cache := &mapCache{entries: map[string]*Identity{}}
	client := NewClient(srv.URL).WithCache(cache)
	ctx := context.Background()

	id, err := client.Verify(ctx, "tok")
	require.NoError(t, err)
	assert.EqualValues(t, 7, id.UserID)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.sets)

	id, err = client.Verify(ctx, "tok")
	require.NoError(t, err)
	assert.EqualValues(t, 7, id.UserID)
	assert.Equal(t, 1, calls, "second verify must hit the cache")
}
