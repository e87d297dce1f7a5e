package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vntrieu/mafia/internal/games"
)

const maxWaitDuration = 120 * time.Second

// startRedis runs redis:alpine in Docker and skips the test when Docker is unavailable.
func startRedis(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start resource: %v", err)
	}
	_ = resource.Expire(120)

	pool.MaxWait = maxWaitDuration
	var client *redis.Client
	if err := pool.Retry(func() error {
		client = redis.NewClient(&redis.Options{Addr: resource.GetHostPort("6379/tcp")})
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("could not connect to redis: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge resource: %v", err)
		}
	})
	return ctx, client
}

// memStore is an in-memory games.GameStore that counts reads.
type memStore struct {
	mu    sync.Mutex
	snaps map[string][][]byte
	reads int
}

func newMemStore() *memStore {
	return &memStore{snaps: make(map[string][][]byte)}
}

func (m *memStore) GetLatestSnapshot(_ context.Context, id string) (*games.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	list := m.snaps[id]
	if len(list) == 0 {
		return nil, games.ErrGameNotFound
	}
	state, err := games.Decode(list[len(list)-1])
	if err != nil {
		return nil, err
	}
	state.Version = len(list)
	return state, nil
}

func (m *memStore) SaveSnapshot(_ context.Context, id string, expected int, state *games.GameState) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snaps[id]) != expected {
		return 0, games.ErrStaleState
	}
	raw, err := games.Encode(state)
	if err != nil {
		return 0, err
	}
	m.snaps[id] = append(m.snaps[id], raw)
	return len(m.snaps[id]), nil
}

func (m *memStore) DeleteGame(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snaps[id]; !ok {
		return games.ErrGameNotFound
	}
	delete(m.snaps, id)
	return nil
}

func newState(t *testing.T) *games.GameState {
	t.Helper()
	state, err := games.CreateNewGame([]string{"A", "B", "C", "D", "E", "F"}, games.ScenarioClassic)
	require.NoError(t, err)
	return state
}

func TestStore(t *testing.T) {
	ctx, client := startRedis(t)

	t.Run("write-through then cached read", func(t *testing.T) {
		inner := newMemStore()
		store := New(inner, client, time.Minute, nil)

		version, err := store.SaveSnapshot(ctx, "g1", 0, newState(t))
		require.NoError(t, err)
		assert.Equal(t, 1, version)

		got, err := store.GetLatestSnapshot(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Version)
		assert.Equal(t, 0, inner.reads)

		ttl, err := client.TTL(ctx, snapshotKey("g1")).Result()
		require.NoError(t, err)
		assert.True(t, ttl > 0 && ttl <= time.Minute)
	})

	t.Run("miss fills the cache", func(t *testing.T) {
		inner := newMemStore()
		_, err := inner.SaveSnapshot(ctx, "g2", 0, newState(t))
		require.NoError(t, err)
		store := New(inner, client, time.Minute, nil)

		_, err = store.GetLatestSnapshot(ctx, "g2")
		require.NoError(t, err)
		_, err = store.GetLatestSnapshot(ctx, "g2")
		require.NoError(t, err)
		assert.Equal(t, 1, inner.reads)
	})

	t.Run("stale write evicts", func(t *testing.T) {
		inner := newMemStore()
		store := New(inner, client, time.Minute, nil)
		state := newState(t)
		_, err := store.SaveSnapshot(ctx, "g3", 0, state)
		require.NoError(t, err)

		_, err = store.SaveSnapshot(ctx, "g3", 0, games.AdvancePhase(state))
		assert.ErrorIs(t, err, games.ErrStaleState)

		n, err := client.Exists(ctx, snapshotKey("g3")).Result()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete evicts", func(t *testing.T) {
		inner := newMemStore()
		store := New(inner, client, time.Minute, nil)
		_, err := store.SaveSnapshot(ctx, "g4", 0, newState(t))
		require.NoError(t, err)

		require.NoError(t, store.DeleteGame(ctx, "g4"))
		_, err = store.GetLatestSnapshot(ctx, "g4")
		assert.ErrorIs(t, err, games.ErrGameNotFound)
	})

	t.Run("corrupt entry falls back to inner store", func(t *testing.T) {
		inner := newMemStore()
		_, err := inner.SaveSnapshot(ctx, "g5", 0, newState(t))
		require.NoError(t, err)
		require.NoError(t, client.Set(ctx, snapshotKey("g5"), "{", time.Minute).Err())

		store := New(inner, client, time.Minute, nil)
		got, err := store.GetLatestSnapshot(ctx, "g5")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Version)
	})
}
