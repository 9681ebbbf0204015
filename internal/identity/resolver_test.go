package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/internal/identity"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

type mapCache struct {
	data map[string][]byte
	sets int
	gets int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.gets++
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) {
	c.sets++
	c.data[key] = data
}

func (c *mapCache) Delete(_ context.Context, key string) {
	delete(c.data, key)
}

// downStore simulates an unreachable backend.
type downStore struct {
	store.DocumentStore
}

func (downStore) Get(context.Context, string, string) (store.Document, error) {
	return store.Document{}, errdefs.ErrTransport
}

func seedProfile(t *testing.T, st *store.MemoryStore, id string, role model.Role) {
	t.Helper()
	user := model.User{ID: id, Name: "Seeded", Email: id + "@example.com", Role: role, CreatedAt: time.Now()}
	require.NoError(t, st.Put(context.Background(), model.CollectionUsers, id, user.Fields()))
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	log := logging.New(zap.NewNop())

	t.Run("FromStore", func(t *testing.T) {
		st := store.NewMemoryStore(model.ValidateFields)
		seedProfile(t, st, "u1", model.RoleInstructor)
		r := identity.NewResolver(st, identity.NopCache{}, time.Minute, model.RoleStudent, log)

		prof, err := r.Resolve(ctx, identity.Principal{ID: "u1", Email: "u1@example.com"})
		require.NoError(t, err)
		assert.Equal(t, model.RoleInstructor, prof.Role)
		assert.Equal(t, "Seeded", prof.Name)
	})

	t.Run("CacheHitSkipsStore", func(t *testing.T) {
		st := store.NewMemoryStore(model.ValidateFields)
		seedProfile(t, st, "u1", model.RoleStudent)
		cache := newMapCache()
		r := identity.NewResolver(st, cache, time.Minute, model.RoleStudent, log)

		first, err := r.Resolve(ctx, identity.Principal{ID: "u1", Email: "u1@example.com"})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets)

		// Mutate the store underneath; the cached profile still wins.
		require.NoError(t, st.Update(ctx, model.CollectionUsers, "u1", store.Fields{"name": "Changed"}))
		second, err := r.Resolve(ctx, identity.Principal{ID: "u1", Email: "u1@example.com"})
		require.NoError(t, err)
		assert.Equal(t, first.Name, second.Name)
	})

	t.Run("InvalidateForcesRefetch", func(t *testing.T) {
		st := store.NewMemoryStore(model.ValidateFields)
		seedProfile(t, st, "u1", model.RoleStudent)
		cache := newMapCache()
		r := identity.NewResolver(st, cache, time.Minute, model.RoleStudent, log)

		_, err := r.Resolve(ctx, identity.Principal{ID: "u1", Email: "u1@example.com"})
		require.NoError(t, err)

		require.NoError(t, st.Update(ctx, model.CollectionUsers, "u1", store.Fields{"role": "instructor"}))
		r.Invalidate(ctx, "u1")

		prof, err := r.Resolve(ctx, identity.Principal{ID: "u1", Email: "u1@example.com"})
		require.NoError(t, err)
		assert.Equal(t, model.RoleInstructor, prof.Role)
	})

	t.Run("MissingProfileSynthesizesFallback", func(t *testing.T) {
		st := store.NewMemoryStore(model.ValidateFields)
		r := identity.NewResolver(st, identity.NopCache{}, time.Minute, model.RoleStudent, log)

		prof, err := r.Resolve(ctx, identity.Principal{ID: "ghost", Email: "ghost@example.com"})
		require.NoError(t, err)
		assert.Equal(t, model.RoleStudent, prof.Role)
		assert.Equal(t, "ghost", prof.Name)
		assert.Equal(t, "ghost@example.com", prof.Email)
	})

	t.Run("FallbackDisabled", func(t *testing.T) {
		st := store.NewMemoryStore(model.ValidateFields)
		r := identity.NewResolver(st, identity.NopCache{}, time.Minute, "", log)

		_, err := r.Resolve(ctx, identity.Principal{ID: "ghost", Email: "ghost@example.com"})
		assert.ErrorIs(t, err, errdefs.ErrProfileNotFound)
	})

	t.Run("TransportFailureIsNotAbsence", func(t *testing.T) {
		r := identity.NewResolver(downStore{}, identity.NopCache{}, time.Minute, model.RoleStudent, log)

		_, err := r.Resolve(ctx, identity.Principal{ID: "u1", Email: "u1@example.com"})
		assert.ErrorIs(t, err, errdefs.ErrProfileFetch)
		assert.NotErrorIs(t, err, errdefs.ErrProfileNotFound)
	})
}
