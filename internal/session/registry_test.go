package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/notify"
	"github.com/nazmulrahman/young-star-app/internal/session"
	"github.com/nazmulrahman/young-star-app/internal/store"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

func newRegistry(t *testing.T) (*session.Registry, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(model.ValidateFields)
	log := logging.New(zap.NewNop())
	r := session.NewRegistry(st, notify.NewLogSink(log), log, time.Hour)
	t.Cleanup(r.Shutdown)
	return r, st
}

func TestRegistryEngine(t *testing.T) {
	ctx := context.Background()
	student := authz.Identity{ID: "stud-1", Role: model.RoleStudent}

	t.Run("ReusedAcrossRequests", func(t *testing.T) {
		r, _ := newRegistry(t)

		first, err := r.Engine(ctx, student)
		require.NoError(t, err)
		second, err := r.Engine(ctx, student)
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("RoleChangeReopens", func(t *testing.T) {
		r, st := newRegistry(t)

		before, err := r.Engine(ctx, student)
		require.NoError(t, err)

		// Promotion: the same principal now carries a wider scope, so the
		// registry must not keep serving the student-scoped engine.
		require.NoError(t, st.Put(ctx, model.CollectionAnnouncements, "a1", store.Fields{
			"title": "t", "content": "c", "date": "2026-05-01", "createdAt": time.Now(),
		}))
		promoted := authz.Identity{ID: "stud-1", Role: model.RoleInstructor}
		after, err := r.Engine(ctx, promoted)
		require.NoError(t, err)

		assert.NotSame(t, before, after)
		assert.Equal(t, promoted, after.Identity())
		assert.Len(t, after.Announcements(), 1)
	})

	t.Run("DropClosesEngine", func(t *testing.T) {
		r, st := newRegistry(t)

		engine, err := r.Engine(ctx, student)
		require.NoError(t, err)
		r.Drop("stud-1")

		// A closed engine no longer folds in writes.
		require.NoError(t, st.Put(ctx, model.CollectionAnnouncements, "a1", store.Fields{
			"title": "t", "content": "c", "date": "2026-05-01", "createdAt": time.Now(),
		}))
		assert.Empty(t, engine.Announcements())

		reopened, err := r.Engine(ctx, student)
		require.NoError(t, err)
		assert.NotSame(t, engine, reopened)
		assert.Len(t, reopened.Announcements(), 1)
	})

	t.Run("ShutdownRejectsNewEngines", func(t *testing.T) {
		r, _ := newRegistry(t)
		r.Shutdown()

		_, err := r.Engine(ctx, student)
		assert.Error(t, err)
	})
}
