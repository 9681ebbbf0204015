package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

func newStore() *store.MemoryStore {
	return store.NewMemoryStore(model.ValidateFields)
}

// ── CRUD ────────────────────────────────────────────────────────────

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		s := newStore()

		id, err := s.Create(ctx, model.CollectionAnnouncements, store.Fields{
			"title":     "Welcome",
			"content":   "First day",
			"date":      "2026-01-05",
			"createdAt": time.Now(),
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		doc, err := s.Get(ctx, model.CollectionAnnouncements, id)
		require.NoError(t, err)
		assert.Equal(t, "Welcome", doc.Fields["title"])
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore()

		_, err := s.Get(ctx, model.CollectionTasks, "absent")
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})

	t.Run("PutReplacesWholeDocument", func(t *testing.T) {
		s := newStore()

		require.NoError(t, s.Put(ctx, model.CollectionUsers, "u1", store.Fields{
			"name": "Rahim", "email": "rahim@example.com", "role": "student", "createdAt": time.Now(),
		}))
		require.NoError(t, s.Put(ctx, model.CollectionUsers, "u1", store.Fields{
			"name": "Rahim", "email": "rahim@example.com", "role": "pending", "createdAt": time.Now(),
		}))

		doc, err := s.Get(ctx, model.CollectionUsers, "u1")
		require.NoError(t, err)
		assert.Equal(t, "pending", doc.Fields["role"])
	})

	t.Run("UpdateMergesFields", func(t *testing.T) {
		s := newStore()

		require.NoError(t, s.Put(ctx, model.CollectionUsers, "u1", store.Fields{
			"name": "Karim", "email": "karim@example.com", "role": "student", "createdAt": time.Now(),
		}))
		require.NoError(t, s.Update(ctx, model.CollectionUsers, "u1", store.Fields{"role": "instructor"}))

		doc, err := s.Get(ctx, model.CollectionUsers, "u1")
		require.NoError(t, err)
		assert.Equal(t, "instructor", doc.Fields["role"])
		assert.Equal(t, "Karim", doc.Fields["name"])
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := newStore()

		err := s.Update(ctx, model.CollectionUsers, "absent", store.Fields{"name": "x"})
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore()

		require.NoError(t, s.Put(ctx, model.CollectionNotes, "n1", store.Fields{
			"studentId": "u1", "title": "t", "content": "c", "type": "text", "imageUrl": nil, "createdAt": time.Now(),
		}))
		require.NoError(t, s.Delete(ctx, model.CollectionNotes, "n1"))

		_, err := s.Get(ctx, model.CollectionNotes, "n1")
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, model.CollectionNotes, "n1"), errdefs.ErrNotFound)
	})

	t.Run("UnknownFieldRejected", func(t *testing.T) {
		s := newStore()

		err := s.Put(ctx, model.CollectionUsers, "u1", store.Fields{"name": "x", "password": "nope"})
		assert.ErrorIs(t, err, errdefs.ErrValidation)

		_, err = s.Get(ctx, model.CollectionUsers, "u1")
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		s := newStore()

		require.NoError(t, s.Put(ctx, model.CollectionUsers, "u1", store.Fields{
			"name": "Asha", "email": "asha@example.com", "role": "student", "createdAt": time.Now(),
		}))
		doc, err := s.Get(ctx, model.CollectionUsers, "u1")
		require.NoError(t, err)
		doc.Fields["name"] = "mutated"

		again, err := s.Get(ctx, model.CollectionUsers, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Asha", again.Fields["name"])
	})
}

// ── Query and filters ───────────────────────────────────────────────

func TestMemoryStoreQuery(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	require.NoError(t, s.Put(ctx, model.CollectionSubmissions, "t1:s1", store.Fields{
		"taskId": "t1", "studentId": "s1", "code": "a", "submittedAt": time.Now(),
		"status": "submitted", "grade": nil, "feedback": nil,
	}))
	require.NoError(t, s.Put(ctx, model.CollectionSubmissions, "t1:s2", store.Fields{
		"taskId": "t1", "studentId": "s2", "code": "b", "submittedAt": time.Now(),
		"status": "submitted", "grade": nil, "feedback": nil,
	}))
	require.NoError(t, s.Put(ctx, model.CollectionTasks, "t1", store.Fields{
		"title": "hw", "description": "", "dueDate": "2026-02-01",
		"assignedTo": []string{"s1", "s2"}, "createdAt": time.Now(),
	}))

	t.Run("EqFilter", func(t *testing.T) {
		docs, err := s.Query(ctx, model.CollectionSubmissions, store.Filter{
			Eq: map[string]any{"studentId": "s1"},
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "t1:s1", docs[0].ID)
	})

	t.Run("ContainsFilter", func(t *testing.T) {
		docs, err := s.Query(ctx, model.CollectionTasks, store.Filter{
			Contains: map[string]string{"assignedTo": "s2"},
		})
		require.NoError(t, err)
		assert.Len(t, docs, 1)

		docs, err = s.Query(ctx, model.CollectionTasks, store.Filter{
			Contains: map[string]string{"assignedTo": "s3"},
		})
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("IDFilter", func(t *testing.T) {
		docs, err := s.Query(ctx, model.CollectionSubmissions, store.Filter{IDs: []string{"t1:s2"}})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "t1:s2", docs[0].ID)
	})

	t.Run("ZeroFilterMatchesAll", func(t *testing.T) {
		docs, err := s.Query(ctx, model.CollectionSubmissions, store.Filter{})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})
}

// ── Subscriptions ───────────────────────────────────────────────────

func TestMemoryStoreSubscribe(t *testing.T) {
	ctx := context.Background()

	userFields := func(role string) store.Fields {
		return store.Fields{
			"name": "x", "email": "x@example.com", "role": role, "createdAt": time.Now(),
		}
	}

	t.Run("InitialSnapshotThenIncrements", func(t *testing.T) {
		s := newStore()
		require.NoError(t, s.Put(ctx, model.CollectionUsers, "u1", userFields("student")))

		var changes []store.Change
		cancel, err := s.Subscribe(ctx, model.CollectionUsers, store.Filter{},
			func(ch store.Change) { changes = append(changes, ch) }, func(error) {})
		require.NoError(t, err)
		defer cancel()

		require.Len(t, changes, 1)
		require.Len(t, changes[0].Added, 1)
		assert.Equal(t, "u1", changes[0].Added[0].ID)

		require.NoError(t, s.Put(ctx, model.CollectionUsers, "u2", userFields("student")))
		require.NoError(t, s.Update(ctx, model.CollectionUsers, "u1", store.Fields{"name": "renamed"}))
		require.NoError(t, s.Delete(ctx, model.CollectionUsers, "u2"))

		require.Len(t, changes, 4)
		assert.Equal(t, "u2", changes[1].Added[0].ID)
		assert.Equal(t, "renamed", changes[2].Modified[0].Fields["name"])
		assert.Equal(t, []string{"u2"}, changes[3].Removed)
	})

	t.Run("FilterTransitionIsRemoval", func(t *testing.T) {
		s := newStore()
		require.NoError(t, s.Put(ctx, model.CollectionSubmissions, "t1:s1", store.Fields{
			"taskId": "t1", "studentId": "s1", "code": "a", "submittedAt": time.Now(),
			"status": "submitted", "grade": nil, "feedback": nil,
		}))

		var changes []store.Change
		cancel, err := s.Subscribe(ctx, model.CollectionSubmissions,
			store.Filter{Eq: map[string]any{"status": "submitted"}},
			func(ch store.Change) { changes = append(changes, ch) }, func(error) {})
		require.NoError(t, err)
		defer cancel()

		// Leaving the filtered set surfaces as a removal, re-entering as an add.
		require.NoError(t, s.Update(ctx, model.CollectionSubmissions, "t1:s1", store.Fields{"status": "graded"}))
		require.NoError(t, s.Update(ctx, model.CollectionSubmissions, "t1:s1", store.Fields{"status": "submitted"}))

		require.Len(t, changes, 3)
		assert.Equal(t, []string{"t1:s1"}, changes[1].Removed)
		require.Len(t, changes[2].Added, 1)
	})

	t.Run("NonMatchingWriteNotDelivered", func(t *testing.T) {
		s := newStore()

		var changes []store.Change
		cancel, err := s.Subscribe(ctx, model.CollectionUsers,
			store.Filter{Eq: map[string]any{"role": "student"}},
			func(ch store.Change) { changes = append(changes, ch) }, func(error) {})
		require.NoError(t, err)
		defer cancel()

		require.NoError(t, s.Put(ctx, model.CollectionUsers, "u1", userFields("instructor")))
		assert.Empty(t, changes)
	})

	t.Run("NoDeliveryAfterUnsubscribe", func(t *testing.T) {
		s := newStore()

		var changes []store.Change
		cancel, err := s.Subscribe(ctx, model.CollectionUsers, store.Filter{},
			func(ch store.Change) { changes = append(changes, ch) }, func(error) {})
		require.NoError(t, err)

		cancel()
		require.NoError(t, s.Put(ctx, model.CollectionUsers, "u1", userFields("student")))
		assert.Empty(t, changes)
	})
}
