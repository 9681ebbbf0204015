package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/internal/identity"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/service"
	"github.com/nazmulrahman/young-star-app/internal/store"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

// faultyStore fails Update for selected documents; everything else
// passes through. Used to force the approval write pair apart.
type faultyStore struct {
	store.DocumentStore
	failUpdate map[string]error // keyed by collection/id
}

func (s *faultyStore) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	if err, ok := s.failUpdate[collection+"/"+id]; ok {
		return err
	}
	return s.DocumentStore.Update(ctx, collection, id, fields)
}

func seedApplication(t *testing.T, c *service.Coordinator, st store.DocumentStore, userID string) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.ApplyForInstructor(ctx, identity.Principal{ID: userID, Email: userID + "@example.com"}, userID))
	apps, err := st.Query(ctx, model.CollectionApplications, store.Filter{
		Eq: map[string]any{"userId": userID},
	})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	return apps[0].ID
}

func TestApproveInstructorApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		c, st, _, inv := setup(t)
		appID := seedApplication(t, c, st, "u1")

		require.NoError(t, c.ApproveInstructorApplication(ctx, instructor, appID, "u1"))

		user, err := st.Get(ctx, model.CollectionUsers, "u1")
		require.NoError(t, err)
		assert.Equal(t, string(model.RoleInstructor), user.Fields["role"])

		appDoc, err := st.Get(ctx, model.CollectionApplications, appID)
		require.NoError(t, err)
		app := model.ApplicationFromDocument(appDoc)
		assert.Equal(t, model.ApplicationStatusApproved, app.Status)
		assert.NotNil(t, app.ApprovedAt)

		// The stale cached profile must not outlive the promotion.
		assert.Contains(t, inv.ids, "u1")
	})

	t.Run("StudentDenied", func(t *testing.T) {
		c, st, _, _ := setup(t)
		appID := seedApplication(t, c, st, "u1")

		err := c.ApproveInstructorApplication(ctx, student, appID, "u1")
		assert.ErrorIs(t, err, errdefs.ErrPermissionDenied)
	})

	t.Run("UserMismatch", func(t *testing.T) {
		c, st, _, _ := setup(t)
		appID := seedApplication(t, c, st, "u1")

		err := c.ApproveInstructorApplication(ctx, instructor, appID, "someone-else")
		assert.ErrorIs(t, err, errdefs.ErrValidation)
	})

	t.Run("AlreadyResolved", func(t *testing.T) {
		c, st, _, _ := setup(t)
		appID := seedApplication(t, c, st, "u1")

		require.NoError(t, c.ApproveInstructorApplication(ctx, instructor, appID, "u1"))
		err := c.ApproveInstructorApplication(ctx, instructor, appID, "u1")
		assert.ErrorIs(t, err, errdefs.ErrValidation)
	})

	t.Run("MissingApplication", func(t *testing.T) {
		c, _, _, _ := setup(t)

		err := c.ApproveInstructorApplication(ctx, instructor, "absent", "u1")
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})
}

func TestApproveInstructorApplicationPartialFailure(t *testing.T) {
	ctx := context.Background()

	// The role promotion lands, the status update fails: the coordinator
	// must revert the role and still surface the partial approval.
	mem := store.NewMemoryStore(model.ValidateFields)
	sink := &recordingSink{}
	inv := &recordingInvalidator{}

	bootstrap := service.NewCoordinator(mem, sink, inv, logging.New(zap.NewNop()))
	appID := seedApplication(t, bootstrap, mem, "u1")

	faulty := &faultyStore{
		DocumentStore: mem,
		failUpdate: map[string]error{
			model.CollectionApplications + "/" + appID: errdefs.ErrTransport,
		},
	}
	c := service.NewCoordinator(faulty, sink, inv, logging.New(zap.NewNop()))

	err := c.ApproveInstructorApplication(ctx, instructor, appID, "u1")
	assert.ErrorIs(t, err, errdefs.ErrPartialApproval)

	// Compensation put the role back.
	user, getErr := mem.Get(ctx, model.CollectionUsers, "u1")
	require.NoError(t, getErr)
	assert.Equal(t, string(model.RolePending), user.Fields["role"])

	appDoc, getErr := mem.Get(ctx, model.CollectionApplications, appID)
	require.NoError(t, getErr)
	assert.Equal(t, string(model.ApplicationStatusPending), appDoc.Fields["status"])

	// No promotion, no cache invalidation.
	assert.Empty(t, inv.ids)
}

func TestApproveInstructorApplicationRevertFailure(t *testing.T) {
	ctx := context.Background()

	mem := store.NewMemoryStore(model.ValidateFields)
	sink := &recordingSink{}
	inv := &recordingInvalidator{}

	bootstrap := service.NewCoordinator(mem, sink, inv, logging.New(zap.NewNop()))
	appID := seedApplication(t, bootstrap, mem, "u1")

	// First role update must succeed, so the faulty wrapper only starts
	// failing user updates after the promotion landed. Count calls.
	calls := 0
	faulty := &countingFaultyStore{
		DocumentStore: mem,
		appID:         appID,
		calls:         &calls,
	}
	c := service.NewCoordinator(faulty, sink, inv, logging.New(zap.NewNop()))

	err := c.ApproveInstructorApplication(ctx, instructor, appID, "u1")
	assert.ErrorIs(t, err, errdefs.ErrPartialApproval)

	// Both writes failed after the promotion: the user keeps the
	// instructor role while the application stays pending, and the error
	// says so.
	user, getErr := mem.Get(ctx, model.CollectionUsers, "u1")
	require.NoError(t, getErr)
	assert.Equal(t, string(model.RoleInstructor), user.Fields["role"])
	assert.Contains(t, err.Error(), "still pending")
}

// countingFaultyStore lets the first user update through, then fails the
// application status update and the compensating revert.
type countingFaultyStore struct {
	store.DocumentStore
	appID string
	calls *int
}

func (s *countingFaultyStore) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	*s.calls++
	if *s.calls == 1 {
		return s.DocumentStore.Update(ctx, collection, id, fields)
	}
	return errdefs.ErrTransport
}

func TestRejectInstructorApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		c, st, _, _ := setup(t)
		appID := seedApplication(t, c, st, "u1")

		require.NoError(t, c.RejectInstructorApplication(ctx, instructor, appID))

		_, err := st.Get(ctx, model.CollectionApplications, appID)
		assert.ErrorIs(t, err, errdefs.ErrNotFound)

		// The pending profile survives rejection.
		profile, err := st.Get(ctx, model.CollectionUsers, "u1")
		require.NoError(t, err)
		assert.Equal(t, string(model.RolePending), profile.Fields["role"])
	})

	t.Run("StudentDenied", func(t *testing.T) {
		c, st, _, _ := setup(t)
		appID := seedApplication(t, c, st, "u1")

		err := c.RejectInstructorApplication(ctx, student, appID)
		assert.ErrorIs(t, err, errdefs.ErrPermissionDenied)
	})
}
