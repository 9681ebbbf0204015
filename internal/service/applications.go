package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

// ApproveInstructorApplication promotes the applicant and resolves the
// application as one logical unit. The store has no multi-document
// transaction here, so the second write failing triggers a compensating
// role revert; whatever the revert outcome the caller always gets
// ErrPartialApproval rather than a silent half-applied state.
func (c *Coordinator) ApproveInstructorApplication(ctx context.Context, actor authz.Identity, applicationID, userID string) error {
	const title = "Approve Application"

	appDoc, err := c.store.Get(ctx, model.CollectionApplications, applicationID)
	if err != nil {
		return c.fail(ctx, title, err)
	}
	if !authz.CanWrite(actor, model.CollectionApplications, authz.OpUpdate, appDoc, nil) {
		return c.denied(ctx, title, "only instructors can approve applications")
	}

	app := model.ApplicationFromDocument(appDoc)
	if app.UserID != userID {
		return c.invalid(ctx, title, "application does not belong to that user")
	}
	if app.Status != model.ApplicationStatusPending {
		return c.invalid(ctx, title, "application already resolved")
	}

	roleUpdate := store.Fields{"role": string(model.RoleInstructor)}
	if err := c.store.Update(ctx, model.CollectionUsers, userID, roleUpdate); err != nil {
		return c.fail(ctx, title, err)
	}

	statusUpdate := store.Fields{
		"status":     string(model.ApplicationStatusApproved),
		"approvedAt": c.now(),
	}
	if err := c.store.Update(ctx, model.CollectionApplications, applicationID, statusUpdate); err != nil {
		revertErr := c.store.Update(ctx, model.CollectionUsers, userID,
			store.Fields{"role": string(model.RolePending)})
		if revertErr != nil {
			c.log.Error(ctx, "approval compensation failed, user role and application status disagree",
				zap.String("application_id", applicationID),
				zap.String("user_id", userID),
				zap.NamedError("status_err", err),
				zap.NamedError("revert_err", revertErr),
			)
			return c.fail(ctx, title, fmt.Errorf(
				"%w: application %s still pending while user %s holds instructor role (status update: %v, revert: %v)",
				errdefs.ErrPartialApproval, applicationID, userID, err, revertErr))
		}
		return c.fail(ctx, title, fmt.Errorf(
			"%w: status update failed, role promotion reverted: %v",
			errdefs.ErrPartialApproval, err))
	}

	c.profiles.Invalidate(ctx, userID)
	c.ok(ctx, title, "Instructor application approved successfully!")
	return nil
}

// RejectInstructorApplication deletes the application record. The
// applicant's login credential is not revoked; that gap is intentional
// and logged for operators.
func (c *Coordinator) RejectInstructorApplication(ctx context.Context, actor authz.Identity, applicationID string) error {
	const title = "Reject Application"

	appDoc, err := c.store.Get(ctx, model.CollectionApplications, applicationID)
	if err != nil {
		return c.fail(ctx, title, err)
	}
	if !authz.CanWrite(actor, model.CollectionApplications, authz.OpDelete, appDoc, nil) {
		return c.denied(ctx, title, "only instructors can reject applications")
	}

	if err := c.store.Delete(ctx, model.CollectionApplications, applicationID); err != nil {
		return c.fail(ctx, title, err)
	}

	app := model.ApplicationFromDocument(appDoc)
	c.log.Warn(ctx, "application rejected, applicant credential remains issued",
		zap.String("application_id", applicationID),
		zap.String("user_id", app.UserID),
	)
	c.info(ctx, title, "Instructor application rejected and removed.")
	return nil
}
