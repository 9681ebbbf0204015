package service

import (
	"context"
	"errors"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

// AddSubmission is the upsert keyed by the deterministic (task, student)
// document id: one Get decides between create and in-place resubmission,
// and concurrent first submissions converge on the same id instead of
// racing to create duplicates. A resubmission resets code, submittedAt and
// status but keeps the prior grade and feedback until an instructor
// regrades.
func (c *Coordinator) AddSubmission(ctx context.Context, actor authz.Identity, taskID, studentID, code string) error {
	const title = "Submit Code"
	if taskID == "" || studentID == "" {
		return c.invalid(ctx, title, "task and student are required")
	}
	if code == "" {
		return c.invalid(ctx, title, "submission code cannot be empty")
	}

	id := model.SubmissionID(taskID, studentID)
	existing, err := c.store.Get(ctx, model.CollectionSubmissions, id)
	switch {
	case err == nil:
		updates := store.Fields{
			"code":        code,
			"submittedAt": c.now(),
			"status":      string(model.SubmissionStatusSubmitted),
		}
		if !authz.CanWrite(actor, model.CollectionSubmissions, authz.OpUpdate, existing, updates) {
			return c.denied(ctx, title, "cannot update another student's submission")
		}
		if err := c.store.Update(ctx, model.CollectionSubmissions, id, updates); err != nil {
			return c.fail(ctx, title, err)
		}
		c.ok(ctx, title, "Submission updated successfully!")
		return nil

	case errors.Is(err, errdefs.ErrNotFound):
		sub := model.Submission{
			TaskID:      taskID,
			StudentID:   studentID,
			Code:        code,
			SubmittedAt: c.now(),
			Status:      model.SubmissionStatusSubmitted,
		}
		if !authz.CanWrite(actor, model.CollectionSubmissions, authz.OpCreate, store.Document{}, sub.Fields()) {
			return c.denied(ctx, title, "cannot submit for another student")
		}
		if err := c.store.Put(ctx, model.CollectionSubmissions, id, sub.Fields()); err != nil {
			return c.fail(ctx, title, err)
		}
		c.ok(ctx, title, "Submission added successfully!")
		return nil

	default:
		return c.fail(ctx, title, err)
	}
}

func (c *Coordinator) GradeSubmission(ctx context.Context, actor authz.Identity, submissionID string, grade float64, feedback string) error {
	const title = "Grade Submission"
	doc, err := c.store.Get(ctx, model.CollectionSubmissions, submissionID)
	if err != nil {
		return c.fail(ctx, title, err)
	}

	updates := store.Fields{
		"grade":    grade,
		"feedback": feedback,
		"status":   string(model.SubmissionStatusGraded),
	}
	if !authz.CanWrite(actor, model.CollectionSubmissions, authz.OpUpdate, doc, updates) {
		return c.denied(ctx, title, "only instructors can grade submissions")
	}
	if err := c.store.Update(ctx, model.CollectionSubmissions, submissionID, updates); err != nil {
		return c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Grade and feedback saved successfully!")
	return nil
}
