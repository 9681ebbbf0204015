package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/identity"
	"github.com/nazmulrahman/young-star-app/internal/model"
)

// RegisterStudent creates the profile document for a freshly authenticated
// principal. Direct registration is always a student; instructor access
// goes through the application flow.
func (c *Coordinator) RegisterStudent(ctx context.Context, p identity.Principal, name string) error {
	const title = "Registration"
	if name == "" || p.Email == "" {
		return c.invalid(ctx, title, "name and email are required")
	}

	user := model.User{ID: p.ID, Name: name, Email: p.Email, Role: model.RoleStudent, CreatedAt: c.now()}
	self := authz.Identity{ID: p.ID, Role: model.RoleStudent}
	if !authz.CanWrite(self, model.CollectionUsers, authz.OpCreate, docRef(p.ID), user.Fields()) {
		return c.denied(ctx, title, "cannot create profile for another user")
	}
	if err := c.store.Put(ctx, model.CollectionUsers, p.ID, user.Fields()); err != nil {
		return c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Account created successfully!")
	return nil
}

// ApplyForInstructor creates a pending profile plus the application record
// the review queue is built from.
func (c *Coordinator) ApplyForInstructor(ctx context.Context, p identity.Principal, name string) error {
	const title = "Instructor Application"
	if name == "" || p.Email == "" {
		return c.invalid(ctx, title, "name and email are required")
	}

	user := model.User{ID: p.ID, Name: name, Email: p.Email, Role: model.RolePending, CreatedAt: c.now()}
	if err := c.store.Put(ctx, model.CollectionUsers, p.ID, user.Fields()); err != nil {
		return c.fail(ctx, title, err)
	}

	app := model.InstructorApplication{
		UserID:    p.ID,
		Name:      name,
		Email:     p.Email,
		Status:    model.ApplicationStatusPending,
		AppliedAt: c.now(),
	}
	if _, err := c.store.Create(ctx, model.CollectionApplications, app.Fields()); err != nil {
		return c.fail(ctx, title, err)
	}
	c.ok(ctx, "Application Sent", "Your instructor application has been sent for review. You will be notified upon approval.")
	return nil
}

// AddStudent creates a student profile on behalf of a principal the
// external auth provider already knows about.
func (c *Coordinator) AddStudent(ctx context.Context, actor authz.Identity, principalID, name, email string) error {
	const title = "Add Student"
	if principalID == "" || name == "" || email == "" {
		return c.invalid(ctx, title, "student id, name and email are required")
	}

	user := model.User{ID: principalID, Name: name, Email: email, Role: model.RoleStudent, CreatedAt: c.now()}
	if !authz.CanWrite(actor, model.CollectionUsers, authz.OpCreate, docRef(principalID), user.Fields()) {
		return c.denied(ctx, title, "only instructors can add students")
	}
	if err := c.store.Put(ctx, model.CollectionUsers, principalID, user.Fields()); err != nil {
		return c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Student added successfully!")
	return nil
}

// DeleteStudentProfile removes the profile document only. The auth
// credential and the student's historical documents survive; cleaning
// those up needs an operator-side process.
func (c *Coordinator) DeleteStudentProfile(ctx context.Context, actor authz.Identity, studentID string) error {
	const title = "Delete Student"
	doc, err := c.store.Get(ctx, model.CollectionUsers, studentID)
	if err != nil {
		return c.fail(ctx, title, err)
	}
	if !authz.CanWrite(actor, model.CollectionUsers, authz.OpDelete, doc, nil) {
		return c.denied(ctx, title, "only instructors can delete student profiles")
	}
	if err := c.store.Delete(ctx, model.CollectionUsers, studentID); err != nil {
		return c.fail(ctx, title, err)
	}
	c.profiles.Invalidate(ctx, studentID)
	c.log.Warn(ctx, "student profile deleted, auth credential not revoked",
		zap.String("student_id", studentID),
	)
	c.ok(ctx, title, "Student profile deleted.")
	return nil
}
