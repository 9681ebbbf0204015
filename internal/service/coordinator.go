// Package service is the Mutation Coordinator: every domain operation is
// validated, checked against the authorization gate, written to the
// backing store, and its outcome surfaced through the notification sink.
// The coordinator never writes to the sync view directly; changes come
// back through the subscription path, so read-after-write is eventual.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/internal/notify"
	"github.com/nazmulrahman/young-star-app/internal/store"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

// ProfileInvalidator drops a cached profile after a role-changing write.
type ProfileInvalidator interface {
	Invalidate(ctx context.Context, principalID string)
}

type Coordinator struct {
	store    store.DocumentStore
	sink     notify.Sink
	profiles ProfileInvalidator
	log      *logging.Logger
	now      func() time.Time
}

func NewCoordinator(st store.DocumentStore, sink notify.Sink, profiles ProfileInvalidator, log *logging.Logger) *Coordinator {
	return &Coordinator{
		store:    st,
		sink:     sink,
		profiles: profiles,
		log:      log,
		now:      time.Now,
	}
}

func (c *Coordinator) ok(ctx context.Context, title, body string) {
	c.sink.Notify(ctx, title, body, notify.SeveritySuccess)
}

func (c *Coordinator) info(ctx context.Context, title, body string) {
	c.sink.Notify(ctx, title, body, notify.SeverityInfo)
}

func (c *Coordinator) fail(ctx context.Context, title string, err error) error {
	// Prefer the request-scoped logger so the entry carries trace id and
	// acting user.
	if log, ok := logging.GetFromContext(ctx); ok {
		log.Debug(ctx, "operation rejected", zap.String("operation", title), zap.Error(err))
	}
	c.sink.Notify(ctx, title, err.Error(), notify.SeverityError)
	return err
}

func (c *Coordinator) denied(ctx context.Context, title, what string) error {
	return c.fail(ctx, title, fmt.Errorf("%w: %s", errdefs.ErrPermissionDenied, what))
}

func (c *Coordinator) invalid(ctx context.Context, title, what string) error {
	return c.fail(ctx, title, fmt.Errorf("%w: %s", errdefs.ErrValidation, what))
}

// docRef is the document identity handed to the gate when only the id is
// known (creates, not-yet-fetched targets).
func docRef(id string) store.Document {
	return store.Document{ID: id}
}
