package service

import (
	"context"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

func (c *Coordinator) PostAnnouncement(ctx context.Context, actor authz.Identity, input model.CreateAnnouncementInput) (string, error) {
	const title = "Create Announcement"
	if input.Title == "" || input.Content == "" {
		return "", c.invalid(ctx, title, "announcement title and content are required")
	}

	now := c.now()
	ann := model.Announcement{
		Title:     input.Title,
		Content:   input.Content,
		Date:      now.Format("2006-01-02"),
		CreatedAt: now,
	}
	if !authz.CanWrite(actor, model.CollectionAnnouncements, authz.OpCreate, store.Document{}, ann.Fields()) {
		return "", c.denied(ctx, title, "only instructors can post announcements")
	}

	id, err := c.store.Create(ctx, model.CollectionAnnouncements, ann.Fields())
	if err != nil {
		return "", c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Announcement created successfully!")
	return id, nil
}
