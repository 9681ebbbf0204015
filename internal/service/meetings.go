package service

import (
	"context"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

func (c *Coordinator) ScheduleMeeting(ctx context.Context, actor authz.Identity, input model.ScheduleMeetingInput) (string, error) {
	const title = "Schedule Meeting"
	if input.Topic == "" {
		return "", c.invalid(ctx, title, "meeting topic is required")
	}
	if input.Date == "" || input.Time == "" {
		return "", c.invalid(ctx, title, "meeting date and time are required")
	}

	meeting := model.Meeting{
		Topic:           input.Topic,
		Date:            input.Date,
		Time:            input.Time,
		GoogleMeetLink:  input.GoogleMeetLink,
		Description:     input.Description,
		InvitedStudents: dedupe(input.InvitedStudents),
		CreatedAt:       c.now(),
	}
	if !authz.CanWrite(actor, model.CollectionMeetings, authz.OpCreate, store.Document{}, meeting.Fields()) {
		return "", c.denied(ctx, title, "only instructors can schedule meetings")
	}

	id, err := c.store.Create(ctx, model.CollectionMeetings, meeting.Fields())
	if err != nil {
		return "", c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Meeting scheduled successfully!")
	return id, nil
}
