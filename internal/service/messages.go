package service

import (
	"context"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

// SendMessage appends an immutable message document; there is no edit or
// delete path.
func (c *Coordinator) SendMessage(ctx context.Context, actor authz.Identity, receiverID, content string) (string, error) {
	const title = "Send Message"
	if content == "" {
		return "", c.invalid(ctx, title, "message content cannot be empty")
	}
	if receiverID == "" {
		return "", c.invalid(ctx, title, "message receiver is required")
	}
	if receiverID == actor.ID {
		return "", c.invalid(ctx, title, "cannot message yourself")
	}

	msg := model.Message{
		SenderID:   actor.ID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  c.now(),
	}
	if !authz.CanWrite(actor, model.CollectionMessages, authz.OpCreate, store.Document{}, msg.Fields()) {
		return "", c.denied(ctx, title, "cannot send messages as another user")
	}

	id, err := c.store.Create(ctx, model.CollectionMessages, msg.Fields())
	if err != nil {
		return "", c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Message sent successfully!")
	return id, nil
}
