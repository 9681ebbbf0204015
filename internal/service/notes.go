package service

import (
	"context"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

func (c *Coordinator) AddNote(ctx context.Context, actor authz.Identity, input model.AddNoteInput) (string, error) {
	const title = "Add Note"
	if input.Title == "" {
		return "", c.invalid(ctx, title, "note title is required")
	}
	if !input.Type.IsValid() {
		return "", c.invalid(ctx, title, "note type must be text or image")
	}
	if input.Type == model.NoteTypeImage && (input.ImageURL == nil || *input.ImageURL == "") {
		return "", c.invalid(ctx, title, "image notes need an image url")
	}

	note := model.Note{
		StudentID: actor.ID,
		Title:     input.Title,
		Content:   input.Content,
		Type:      input.Type,
		ImageURL:  input.ImageURL,
		CreatedAt: c.now(),
	}
	if !authz.CanWrite(actor, model.CollectionNotes, authz.OpCreate, store.Document{}, note.Fields()) {
		return "", c.denied(ctx, title, "only students can keep notes")
	}

	id, err := c.store.Create(ctx, model.CollectionNotes, note.Fields())
	if err != nil {
		return "", c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Note added successfully!")
	return id, nil
}

// DeleteNote is an unconditional hard delete after the ownership check;
// there is no undo.
func (c *Coordinator) DeleteNote(ctx context.Context, actor authz.Identity, noteID string) error {
	const title = "Delete Note"
	doc, err := c.store.Get(ctx, model.CollectionNotes, noteID)
	if err != nil {
		return c.fail(ctx, title, err)
	}
	if !authz.CanWrite(actor, model.CollectionNotes, authz.OpDelete, doc, nil) {
		return c.denied(ctx, title, "cannot delete another student's note")
	}
	if err := c.store.Delete(ctx, model.CollectionNotes, noteID); err != nil {
		return c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Note deleted successfully!")
	return nil
}
