package service

import (
	"context"
	"slices"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

func (c *Coordinator) CreateTask(ctx context.Context, actor authz.Identity, input model.CreateTaskInput) (string, error) {
	const title = "Create Task"
	if input.Title == "" {
		return "", c.invalid(ctx, title, "task title is required")
	}
	if input.DueDate == "" {
		return "", c.invalid(ctx, title, "task due date is required")
	}

	task := model.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		AssignedTo:  dedupe(input.AssignedTo),
		CreatedAt:   c.now(),
	}
	if !authz.CanWrite(actor, model.CollectionTasks, authz.OpCreate, store.Document{}, task.Fields()) {
		return "", c.denied(ctx, title, "only instructors can create tasks")
	}

	id, err := c.store.Create(ctx, model.CollectionTasks, task.Fields())
	if err != nil {
		return "", c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Task created successfully!")
	return id, nil
}

func (c *Coordinator) UpdateTask(ctx context.Context, actor authz.Identity, taskID string, input model.UpdateTaskInput) error {
	const title = "Update Task"
	doc, err := c.store.Get(ctx, model.CollectionTasks, taskID)
	if err != nil {
		return c.fail(ctx, title, err)
	}

	updates := store.Fields{}
	if input.Title != nil {
		if *input.Title == "" {
			return c.invalid(ctx, title, "task title cannot be empty")
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.DueDate != nil {
		if *input.DueDate == "" {
			return c.invalid(ctx, title, "task due date cannot be empty")
		}
		updates["dueDate"] = *input.DueDate
	}
	if input.AssignedTo != nil {
		updates["assignedTo"] = dedupe(input.AssignedTo)
	}
	if len(updates) == 0 {
		return c.invalid(ctx, title, "nothing to update")
	}

	if !authz.CanWrite(actor, model.CollectionTasks, authz.OpUpdate, doc, updates) {
		return c.denied(ctx, title, "only instructors can update tasks")
	}
	if err := c.store.Update(ctx, model.CollectionTasks, taskID, updates); err != nil {
		return c.fail(ctx, title, err)
	}
	c.ok(ctx, title, "Task updated successfully!")
	return nil
}

// dedupe keeps first occurrences; assignment sets must not carry the same
// student twice.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
