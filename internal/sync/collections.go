package sync

import (
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

func (e *Engine) Users() []model.User {
	return mapDocs(e.view.List(model.CollectionUsers, nil), model.UserFromDocument)
}

// Students is the derived roster view: profile documents with the student
// role.
func (e *Engine) Students() []model.User {
	docs := e.view.List(model.CollectionUsers, func(d store.Document) bool {
		role, _ := d.Fields["role"].(string)
		return role == string(model.RoleStudent)
	})
	return mapDocs(docs, model.UserFromDocument)
}

func (e *Engine) Tasks() []model.Task {
	return mapDocs(e.view.List(model.CollectionTasks, nil), model.TaskFromDocument)
}

func (e *Engine) Submissions() []model.Submission {
	return mapDocs(e.view.List(model.CollectionSubmissions, nil), model.SubmissionFromDocument)
}

func (e *Engine) Meetings() []model.Meeting {
	return mapDocs(e.view.List(model.CollectionMeetings, nil), model.MeetingFromDocument)
}

func (e *Engine) Announcements() []model.Announcement {
	return mapDocs(e.view.List(model.CollectionAnnouncements, nil), model.AnnouncementFromDocument)
}

// Messages is the merge of the sent and received subscriptions:
// deduplicated by id, ordered by timestamp ascending with arrival order
// breaking ties.
func (e *Engine) Messages() []model.Message {
	return mapDocs(e.view.List(model.CollectionMessages, nil), model.MessageFromDocument)
}

func (e *Engine) Notes() []model.Note {
	return mapDocs(e.view.List(model.CollectionNotes, nil), model.NoteFromDocument)
}

func (e *Engine) Applications() []model.InstructorApplication {
	return mapDocs(e.view.List(model.CollectionApplications, nil), model.ApplicationFromDocument)
}

func mapDocs[T any](docs []store.Document, fn func(store.Document) T) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, fn(d))
	}
	return out
}
