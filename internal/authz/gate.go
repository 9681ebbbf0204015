// Package authz is the pure rule layer consulted by every mutation and
// every subscription open. It never touches the store: callers pass the
// document (and proposed field updates) in.
package authz

import (
	"slices"

	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

type Identity struct {
	ID   string
	Role model.Role
}

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

func CanRead(id Identity, collection string, doc store.Document) bool {
	switch collection {
	case model.CollectionUsers:
		// Profiles are readable by everyone for name lookups; a pending
		// identity only sees its own.
		if id.Role == model.RolePending {
			return doc.ID == id.ID
		}
		return true

	case model.CollectionAnnouncements:
		return id.Role == model.RoleInstructor || id.Role == model.RoleStudent

	case model.CollectionTasks:
		if id.Role == model.RoleInstructor {
			return true
		}
		return id.Role == model.RoleStudent && contains(doc.Fields, "assignedTo", id.ID)

	case model.CollectionMeetings:
		if id.Role == model.RoleInstructor {
			return true
		}
		return id.Role == model.RoleStudent && contains(doc.Fields, "invitedStudents", id.ID)

	case model.CollectionSubmissions:
		if id.Role == model.RoleInstructor {
			return true
		}
		return id.Role == model.RoleStudent && fieldIs(doc.Fields, "studentId", id.ID)

	case model.CollectionMessages:
		if id.Role == model.RolePending {
			return false
		}
		return fieldIs(doc.Fields, "senderId", id.ID) || fieldIs(doc.Fields, "receiverId", id.ID)

	case model.CollectionNotes:
		// Student-private, including from instructors.
		return id.Role == model.RoleStudent && fieldIs(doc.Fields, "studentId", id.ID)

	case model.CollectionApplications:
		return id.Role == model.RoleInstructor
	}
	return false
}

// CanWrite decides whether identity may apply op to the document. doc is
// the existing document (zero value on create); updates are the proposed
// fields.
func CanWrite(id Identity, collection string, op Op, doc store.Document, updates store.Fields) bool {
	switch collection {
	case model.CollectionUsers:
		return canWriteUser(id, op, doc, updates)

	case model.CollectionTasks, model.CollectionMeetings, model.CollectionAnnouncements:
		return id.Role == model.RoleInstructor

	case model.CollectionSubmissions:
		return canWriteSubmission(id, op, doc, updates)

	case model.CollectionMessages:
		// Immutable once created.
		return op == OpCreate && id.Role != model.RolePending && fieldIs(updates, "senderId", id.ID)

	case model.CollectionNotes:
		if id.Role != model.RoleStudent {
			return false
		}
		if op == OpCreate {
			return fieldIs(updates, "studentId", id.ID)
		}
		return fieldIs(doc.Fields, "studentId", id.ID)

	case model.CollectionApplications:
		return id.Role == model.RoleInstructor
	}
	return false
}

func canWriteUser(id Identity, op Op, doc store.Document, updates store.Fields) bool {
	if id.Role == model.RoleInstructor {
		return true
	}
	switch op {
	case OpCreate:
		return doc.ID == id.ID
	case OpUpdate:
		// Only instructors change roles.
		if _, touchesRole := updates["role"]; touchesRole {
			return false
		}
		return doc.ID == id.ID
	default:
		return false
	}
}

func canWriteSubmission(id Identity, op Op, doc store.Document, updates store.Fields) bool {
	switch id.Role {
	case model.RoleInstructor:
		if op == OpCreate {
			return false
		}
		// Grading touches grade, feedback and status only; everything
		// else (identity, code, submittedAt) belongs to the student.
		for key := range updates {
			switch key {
			case "grade", "feedback", "status":
			default:
				return false
			}
		}
		return true

	case model.RoleStudent:
		if op == OpDelete {
			return false
		}
		if op == OpCreate {
			if !fieldIs(updates, "studentId", id.ID) {
				return false
			}
		} else if !fieldIs(doc.Fields, "studentId", id.ID) {
			return false
		}
		// Students never grade.
		if g, ok := updates["grade"]; ok && g != nil {
			return false
		}
		if f, ok := updates["feedback"]; ok && f != nil {
			return false
		}
		if s, ok := updates["status"]; ok && s == string(model.SubmissionStatusGraded) {
			return false
		}
		return true
	}
	return false
}

// SubscriptionFilters yields the upstream filters the Subscription Manager
// opens for identity on collection, so unauthorized documents are never
// pulled into memory. Messages need two filters (sent and received) that
// the manager merges.
func SubscriptionFilters(id Identity, collection string) ([]store.Filter, bool) {
	if id.Role == model.RolePending {
		if collection == model.CollectionUsers {
			return []store.Filter{{IDs: []string{id.ID}}}, true
		}
		return nil, false
	}

	switch collection {
	case model.CollectionUsers, model.CollectionAnnouncements:
		return []store.Filter{{}}, true

	case model.CollectionTasks:
		if id.Role == model.RoleInstructor {
			return []store.Filter{{}}, true
		}
		return []store.Filter{{Contains: map[string]string{"assignedTo": id.ID}}}, true

	case model.CollectionMeetings:
		if id.Role == model.RoleInstructor {
			return []store.Filter{{}}, true
		}
		return []store.Filter{{Contains: map[string]string{"invitedStudents": id.ID}}}, true

	case model.CollectionSubmissions:
		if id.Role == model.RoleInstructor {
			return []store.Filter{{}}, true
		}
		return []store.Filter{{Eq: map[string]any{"studentId": id.ID}}}, true

	case model.CollectionMessages:
		return []store.Filter{
			{Eq: map[string]any{"senderId": id.ID}},
			{Eq: map[string]any{"receiverId": id.ID}},
		}, true

	case model.CollectionNotes:
		if id.Role != model.RoleStudent {
			return nil, false
		}
		return []store.Filter{{Eq: map[string]any{"studentId": id.ID}}}, true

	case model.CollectionApplications:
		if id.Role != model.RoleInstructor {
			return nil, false
		}
		return []store.Filter{{Eq: map[string]any{"status": string(model.ApplicationStatusPending)}}}, true
	}
	return nil, false
}

func fieldIs(f store.Fields, key, want string) bool {
	got, _ := f[key].(string)
	return got == want
}

func contains(f store.Fields, key, member string) bool {
	set, _ := f[key].([]string)
	return slices.Contains(set, member)
}
