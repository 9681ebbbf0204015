package model

import (
	"fmt"
	"time"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/internal/store"
)

const (
	CollectionUsers         = "users"
	CollectionTasks         = "tasks"
	CollectionSubmissions   = "submissions"
	CollectionMeetings      = "meetings"
	CollectionAnnouncements = "announcements"
	CollectionMessages      = "messages"
	CollectionNotes         = "notes"
	CollectionApplications  = "instructorApplications"
)

var Collections = []string{
	CollectionUsers,
	CollectionTasks,
	CollectionSubmissions,
	CollectionMeetings,
	CollectionAnnouncements,
	CollectionMessages,
	CollectionNotes,
	CollectionApplications,
}

var schemas = map[string]map[string]bool{
	CollectionUsers:         set("name", "email", "role", "createdAt"),
	CollectionTasks:         set("title", "description", "dueDate", "assignedTo", "createdAt"),
	CollectionSubmissions:   set("taskId", "studentId", "code", "submittedAt", "status", "grade", "feedback"),
	CollectionMeetings:      set("topic", "date", "time", "googleMeetLink", "description", "invitedStudents", "createdAt"),
	CollectionAnnouncements: set("title", "content", "date", "createdAt"),
	CollectionMessages:      set("senderId", "receiverId", "content", "timestamp"),
	CollectionNotes:         set("studentId", "title", "content", "type", "imageUrl", "createdAt"),
	CollectionApplications:  set("userId", "name", "email", "status", "appliedAt", "approvedAt"),
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// ValidateFields is the store-write schema boundary: documents carry a
// fixed field set per collection and unknown fields are rejected instead
// of being merged in.
func ValidateFields(collection string, fields store.Fields) error {
	schema, ok := schemas[collection]
	if !ok {
		return fmt.Errorf("%w: unknown collection %q", errdefs.ErrValidation, collection)
	}
	for k := range fields {
		if !schema[k] {
			return fmt.Errorf("%w: unknown field %q in collection %q", errdefs.ErrValidation, k, collection)
		}
	}
	return nil
}

func (u User) Fields() store.Fields {
	return store.Fields{
		"name":      u.Name,
		"email":     u.Email,
		"role":      string(u.Role),
		"createdAt": u.CreatedAt,
	}
}

func (t Task) Fields() store.Fields {
	return store.Fields{
		"title":       t.Title,
		"description": t.Description,
		"dueDate":     t.DueDate,
		"assignedTo":  t.AssignedTo,
		"createdAt":   t.CreatedAt,
	}
}

func (s Submission) Fields() store.Fields {
	return store.Fields{
		"taskId":      s.TaskID,
		"studentId":   s.StudentID,
		"code":        s.Code,
		"submittedAt": s.SubmittedAt,
		"status":      string(s.Status),
		"grade":       floatOrNil(s.Grade),
		"feedback":    stringOrNil(s.Feedback),
	}
}

func (m Meeting) Fields() store.Fields {
	return store.Fields{
		"topic":           m.Topic,
		"date":            m.Date,
		"time":            m.Time,
		"googleMeetLink":  m.GoogleMeetLink,
		"description":     m.Description,
		"invitedStudents": m.InvitedStudents,
		"createdAt":       m.CreatedAt,
	}
}

func (a Announcement) Fields() store.Fields {
	return store.Fields{
		"title":     a.Title,
		"content":   a.Content,
		"date":      a.Date,
		"createdAt": a.CreatedAt,
	}
}

func (m Message) Fields() store.Fields {
	return store.Fields{
		"senderId":   m.SenderID,
		"receiverId": m.ReceiverID,
		"content":    m.Content,
		"timestamp":  m.Timestamp,
	}
}

func (n Note) Fields() store.Fields {
	return store.Fields{
		"studentId": n.StudentID,
		"title":     n.Title,
		"content":   n.Content,
		"type":      string(n.Type),
		"imageUrl":  stringOrNil(n.ImageURL),
		"createdAt": n.CreatedAt,
	}
}

func (a InstructorApplication) Fields() store.Fields {
	f := store.Fields{
		"userId":    a.UserID,
		"name":      a.Name,
		"email":     a.Email,
		"status":    string(a.Status),
		"appliedAt": a.AppliedAt,
	}
	if a.ApprovedAt != nil {
		f["approvedAt"] = *a.ApprovedAt
	}
	return f
}

func UserFromDocument(doc store.Document) User {
	return User{
		ID:        doc.ID,
		Name:      getString(doc.Fields, "name"),
		Email:     getString(doc.Fields, "email"),
		Role:      Role(getString(doc.Fields, "role")),
		CreatedAt: getTime(doc.Fields, "createdAt"),
	}
}

func TaskFromDocument(doc store.Document) Task {
	return Task{
		ID:          doc.ID,
		Title:       getString(doc.Fields, "title"),
		Description: getString(doc.Fields, "description"),
		DueDate:     getString(doc.Fields, "dueDate"),
		AssignedTo:  getStrings(doc.Fields, "assignedTo"),
		CreatedAt:   getTime(doc.Fields, "createdAt"),
	}
}

func SubmissionFromDocument(doc store.Document) Submission {
	return Submission{
		ID:          doc.ID,
		TaskID:      getString(doc.Fields, "taskId"),
		StudentID:   getString(doc.Fields, "studentId"),
		Code:        getString(doc.Fields, "code"),
		SubmittedAt: getTime(doc.Fields, "submittedAt"),
		Status:      SubmissionStatus(getString(doc.Fields, "status")),
		Grade:       getFloatPtr(doc.Fields, "grade"),
		Feedback:    getStringPtr(doc.Fields, "feedback"),
	}
}

func MeetingFromDocument(doc store.Document) Meeting {
	return Meeting{
		ID:              doc.ID,
		Topic:           getString(doc.Fields, "topic"),
		Date:            getString(doc.Fields, "date"),
		Time:            getString(doc.Fields, "time"),
		GoogleMeetLink:  getString(doc.Fields, "googleMeetLink"),
		Description:     getString(doc.Fields, "description"),
		InvitedStudents: getStrings(doc.Fields, "invitedStudents"),
		CreatedAt:       getTime(doc.Fields, "createdAt"),
	}
}

func AnnouncementFromDocument(doc store.Document) Announcement {
	return Announcement{
		ID:        doc.ID,
		Title:     getString(doc.Fields, "title"),
		Content:   getString(doc.Fields, "content"),
		Date:      getString(doc.Fields, "date"),
		CreatedAt: getTime(doc.Fields, "createdAt"),
	}
}

func MessageFromDocument(doc store.Document) Message {
	return Message{
		ID:         doc.ID,
		SenderID:   getString(doc.Fields, "senderId"),
		ReceiverID: getString(doc.Fields, "receiverId"),
		Content:    getString(doc.Fields, "content"),
		Timestamp:  getTime(doc.Fields, "timestamp"),
	}
}

func NoteFromDocument(doc store.Document) Note {
	return Note{
		ID:        doc.ID,
		StudentID: getString(doc.Fields, "studentId"),
		Title:     getString(doc.Fields, "title"),
		Content:   getString(doc.Fields, "content"),
		Type:      NoteType(getString(doc.Fields, "type")),
		ImageURL:  getStringPtr(doc.Fields, "imageUrl"),
		CreatedAt: getTime(doc.Fields, "createdAt"),
	}
}

func ApplicationFromDocument(doc store.Document) InstructorApplication {
	app := InstructorApplication{
		ID:        doc.ID,
		UserID:    getString(doc.Fields, "userId"),
		Name:      getString(doc.Fields, "name"),
		Email:     getString(doc.Fields, "email"),
		Status:    ApplicationStatus(getString(doc.Fields, "status")),
		AppliedAt: getTime(doc.Fields, "appliedAt"),
	}
	if t, ok := doc.Fields["approvedAt"].(time.Time); ok {
		app.ApprovedAt = &t
	}
	return app
}

func getString(f store.Fields, key string) string {
	s, _ := f[key].(string)
	return s
}

func getStringPtr(f store.Fields, key string) *string {
	if s, ok := f[key].(string); ok {
		return &s
	}
	return nil
}

func getFloatPtr(f store.Fields, key string) *float64 {
	switch v := f[key].(type) {
	case float64:
		return &v
	case float32:
		f64 := float64(v)
		return &f64
	case int:
		f64 := float64(v)
		return &f64
	case int32:
		f64 := float64(v)
		return &f64
	case int64:
		f64 := float64(v)
		return &f64
	}
	return nil
}

func getTime(f store.Fields, key string) time.Time {
	t, _ := f[key].(time.Time)
	return t
}

func getStrings(f store.Fields, key string) []string {
	if ss, ok := f[key].([]string); ok {
		return ss
	}
	return nil
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
