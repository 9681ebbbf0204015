package model

import (
	"time"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RolePending    Role = "pending"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleInstructor || r == RolePending
}

type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

func (s SubmissionStatus) String() string {
	return string(s)
}

func (s SubmissionStatus) IsValid() bool {
	return s == SubmissionStatusSubmitted || s == SubmissionStatusGraded
}

type NoteType string

const (
	NoteTypeText  NoteType = "text"
	NoteTypeImage NoteType = "image"
)

func (n NoteType) IsValid() bool {
	return n == NoteTypeText || n == NoteTypeImage
}

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
)

func (a ApplicationStatus) String() string {
	return string(a)
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate"`
	AssignedTo  []string  `json:"assignedTo"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Submission struct {
	ID          string           `json:"id"`
	TaskID      string           `json:"taskId"`
	StudentID   string           `json:"studentId"`
	Code        string           `json:"code"`
	SubmittedAt time.Time        `json:"submittedAt"`
	Status      SubmissionStatus `json:"status"`
	Grade       *float64         `json:"grade"`
	Feedback    *string          `json:"feedback"`
}

type Meeting struct {
	ID              string    `json:"id"`
	Topic           string    `json:"topic"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	GoogleMeetLink  string    `json:"googleMeetLink"`
	Description     string    `json:"description"`
	InvitedStudents []string  `json:"invitedStudents"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

type Note struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      NoteType  `json:"type"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type InstructorApplication struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Status     ApplicationStatus `json:"status"`
	AppliedAt  time.Time         `json:"appliedAt"`
	ApprovedAt *time.Time        `json:"approvedAt,omitempty"`
}

// SubmissionID is the deterministic document identity of a submission.
// Keying by (task, student) makes resubmission an update on one key and
// removes the duplicate-create race of a query-then-insert upsert.
func SubmissionID(taskID, studentID string) string {
	return taskID + ":" + studentID
}
