package model

type CreateTaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	AssignedTo  []string `json:"assignedTo"`
}

type UpdateTaskInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	DueDate     *string  `json:"dueDate"`
	AssignedTo  []string `json:"assignedTo"`
}

type ScheduleMeetingInput struct {
	Topic           string   `json:"topic"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	GoogleMeetLink  string   `json:"googleMeetLink"`
	Description     string   `json:"description"`
	InvitedStudents []string `json:"invitedStudents"`
}

type CreateAnnouncementInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AddNoteInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Type     NoteType `json:"type"`
	ImageURL *string  `json:"imageUrl"`
}
