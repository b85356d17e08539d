package transport

// SubtaskPayload mirrors a checklist item on the wire. IDs are optional on
// create; the store assigns missing ones.
type SubtaskPayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// TaskCreateRequest is the create-form payload. Priority defaults to medium
// and due_date accepts an ISO calendar date or an RFC 3339 timestamp.
type TaskCreateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    string           `json:"priority"`
	DueDate     string           `json:"due_date"`
	Tags        []string         `json:"tags"`
	Subtasks    []SubtaskPayload `json:"subtasks"`
}

// TaskUpdateRequest is a partial document: absent fields keep their current
// values. An explicit empty due_date clears the date; an explicit empty
// tags/subtasks array empties the sequence.
type TaskUpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Priority    *string          `json:"priority"`
	Status      *string          `json:"status"`
	DueDate     *string          `json:"due_date"`
	Tags        []string         `json:"tags"`
	Subtasks    []SubtaskPayload `json:"subtasks"`
}

// PreferencesRequest carries the UI preference document.
type PreferencesRequest struct {
	DarkMode bool   `json:"dark_mode"`
	Font     string `json:"font"`
}
