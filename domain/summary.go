package domain

// Summary is the derived aggregate shown next to the task list: the size of
// the full collection split by completion state. It describes the whole
// store, not a filtered view.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Preferences is the per-browser UI preference document persisted between
// sessions. It sits outside the task collection on purpose.
type Preferences struct {
	DarkMode bool   `json:"dark_mode"`
	Font     string `json:"font"`
}

// DefaultPreferences returns the document used before the user has saved one.
func DefaultPreferences() Preferences {
	return Preferences{DarkMode: false, Font: "sans"}
}
