package monitor

import "time"

type Status struct {
	Preferences bool      `json:"preferences"`
	TaskCount   int       `json:"task_count"`
	Version     uint64    `json:"version"`
	LastCheck   time.Time `json:"last_check"`
}
