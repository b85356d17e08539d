// Package filter derives the visible subset of the task collection from a
// five-dimension query. It is a pure function of (snapshot, spec, now):
// no memoization, no mutation of inputs, safe to run on every recompute.
package filter

import (
	"strings"
	"time"

	"github.com/taskdeck/backend/domain"
)

// All is the wildcard value accepted by every enumerated dimension.
const All = "all"

// Date bucket values understood by the engine. Anything else falls through
// to match-all.
const (
	DateToday   = "today"
	DateOverdue = "overdue"
	DateWeek    = "week"
)

// Spec is the filter specification. The zero value of each field (empty
// string) is treated the same as "all".
type Spec struct {
	Search   string
	Status   string
	Priority string
	Tag      string
	Date     string
}

// DefaultSpec returns the spec that matches every task.
func DefaultSpec() Spec {
	return Spec{Status: All, Priority: All, Tag: All, Date: All}
}

// Apply returns the ordered subsequence of tasks matching all five
// predicates. Output order preserves input order; since the store prepends,
// that is most-recently-added first. Calendar-day comparisons use the
// location of now.
func Apply(tasks []domain.Task, spec Spec, now time.Time) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(&t, spec, now) {
			out = append(out, t)
		}
	}
	return out
}

// Matches evaluates the conjunction of all five predicates for one task.
func Matches(t *domain.Task, spec Spec, now time.Time) bool {
	return matchesSearch(t, spec.Search) &&
		matchesStatus(t, spec.Status) &&
		matchesPriority(t, spec.Priority) &&
		matchesTag(t, spec.Tag) &&
		matchesDate(t, spec.Date, now)
}

// Summarize counts the whole collection by completion state.
func Summarize(tasks []domain.Task) domain.Summary {
	sum := domain.Summary{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Status == domain.StatusCompleted {
			sum.Completed++
		}
	}
	sum.Pending = sum.Total - sum.Completed
	return sum
}

func matchesSearch(t *domain.Task, search string) bool {
	if strings.TrimSpace(search) == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func matchesStatus(t *domain.Task, status string) bool {
	if wildcard(status) {
		return true
	}
	return t.Status == domain.Status(status)
}

func matchesPriority(t *domain.Task, priority string) bool {
	if wildcard(priority) {
		return true
	}
	return t.Priority == domain.Priority(priority)
}

func matchesTag(t *domain.Task, tag string) bool {
	if wildcard(tag) {
		return true
	}
	return t.HasTag(tag)
}

func matchesDate(t *domain.Task, bucket string, now time.Time) bool {
	if wildcard(bucket) || t.DueDate == nil {
		return true
	}

	today := startOfDay(now)
	due := startOfDay(t.DueDate.In(now.Location()))

	switch bucket {
	case DateToday:
		return due.Equal(today)
	case DateOverdue:
		return due.Before(today) && t.Status != domain.StatusCompleted
	case DateWeek:
		weekEnd := today.AddDate(0, 0, 7)
		return !due.Before(today) && !due.After(weekEnd)
	default:
		// Unrecognized buckets are permissive rather than an error.
		return true
	}
}

func wildcard(value string) bool {
	return value == "" || value == All
}

// startOfDay truncates to the calendar day in t's location. Time-of-day is
// ignored by every date bucket.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
