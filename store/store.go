// Package store owns the authoritative in-memory task collection.
//
// Every mutation replaces the published snapshot with a structurally new
// slice and a fresh value for the affected task; snapshots handed out
// earlier are never written to again. Observers can therefore detect change
// by slice identity alone, and concurrent readers never see a
// half-applied mutation.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/backend/domain"
)

// NewTask carries the caller-supplied fields for a task creation. Everything
// else is defaulted by the store: fresh id, pending status, creation
// timestamps. The store performs no validation; callers reject blank titles
// before getting here.
type NewTask struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    domain.Priority
	Tags        []string
	Subtasks    []domain.Subtask
}

// TaskPatch is a shallow merge over an existing task. Nil fields are left
// untouched; ClearDueDate removes the due date regardless of DueDate.
// A non-nil empty Tags or Subtasks slice replaces the sequence with an
// empty one, matching the merge semantics of a partial JSON document.
type TaskPatch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *domain.Priority
	Status       *domain.Status
	Tags         []string
	Subtasks     []domain.Subtask
}

// Change is delivered to subscribers after every effective mutation.
type Change struct {
	Version uint64
}

// Store is the explicit state container for the task collection. All
// mutations are silent no-ops when the referenced ids do not exist.
type Store struct {
	mu      sync.RWMutex
	tasks   []domain.Task
	version uint64

	subMu   sync.Mutex
	subs    map[int]chan Change
	nextSub int

	now func() time.Time
}

// Option tweaks store construction.
type Option func(*Store)

// WithClock overrides the timestamp source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		tasks: []domain.Task{},
		subs:  make(map[int]chan Change),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current immutable task collection. The same slice is
// returned until the next effective mutation, so callers may compare
// snapshots by identity.
func (s *Store) Snapshot() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks
}

// Version returns the monotonic mutation counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of tasks in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Get returns the task with the given id, if present.
func (s *Store) Get(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

// Add constructs a task from the supplied fields and prepends it, so the
// collection stays ordered most-recent first. Subtasks without ids get
// fresh ones; an unknown priority falls back to medium.
func (s *Store) Add(n NewTask) domain.Task {
	now := s.now()
	t := domain.Task{
		ID:          uuid.NewString(),
		Title:       n.Title,
		Description: n.Description,
		Status:      domain.StatusPending,
		Priority:    n.Priority,
		Tags:        append([]string(nil), n.Tags...),
		Subtasks:    normalizeSubtasks(n.Subtasks),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !t.Priority.Valid() {
		t.Priority = domain.PriorityMedium
	}
	if n.DueDate != nil {
		due := *n.DueDate
		t.DueDate = &due
	}
	if t.Subtasks == nil {
		t.Subtasks = []domain.Subtask{}
	}

	s.mu.Lock()
	next := make([]domain.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	s.publish(next)
	s.mu.Unlock()

	return t
}

// Update shallow-merges the patch over the task with the given id. Fields
// absent from the patch keep their previous values, and patch values outside
// the status/priority enums are ignored. Unknown ids leave the collection
// untouched.
func (s *Store) Update(id string, patch TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	t := s.tasks[idx].Clone()
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.ClearDueDate {
		t.DueDate = nil
	} else if patch.DueDate != nil {
		due := *patch.DueDate
		t.DueDate = &due
	}
	if patch.Priority != nil && patch.Priority.Valid() {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil && patch.Status.Valid() {
		t.Status = *patch.Status
	}
	if patch.Tags != nil {
		t.Tags = append([]string(nil), patch.Tags...)
	}
	if patch.Subtasks != nil {
		t.Subtasks = normalizeSubtasks(patch.Subtasks)
	}
	t.UpdatedAt = s.now()

	s.replaceAt(idx, t)
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	next := make([]domain.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	s.publish(next)
}

// ToggleStatus flips the task between pending and completed.
func (s *Store) ToggleStatus(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	t := s.tasks[idx].Clone()
	t.Status = t.Status.Toggled()
	t.UpdatedAt = s.now()
	s.replaceAt(idx, t)
}

// ToggleSubtask flips the done flag of one checklist item. A no-op when
// either the task or the subtask id is unknown.
func (s *Store) ToggleSubtask(taskID, subtaskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return
	}

	subIdx := -1
	for i, sub := range s.tasks[idx].Subtasks {
		if sub.ID == subtaskID {
			subIdx = i
			break
		}
	}
	if subIdx < 0 {
		return
	}

	t := s.tasks[idx].Clone()
	t.Subtasks[subIdx].Done = !t.Subtasks[subIdx].Done
	t.UpdatedAt = s.now()
	s.replaceAt(idx, t)
}

// Subscribe registers a change observer. The returned cancel function must
// be called to release the subscription. Notifications are best-effort: a
// subscriber that falls behind misses intermediate versions, never blocks
// the store.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Change, 8)
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// indexOf is called with s.mu held.
func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// replaceAt swaps one task value into a fresh snapshot slice. Called with
// s.mu held.
func (s *Store) replaceAt(idx int, t domain.Task) {
	next := make([]domain.Task, len(s.tasks))
	copy(next, s.tasks)
	next[idx] = t
	s.publish(next)
}

// publish installs the new snapshot, bumps the version, and wakes
// subscribers. Called with s.mu held.
func (s *Store) publish(next []domain.Task) {
	s.tasks = next
	s.version++
	change := Change{Version: s.version}

	s.subMu.Lock()
	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
	s.subMu.Unlock()
}

func normalizeSubtasks(subs []domain.Subtask) []domain.Subtask {
	if subs == nil {
		return nil
	}
	out := make([]domain.Subtask, len(subs))
	copy(out, subs)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}
