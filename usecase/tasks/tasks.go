package tasks

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/filter"
	appLogger "github.com/taskdeck/backend/pkg/logger"
	"github.com/taskdeck/backend/store"
)

// UseCase orchestrates the task store and the filter engine for the HTTP
// layer. Validation lives here, not in the store: the store stays total and
// forgiving, callers enforce input rules before mutating.
type UseCase struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

func New(st *store.Store, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// Query runs the filter engine over the current snapshot and returns the
// matching tasks alongside the whole-collection summary.
func (uc *UseCase) Query(ctx context.Context, spec filter.Spec) ([]domain.Task, domain.Summary) {
	snapshot := uc.store.Snapshot()
	return filter.Apply(snapshot, spec, uc.now()), filter.Summarize(snapshot)
}

// Summary counts the full collection by completion state.
func (uc *UseCase) Summary(ctx context.Context) domain.Summary {
	return filter.Summarize(uc.store.Snapshot())
}

// Create validates and adds a new task. Titles must be non-blank after
// trimming; the store itself would accept anything.
func (uc *UseCase) Create(ctx context.Context, n store.NewTask) (domain.Task, error) {
	if strings.TrimSpace(n.Title) == "" {
		return domain.Task{}, domain.ErrEmptyTitle
	}
	created := uc.store.Add(n)
	appLogger.WithRequestID(ctx, uc.logger).Info("task created",
		zap.String("task_id", created.ID),
		zap.String("priority", string(created.Priority)),
		zap.Int("subtasks", len(created.Subtasks)))
	return created, nil
}

// Update applies a shallow patch. The store treats unknown ids as a silent
// no-op; this boundary reports them, since a browser client needs the 404.
func (uc *UseCase) Update(ctx context.Context, id string, patch store.TaskPatch) (domain.Task, error) {
	if _, ok := uc.store.Get(id); !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return domain.Task{}, domain.ErrEmptyTitle
	}
	uc.store.Update(id, patch)
	updated, _ := uc.store.Get(id)
	appLogger.WithRequestID(ctx, uc.logger).Info("task updated", zap.String("task_id", id))
	return updated, nil
}

// Delete removes a task.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if _, ok := uc.store.Get(id); !ok {
		return domain.ErrTaskNotFound
	}
	uc.store.Delete(id)
	appLogger.WithRequestID(ctx, uc.logger).Info("task deleted", zap.String("task_id", id))
	return nil
}

// ToggleStatus flips a task between pending and completed.
func (uc *UseCase) ToggleStatus(ctx context.Context, id string) (domain.Task, error) {
	if _, ok := uc.store.Get(id); !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	uc.store.ToggleStatus(id)
	toggled, _ := uc.store.Get(id)
	appLogger.WithRequestID(ctx, uc.logger).Info("task status toggled",
		zap.String("task_id", id),
		zap.String("status", string(toggled.Status)))
	return toggled, nil
}

// ToggleSubtask flips one checklist item.
func (uc *UseCase) ToggleSubtask(ctx context.Context, taskID, subtaskID string) (domain.Task, error) {
	t, ok := uc.store.Get(taskID)
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	found := false
	for _, sub := range t.Subtasks {
		if sub.ID == subtaskID {
			found = true
			break
		}
	}
	if !found {
		return domain.Task{}, domain.ErrSubtaskNotFound
	}
	uc.store.ToggleSubtask(taskID, subtaskID)
	toggled, _ := uc.store.Get(taskID)
	appLogger.WithRequestID(ctx, uc.logger).Info("subtask toggled",
		zap.String("task_id", taskID),
		zap.String("subtask_id", subtaskID))
	return toggled, nil
}
