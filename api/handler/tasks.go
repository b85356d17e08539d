package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/filter"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/store"
	tasksUC "github.com/taskdeck/backend/usecase/tasks"
)

type TaskHandler struct {
	baseHandler
	uc *tasksUC.UseCase
}

func NewTaskHandler(uc *tasksUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks through the filter engine
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	spec := filter.Spec{
		Search:   string(ctx.QueryArgs().Peek("search")),
		Status:   queryOrAll(ctx, "status"),
		Priority: queryOrAll(ctx, "priority"),
		Tag:      queryOrAll(ctx, "tag"),
		Date:     queryOrAll(ctx, "date"),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	matched, summary := h.uc.Query(stdCtx, spec)
	meta := transport.ListMeta{
		Count:     len(matched),
		Total:     summary.Total,
		Completed: summary.Completed,
		Pending:   summary.Pending,
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(matched, meta))
}

// @Summary Collection summary counts
// @Tags tasks
// @Router /api/v1/summary [get]
func (h *TaskHandler) GetSummary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	h.respondSuccess(ctx, http.StatusOK, h.uc.Summary(stdCtx))
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	due, ok := parseDueDate(req.DueDate)
	if !ok {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid due date", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, store.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		DueDate:     due,
		Tags:        req.Tags,
		Subtasks:    toSubtasks(req.Subtasks),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	patch := store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		st := domain.Status(*req.Status)
		patch.Status = &st
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			patch.ClearDueDate = true
		} else {
			due, ok := parseDueDate(*req.DueDate)
			if !ok {
				h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid due date", nil))
				return
			}
			patch.DueDate = due
		}
	}
	if req.Tags != nil {
		patch.Tags = req.Tags
	}
	if req.Subtasks != nil {
		patch.Subtasks = toSubtasks(req.Subtasks)
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Toggle task completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleStatus(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	toggled, err := h.uc.ToggleStatus(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, toggled)
}

// @Summary Toggle checklist item
// @Tags tasks
// @Router /api/v1/tasks/{id}/subtasks/{subtaskID}/toggle [post]
func (h *TaskHandler) ToggleSubtask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}
	subtaskID, _ := ctx.UserValue("subtaskID").(string)
	if subtaskID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing subtask id", nil))
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	toggled, err := h.uc.ToggleSubtask(stdCtx, id, subtaskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, toggled)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return "", false
	}
	return id, true
}

func queryOrAll(ctx *fasthttp.RequestCtx, name string) string {
	if v := string(ctx.QueryArgs().Peek(name)); v != "" {
		return v
	}
	return filter.All
}

// parseDueDate accepts the date-picker format (plain calendar date) or a
// full RFC 3339 timestamp. Empty means no due date; anything else that
// fails both layouts is reported so the caller can reject the request.
func parseDueDate(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	if parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return &parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, true
	}
	return nil, false
}

func toSubtasks(payload []transport.SubtaskPayload) []domain.Subtask {
	if payload == nil {
		return nil
	}
	out := make([]domain.Subtask, len(payload))
	for i, sub := range payload {
		out[i] = domain.Subtask{ID: sub.ID, Text: sub.Text, Done: sub.Done}
	}
	return out
}
