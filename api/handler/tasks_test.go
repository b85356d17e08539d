package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/store"
	tasksUC "github.com/taskdeck/backend/usecase/tasks"
)

type envelope struct {
	Status string              `json:"status"`
	Code   string              `json:"code"`
	Data   json.RawMessage     `json:"data"`
	Meta   *transport.ListMeta `json:"meta"`
}

func newTaskHandler(t *testing.T) (*TaskHandler, *store.Store) {
	t.Helper()
	st := store.New()
	uc := tasksUC.New(st, zap.NewNop())
	return NewTaskHandler(uc, httpcontext.NewAdapter(time.Second), zap.NewNop()), st
}

func doRequest(method, uri string, body []byte) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	return env
}

func TestCreateTask(t *testing.T) {
	h, st := newTaskHandler(t)

	ctx := doRequest(fasthttp.MethodPost, "/api/v1/tasks", []byte(`{
		"title": "Water the plants",
		"priority": "low",
		"tags": ["home"],
		"subtasks": [{"text": "fill the can"}]
	}`))
	h.CreateTask(ctx)

	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	env := decode(t, ctx)
	assert.Equal(t, "success", env.Status)

	var created domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, domain.PriorityLow, created.Priority)
	require.Len(t, created.Subtasks, 1)
	assert.NotEmpty(t, created.Subtasks[0].ID)

	assert.Equal(t, 1, st.Len())
}

func TestCreateTaskRejectsBlankTitle(t *testing.T) {
	h, st := newTaskHandler(t)

	ctx := doRequest(fasthttp.MethodPost, "/api/v1/tasks", []byte(`{"title": "   "}`))
	h.CreateTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	env := decode(t, ctx)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, string(domain.ErrCodeInvalid), env.Code)
	assert.Equal(t, 0, st.Len())
}

func TestCreateTaskRejectsMalformedBody(t *testing.T) {
	h, _ := newTaskHandler(t)

	ctx := doRequest(fasthttp.MethodPost, "/api/v1/tasks", []byte(`{not json`))
	h.CreateTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestCreateTaskRejectsUnparseableDueDate(t *testing.T) {
	h, st := newTaskHandler(t)

	ctx := doRequest(fasthttp.MethodPost, "/api/v1/tasks", []byte(`{"title": "dated", "due_date": "next tuesday"}`))
	h.CreateTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	env := decode(t, ctx)
	assert.Equal(t, string(domain.ErrCodeInvalid), env.Code)
	assert.Equal(t, 0, st.Len())
}

func TestUpdateTaskRejectsUnparseableDueDate(t *testing.T) {
	h, st := newTaskHandler(t)
	created := st.Add(store.NewTask{Title: "dated"})
	version := st.Version()

	ctx := doRequest(fasthttp.MethodPut, "/api/v1/tasks/"+created.ID, []byte(`{"due_date": "soon-ish"}`))
	ctx.SetUserValue("id", created.ID)
	h.UpdateTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, version, st.Version())
}

func TestGetTasksAppliesFilterSpec(t *testing.T) {
	h, st := newTaskHandler(t)
	st.Add(store.NewTask{Title: "write report", Priority: domain.PriorityHigh})
	st.Add(store.NewTask{Title: "buy milk", Priority: domain.PriorityLow})
	done := st.Add(store.NewTask{Title: "write email", Priority: domain.PriorityHigh})
	st.ToggleStatus(done.ID)

	ctx := doRequest(fasthttp.MethodGet, "/api/v1/tasks?status=pending&priority=high", nil)
	h.GetTasks(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	env := decode(t, ctx)

	var matched []domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &matched))
	require.Len(t, matched, 1)
	assert.Equal(t, "write report", matched[0].Title)

	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Count)
	assert.Equal(t, 3, env.Meta.Total)
	assert.Equal(t, 1, env.Meta.Completed)
	assert.Equal(t, 2, env.Meta.Pending)
}

func TestGetTasksDefaultsToMatchAll(t *testing.T) {
	h, st := newTaskHandler(t)
	st.Add(store.NewTask{Title: "one"})
	st.Add(store.NewTask{Title: "two"})

	ctx := doRequest(fasthttp.MethodGet, "/api/v1/tasks", nil)
	h.GetTasks(ctx)

	env := decode(t, ctx)
	var matched []domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &matched))
	assert.Len(t, matched, 2)
}

func TestUpdateTaskMergesPatch(t *testing.T) {
	h, st := newTaskHandler(t)
	created := st.Add(store.NewTask{Title: "before", Description: "keep me"})

	ctx := doRequest(fasthttp.MethodPut, "/api/v1/tasks/"+created.ID, []byte(`{"title": "after"}`))
	ctx.SetUserValue("id", created.ID)
	h.UpdateTask(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	got, ok := st.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "keep me", got.Description)
}

func TestUpdateUnknownTaskIs404(t *testing.T) {
	h, _ := newTaskHandler(t)

	ctx := doRequest(fasthttp.MethodPut, "/api/v1/tasks/missing", []byte(`{"title": "x"}`))
	ctx.SetUserValue("id", "missing")
	h.UpdateTask(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	env := decode(t, ctx)
	assert.Equal(t, string(domain.ErrCodeNotFound), env.Code)
}

func TestDeleteTask(t *testing.T) {
	h, st := newTaskHandler(t)
	created := st.Add(store.NewTask{Title: "doomed"})

	ctx := doRequest(fasthttp.MethodDelete, "/api/v1/tasks/"+created.ID, nil)
	ctx.SetUserValue("id", created.ID)
	h.DeleteTask(ctx)

	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Equal(t, 0, st.Len())
}

func TestToggleStatusEndpoint(t *testing.T) {
	h, st := newTaskHandler(t)
	created := st.Add(store.NewTask{Title: "flip"})

	ctx := doRequest(fasthttp.MethodPost, "/api/v1/tasks/"+created.ID+"/toggle", nil)
	ctx.SetUserValue("id", created.ID)
	h.ToggleStatus(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	got, _ := st.Get(created.ID)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestToggleSubtaskUnknownIDLeavesStoreUntouched(t *testing.T) {
	h, st := newTaskHandler(t)
	created := st.Add(store.NewTask{Title: "X"})
	version := st.Version()

	ctx := doRequest(fasthttp.MethodPost, "/api/v1/tasks/"+created.ID+"/subtasks/any/toggle", nil)
	ctx.SetUserValue("id", created.ID)
	ctx.SetUserValue("subtaskID", "any")
	h.ToggleSubtask(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, version, st.Version())
}

func TestGetSummary(t *testing.T) {
	h, st := newTaskHandler(t)
	st.Add(store.NewTask{Title: "a"})
	done := st.Add(store.NewTask{Title: "b"})
	st.ToggleStatus(done.ID)

	ctx := doRequest(fasthttp.MethodGet, "/api/v1/summary", nil)
	h.GetSummary(ctx)

	env := decode(t, ctx)
	var sum domain.Summary
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, domain.Summary{Total: 2, Completed: 1, Pending: 1}, sum)
}
