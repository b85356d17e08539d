package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/filter"
	"github.com/taskdeck/backend/store"
)

func newUseCase() (*UseCase, *store.Store) {
	st := store.New()
	return New(st, nil), st
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	uc, st := newUseCase()

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := uc.Create(context.Background(), store.NewTask{Title: title})
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	}
	assert.Equal(t, 0, st.Len(), "rejected creations must not reach the store")
}

func TestCreateAndQueryRoundTrip(t *testing.T) {
	uc, _ := newUseCase()

	created, err := uc.Create(context.Background(), store.NewTask{
		Title:    "Finish React homework",
		Priority: domain.PriorityHigh,
		Tags:     []string{"school"},
	})
	require.NoError(t, err)

	matched, summary := uc.Query(context.Background(), filter.Spec{Search: "react"})
	require.Len(t, matched, 1)
	assert.Equal(t, created.ID, matched[0].ID)
	assert.Equal(t, domain.Summary{Total: 1, Completed: 0, Pending: 1}, summary)
}

func TestMutationsOnUnknownIDReturnNotFound(t *testing.T) {
	uc, st := newUseCase()
	existing, err := uc.Create(context.Background(), store.NewTask{Title: "anchor"})
	require.NoError(t, err)
	version := st.Version()

	title := "x"
	_, err = uc.Update(context.Background(), "missing", store.TaskPatch{Title: &title})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	err = uc.Delete(context.Background(), "missing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	_, err = uc.ToggleStatus(context.Background(), "missing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	_, err = uc.ToggleSubtask(context.Background(), "missing", "sub")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	assert.Equal(t, version, st.Version(), "failed mutations must leave the store untouched")
	_, ok := st.Get(existing.ID)
	assert.True(t, ok)
}

func TestToggleSubtaskOnTaskWithoutSubtasksIsRejected(t *testing.T) {
	uc, st := newUseCase()
	created, err := uc.Create(context.Background(), store.NewTask{Title: "X"})
	require.NoError(t, err)
	version := st.Version()

	_, err = uc.ToggleSubtask(context.Background(), created.ID, "any-id")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	assert.Equal(t, version, st.Version())
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	uc, _ := newUseCase()
	created, err := uc.Create(context.Background(), store.NewTask{Title: "valid"})
	require.NoError(t, err)

	blank := "  "
	_, err = uc.Update(context.Background(), created.ID, store.TaskPatch{Title: &blank})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	got, ok := currentTask(uc, created.ID)
	require.True(t, ok)
	assert.Equal(t, "valid", got.Title)
}

func TestUpdateKeepsStatusWithinEnum(t *testing.T) {
	uc, st := newUseCase()
	created, err := uc.Create(context.Background(), store.NewTask{Title: "guarded"})
	require.NoError(t, err)

	bogus := domain.Status("banana")
	_, err = uc.Update(context.Background(), created.ID, store.TaskPatch{Status: &bogus})
	require.NoError(t, err)

	got, ok := st.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPending, got.Status)

	_, summary := uc.Query(context.Background(), filter.DefaultSpec())
	assert.Equal(t, domain.Summary{Total: 1, Completed: 0, Pending: 1}, summary)
}

func TestToggleStatusRoundTrip(t *testing.T) {
	uc, _ := newUseCase()
	created, err := uc.Create(context.Background(), store.NewTask{Title: "flip"})
	require.NoError(t, err)

	toggled, err := uc.ToggleStatus(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, toggled.Status)

	_, summary := uc.Query(context.Background(), filter.DefaultSpec())
	assert.Equal(t, domain.Summary{Total: 1, Completed: 1, Pending: 0}, summary)
}

func currentTask(uc *UseCase, id string) (domain.Task, bool) {
	matched, _ := uc.Query(context.Background(), filter.DefaultSpec())
	for _, t := range matched {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}
