package usecase

import (
	"context"
	"errors"
	"testing"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	apperrors "analytics-platform/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializedViewUsecase_CreateListDelete(t *testing.T) {
	store := NewMemMaterializedViewStore()
	uc := NewMaterializedViewUsecase(store, &MockLogger{})

	view := model.MaterializedView{Name: "Yearly", TableName: "yearly", Query: "SELECT 1"}
	require.NoError(t, uc.Create(context.Background(), "demo", view))

	views, err := uc.List(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "yearly", views[0].TableName)

	require.NoError(t, uc.Delete(context.Background(), "demo", "yearly"))
	views, _ = uc.List(context.Background(), "demo")
	assert.Empty(t, views)
}

func TestMaterializedViewUsecase_CreateConflict(t *testing.T) {
	store := NewMemMaterializedViewStore()
	uc := NewMaterializedViewUsecase(store, &MockLogger{})

	view := model.MaterializedView{TableName: "yearly", Query: "SELECT 1"}
	require.NoError(t, uc.Create(context.Background(), "demo", view))

	err := uc.Create(context.Background(), "demo", view)
	assert.True(t, apperrors.IsConflict(err))
}

func TestMaterializedViewUsecase_AsyncFailureIsSynchronous(t *testing.T) {
	store := NewMemMaterializedViewStore()
	boom := errors.New("planner rejected query")
	store.CreateFn = func(ctx context.Context, project string, v model.MaterializedView) *repository.Creation {
		creation, resolve := repository.NewCreation()
		go resolve(repository.OutcomeCreated, boom)
		return creation
	}
	uc := NewMaterializedViewUsecase(store, &MockLogger{})

	err := uc.Create(context.Background(), "demo", model.MaterializedView{TableName: "yearly", Query: "SELECT 1"})
	assert.ErrorIs(t, err, boom)
}

func TestMaterializedViewUsecase_Validation(t *testing.T) {
	uc := NewMaterializedViewUsecase(NewMemMaterializedViewStore(), &MockLogger{})

	_, err := uc.List(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))

	err = uc.Create(context.Background(), "demo", model.MaterializedView{TableName: "yearly"})
	assert.True(t, apperrors.IsValidation(err), "a view without a query is rejected")

	err = uc.Delete(context.Background(), "demo", "")
	assert.True(t, apperrors.IsValidation(err))
}
