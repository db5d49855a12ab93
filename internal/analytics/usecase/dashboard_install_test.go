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

func dashboardRecipe(items ...model.DashboardItem) *model.Recipe {
	return &model.Recipe{
		Strategy:   model.StrategySpecific,
		Project:    "demo",
		Dashboards: []model.Dashboard{{Name: "D", Items: items}},
	}
}

func TestInstallDashboards_FullReplaceRegardlessOfOverride(t *testing.T) {
	for _, override := range []bool{false, true} {
		f := newRecipeFixture(repository.CustomPagesUnsupported())

		first := dashboardRecipe(
			model.DashboardItem{Name: "A", Directive: "line-chart"},
			model.DashboardItem{Name: "B", Directive: "bar-chart"},
		)
		require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: first}))

		second := dashboardRecipe(model.DashboardItem{Name: "C", Directive: "pie-chart"})
		require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: second, OverrideExisting: override}))

		boards, _ := f.dashboards.List(context.Background(), "demo")
		require.Len(t, boards, 1, "override=%v", override)

		dash, err := f.dashboards.Get(context.Background(), "demo", "D")
		require.NoError(t, err)
		require.Len(t, dash.Items, 1, "override=%v: old items must not survive a reinstall", override)
		assert.Equal(t, "C", dash.Items[0].Name)
	}
}

func TestInstallDashboards_ItemsReplayedInOrderWithDuplicates(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	recipe := dashboardRecipe(
		model.DashboardItem{Name: "A", Directive: "line-chart"},
		model.DashboardItem{Name: "A", Directive: "bar-chart"},
		model.DashboardItem{Name: "B", Directive: "table"},
	)
	require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe}))

	dash, err := f.dashboards.Get(context.Background(), "demo", "D")
	require.NoError(t, err)
	require.Len(t, dash.Items, 3)
	assert.Equal(t, "line-chart", dash.Items[0].Directive)
	assert.Equal(t, "bar-chart", dash.Items[1].Directive)
	assert.Equal(t, "table", dash.Items[2].Directive)
}

func TestInstallDashboards_AddItemFailureAborts(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	boom := errors.New("item rejected")
	f.dashboards.AddItemFn = func(ctx context.Context, project, ref string, item model.DashboardItem) error {
		if item.Name == "B" {
			return boom
		}
		return nil
	}

	recipe := dashboardRecipe(
		model.DashboardItem{Name: "A", Directive: "line-chart"},
		model.DashboardItem{Name: "B", Directive: "bar-chart"},
	)
	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// The dashboard itself was created before the item failed and stays.
	boards, _ := f.dashboards.List(context.Background(), "demo")
	assert.Len(t, boards, 1)
}

func TestInstallDashboards_ExistsButUnlisted(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	f.dashboards.CreateFn = func(ctx context.Context, project, name string, options map[string]interface{}) (string, repository.CreateOutcome, error) {
		return "", repository.OutcomeAlreadyExists, nil
	}
	f.dashboards.ListFn = func(ctx context.Context, project string) ([]model.Dashboard, error) {
		return nil, nil
	}

	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: dashboardRecipe()})
	assert.True(t, apperrors.IsInconsistency(err))
}
