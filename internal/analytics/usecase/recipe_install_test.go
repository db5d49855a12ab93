package usecase

import (
	"context"
	"errors"
	"testing"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	apperrors "analytics-platform/internal/shared/errors"
	"analytics-platform/internal/shared/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoRecipe() *model.Recipe {
	return &model.Recipe{
		Strategy: model.StrategySpecific,
		Project:  "demo",
		Collections: map[string][]model.SchemaField{
			"pageviews": {
				{Name: "user_id", Category: model.CategoryDimension, Type: model.FieldTypeLong},
				{Name: "time", Category: model.CategoryTimeseries, Type: model.FieldTypeTimestamp},
			},
		},
		ContinuousQueries: []model.ContinuousQuery{
			{Name: "Daily visits", TableName: "daily_visits", Query: "SELECT count(1) FROM pageviews"},
		},
		MaterializedViews: []model.MaterializedView{
			{Name: "Yearly visits", TableName: "yearly_visits", Query: "SELECT year(time), count(1) FROM pageviews GROUP BY 1"},
		},
		Reports: []model.Report{
			{Slug: "funnel", Name: "Funnel", Query: "SELECT 1"},
		},
		CustomReports: []model.CustomReport{
			{ReportType: "funnel", Name: "Signup funnel", Data: map[string]interface{}{"steps": 3.0}},
		},
		Dashboards: []model.Dashboard{
			{Name: "Main", Items: []model.DashboardItem{
				{Name: "Visits", Directive: "line-chart"},
				{Name: "Signups", Directive: "bar-chart"},
			}},
		},
	}
}

func TestInstall_FreshProject(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())

	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: demoRecipe()})
	require.NoError(t, err)

	queries, _ := f.continuous.List(context.Background(), "demo")
	assert.Len(t, queries, 1)
	views, _ := f.views.List(context.Background(), "demo")
	assert.Len(t, views, 1)
	reports, _ := f.reports.List(context.Background(), "demo")
	assert.Len(t, reports, 1)
	customReports, _ := f.customReports.List(context.Background(), "demo")
	assert.Len(t, customReports, 1)

	dash, err := f.dashboards.Get(context.Background(), "demo", "Main")
	require.NoError(t, err)
	assert.Len(t, dash.Items, 2)

	collections, _ := f.metastore.GetCollections(context.Background(), "demo")
	assert.Len(t, collections["pageviews"], 2)
}

func TestInstall_NilRecipe(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	err := f.usecase.Install(context.Background(), InstallRecipeRequest{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestInstall_ProjectResolution(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())

	// Explicit request project wins over the recipe's own project.
	recipe := demoRecipe()
	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe, Project: "other"})
	require.NoError(t, err)
	queries, _ := f.continuous.List(context.Background(), "other")
	assert.Len(t, queries, 1)

	// Neither request nor recipe names a project.
	recipe.Project = ""
	err = f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe})
	assert.True(t, apperrors.IsValidation(err))
}

func TestInstall_StructurallyInvalidRecipe(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	recipe := &model.Recipe{
		Strategy: model.StrategySpecific,
		Project:  "demo",
		Collections: map[string][]model.SchemaField{
			"events": {
				{Name: "x", Type: model.FieldTypeInteger},
				{Name: "x", Type: model.FieldTypeString},
			},
		},
	}
	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe})
	assert.True(t, apperrors.IsValidation(err))
}

func TestInstall_SchemaCollision(t *testing.T) {
	for _, override := range []bool{false, true} {
		f := newRecipeFixture(repository.CustomPagesUnsupported())
		f.metastore.Seed("demo", "events", []model.SchemaField{
			{Name: "x", Category: model.CategoryDimension, Type: model.FieldTypeInteger},
		})

		recipe := &model.Recipe{
			Strategy: model.StrategySpecific,
			Project:  "demo",
			Collections: map[string][]model.SchemaField{
				"events": {{Name: "x", Category: model.CategoryDimension, Type: model.FieldTypeString}},
			},
			ContinuousQueries: []model.ContinuousQuery{
				{Name: "q", TableName: "t", Query: "SELECT 1"},
			},
		}

		err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe, OverrideExisting: override})
		var collision *model.SchemaCollisionError
		require.ErrorAs(t, err, &collision, "override=%v", override)
		require.Len(t, collision.Collisions, 1)
		assert.Equal(t, model.FieldTypeString, collision.Collisions[0].Desired.Type)
		assert.Equal(t, model.FieldTypeInteger, collision.Collisions[0].Existing.Type)

		// No resource kind after the schema step was touched.
		queries, _ := f.continuous.List(context.Background(), "demo")
		assert.Empty(t, queries, "override=%v", override)

		// The stored field keeps its original type.
		collections, _ := f.metastore.GetCollections(context.Background(), "demo")
		assert.Equal(t, model.FieldTypeInteger, collections["events"][0].Type)
	}
}

func TestInstall_SchemaCollision_AggregatesAllPairs(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	f.metastore.Seed("demo", "a", []model.SchemaField{{Name: "x", Type: model.FieldTypeInteger}})
	f.metastore.Seed("demo", "b", []model.SchemaField{{Name: "y", Type: model.FieldTypeBoolean}})

	recipe := &model.Recipe{
		Strategy: model.StrategySpecific,
		Project:  "demo",
		Collections: map[string][]model.SchemaField{
			"a": {{Name: "x", Type: model.FieldTypeString}},
			"b": {{Name: "y", Type: model.FieldTypeDate}},
		},
	}

	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe})
	var collision *model.SchemaCollisionError
	require.ErrorAs(t, err, &collision)
	require.Len(t, collision.Collisions, 2)
	// Collections are visited in sorted order, so the aggregate is stable.
	assert.Equal(t, "a", collision.Collisions[0].Collection)
	assert.Equal(t, "b", collision.Collisions[1].Collection)
}

func TestInstall_SchemaMergeIsAdditive(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	f.metastore.Seed("demo", "events", []model.SchemaField{{Name: "x", Type: model.FieldTypeInteger}})

	recipe := &model.Recipe{
		Strategy: model.StrategySpecific,
		Project:  "demo",
		Collections: map[string][]model.SchemaField{
			"events": {
				{Name: "x", Type: model.FieldTypeInteger},
				{Name: "y", Type: model.FieldTypeString},
			},
		},
	}
	require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe}))

	collections, _ := f.metastore.GetCollections(context.Background(), "demo")
	assert.Len(t, collections["events"], 2)
}

func TestInstall_ContinuousQueryTwice_Override(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())

	first := demoRecipe()
	require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: first}))

	second := demoRecipe()
	second.ContinuousQueries[0].Query = "SELECT count(distinct user_id) FROM pageviews"
	require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: second, OverrideExisting: true}))

	queries, _ := f.continuous.List(context.Background(), "demo")
	require.Len(t, queries, 1)
	stored, ok := f.continuous.Get("demo", "daily_visits")
	require.True(t, ok)
	assert.Equal(t, "SELECT count(distinct user_id) FROM pageviews", stored.Query)
}

func TestInstall_ContinuousQueryTwice_NoOverride(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())

	require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: demoRecipe()}))

	second := demoRecipe()
	second.ContinuousQueries[0].Query = "SELECT 2"
	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: second})
	assert.True(t, apperrors.IsConflict(err))

	// The first definition is untouched.
	stored, ok := f.continuous.Get("demo", "daily_visits")
	require.True(t, ok)
	assert.Equal(t, "SELECT count(1) FROM pageviews", stored.Query)
}

func TestInstall_ReportOverride_UpdatesInPlace(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	updated := false
	f.reports.UpdateFn = func(ctx context.Context, project string, r model.Report) error {
		updated = true
		return nil
	}
	_, err := f.reports.Create(context.Background(), "demo", model.Report{Slug: "funnel", Name: "Old"})
	require.NoError(t, err)

	recipe := &model.Recipe{
		Strategy: model.StrategySpecific,
		Project:  "demo",
		Reports:  []model.Report{{Slug: "funnel", Name: "New", Query: "SELECT 1"}},
	}
	require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe, OverrideExisting: true}))

	assert.True(t, updated, "report override must go through update, not delete and create")
	stored, ok := f.reports.Get("demo", "funnel")
	require.True(t, ok)
	assert.Equal(t, "Old", stored.Name, "update hook swallowed the write in this test")
}

func TestInstall_DuplicateSlugsInOneList(t *testing.T) {
	// Two reports sharing a slug: the first installs, the second surfaces as
	// already-exists, deterministically in list order.
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	recipe := &model.Recipe{
		Strategy: model.StrategySpecific,
		Project:  "demo",
		Reports: []model.Report{
			{Slug: "funnel", Name: "Funnel", Query: "SELECT 1"},
			{Slug: "funnel", Name: "Funnel v2", Query: "SELECT 2"},
		},
	}

	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: recipe})
	assert.True(t, apperrors.IsConflict(err))
	stored, ok := f.reports.Get("demo", "funnel")
	require.True(t, ok)
	assert.Equal(t, "Funnel", stored.Name)
}

func TestInstall_AsyncCreateFailureIsSynchronous(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	boom := errors.New("planner rejected query")
	f.views.CreateFn = func(ctx context.Context, project string, v model.MaterializedView) *repository.Creation {
		creation, resolve := repository.NewCreation()
		go resolve(repository.OutcomeCreated, boom)
		return creation
	}

	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: demoRecipe()})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// The failing step stopped the install before reports.
	reports, _ := f.reports.List(context.Background(), "demo")
	assert.Empty(t, reports)
	// Continuous queries ran before the failing step and stay installed.
	queries, _ := f.continuous.List(context.Background(), "demo")
	assert.Len(t, queries, 1)
}

func TestInstall_DeleteFailureDuringOverride(t *testing.T) {
	f := newRecipeFixture(repository.CustomPagesUnsupported())
	require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: demoRecipe()}))

	boom := errors.New("store busy")
	f.continuous.DeleteFn = func(ctx context.Context, project, tableName string) error { return boom }

	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: demoRecipe(), OverrideExisting: true})
	assert.ErrorIs(t, err, boom)
}

func TestInstall_PublishesLifecycleEvents(t *testing.T) {
	bus := eventbus.NewEventBus(&MockLogger{})
	var types []string
	record := func(ctx context.Context, e eventbus.Event) error {
		types = append(types, e.Type())
		return nil
	}
	bus.Subscribe(EventInstallStarted, record)
	bus.Subscribe(EventInstallStep, record)
	bus.Subscribe(EventInstallFinished, record)

	f := newRecipeFixture(repository.CustomPagesUnsupported())
	f.usecase.bus = bus

	require.NoError(t, f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: demoRecipe()}))

	require.NotEmpty(t, types)
	assert.Equal(t, EventInstallStarted, types[0])
	assert.Equal(t, EventInstallFinished, types[len(types)-1])
	// One step event per resource kind plus the schema step.
	assert.Len(t, types, 2+7)
}

func TestInstall_PublishesFailureEvent(t *testing.T) {
	bus := eventbus.NewEventBus(&MockLogger{})
	var failed []InstallEvent
	bus.Subscribe(EventInstallFailed, func(ctx context.Context, e eventbus.Event) error {
		failed = append(failed, e.Data().(InstallEvent))
		return nil
	})

	f := newRecipeFixture(repository.CustomPagesUnsupported())
	f.usecase.bus = bus
	f.metastore.Seed("demo", "pageviews", []model.SchemaField{{Name: "user_id", Type: model.FieldTypeString}})

	err := f.usecase.Install(context.Background(), InstallRecipeRequest{Recipe: demoRecipe()})
	require.Error(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "schema", failed[0].Step)
	assert.Equal(t, "demo", failed[0].Project)
}
