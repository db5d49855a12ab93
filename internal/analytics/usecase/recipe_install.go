package usecase

import (
	"context"
	"fmt"
	"sort"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/shared/errors"
)

// Install applies a recipe to a project. Steps run in a fixed order:
// collection schemas, continuous queries, materialized views, reports,
// dashboards, custom reports, custom pages. A schema collision aborts before
// any resource kind is touched; any later failure stops subsequent steps but
// never reverts completed ones. Callers must serialize installs per project
// themselves; concurrent installs against one project can race on the
// delete-then-recreate override sequence.
func (uc *RecipeUsecase) Install(ctx context.Context, req InstallRecipeRequest) error {
	if req.Recipe == nil {
		return errors.NewValidationError("recipe is required")
	}

	project, err := uc.resolveProject(req)
	if err != nil {
		return err
	}

	log := uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"project":  project,
		"override": req.OverrideExisting,
	})

	if err := req.Recipe.Validate(); err != nil {
		log.Error("Recipe failed structural validation", "error", err)
		return errors.NewValidationError(err.Error())
	}

	log.Info("Installing recipe",
		"collections", len(req.Recipe.Collections),
		"continuousQueries", len(req.Recipe.ContinuousQueries),
		"materializedViews", len(req.Recipe.MaterializedViews),
		"reports", len(req.Recipe.Reports),
		"dashboards", len(req.Recipe.Dashboards),
		"customReports", len(req.Recipe.CustomReports),
		"customPages", len(req.Recipe.CustomPages))
	uc.publishEvent(ctx, EventInstallStarted, InstallEvent{Project: project, Override: req.OverrideExisting})

	steps := []struct {
		name  string
		apply func(context.Context) error
	}{
		{"schema", func(ctx context.Context) error {
			return uc.reconcileSchema(ctx, project, req.Recipe.Collections)
		}},
		{"continuous-queries", func(ctx context.Context) error {
			return uc.continuousQueryInstaller().install(ctx, log, project, req.Recipe.ContinuousQueries, req.OverrideExisting)
		}},
		{"materialized-views", func(ctx context.Context) error {
			return uc.materializedViewInstaller().install(ctx, log, project, req.Recipe.MaterializedViews, req.OverrideExisting)
		}},
		{"reports", func(ctx context.Context) error {
			return uc.reportInstaller().install(ctx, log, project, req.Recipe.Reports, req.OverrideExisting)
		}},
		{"dashboards", func(ctx context.Context) error {
			return uc.installDashboards(ctx, project, req.Recipe.Dashboards)
		}},
		{"custom-reports", func(ctx context.Context) error {
			return uc.customReportInstaller().install(ctx, log, project, req.Recipe.CustomReports, req.OverrideExisting)
		}},
		{"custom-pages", func(ctx context.Context) error {
			return uc.installCustomPages(ctx, project, req.Recipe.CustomPages, req.OverrideExisting)
		}},
	}

	for _, step := range steps {
		if err := step.apply(ctx); err != nil {
			log.Error("Recipe install failed", "step", step.name, "error", err)
			uc.publishEvent(ctx, EventInstallFailed, InstallEvent{
				Project: project, Step: step.name, Override: req.OverrideExisting, Error: err.Error(),
			})
			return err
		}
		uc.publishEvent(ctx, EventInstallStep, InstallEvent{
			Project: project, Step: step.name, Override: req.OverrideExisting,
		})
	}

	log.Info("Recipe installed")
	uc.publishEvent(ctx, EventInstallFinished, InstallEvent{Project: project, Override: req.OverrideExisting})
	return nil
}

// reconcileSchema merges every desired collection's fields into the
// metastore and verifies no desired field clashes with a stored field of the
// same name but a different type. The merge is additive only; a type
// collision is never auto-resolved, regardless of the override flag, and one
// aggregated error reports every offending pair.
func (uc *RecipeUsecase) reconcileSchema(ctx context.Context, project string, collections map[string][]model.SchemaField) error {
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	var collisions []model.FieldCollision
	for _, collection := range names {
		desired := collections[collection]

		stored, err := uc.metastore.GetOrCreateFieldList(ctx, project, collection, desired)
		if err != nil {
			return errors.WrapError(err, fmt.Sprintf("failed to reconcile schema of collection %q", collection))
		}

		byName := make(map[string]model.SchemaField, len(stored))
		for _, field := range stored {
			byName[field.Name] = field
		}

		for _, field := range desired {
			existing, ok := byName[field.Name]
			if ok && existing.Type != field.Type {
				collisions = append(collisions, model.FieldCollision{
					Collection: collection,
					Desired:    field,
					Existing:   existing,
				})
			}
		}
	}

	if len(collisions) > 0 {
		return &model.SchemaCollisionError{Collisions: collisions}
	}
	return nil
}

func (uc *RecipeUsecase) continuousQueryInstaller() kindInstaller[model.ContinuousQuery] {
	return kindInstaller[model.ContinuousQuery]{
		kind: "continuous query",
		key:  func(q model.ContinuousQuery) string { return q.TableName },
		create: func(ctx context.Context, project string, q model.ContinuousQuery) (repository.CreateOutcome, error) {
			// Join the asynchronous create before moving on so failures are
			// observable here, not in a background callback.
			return uc.continuousStore.Create(ctx, project, q).Wait(ctx)
		},
		remove: func(ctx context.Context, project string, q model.ContinuousQuery) error {
			return uc.continuousStore.Delete(ctx, project, q.TableName)
		},
	}
}

func (uc *RecipeUsecase) materializedViewInstaller() kindInstaller[model.MaterializedView] {
	return kindInstaller[model.MaterializedView]{
		kind: "materialized view",
		key:  func(v model.MaterializedView) string { return v.TableName },
		create: func(ctx context.Context, project string, v model.MaterializedView) (repository.CreateOutcome, error) {
			return uc.viewStore.Create(ctx, project, v).Wait(ctx)
		},
		remove: func(ctx context.Context, project string, v model.MaterializedView) error {
			return uc.viewStore.Delete(ctx, project, v.TableName)
		},
	}
}

func (uc *RecipeUsecase) reportInstaller() kindInstaller[model.Report] {
	return kindInstaller[model.Report]{
		kind:   "report",
		key:    func(r model.Report) string { return r.Slug },
		create: uc.reportStore.Create,
		remove: func(ctx context.Context, project string, r model.Report) error {
			return uc.reportStore.Delete(ctx, project, r.Slug)
		},
		// The report store updates by slug directly, keeping server-assigned
		// metadata intact.
		replace: uc.reportStore.Update,
	}
}

func (uc *RecipeUsecase) customReportInstaller() kindInstaller[model.CustomReport] {
	return kindInstaller[model.CustomReport]{
		kind:   "custom report",
		key:    model.CustomReport.Key,
		create: uc.customReports.Create,
		remove: func(ctx context.Context, project string, r model.CustomReport) error {
			return uc.customReports.Delete(ctx, project, r.ReportType, r.Name)
		},
	}
}

// installDashboards rebuilds every desired dashboard. An existing dashboard
// with the same name is always fully replaced, independent of the override
// flag; items are replayed in order and never merged with pre-existing ones.
func (uc *RecipeUsecase) installDashboards(ctx context.Context, project string, dashboards []model.Dashboard) error {
	for _, dashboard := range dashboards {
		ref, outcome, err := uc.dashboards.Create(ctx, project, dashboard.Name, map[string]interface{}{})
		if err != nil {
			return errors.WrapError(err, fmt.Sprintf("failed to create dashboard %q", dashboard.Name))
		}

		if outcome == repository.OutcomeAlreadyExists {
			existing, err := uc.lookupDashboard(ctx, project, dashboard.Name)
			if err != nil {
				return err
			}
			if err := uc.dashboards.Delete(ctx, project, existing.Ref); err != nil {
				return errors.WrapError(err, fmt.Sprintf("failed to delete existing dashboard %q", dashboard.Name))
			}
			ref, outcome, err = uc.dashboards.Create(ctx, project, dashboard.Name, map[string]interface{}{})
			if err != nil {
				return errors.WrapError(err, fmt.Sprintf("failed to recreate dashboard %q", dashboard.Name))
			}
			if outcome == repository.OutcomeAlreadyExists {
				return errors.NewInconsistencyError(fmt.Sprintf("dashboard %q reappeared between delete and create", dashboard.Name))
			}
		}

		for _, item := range dashboard.Items {
			if err := uc.dashboards.AddItem(ctx, project, ref, item); err != nil {
				return errors.WrapError(err, fmt.Sprintf("failed to add item %q to dashboard %q", item.Name, dashboard.Name))
			}
		}
	}
	return nil
}

// lookupDashboard finds the dashboard that caused an already-exists outcome.
// Not finding one after that signal is an unexpected state, not a retry case.
func (uc *RecipeUsecase) lookupDashboard(ctx context.Context, project, name string) (*model.Dashboard, error) {
	existing, err := uc.dashboards.List(ctx, project)
	if err != nil {
		return nil, errors.WrapError(err, fmt.Sprintf("failed to list dashboards of project %q", project))
	}
	for i := range existing {
		if existing[i].Name == name {
			return &existing[i], nil
		}
	}
	return nil, errors.NewInconsistencyError(fmt.Sprintf("dashboard %q reported as existing but was not found", name))
}

// installCustomPages is capability gated. With the page store absent, a
// recipe carrying pages fails the whole call; the five preceding resource
// kinds have already been applied at that point and stay applied.
func (uc *RecipeUsecase) installCustomPages(ctx context.Context, project string, pages []model.CustomPage, overrideExisting bool) error {
	store, ok := uc.customPages.Store()
	if !ok {
		if len(pages) == 0 {
			return nil
		}
		return errors.NewUnsupportedError("custom page feature is not supported").
			WithDetail("customPages", len(pages))
	}

	installer := kindInstaller[model.CustomPage]{
		kind:   "custom page",
		key:    func(p model.CustomPage) string { return p.Slug },
		create: store.Save,
		remove: func(ctx context.Context, project string, p model.CustomPage) error {
			return store.Delete(ctx, project, p.Slug)
		},
	}
	return installer.install(ctx, uc.logger.WithContext(ctx), project, pages, overrideExisting)
}
