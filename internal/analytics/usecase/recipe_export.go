package usecase

import (
	"context"
	"fmt"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/shared/errors"
)

// Export reads the current configuration of a project and assembles it into
// a recipe document with strategy SPECIFIC and the source project set.
// Export is read-only; any store failure propagates unchanged with no
// partial result.
func (uc *RecipeUsecase) Export(ctx context.Context, project string) (*model.Recipe, error) {
	if project == "" {
		return nil, errors.NewValidationError("project is required")
	}

	log := uc.logger.WithContext(ctx).WithFields(map[string]interface{}{"project": project})
	log.Debug("Exporting project recipe")

	collections, err := uc.metastore.GetCollections(ctx, project)
	if err != nil {
		return nil, errors.WrapError(err, fmt.Sprintf("failed to read collections of project %q", project))
	}

	continuousQueries, err := uc.continuousStore.List(ctx, project)
	if err != nil {
		return nil, errors.WrapError(err, fmt.Sprintf("failed to list continuous queries of project %q", project))
	}

	materializedViews, err := uc.viewStore.List(ctx, project)
	if err != nil {
		return nil, errors.WrapError(err, fmt.Sprintf("failed to list materialized views of project %q", project))
	}

	reports, err := uc.reportStore.List(ctx, project)
	if err != nil {
		return nil, errors.WrapError(err, fmt.Sprintf("failed to list reports of project %q", project))
	}

	customReports, err := uc.customReports.List(ctx, project)
	if err != nil {
		return nil, errors.WrapError(err, fmt.Sprintf("failed to list custom reports of project %q", project))
	}

	customPages, err := uc.exportCustomPages(ctx, project)
	if err != nil {
		return nil, err
	}

	dashboards, err := uc.exportDashboards(ctx, project)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Strategy:          model.StrategySpecific,
		Project:           project,
		Collections:       collections,
		ContinuousQueries: continuousQueries,
		MaterializedViews: materializedViews,
		Reports:           reports,
		CustomReports:     customReports,
		CustomPages:       customPages,
		Dashboards:        dashboards,
	}

	log.Info("Exported project recipe",
		"collections", len(recipe.Collections),
		"continuousQueries", len(recipe.ContinuousQueries),
		"materializedViews", len(recipe.MaterializedViews),
		"reports", len(recipe.Reports),
		"customReports", len(recipe.CustomReports),
		"customPages", len(recipe.CustomPages),
		"dashboards", len(recipe.Dashboards))
	return recipe, nil
}

// exportCustomPages reads pages only when the optional page store is
// present; an absent capability just exports no pages.
func (uc *RecipeUsecase) exportCustomPages(ctx context.Context, project string) ([]model.CustomPage, error) {
	store, ok := uc.customPages.Store()
	if !ok {
		return nil, nil
	}

	listed, err := store.List(ctx, project)
	if err != nil {
		return nil, errors.WrapError(err, fmt.Sprintf("failed to list custom pages of project %q", project))
	}

	pages := make([]model.CustomPage, 0, len(listed))
	for _, page := range listed {
		full, err := store.Get(ctx, project, page.Slug)
		if err != nil {
			return nil, errors.WrapError(err, fmt.Sprintf("failed to read custom page %q", page.Slug))
		}
		pages = append(pages, *full)
	}
	return pages, nil
}

// exportDashboards lists the project's dashboards and reads each one back by
// name to capture its items in order.
func (uc *RecipeUsecase) exportDashboards(ctx context.Context, project string) ([]model.Dashboard, error) {
	listed, err := uc.dashboards.List(ctx, project)
	if err != nil {
		return nil, errors.WrapError(err, fmt.Sprintf("failed to list dashboards of project %q", project))
	}

	dashboards := make([]model.Dashboard, 0, len(listed))
	for _, dashboard := range listed {
		full, err := uc.dashboards.Get(ctx, project, dashboard.Name)
		if err != nil {
			return nil, errors.WrapError(err, fmt.Sprintf("failed to read dashboard %q", dashboard.Name))
		}
		// Server-assigned refs stay out of the document.
		full.Ref = ""
		dashboards = append(dashboards, *full)
	}
	return dashboards, nil
}
