package repository

import (
	"context"

	"analytics-platform/internal/analytics/domain/model"
)

// Metastore owns the per-project collection schemas.
type Metastore interface {
	// GetCollections returns every collection of the project with its
	// current field list.
	GetCollections(ctx context.Context, project string) (map[string][]model.SchemaField, error)

	// GetOrCreateFieldList atomically merges the desired fields into the
	// collection's schema and returns the resulting field set. The merge is
	// additive only: a field absent from the store is added, a field already
	// present is returned as stored and never mutated.
	GetOrCreateFieldList(ctx context.Context, project, collection string, fields []model.SchemaField) ([]model.SchemaField, error)
}

// ContinuousQueryStore persists continuous query definitions. Creation may
// complete asynchronously; the returned handle must be awaited.
type ContinuousQueryStore interface {
	List(ctx context.Context, project string) ([]model.ContinuousQuery, error)
	Create(ctx context.Context, project string, query model.ContinuousQuery) *Creation
	Delete(ctx context.Context, project, tableName string) error
}

// MaterializedViewStore persists materialized view definitions. Creation may
// complete asynchronously; the returned handle must be awaited.
type MaterializedViewStore interface {
	List(ctx context.Context, project string) ([]model.MaterializedView, error)
	Create(ctx context.Context, project string, view model.MaterializedView) *Creation
	Delete(ctx context.Context, project, tableName string) error
}

// ReportStore persists saved reports keyed by slug. Unlike the other stores
// it supports in-place update, which preserves server-assigned metadata.
type ReportStore interface {
	List(ctx context.Context, project string) ([]model.Report, error)
	Create(ctx context.Context, project string, report model.Report) (CreateOutcome, error)
	Update(ctx context.Context, project string, report model.Report) error
	Delete(ctx context.Context, project, slug string) error
}

// CustomReportStore persists custom reports keyed by (reportType, name).
type CustomReportStore interface {
	List(ctx context.Context, project string) ([]model.CustomReport, error)
	Create(ctx context.Context, project string, report model.CustomReport) (CreateOutcome, error)
	Delete(ctx context.Context, project, reportType, name string) error
}

// DashboardStore persists dashboards and their ordered items. Create returns
// the server-assigned dashboard ref; AddItem appends positionally and never
// deduplicates.
type DashboardStore interface {
	// List returns every dashboard of the project without items.
	List(ctx context.Context, project string) ([]model.Dashboard, error)
	// Get returns the dashboard with its items, matching by exact name.
	Get(ctx context.Context, project, name string) (*model.Dashboard, error)
	Create(ctx context.Context, project, name string, options map[string]interface{}) (string, CreateOutcome, error)
	Delete(ctx context.Context, project, ref string) error
	AddItem(ctx context.Context, project, ref string, item model.DashboardItem) error
}
