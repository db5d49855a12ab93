package http

import (
	"context"

	"analytics-platform/internal/analytics/adapter/persistence"
	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/usecase"
	"analytics-platform/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

type testLogger struct{}

func (testLogger) Debug(args ...interface{})                       {}
func (testLogger) Info(args ...interface{})                        {}
func (testLogger) Warn(args ...interface{})                        {}
func (testLogger) Error(args ...interface{})                       {}
func (testLogger) Fatal(args ...interface{})                       {}
func (testLogger) Debugf(format string, args ...interface{})       {}
func (testLogger) Infof(format string, args ...interface{})        {}
func (testLogger) Warnf(format string, args ...interface{})        {}
func (testLogger) Errorf(format string, args ...interface{})       {}
func (testLogger) Fatalf(format string, args ...interface{})       {}
func (t testLogger) WithFields(map[string]interface{}) logger.Logger { return t }
func (t testLogger) WithContext(context.Context) logger.Logger       { return t }
func (t testLogger) WithComponent(string) logger.Logger              { return t }

type mockRecipeUC struct {
	exportFn  func(ctx context.Context, project string) (*model.Recipe, error)
	installFn func(ctx context.Context, req usecase.InstallRecipeRequest) error
}

func (m *mockRecipeUC) Export(ctx context.Context, project string) (*model.Recipe, error) {
	if m.exportFn != nil {
		return m.exportFn(ctx, project)
	}
	return &model.Recipe{Strategy: model.StrategySpecific, Project: project}, nil
}

func (m *mockRecipeUC) Install(ctx context.Context, req usecase.InstallRecipeRequest) error {
	if m.installFn != nil {
		return m.installFn(ctx, req)
	}
	return nil
}

type mockViewService struct {
	listFn   func(ctx context.Context, project string) ([]model.MaterializedView, error)
	createFn func(ctx context.Context, project string, view model.MaterializedView) error
	deleteFn func(ctx context.Context, project, tableName string) error
}

func (m *mockViewService) List(ctx context.Context, project string) ([]model.MaterializedView, error) {
	if m.listFn != nil {
		return m.listFn(ctx, project)
	}
	return nil, nil
}

func (m *mockViewService) Create(ctx context.Context, project string, view model.MaterializedView) error {
	if m.createFn != nil {
		return m.createFn(ctx, project, view)
	}
	return nil
}

func (m *mockViewService) Delete(ctx context.Context, project, tableName string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, project, tableName)
	}
	return nil
}

type mockQueryService struct {
	listFn   func(ctx context.Context, project string) ([]model.ContinuousQuery, error)
	createFn func(ctx context.Context, project string, query model.ContinuousQuery) error
	deleteFn func(ctx context.Context, project, tableName string) error
}

func (m *mockQueryService) List(ctx context.Context, project string) ([]model.ContinuousQuery, error) {
	if m.listFn != nil {
		return m.listFn(ctx, project)
	}
	return nil, nil
}

func (m *mockQueryService) Create(ctx context.Context, project string, query model.ContinuousQuery) error {
	if m.createFn != nil {
		return m.createFn(ctx, project, query)
	}
	return nil
}

func (m *mockQueryService) Delete(ctx context.Context, project, tableName string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, project, tableName)
	}
	return nil
}

type mockDashboardService struct {
	listFn func(ctx context.Context, project string) ([]model.Dashboard, error)
	getFn  func(ctx context.Context, project, name string) (*model.Dashboard, error)
}

func (m *mockDashboardService) List(ctx context.Context, project string) ([]model.Dashboard, error) {
	if m.listFn != nil {
		return m.listFn(ctx, project)
	}
	return nil, nil
}

func (m *mockDashboardService) Get(ctx context.Context, project, name string) (*model.Dashboard, error) {
	if m.getFn != nil {
		return m.getFn(ctx, project, name)
	}
	return &model.Dashboard{Name: name}, nil
}

type mockHistoryReader struct {
	historyFn func(ctx context.Context, project string, limit int64) ([]persistence.AuditEntry, error)
}

func (m *mockHistoryReader) History(ctx context.Context, project string, limit int64) ([]persistence.AuditEntry, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, project, limit)
	}
	return nil, nil
}

// newTestApp wires a handler with the given mocks behind /api.
func newTestApp(h *HTTPHandler) *fiber.App {
	app := fiber.New()
	h.Log = testLogger{}
	h.RegisterRoutes(app.Group("/api"))
	return app
}
