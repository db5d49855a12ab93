// Centralized test helpers for recipe usecase tests.
// Shared in-memory stores and mocks live here to avoid redeclaration errors.
package usecase

import (
	"context"
	"fmt"
	"sync"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/shared/logger"
)

// MockLogger discards everything.
type MockLogger struct{}

func (m *MockLogger) Debug(args ...interface{})                       {}
func (m *MockLogger) Info(args ...interface{})                        {}
func (m *MockLogger) Warn(args ...interface{})                        {}
func (m *MockLogger) Error(args ...interface{})                       {}
func (m *MockLogger) Fatal(args ...interface{})                       {}
func (m *MockLogger) Debugf(format string, args ...interface{})       {}
func (m *MockLogger) Infof(format string, args ...interface{})        {}
func (m *MockLogger) Warnf(format string, args ...interface{})        {}
func (m *MockLogger) Errorf(format string, args ...interface{})       {}
func (m *MockLogger) Fatalf(format string, args ...interface{})       {}
func (m *MockLogger) WithFields(map[string]interface{}) logger.Logger { return m }
func (m *MockLogger) WithContext(context.Context) logger.Logger       { return m }
func (m *MockLogger) WithComponent(string) logger.Logger              { return m }

// MemMetastore is an in-memory Metastore. The optional Fn fields override
// the default behavior per test.
type MemMetastore struct {
	mu          sync.Mutex
	collections map[string]map[string][]model.SchemaField // project -> collection -> fields

	GetOrCreateFieldListFn func(ctx context.Context, project, collection string, fields []model.SchemaField) ([]model.SchemaField, error)
}

func NewMemMetastore() *MemMetastore {
	return &MemMetastore{collections: make(map[string]map[string][]model.SchemaField)}
}

// Seed installs a collection schema directly, bypassing the additive merge.
func (s *MemMetastore) Seed(project, collection string, fields []model.SchemaField) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[project] == nil {
		s.collections[project] = make(map[string][]model.SchemaField)
	}
	s.collections[project][collection] = append([]model.SchemaField(nil), fields...)
}

func (s *MemMetastore) GetCollections(ctx context.Context, project string) (map[string][]model.SchemaField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]model.SchemaField, len(s.collections[project]))
	for name, fields := range s.collections[project] {
		out[name] = append([]model.SchemaField(nil), fields...)
	}
	return out, nil
}

func (s *MemMetastore) GetOrCreateFieldList(ctx context.Context, project, collection string, fields []model.SchemaField) ([]model.SchemaField, error) {
	if s.GetOrCreateFieldListFn != nil {
		return s.GetOrCreateFieldListFn(ctx, project, collection, fields)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[project] == nil {
		s.collections[project] = make(map[string][]model.SchemaField)
	}
	stored := s.collections[project][collection]
	byName := make(map[string]struct{}, len(stored))
	for _, f := range stored {
		byName[f.Name] = struct{}{}
	}
	for _, f := range fields {
		if _, ok := byName[f.Name]; !ok {
			stored = append(stored, f)
			byName[f.Name] = struct{}{}
		}
	}
	s.collections[project][collection] = stored
	return append([]model.SchemaField(nil), stored...), nil
}

// MemContinuousQueryStore is an in-memory ContinuousQueryStore. Creates are
// resolved from a goroutine to exercise the asynchronous contract.
type MemContinuousQueryStore struct {
	mu      sync.Mutex
	queries map[string]map[string]model.ContinuousQuery // project -> tableName

	CreateFn func(ctx context.Context, project string, q model.ContinuousQuery) *repository.Creation
	DeleteFn func(ctx context.Context, project, tableName string) error
}

func NewMemContinuousQueryStore() *MemContinuousQueryStore {
	return &MemContinuousQueryStore{queries: make(map[string]map[string]model.ContinuousQuery)}
}

func (s *MemContinuousQueryStore) List(ctx context.Context, project string) ([]model.ContinuousQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ContinuousQuery, 0, len(s.queries[project]))
	for _, q := range s.queries[project] {
		out = append(out, q)
	}
	return out, nil
}

// Get returns the stored definition for assertions.
func (s *MemContinuousQueryStore) Get(project, tableName string) (model.ContinuousQuery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queries[project][tableName]
	return q, ok
}

func (s *MemContinuousQueryStore) Create(ctx context.Context, project string, q model.ContinuousQuery) *repository.Creation {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, project, q)
	}
	creation, resolve := repository.NewCreation()
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.queries[project] == nil {
			s.queries[project] = make(map[string]model.ContinuousQuery)
		}
		if _, exists := s.queries[project][q.TableName]; exists {
			resolve(repository.OutcomeAlreadyExists, nil)
			return
		}
		s.queries[project][q.TableName] = q
		resolve(repository.OutcomeCreated, nil)
	}()
	return creation
}

func (s *MemContinuousQueryStore) Delete(ctx context.Context, project, tableName string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, project, tableName)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queries[project][tableName]; !ok {
		return fmt.Errorf("continuous query %q not found", tableName)
	}
	delete(s.queries[project], tableName)
	return nil
}

// MemMaterializedViewStore is an in-memory MaterializedViewStore.
type MemMaterializedViewStore struct {
	mu    sync.Mutex
	views map[string]map[string]model.MaterializedView

	CreateFn func(ctx context.Context, project string, v model.MaterializedView) *repository.Creation
}

func NewMemMaterializedViewStore() *MemMaterializedViewStore {
	return &MemMaterializedViewStore{views: make(map[string]map[string]model.MaterializedView)}
}

func (s *MemMaterializedViewStore) List(ctx context.Context, project string) ([]model.MaterializedView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.MaterializedView, 0, len(s.views[project]))
	for _, v := range s.views[project] {
		out = append(out, v)
	}
	return out, nil
}

func (s *MemMaterializedViewStore) Create(ctx context.Context, project string, v model.MaterializedView) *repository.Creation {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, project, v)
	}
	creation, resolve := repository.NewCreation()
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.views[project] == nil {
			s.views[project] = make(map[string]model.MaterializedView)
		}
		if _, exists := s.views[project][v.TableName]; exists {
			resolve(repository.OutcomeAlreadyExists, nil)
			return
		}
		s.views[project][v.TableName] = v
		resolve(repository.OutcomeCreated, nil)
	}()
	return creation
}

func (s *MemMaterializedViewStore) Delete(ctx context.Context, project, tableName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[project][tableName]; !ok {
		return fmt.Errorf("materialized view %q not found", tableName)
	}
	delete(s.views[project], tableName)
	return nil
}

// MemReportStore is an in-memory ReportStore with update-by-slug support.
type MemReportStore struct {
	mu      sync.Mutex
	reports map[string]map[string]model.Report

	CreateFn func(ctx context.Context, project string, r model.Report) (repository.CreateOutcome, error)
	UpdateFn func(ctx context.Context, project string, r model.Report) error
}

func NewMemReportStore() *MemReportStore {
	return &MemReportStore{reports: make(map[string]map[string]model.Report)}
}

func (s *MemReportStore) List(ctx context.Context, project string) ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Report, 0, len(s.reports[project]))
	for _, r := range s.reports[project] {
		out = append(out, r)
	}
	return out, nil
}

func (s *MemReportStore) Get(project, slug string) (model.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[project][slug]
	return r, ok
}

func (s *MemReportStore) Create(ctx context.Context, project string, r model.Report) (repository.CreateOutcome, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, project, r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reports[project] == nil {
		s.reports[project] = make(map[string]model.Report)
	}
	if _, exists := s.reports[project][r.Slug]; exists {
		return repository.OutcomeAlreadyExists, nil
	}
	s.reports[project][r.Slug] = r
	return repository.OutcomeCreated, nil
}

func (s *MemReportStore) Update(ctx context.Context, project string, r model.Report) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, project, r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[project][r.Slug]; !exists {
		return fmt.Errorf("report %q not found", r.Slug)
	}
	s.reports[project][r.Slug] = r
	return nil
}

func (s *MemReportStore) Delete(ctx context.Context, project, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[project][slug]; !exists {
		return fmt.Errorf("report %q not found", slug)
	}
	delete(s.reports[project], slug)
	return nil
}

// MemCustomReportStore is an in-memory CustomReportStore keyed by
// (reportType, name).
type MemCustomReportStore struct {
	mu      sync.Mutex
	reports map[string]map[string]model.CustomReport
}

func NewMemCustomReportStore() *MemCustomReportStore {
	return &MemCustomReportStore{reports: make(map[string]map[string]model.CustomReport)}
}

func (s *MemCustomReportStore) List(ctx context.Context, project string) ([]model.CustomReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CustomReport, 0, len(s.reports[project]))
	for _, r := range s.reports[project] {
		out = append(out, r)
	}
	return out, nil
}

func (s *MemCustomReportStore) Create(ctx context.Context, project string, r model.CustomReport) (repository.CreateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reports[project] == nil {
		s.reports[project] = make(map[string]model.CustomReport)
	}
	if _, exists := s.reports[project][r.Key()]; exists {
		return repository.OutcomeAlreadyExists, nil
	}
	s.reports[project][r.Key()] = r
	return repository.OutcomeCreated, nil
}

func (s *MemCustomReportStore) Delete(ctx context.Context, project, reportType, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := model.CustomReport{ReportType: reportType, Name: name}.Key()
	if _, exists := s.reports[project][key]; !exists {
		return fmt.Errorf("custom report %q not found", key)
	}
	delete(s.reports[project], key)
	return nil
}

// MemCustomPageStore is an in-memory CustomPageStore.
type MemCustomPageStore struct {
	mu    sync.Mutex
	pages map[string]map[string]model.CustomPage

	SaveFn func(ctx context.Context, project string, p model.CustomPage) (repository.CreateOutcome, error)
}

func NewMemCustomPageStore() *MemCustomPageStore {
	return &MemCustomPageStore{pages: make(map[string]map[string]model.CustomPage)}
}

func (s *MemCustomPageStore) List(ctx context.Context, project string) ([]model.CustomPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CustomPage, 0, len(s.pages[project]))
	for _, p := range s.pages[project] {
		out = append(out, p)
	}
	return out, nil
}

func (s *MemCustomPageStore) Get(ctx context.Context, project, slug string) (*model.CustomPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[project][slug]
	if !ok {
		return nil, fmt.Errorf("custom page %q not found", slug)
	}
	return &p, nil
}

func (s *MemCustomPageStore) Save(ctx context.Context, project string, p model.CustomPage) (repository.CreateOutcome, error) {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, project, p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pages[project] == nil {
		s.pages[project] = make(map[string]model.CustomPage)
	}
	if _, exists := s.pages[project][p.Slug]; exists {
		return repository.OutcomeAlreadyExists, nil
	}
	s.pages[project][p.Slug] = p
	return repository.OutcomeCreated, nil
}

func (s *MemCustomPageStore) Delete(ctx context.Context, project, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pages[project][slug]; !exists {
		return fmt.Errorf("custom page %q not found", slug)
	}
	delete(s.pages[project], slug)
	return nil
}

// MemDashboardStore is an in-memory DashboardStore with counter refs.
type MemDashboardStore struct {
	mu      sync.Mutex
	nextRef int
	boards  map[string]map[string]*model.Dashboard // project -> ref

	CreateFn  func(ctx context.Context, project, name string, options map[string]interface{}) (string, repository.CreateOutcome, error)
	ListFn    func(ctx context.Context, project string) ([]model.Dashboard, error)
	AddItemFn func(ctx context.Context, project, ref string, item model.DashboardItem) error
}

func NewMemDashboardStore() *MemDashboardStore {
	return &MemDashboardStore{boards: make(map[string]map[string]*model.Dashboard)}
}

func (s *MemDashboardStore) List(ctx context.Context, project string) ([]model.Dashboard, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, project)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Dashboard, 0, len(s.boards[project]))
	for ref, d := range s.boards[project] {
		out = append(out, model.Dashboard{Ref: ref, Name: d.Name})
	}
	return out, nil
}

func (s *MemDashboardStore) Get(ctx context.Context, project, name string) (*model.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ref, d := range s.boards[project] {
		if d.Name == name {
			copied := *d
			copied.Ref = ref
			copied.Items = append([]model.DashboardItem(nil), d.Items...)
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("dashboard %q not found", name)
}

func (s *MemDashboardStore) Create(ctx context.Context, project, name string, options map[string]interface{}) (string, repository.CreateOutcome, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, project, name, options)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.boards[project] == nil {
		s.boards[project] = make(map[string]*model.Dashboard)
	}
	for _, d := range s.boards[project] {
		if d.Name == name {
			return "", repository.OutcomeAlreadyExists, nil
		}
	}
	s.nextRef++
	ref := fmt.Sprintf("dash-%d", s.nextRef)
	s.boards[project][ref] = &model.Dashboard{Name: name}
	return ref, repository.OutcomeCreated, nil
}

func (s *MemDashboardStore) Delete(ctx context.Context, project, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[project][ref]; !ok {
		return fmt.Errorf("dashboard ref %q not found", ref)
	}
	delete(s.boards[project], ref)
	return nil
}

func (s *MemDashboardStore) AddItem(ctx context.Context, project, ref string, item model.DashboardItem) error {
	if s.AddItemFn != nil {
		return s.AddItemFn(ctx, project, ref, item)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.boards[project][ref]
	if !ok {
		return fmt.Errorf("dashboard ref %q not found", ref)
	}
	d.Items = append(d.Items, item)
	return nil
}

// recipeFixture bundles an engine wired against fresh in-memory stores.
type recipeFixture struct {
	metastore     *MemMetastore
	continuous    *MemContinuousQueryStore
	views         *MemMaterializedViewStore
	reports       *MemReportStore
	customReports *MemCustomReportStore
	pages         *MemCustomPageStore
	dashboards    *MemDashboardStore
	usecase       *RecipeUsecase
}

func newRecipeFixture(pageCapability repository.CustomPageCapability) *recipeFixture {
	f := &recipeFixture{
		metastore:     NewMemMetastore(),
		continuous:    NewMemContinuousQueryStore(),
		views:         NewMemMaterializedViewStore(),
		reports:       NewMemReportStore(),
		customReports: NewMemCustomReportStore(),
		dashboards:    NewMemDashboardStore(),
	}
	f.usecase = NewRecipeUsecase(
		f.metastore, f.continuous, f.views, f.reports, f.customReports,
		pageCapability, f.dashboards, nil, &MockLogger{})
	return f
}

func newRecipeFixtureWithPages() *recipeFixture {
	pages := NewMemCustomPageStore()
	f := newRecipeFixture(repository.CustomPagesSupported(pages))
	f.pages = pages
	return f
}
