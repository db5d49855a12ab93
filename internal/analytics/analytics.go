// Package analytics wires the recipe engine, its stores and its HTTP surface
// into one module.
package analytics

import (
	httpadapter "analytics-platform/internal/analytics/adapter/http"
	redispersistence "analytics-platform/internal/analytics/adapter/persistence"
	mongodbpersistence "analytics-platform/internal/analytics/adapter/persistence/mongodb"
	"analytics-platform/internal/analytics/config"
	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/analytics/usecase"
	"analytics-platform/internal/shared/database"
	"analytics-platform/internal/shared/eventbus"
	"analytics-platform/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnalyticsModule bundles the recipe engine with its stores and handlers.
type AnalyticsModule struct {
	Config         *config.AnalyticsConfig
	ProjectManager *database.ProjectManager
	EventBus       eventbus.EventBusInterface

	RecipeUsecase    usecase.RecipeUsecaseInterface
	ViewUsecase      *usecase.MaterializedViewUsecase
	QueryUsecase     *usecase.ContinuousQueryUsecase
	DashboardUsecase *usecase.DashboardUsecase

	HTTPHandler *httpadapter.HTTPHandler

	RedisClient *redis.Client
	AuditTrail  *redispersistence.RedisAuditTrail

	Logger logger.Logger
}

// NewAnalyticsModule creates the module, loading configuration from the
// environment.
func NewAnalyticsModule(log logger.Logger, mongoClient *mongo.Client, redisClient *redis.Client) (*AnalyticsModule, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Warn("Failed to load analytics config from environment, using defaults", "error", err)
		cfg = config.DefaultAnalyticsConfig()
	}
	return NewAnalyticsModuleWithConfig(log, mongoClient, redisClient, cfg)
}

// NewAnalyticsModuleWithConfig creates the module from an explicit
// configuration, which is what tests use.
func NewAnalyticsModuleWithConfig(
	log logger.Logger,
	mongoClient *mongo.Client,
	redisClient *redis.Client,
	cfg *config.AnalyticsConfig,
) (*AnalyticsModule, error) {
	log.Info("Initializing analytics module")

	bus := eventbus.NewEventBus(log)

	projectManager := database.NewProjectManager(mongoClient, &database.ProjectConfig{
		DatabasePrefix: cfg.DatabasePrefix,
	}, log)

	metastore := mongodbpersistence.NewMetastoreRepository(projectManager, log)
	continuousStore := mongodbpersistence.NewContinuousQueryRepository(projectManager, log)
	viewStore := mongodbpersistence.NewMaterializedViewRepository(projectManager, log)
	reportStore := mongodbpersistence.NewReportRepository(projectManager, log)
	customReportStore := mongodbpersistence.NewCustomReportRepository(projectManager, log)
	dashboardStore := mongodbpersistence.NewDashboardRepository(projectManager, log)

	pageCapability := repository.CustomPagesUnsupported()
	if cfg.CustomPagesEnabled {
		pageCapability = repository.CustomPagesSupported(
			mongodbpersistence.NewCustomPageRepository(projectManager, log))
		log.Info("Custom page feature enabled")
	}

	recipeUC := usecase.NewRecipeUsecase(
		metastore, continuousStore, viewStore, reportStore, customReportStore,
		pageCapability, dashboardStore, bus, log)
	viewUC := usecase.NewMaterializedViewUsecase(viewStore, log)
	queryUC := usecase.NewContinuousQueryUsecase(continuousStore, log)
	dashboardUC := usecase.NewDashboardUsecase(dashboardStore, log)

	var trail *redispersistence.RedisAuditTrail
	var history httpadapter.InstallHistoryReader
	if cfg.AuditTrailEnabled && redisClient != nil {
		trail = redispersistence.NewRedisAuditTrail(redisClient, log)
		trail.SubscribeTo(bus)
		history = trail
		log.Info("Install audit trail enabled")
	}

	handler := httpadapter.NewHTTPHandler(recipeUC, viewUC, queryUC, dashboardUC, history, log)

	return &AnalyticsModule{
		Config:           cfg,
		ProjectManager:   projectManager,
		EventBus:         bus,
		RecipeUsecase:    recipeUC,
		ViewUsecase:      viewUC,
		QueryUsecase:     queryUC,
		DashboardUsecase: dashboardUC,
		HTTPHandler:      handler,
		RedisClient:      redisClient,
		AuditTrail:       trail,
		Logger:           log,
	}, nil
}

// RegisterRoutes mounts the module's API on the given router.
func (m *AnalyticsModule) RegisterRoutes(router fiber.Router) {
	m.HTTPHandler.RegisterRoutes(router)
}
