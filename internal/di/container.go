// Package di provides the dependency injection container that assembles the
// application.
package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"analytics-platform/internal/analytics"
	"analytics-platform/internal/analytics/config"
	"analytics-platform/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container represents a dependency injection container with proper lifecycle management
type Container struct {
	mu        sync.RWMutex
	services  map[reflect.Type]interface{}
	factories map[reflect.Type]func() (interface{}, error)
	// Module instances
	AnalyticsModule *analytics.AnalyticsModule
	// Connections
	MongoClient *mongo.Client
	RedisClient *redis.Client
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer() *Container {
	return &Container{
		services:  make(map[reflect.Type]interface{}),
		factories: make(map[reflect.Type]func() (interface{}, error)),
	}
}

// InitializeAnalytics initializes the analytics module on top of the given
// connections. The Redis client is optional; without it the install audit
// trail stays off. A nil cfg loads configuration from the environment.
func (c *Container) InitializeAnalytics(mongoClient *mongo.Client, redisClient *redis.Client, cfg *config.AnalyticsConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mongoClient == nil {
		return fmt.Errorf("MongoDB client must be initialized before the analytics module")
	}

	c.MongoClient = mongoClient
	c.RedisClient = redisClient

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}

	var module *analytics.AnalyticsModule
	var err error
	if cfg != nil {
		module, err = analytics.NewAnalyticsModuleWithConfig(c.Logger, mongoClient, redisClient, cfg)
	} else {
		module, err = analytics.NewAnalyticsModule(c.Logger, mongoClient, redisClient)
	}
	if err != nil {
		return fmt.Errorf("failed to create analytics module: %w", err)
	}

	c.AnalyticsModule = module
	return nil
}

// Register registers a service instance
func (c *Container) Register(service interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	serviceType := reflect.TypeOf(service)
	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}

	c.services[serviceType] = service
	return nil
}

// RegisterFactory registers a factory function for a service
func (c *Container) RegisterFactory(serviceType reflect.Type, factory func() (interface{}, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.factories[serviceType] = factory
	return nil
}

// Resolve resolves a service by type
func (c *Container) Resolve(serviceType reflect.Type) (interface{}, error) {
	c.mu.RLock()

	if service, exists := c.services[serviceType]; exists {
		c.mu.RUnlock()
		return service, nil
	}

	if factory, exists := c.factories[serviceType]; exists {
		c.mu.RUnlock()

		service, err := factory()
		if err != nil {
			return nil, fmt.Errorf("failed to create service: %w", err)
		}

		c.mu.Lock()
		c.services[serviceType] = service
		c.mu.Unlock()

		return service, nil
	}

	c.mu.RUnlock()
	return nil, fmt.Errorf("service of type %v not registered", serviceType)
}

// GetService is a generic helper for resolving services
func GetService[T any](c *Container) (T, error) {
	var zero T
	serviceType := reflect.TypeOf(zero)

	service, err := c.Resolve(serviceType)
	if err != nil {
		return zero, err
	}

	if typedService, ok := service.(T); ok {
		return typedService, nil
	}

	return zero, fmt.Errorf("service is not of expected type %T", zero)
}

// GetAnalyticsModule returns the analytics module instance
func (c *Container) GetAnalyticsModule() *analytics.AnalyticsModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AnalyticsModule
}

// HealthCheck performs health check on all held connections
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoClient != nil {
		if err := c.MongoClient.Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	return nil
}

// Close releases the container's connections
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis client: %w", err))
		}
	}
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
