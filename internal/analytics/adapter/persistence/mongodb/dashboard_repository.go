package mongodb

import (
	"context"
	"fmt"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/shared/database"
	"analytics-platform/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// dashboardDocument is the stored shape of a dashboard. The document id,
// rendered as hex, is the ref handed back to callers.
type dashboardDocument struct {
	ID      primitive.ObjectID     `bson:"_id,omitempty"`
	Name    string                 `bson:"name"`
	Options map[string]interface{} `bson:"options,omitempty"`
	Items   []model.DashboardItem  `bson:"items"`
}

// DashboardRepository stores dashboards with their ordered items, unique by
// name within a project.
type DashboardRepository struct {
	projectStore
}

// NewDashboardRepository creates the MongoDB-backed dashboard store.
func NewDashboardRepository(projects *database.ProjectManager, log logger.Logger) *DashboardRepository {
	return &DashboardRepository{projectStore{projects: projects, logger: log.WithComponent("dashboard-repository")}}
}

// EnsureIndexes creates the per-project unique index on name.
func (r *DashboardRepository) EnsureIndexes(ctx context.Context, project string) error {
	coll, err := r.collection(ctx, project, dashboardsCollection)
	if err != nil {
		return err
	}
	return ensureUniqueIndex(ctx, coll, bson.D{{Key: "name", Value: 1}})
}

// List returns every dashboard of the project without items.
func (r *DashboardRepository) List(ctx context.Context, project string) ([]model.Dashboard, error) {
	coll, err := r.collection(ctx, project, dashboardsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	defer cursor.Close(ctx)

	var dashboards []model.Dashboard
	for cursor.Next(ctx) {
		var doc dashboardDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode dashboard: %w", err)
		}
		dashboards = append(dashboards, model.Dashboard{Ref: doc.ID.Hex(), Name: doc.Name})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dashboards: %w", err)
	}
	return dashboards, nil
}

// Get returns the dashboard with its items, matching by exact name.
func (r *DashboardRepository) Get(ctx context.Context, project, name string) (*model.Dashboard, error) {
	coll, err := r.collection(ctx, project, dashboardsCollection)
	if err != nil {
		return nil, err
	}

	var doc dashboardDocument
	if err := coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("dashboard %q not found", name)
		}
		return nil, fmt.Errorf("failed to read dashboard %q: %w", name, err)
	}
	return &model.Dashboard{Ref: doc.ID.Hex(), Name: doc.Name, Items: doc.Items}, nil
}

// Create inserts an empty dashboard and returns its server-assigned ref.
func (r *DashboardRepository) Create(ctx context.Context, project, name string, options map[string]interface{}) (string, repository.CreateOutcome, error) {
	coll, err := r.collection(ctx, project, dashboardsCollection)
	if err != nil {
		return "", repository.OutcomeCreated, err
	}
	if err := r.EnsureIndexes(ctx, project); err != nil {
		return "", repository.OutcomeCreated, err
	}

	doc := dashboardDocument{
		ID:      primitive.NewObjectID(),
		Name:    name,
		Options: options,
		Items:   []model.DashboardItem{},
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.OutcomeAlreadyExists, nil
		}
		return "", repository.OutcomeCreated, fmt.Errorf("failed to insert dashboard %q: %w", name, err)
	}
	return doc.ID.Hex(), repository.OutcomeCreated, nil
}

// Delete removes a dashboard and all its items by ref.
func (r *DashboardRepository) Delete(ctx context.Context, project, ref string) error {
	coll, err := r.collection(ctx, project, dashboardsCollection)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return fmt.Errorf("invalid dashboard ref %q: %w", ref, err)
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete dashboard %q: %w", ref, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("dashboard ref %q not found", ref)
	}
	return nil
}

// AddItem appends an item to the dashboard's item list. Appends are
// positional; adding the same item twice keeps both copies.
func (r *DashboardRepository) AddItem(ctx context.Context, project, ref string, item model.DashboardItem) error {
	coll, err := r.collection(ctx, project, dashboardsCollection)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return fmt.Errorf("invalid dashboard ref %q: %w", ref, err)
	}

	result, err := coll.UpdateByID(ctx, id, bson.M{"$push": bson.M{"items": item}})
	if err != nil {
		return fmt.Errorf("failed to add item %q to dashboard %q: %w", item.Name, ref, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("dashboard ref %q not found", ref)
	}
	return nil
}
