package mongodb

import (
	"context"
	"fmt"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/shared/database"
	"analytics-platform/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionSchemaDocument is the stored shape of one collection's schema.
// The collection name doubles as the document id.
type collectionSchemaDocument struct {
	Name   string              `bson:"_id"`
	Fields []model.SchemaField `bson:"fields"`
}

// MetastoreRepository stores collection schemas, one document per collection
// inside the project's database.
type MetastoreRepository struct {
	projectStore
}

// NewMetastoreRepository creates the MongoDB-backed metastore.
func NewMetastoreRepository(projects *database.ProjectManager, log logger.Logger) *MetastoreRepository {
	return &MetastoreRepository{projectStore{projects: projects, logger: log.WithComponent("metastore-repository")}}
}

// GetCollections returns every collection of the project with its fields.
func (r *MetastoreRepository) GetCollections(ctx context.Context, project string) (map[string][]model.SchemaField, error) {
	coll, err := r.collection(ctx, project, collectionsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to read collection schemas: %w", err)
	}
	defer cursor.Close(ctx)

	collections := make(map[string][]model.SchemaField)
	for cursor.Next(ctx) {
		var doc collectionSchemaDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode collection schema: %w", err)
		}
		collections[doc.Name] = doc.Fields
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collection schemas: %w", err)
	}
	return collections, nil
}

// GetOrCreateFieldList merges the desired fields into the collection's
// schema additively and returns the resulting field set. Each field is
// appended with a guard on its name, so concurrent merges never duplicate a
// field and never mutate a stored one.
func (r *MetastoreRepository) GetOrCreateFieldList(ctx context.Context, project, collection string, fields []model.SchemaField) ([]model.SchemaField, error) {
	coll, err := r.collection(ctx, project, collectionsCollection)
	if err != nil {
		return nil, err
	}

	_, err = coll.UpdateOne(ctx,
		bson.M{"_id": collection},
		bson.M{"$setOnInsert": bson.M{"fields": bson.A{}}},
		options.Update().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("failed to ensure schema document of %q: %w", collection, err)
	}

	for _, field := range fields {
		_, err := coll.UpdateOne(ctx,
			bson.M{"_id": collection, "fields.name": bson.M{"$ne": field.Name}},
			bson.M{"$push": bson.M{"fields": field}})
		if err != nil {
			return nil, fmt.Errorf("failed to add field %q to %q: %w", field.Name, collection, err)
		}
	}

	var doc collectionSchemaDocument
	if err := coll.FindOne(ctx, bson.M{"_id": collection}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("schema document of %q disappeared during merge", collection)
		}
		return nil, fmt.Errorf("failed to read back schema of %q: %w", collection, err)
	}
	return doc.Fields, nil
}
