package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the repositories rely on for
// their duplicate-key error mapping. Idempotent; safe to run at every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{companiesCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: unique,
		}},
		{usersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "email", Value: 1}},
			Options: unique,
		}},
		{recipientsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "campaign_id", Value: 1}, {Key: "phone_number", Value: 1}},
			Options: unique,
		}},
		{smartLinksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "short_code", Value: 1}},
			Options: unique,
		}},
		{campaignsCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "created_at", Value: -1}},
		}},
		{clickEventsCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "smart_link_id", Value: 1}, {Key: "clicked_at", Value: -1}},
		}},
		{messageLogsCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "campaign_id", Value: 1}, {Key: "created_at", Value: -1}},
		}},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.collection, err)
		}
	}
	return nil
}
