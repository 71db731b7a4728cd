package migrations

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoCollection(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("rejected_messages")

	collections, err := db.ListCollectionNames(ctx, map[string]interface{}{"name": "rejected_messages"})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	collectionExists := false
	for _, name := range collections {
		if name == "rejected_messages" {
			collectionExists = true
			break
		}
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "rejected_at", Value: -1}},
			Options: options.Index().SetName("idx_rejected_messages_rejected_at"),
		},
		{
			Keys:    bson.D{{Key: "source_message_id", Value: 1}},
			Options: options.Index().SetName("idx_rejected_messages_source_message_id"),
		},
		{
			Keys:    bson.D{{Key: "reason_kind", Value: 1}, {Key: "rejected_at", Value: -1}},
			Options: options.Index().SetName("idx_rejected_messages_reason_kind_rejected_at"),
		},
		{
			Keys:    bson.D{{Key: "source", Value: 1}, {Key: "rejected_at", Value: -1}},
			Options: options.Index().SetName("idx_rejected_messages_source_rejected_at"),
		},
	}

	_, err = collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	if !collectionExists {
		// Collection will be created automatically on first insert
		// But we can create it explicitly if needed
		// For now, just log that indexes are created
	}

	return nil
}
