package archive

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	SaveRejection(ctx context.Context, rejection *Rejection) error
	ListRejections(ctx context.Context, filter RejectionFilter) ([]Rejection, error)
	CountRejections(ctx context.Context, reasonKind string) (int64, error)
}

type MongoDBRepository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &MongoDBRepository{
		collection: db.Collection("rejected_messages"),
	}
}

func (r *MongoDBRepository) SaveRejection(ctx context.Context, rejection *Rejection) error {
	_, err := r.collection.InsertOne(ctx, rejection)
	if err != nil {
		return fmt.Errorf("failed to save rejection: %w", err)
	}

	return nil
}

func (r *MongoDBRepository) ListRejections(ctx context.Context, filter RejectionFilter) ([]Rejection, error) {
	query := bson.M{}
	if filter.ReasonKind != "" {
		query["reason_kind"] = filter.ReasonKind
	}
	if filter.Source != "" {
		query["source"] = filter.Source
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rejected_at", Value: -1}}).
		SetLimit(int64(filter.Limit)).
		SetSkip(int64(filter.Offset))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rejections: %w", err)
	}
	defer cursor.Close(ctx)

	var rejections []Rejection
	if err := cursor.All(ctx, &rejections); err != nil {
		return nil, fmt.Errorf("failed to decode rejections: %w", err)
	}

	return rejections, nil
}

func (r *MongoDBRepository) CountRejections(ctx context.Context, reasonKind string) (int64, error) {
	query := bson.M{}
	if reasonKind != "" {
		query["reason_kind"] = reasonKind
	}

	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count rejections: %w", err)
	}

	return count, nil
}
