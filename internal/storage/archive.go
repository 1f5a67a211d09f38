package storage

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"listforge/internal/types"
)

// Archive keeps a copy of every scraped listing in MongoDB so a run can be
// audited or replayed without refetching.
type Archive struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewArchive connects to MongoDB and verifies the connection with a ping.
func NewArchive(ctx context.Context, uri, database, collection string, logger *slog.Logger) (*Archive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: err}
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, &types.StorageError{Backend: "mongodb", Err: err}
	}

	return &Archive{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "archive"),
	}, nil
}

// Save stores one scraped listing keyed by its source URL.
func (a *Archive) Save(ctx context.Context, url string, listing *types.ScrapedListing) error {
	doc := bson.M{
		"_source_url":      url,
		"_scraped_at":      time.Now().UTC(),
		"title":            listing.Title,
		"description_html": listing.DescriptionHTML,
		"category_id":      listing.CategoryID,
		"condition_text":   listing.ConditionText,
		"images":           listing.Images,
		"item_specifics":   listing.ItemSpecifics,
	}
	if listing.HasPrice {
		doc["price"] = listing.Price
	}

	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		return &types.StorageError{Backend: "mongodb", Err: err}
	}
	a.logger.Debug("listing archived", "url", url)
	return nil
}

// Close disconnects from MongoDB.
func (a *Archive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
