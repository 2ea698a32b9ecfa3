package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/propdata/property-api/internal/core/domain"
)

const propertiesCollection = "properties"

// PropertyRepository backs the search service with MongoDB text search over
// listing descriptions and addresses.
type PropertyRepository struct {
	coll *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{coll: db.Collection(propertiesCollection)}
}

func (r *PropertyRepository) Search(ctx context.Context, query string, page, size int) (int64, []domain.Property, error) {
	filter := bson.M{}
	if query != "" {
		filter["$text"] = bson.M{"$search": query}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, nil, fmt.Errorf("count properties: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))
	if query != "" {
		opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
			SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, nil, fmt.Errorf("search properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []domain.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return 0, nil, fmt.Errorf("decode properties: %w", err)
	}

	return total, properties, nil
}

func (r *PropertyRepository) Upsert(ctx context.Context, property *domain.Property) error {
	filter := bson.M{"listing_id": property.ListingID}
	update := bson.M{"$set": bson.M{
		"listing_id":  property.ListingID,
		"address":     property.Address,
		"details":     property.Details,
		"price":       property.Price,
		"status":      property.Status,
		"description": property.Description,
		"indexed_at":  property.IndexedAt,
	}}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert property %s: %w", property.ListingID, err)
	}
	return nil
}

// EnsureIndexes creates the listing_id unique index and the text index the
// search queries rely on. Call once at startup.
func (r *PropertyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "description", Value: "text"},
				{Key: "address.city", Value: "text"},
				{Key: "address.state", Value: "text"},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ensure property indexes: %w", err)
	}
	return nil
}
