package mongodb

import (
	"context"
	"fmt"
	"time"

	"touristsafety/internal/models"
	"touristsafety/internal/repositories/interfaces"
	"touristsafety/internal/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const caseCacheTTL = 5 * time.Minute

type caseRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

// NewCaseRepository builds the mongo-backed case store. cache may be nil, in
// which case every read hits the collection.
func NewCaseRepository(db *mongo.Database, cache services.CacheService) interfaces.CaseRepository {
	return &caseRepository{
		collection: db.Collection("cases"),
		cache:      cache,
	}
}

func (r *caseRepository) Create(ctx context.Context, c *models.Case) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	_, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}

	// Pending cases are the hot set: the escalation callback and reply path
	// both re-read them inside the 20-second window.
	if c.Status == models.CaseStatusPending {
		r.cacheCase(ctx, c)
	}

	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error) {
	if c := r.caseFromCache(ctx, id.Hex()); c != nil {
		return c, nil
	}

	var c models.Case
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	if c.Status == models.CaseStatusPending {
		r.cacheCase(ctx, &c)
	}

	return &c, nil
}

func (r *caseRepository) GetLatestByName(ctx context.Context, name string) (*models.Case, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var c models.Case
	err := r.collection.FindOne(ctx, bson.M{"name": name}, opts).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case by name: %w", err)
	}

	return &c, nil
}

func (r *caseRepository) GetAll(ctx context.Context) ([]*models.Case, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer cursor.Close(ctx)

	var cases []*models.Case
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, fmt.Errorf("failed to decode cases: %w", err)
	}

	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrCaseNotFound
	}

	r.invalidateCaseCache(ctx, id.Hex())

	return nil
}

func (r *caseRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "case_code", Value: 1}}},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create case indexes: %w", err)
	}

	return nil
}

func caseCacheKey(id string) string {
	return "case:" + id
}

func (r *caseRepository) cacheCase(ctx context.Context, c *models.Case) {
	if r.cache == nil {
		return
	}
	// Cache failures are invisible to callers; the collection stays
	// authoritative.
	_ = r.cache.Set(ctx, caseCacheKey(c.ID.Hex()), c, caseCacheTTL)
}

func (r *caseRepository) caseFromCache(ctx context.Context, id string) *models.Case {
	if r.cache == nil {
		return nil
	}

	var c models.Case
	if err := r.cache.Get(ctx, caseCacheKey(id), &c); err != nil {
		return nil
	}
	return &c
}

func (r *caseRepository) invalidateCaseCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, caseCacheKey(id))
}
