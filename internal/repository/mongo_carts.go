package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCartStore struct {
	collection *mongo.Collection
}

func NewMongoCartStore(db *mongo.Database) CartStore {
	return &mongoCartStore{
		collection: db.Collection("carts"),
	}
}

func (m *mongoCartStore) FindByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	return &cart, nil
}

func (m *mongoCartStore) Create(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	cart.ID = primitive.NewObjectID().Hex()
	cart.CreatedAt = now
	cart.UpdatedAt = now

	_, err := m.collection.InsertOne(ctx, cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Another writer created the cart between find and create;
			// the caller re-resolves.
			return ErrVersionConflict
		}
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

func (m *mongoCartStore) SaveAggregate(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()

	filter := bson.M{
		"user_id": cart.UserID,
		"version": cart.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"total_items":  cart.TotalItems,
			"total_amount": cart.TotalAmount,
			"updated_at":   now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save cart aggregate: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}

	cart.Version++
	cart.UpdatedAt = now
	return nil
}
