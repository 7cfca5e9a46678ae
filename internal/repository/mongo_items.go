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

type mongoLineItemStore struct {
	collection *mongo.Collection
}

func NewMongoLineItemStore(db *mongo.Database) LineItemStore {
	return &mongoLineItemStore{
		collection: db.Collection("cart_items"),
	}
}

// identityFilter constrains the match to the cart, the product and only
// the customization fields the request actually supplied. A row with a
// different supplied value is a distinct line, not a merge target.
func identityFilter(cartID string, key ItemIdentity) bson.M {
	filter := bson.M{
		"cart_id":    cartID,
		"product_id": key.ProductID,
	}
	if key.Material != nil {
		filter["selected_material"] = *key.Material
	}
	if key.Height != nil {
		filter["height"] = *key.Height
	}
	if key.Width != nil {
		filter["width"] = *key.Width
	}
	if key.Length != nil {
		filter["length"] = *key.Length
	}
	return filter
}

func (m *mongoLineItemStore) FindByIdentity(ctx context.Context, cartID string, key ItemIdentity) (*domain.LineItem, error) {
	var item domain.LineItem

	err := m.collection.FindOne(ctx, identityFilter(cartID, key)).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item by identity: %w", err)
	}

	return &item, nil
}

func (m *mongoLineItemStore) FindByID(ctx context.Context, itemID string) (*domain.LineItem, error) {
	var item domain.LineItem

	err := m.collection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return &item, nil
}

func (m *mongoLineItemStore) FindByCart(ctx context.Context, cartID string) ([]domain.LineItem, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"cart_id": cartID})
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.LineItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	return items, nil
}

func (m *mongoLineItemStore) Insert(ctx context.Context, item *domain.LineItem) error {
	now := time.Now()
	item.ID = primitive.NewObjectID().Hex()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := m.collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

func (m *mongoLineItemStore) Update(ctx context.Context, item *domain.LineItem) error {
	now := time.Now()

	filter := bson.M{"_id": item.ID}
	update := bson.M{
		"$set": bson.M{
			"quantity":          item.Quantity,
			"price":             item.Price,
			"total_price":       item.TotalPrice,
			"height":            item.Height,
			"width":             item.Width,
			"length":            item.Length,
			"area":              item.Area,
			"selected_material": item.SelectedMaterial,
			"material_price":    item.MaterialPrice,
			"updated_at":        now,
		},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}

	item.UpdatedAt = now
	return nil
}

func (m *mongoLineItemStore) DeleteByID(ctx context.Context, cartID, itemID string) error {
	filter := bson.M{
		"_id":     itemID,
		"cart_id": cartID,
	}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (m *mongoLineItemStore) DeleteAllByCart(ctx context.Context, cartID string) error {
	_, err := m.collection.DeleteMany(ctx, bson.M{"cart_id": cartID})
	if err != nil {
		return fmt.Errorf("failed to empty cart items: %w", err)
	}

	return nil
}

func (m *mongoLineItemStore) CountByCart(ctx context.Context, cartID string) (int64, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{"cart_id": cartID})
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}

	return count, nil
}
