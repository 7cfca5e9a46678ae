package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCatalog struct {
	collection *mongo.Collection
}

func NewMongoCatalog(db *mongo.Database) Catalog {
	return &mongoCatalog{
		collection: db.Collection("products"),
	}
}

func (m *mongoCatalog) GetByID(ctx context.Context, productID string) (*domain.ProductSnapshot, error) {
	var snap domain.ProductSnapshot

	err := m.collection.FindOne(ctx, bson.M{"_id": productID}).Decode(&snap)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if snap.ProductType == "" {
		snap.ProductType = domain.TypeStandard
	}

	return &snap, nil
}
