package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-shop/models"
	"go-shop/storage"
)

// CartStore keeps one cart document per session id. Every mutation rewrites
// the whole entry sequence, so the last write from a client wins.
type CartStore struct {
	carts *mongo.Collection
}

var _ storage.CartStore = (*CartStore)(nil)

// NewCartStore creates a CartStore over the given database.
func NewCartStore(client *mongo.Client, dbName string) *CartStore {
	return &CartStore{carts: client.Database(dbName).Collection("carts")}
}

type cartDoc struct {
	SessionID string             `bson:"_id"`
	Items     []models.CartEntry `bson:"items"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (s *CartStore) Get(ctx context.Context, sessionID string) ([]models.CartEntry, error) {
	var doc cartDoc
	err := s.carts.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.CartEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching cart: %w", err)
	}
	return doc.Items, nil
}

func (s *CartStore) Put(ctx context.Context, sessionID string, entries []models.CartEntry) error {
	doc := cartDoc{
		SessionID: sessionID,
		Items:     entries,
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.carts.ReplaceOne(ctx, bson.M{"_id": sessionID}, doc, opts); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.carts.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
