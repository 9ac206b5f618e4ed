package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-shop/models"
	"go-shop/storage"
)

// ItemStore persists catalog items in MongoDB. Integer ids are assigned from
// a counters collection so the public id contract stays numeric.
type ItemStore struct {
	items    *mongo.Collection
	counters *mongo.Collection
}

var _ storage.ItemStore = (*ItemStore)(nil)

// NewItemStore creates an ItemStore over the given database.
func NewItemStore(client *mongo.Client, dbName string) *ItemStore {
	db := client.Database(dbName)
	return &ItemStore{
		items:    db.Collection("items"),
		counters: db.Collection("counters"),
	}
}

// nextID atomically increments and returns the item id sequence.
func (s *ItemStore) nextID(ctx context.Context) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "items"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocating item id: %w", err)
	}
	return counter.Seq, nil
}

func (s *ItemStore) List(ctx context.Context) ([]models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return s.find(ctx, opts)
}

func (s *ItemStore) ListByPrice(ctx context.Context) ([]models.Item, error) {
	// Secondary _id sort keeps equal prices in insertion order.
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, opts)
}

func (s *ItemStore) find(ctx context.Context, opts *options.FindOptions) ([]models.Item, error) {
	cursor, err := s.items.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}
	return items, nil
}

func (s *ItemStore) Get(ctx context.Context, id int) (models.Item, error) {
	var item models.Item
	err := s.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Item{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("fetching item %d: %w", id, err)
	}
	return item, nil
}

func (s *ItemStore) Create(ctx context.Context, title string, price int, text string) (models.Item, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return models.Item{}, err
	}

	item := models.Item{
		ID:       id,
		Title:    title,
		Price:    price,
		IsActive: true,
		Text:     text,
	}
	if _, err := s.items.InsertOne(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) Update(ctx context.Context, id int, title string, price int, text string) error {
	update := bson.M{"$set": bson.M{
		"title": title,
		"price": price,
		"text":  text,
	}}
	result, err := s.items.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("updating item %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *ItemStore) Delete(ctx context.Context, id int) error {
	result, err := s.items.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
