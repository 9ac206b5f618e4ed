package mongodb

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-shop/models"
	"go-shop/storage"
)

func TestMongoStoresIntegration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping mongo integration test")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Database("shop_test").Drop(ctx); err != nil {
		t.Fatalf("drop test db: %v", err)
	}

	items := NewItemStore(client, "shop_test")

	created, err := items.Create(ctx, "Mug", 12, "A mug.")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if !created.IsActive {
		t.Error("new item should be active")
	}

	got, err := items.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got != created {
		t.Errorf("get returned %+v, want %+v", got, created)
	}

	second, err := items.Create(ctx, "Cup", 5, "A cup.")
	if err != nil {
		t.Fatalf("create second item: %v", err)
	}
	if second.ID == created.ID {
		t.Error("ids must be unique")
	}

	byPrice, err := items.ListByPrice(ctx)
	if err != nil {
		t.Fatalf("list by price: %v", err)
	}
	if len(byPrice) != 2 || byPrice[0].ID != second.ID {
		t.Errorf("list by price order wrong: %+v", byPrice)
	}

	if err := items.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if _, err := items.Get(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get after delete: want ErrNotFound, got %v", err)
	}
	if err := items.Delete(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: want ErrNotFound, got %v", err)
	}

	carts := NewCartStore(client, "shop_test")

	entries, err := carts.Get(ctx, "sess")
	if err != nil {
		t.Fatalf("get empty cart: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("new cart should be empty, got %+v", entries)
	}

	want := []models.CartEntry{{ItemID: second.ID, Quantity: 3}}
	if err := carts.Put(ctx, "sess", want); err != nil {
		t.Fatalf("put cart: %v", err)
	}
	entries, err = carts.Get(ctx, "sess")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(entries) != 1 || entries[0] != want[0] {
		t.Errorf("cart round trip: got %+v, want %+v", entries, want)
	}

	if err := carts.Clear(ctx, "sess"); err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	entries, _ = carts.Get(ctx, "sess")
	if len(entries) != 0 {
		t.Errorf("cart should be empty after clear, got %+v", entries)
	}
}
