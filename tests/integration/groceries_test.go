package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ashishpal07/qp-assessment/internal/database"
	"github.com/ashishpal07/qp-assessment/internal/store"
)

func TestGroceryCRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	grocery, err := store.CreateGrocery(ctx, db, "Milk", "Whole milk, 1 liter", decimal.NewFromInt(3), 20)
	if err != nil {
		t.Fatalf("Create grocery: %v", err)
	}
	if grocery.ID == 0 {
		t.Error("Grocery ID should not be 0")
	}

	fetched, err := store.GetGrocery(ctx, db, grocery.ID)
	if err != nil {
		t.Fatalf("Get grocery: %v", err)
	}
	if fetched.Name != "Milk" || fetched.Stock != 20 {
		t.Errorf("Unexpected grocery: %+v", fetched)
	}

	all, err := store.ListGroceries(ctx, db)
	if err != nil {
		t.Fatalf("List groceries: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 grocery, got %d", len(all))
	}

	deleted, err := store.DeleteGrocery(ctx, db, grocery.ID)
	if err != nil {
		t.Fatalf("Delete grocery: %v", err)
	}
	if deleted.ID != grocery.ID {
		t.Errorf("Expected deleted id %d, got %d", grocery.ID, deleted.ID)
	}

	if _, err := store.GetGrocery(ctx, db, grocery.ID); err != database.ErrGroceryNotFound {
		t.Errorf("Expected grocery not found after delete, got: %v", err)
	}
}

func TestUpdateGroceryPartial(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	grocery, err := store.CreateGrocery(ctx, db, "Bread", "Sourdough loaf", decimal.NewFromInt(5), 10)
	if err != nil {
		t.Fatalf("Create grocery: %v", err)
	}

	newPrice := decimal.NewFromInt(6)
	updated, err := store.UpdateGrocery(ctx, db, grocery.ID, store.GroceryUpdate{Price: &newPrice})
	if err != nil {
		t.Fatalf("Update grocery: %v", err)
	}

	if !updated.Price.Equal(newPrice) {
		t.Errorf("Expected price %s, got %s", newPrice, updated.Price)
	}
	// untouched fields keep their values
	if updated.Name != "Bread" || updated.Description != "Sourdough loaf" || updated.Stock != 10 {
		t.Errorf("Partial update changed untouched fields: %+v", updated)
	}
	if updated.Version != grocery.Version+1 {
		t.Errorf("Expected version bump to %d, got %d", grocery.Version+1, updated.Version)
	}
}

func TestUpdateGroceryMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	name := "Ghost"
	_, err := store.UpdateGrocery(context.Background(), db, 9999, store.GroceryUpdate{Name: &name})
	if err != database.ErrGroceryNotFound {
		t.Errorf("Expected grocery not found error, got: %v", err)
	}
}

func TestDeleteGroceryMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := store.DeleteGrocery(context.Background(), db, 9999)
	if err != database.ErrGroceryNotFound {
		t.Errorf("Expected grocery not found error, got: %v", err)
	}
}

func TestDeleteGroceryReferencedByOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user, err := store.CreateUser(ctx, db, "buyer@example.com", "hash", "Buyer")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	grocery, err := store.CreateGrocery(ctx, db, "Eggs", "Dozen eggs", decimal.NewFromInt(4), 12)
	if err != nil {
		t.Fatalf("Create grocery: %v", err)
	}

	_, err = store.CreateOrder(ctx, db, store.CreateOrderRequest{
		UserID: user.ID,
		Items:  []store.OrderItemRequest{{GroceryID: grocery.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create order: %v", err)
	}

	_, err = store.DeleteGrocery(ctx, db, grocery.ID)
	if err != database.ErrGroceryInUse {
		t.Errorf("Expected grocery in use error, got: %v", err)
	}

	if _, err := store.GetGrocery(ctx, db, grocery.ID); err != nil {
		t.Errorf("Grocery row should survive the rejected delete: %v", err)
	}
}
