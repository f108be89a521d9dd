package integration

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/safar/order-management/internal/config"
	"github.com/safar/order-management/internal/database"
	"github.com/safar/order-management/internal/models"
	"github.com/safar/order-management/internal/order"
	"github.com/safar/order-management/internal/service"
	"github.com/shopspring/decimal"
)

func newCoordinator(db *sql.DB) *order.Coordinator {
	return order.NewCoordinator(db, config.OrderConfig{
		TxTimeout:  5 * time.Second,
		MaxRetries: 3,
	})
}

func createTestClient(t *testing.T, db *sql.DB) models.Client {
	t.Helper()

	clients := service.NewClientService(db)
	client := models.Client{
		ID:    models.UnassignedID,
		Name:  "Test Client",
		Email: "a@b.com",
		Phone: "5551234567",
	}
	id, err := clients.Add(context.Background(), client)
	if err != nil {
		t.Fatalf("Create client: %v", err)
	}
	client.ID = id
	return client
}

func createTestProduct(t *testing.T, db *sql.DB, price float64, stock int) models.Product {
	t.Helper()

	products := service.NewProductService(db)
	product := models.Product{
		ID:    models.UnassignedID,
		Name:  "Test Product",
		Price: decimal.NewFromFloat(price),
		Stock: stock,
	}
	id, err := products.Add(context.Background(), product)
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}
	product.ID = id
	return product
}

func getProduct(t *testing.T, db *sql.DB, id int) models.Product {
	t.Helper()

	product, err := service.NewProductService(db).Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	return product
}

func TestCreatePurchase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	coordinator := newCoordinator(db)

	client := createTestClient(t, db)
	product := createTestProduct(t, db, 20.0, 5)

	orderID, bill, err := coordinator.CreatePurchase(ctx, client, product, 2)
	if err != nil {
		t.Fatalf("Create purchase: %v", err)
	}

	if orderID <= 0 {
		t.Errorf("Order ID should be positive, got %d", orderID)
	}
	if bill.OrderID != orderID {
		t.Errorf("Bill references order %d, expected %d", bill.OrderID, orderID)
	}
	if expected := decimal.NewFromInt(40); !bill.TotalAmount.Equal(expected) {
		t.Errorf("Expected total %s, got %s", expected, bill.TotalAmount)
	}

	if after := getProduct(t, db, product.ID); after.Stock != 3 {
		t.Errorf("Expected stock 3, got %d", after.Stock)
	}

	purchases, err := coordinator.ListPurchases(ctx)
	if err != nil {
		t.Fatalf("List purchases: %v", err)
	}
	if len(purchases) != 1 {
		t.Fatalf("Expected 1 purchase, got %d", len(purchases))
	}
	if purchases[0].ID != orderID || purchases[0].Quantity != 2 {
		t.Errorf("Unexpected purchase row: %+v", purchases[0])
	}

	bills, err := coordinator.ListBills(ctx)
	if err != nil {
		t.Fatalf("List bills: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("Expected 1 bill, got %d", len(bills))
	}
	if !bills[0].Timestamp.Equal(purchases[0].OrderDate) {
		t.Errorf("Bill timestamp %v differs from purchase date %v", bills[0].Timestamp, purchases[0].OrderDate)
	}
}

func TestCreatePurchaseInsufficientStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	coordinator := newCoordinator(db)

	client := createTestClient(t, db)
	product := createTestProduct(t, db, 20.0, 1)

	_, _, err := coordinator.CreatePurchase(ctx, client, product, 2)
	if !errors.Is(err, database.ErrInsufficientStock) {
		t.Errorf("Expected insufficient stock error, got: %v", err)
	}

	if after := getProduct(t, db, product.ID); after.Stock != 1 {
		t.Errorf("Stock should remain 1, got %d", after.Stock)
	}

	purchases, err := coordinator.ListPurchases(ctx)
	if err != nil {
		t.Fatalf("List purchases: %v", err)
	}
	if len(purchases) != 0 {
		t.Errorf("Expected no purchases, got %d", len(purchases))
	}

	bills, err := coordinator.ListBills(ctx)
	if err != nil {
		t.Fatalf("List bills: %v", err)
	}
	if len(bills) != 0 {
		t.Errorf("Expected no bills, got %d", len(bills))
	}
}

func TestCreatePurchaseBoundaryQuantity(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	coordinator := newCoordinator(db)

	client := createTestClient(t, db)
	product := createTestProduct(t, db, 10.0, 5)

	// Buying exactly the remaining stock succeeds and drains it to zero.
	if _, _, err := coordinator.CreatePurchase(ctx, client, product, 5); err != nil {
		t.Fatalf("Create purchase: %v", err)
	}
	if after := getProduct(t, db, product.ID); after.Stock != 0 {
		t.Errorf("Expected stock 0, got %d", after.Stock)
	}

	// One more unit is one too many.
	fresh := getProduct(t, db, product.ID)
	_, _, err := coordinator.CreatePurchase(ctx, client, fresh, 1)
	if !errors.Is(err, database.ErrInsufficientStock) {
		t.Errorf("Expected insufficient stock error, got: %v", err)
	}

	purchases, err := coordinator.ListPurchases(ctx)
	if err != nil {
		t.Fatalf("List purchases: %v", err)
	}
	if len(purchases) != 1 {
		t.Errorf("Expected 1 purchase, got %d", len(purchases))
	}
}

func TestCreatePurchaseMissingProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	coordinator := newCoordinator(db)

	client := createTestClient(t, db)
	product := createTestProduct(t, db, 20.0, 5)

	if err := service.NewProductService(db).Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete product: %v", err)
	}

	_, _, err := coordinator.CreatePurchase(ctx, client, product, 2)
	if !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected product not found error, got: %v", err)
	}
}

func TestCreatePurchaseMissingClient(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	coordinator := newCoordinator(db)

	client := createTestClient(t, db)
	product := createTestProduct(t, db, 20.0, 5)

	if err := service.NewClientService(db).Delete(ctx, client.ID); err != nil {
		t.Fatalf("Delete client: %v", err)
	}

	_, _, err := coordinator.CreatePurchase(ctx, client, product, 2)
	if !errors.Is(err, database.ErrClientNotFound) {
		t.Errorf("Expected client not found error, got: %v", err)
	}
}

func TestConcurrentPurchasesDoNotOversell(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	coordinator := newCoordinator(db)

	client := createTestClient(t, db)
	product := createTestProduct(t, db, 20.0, 10)

	// Ten buyers want two units each against ten in stock: exactly five can win.
	concurrency := 10
	products := service.NewProductService(db)
	var wg sync.WaitGroup
	results := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			snapshot, err := products.Get(ctx, product.ID)
			if err != nil {
				results <- err
				return
			}
			_, _, err = coordinator.CreatePurchase(ctx, client, snapshot, 2)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	successCount := 0
	insufficientCount := 0
	for err := range results {
		switch {
		case err == nil:
			successCount++
		case errors.Is(err, database.ErrInsufficientStock):
			insufficientCount++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if successCount != 5 {
		t.Errorf("Expected 5 successful purchases, got %d", successCount)
	}
	if insufficientCount != 5 {
		t.Errorf("Expected 5 rejections, got %d", insufficientCount)
	}

	if after := getProduct(t, db, product.ID); after.Stock != 0 {
		t.Errorf("Expected final stock 0, got %d", after.Stock)
	}

	bills, err := coordinator.ListBills(ctx)
	if err != nil {
		t.Fatalf("List bills: %v", err)
	}
	if len(bills) != successCount {
		t.Errorf("Expected %d bills, got %d", successCount, len(bills))
	}
}

func TestBillKeepsPriceAtPurchaseTime(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	coordinator := newCoordinator(db)
	products := service.NewProductService(db)

	client := createTestClient(t, db)
	product := createTestProduct(t, db, 20.0, 5)

	if _, _, err := coordinator.CreatePurchase(ctx, client, product, 2); err != nil {
		t.Fatalf("Create purchase: %v", err)
	}

	updated := getProduct(t, db, product.ID)
	updated.Price = decimal.NewFromFloat(99.0)
	if err := products.Update(ctx, updated); err != nil {
		t.Fatalf("Update product: %v", err)
	}

	bills, err := coordinator.ListBills(ctx)
	if err != nil {
		t.Fatalf("List bills: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("Expected 1 bill, got %d", len(bills))
	}
	if expected := decimal.NewFromInt(40); !bills[0].TotalAmount.Equal(expected) {
		t.Errorf("Historical bill changed: expected %s, got %s", expected, bills[0].TotalAmount)
	}
}
