// Package order implements the purchase workflow: stock check, existence
// checks, then purchase insert, stock decrement, and bill insert applied as
// one transaction.
package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/safar/order-management/internal/config"
	"github.com/safar/order-management/internal/database"
	"github.com/safar/order-management/internal/models"
	"github.com/safar/order-management/internal/repo"
	"github.com/safar/order-management/internal/schema"
	"github.com/shopspring/decimal"
)

type Coordinator struct {
	db         *sql.DB
	clients    *repo.Repo[models.Client]
	products   *repo.Repo[models.Product]
	purchases  *repo.Repo[models.Purchase]
	bills      *repo.BillLog
	txTimeout  time.Duration
	maxRetries int
}

func NewCoordinator(db *sql.DB, cfg config.OrderConfig) *Coordinator {
	return &Coordinator{
		db:         db,
		clients:    repo.New(db, schema.Clients),
		products:   repo.New(db, schema.Products),
		purchases:  repo.New(db, schema.Purchases),
		bills:      repo.NewBillLog(db),
		txTimeout:  cfg.TxTimeout,
		maxRetries: cfg.MaxRetries,
	}
}

// CreatePurchase runs the purchase workflow for one client, product, and
// quantity, returning the generated order id and the bill.
//
// The stock and existence checks run first and reject the request with no
// side effects. The purchase row, the stock decrement, and the bill row share
// one transaction: the product row is locked, stock is re-checked under the
// lock, and the decrement carries its own stock guard, so concurrent
// purchases of the same product cannot oversell. Any failure inside the span
// rolls everything back.
func (c *Coordinator) CreatePurchase(ctx context.Context, client models.Client, product models.Product, quantity int) (int, models.Bill, error) {
	if product.Stock < quantity {
		return 0, models.Bill{}, database.ErrInsufficientStock
	}

	if _, found, err := c.products.FindByID(ctx, product.ID); err != nil {
		return 0, models.Bill{}, err
	} else if !found {
		return 0, models.Bill{}, database.ErrProductNotFound
	}

	if _, found, err := c.clients.FindByID(ctx, client.ID); err != nil {
		return 0, models.Bill{}, err
	} else if !found {
		return 0, models.Bill{}, database.ErrClientNotFound
	}

	orderDate := time.Now().UTC()
	var orderID int
	var bill models.Bill

	// Read committed is enough here: the row lock serializes competing
	// purchases and the decrement re-checks stock itself.
	err := database.WithRetry(ctx, c.db, database.TxOptions{
		IsolationLevel: sql.LevelReadCommitted,
		MaxRetries:     c.maxRetries,
		Timeout:        c.txTimeout,
	}, func(tx *sql.Tx) error {
		var price decimal.Decimal
		var stock int

		err := tx.QueryRowContext(ctx,
			`SELECT price, stock FROM product WHERE product_id = $1 FOR UPDATE`,
			product.ID).Scan(&price, &stock)
		if err == sql.ErrNoRows {
			return database.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("lock product %d: %w", product.ID, err)
		}

		if stock < quantity {
			return database.ErrInsufficientStock
		}

		purchase := models.Purchase{
			ID:        models.UnassignedID,
			ClientID:  client.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			OrderDate: orderDate,
		}
		orderID, err = c.purchases.WithTx(tx).Create(ctx, &purchase)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE product SET stock = stock - $1 WHERE product_id = $2 AND stock >= $1`,
			quantity, product.ID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return database.ErrInsufficientStock
		}

		bill = models.Bill{
			OrderID:     orderID,
			TotalAmount: price.Mul(decimal.NewFromInt(int64(quantity))),
			Timestamp:   orderDate,
		}
		return c.bills.WithTx(tx).Add(ctx, bill)
	})
	if err != nil {
		return 0, models.Bill{}, classifyWorkflowError(err)
	}

	return orderID, bill, nil
}

// classifyWorkflowError passes domain outcomes through untouched and folds
// everything else into ErrTransactionFailed: the span rolled back and no
// partial writes survive.
func classifyWorkflowError(err error) error {
	switch {
	case errors.Is(err, database.ErrInsufficientStock),
		errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrClientNotFound):
		return err
	}
	return fmt.Errorf("%w: %v", database.ErrTransactionFailed, err)
}

func (c *Coordinator) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return c.purchases.FindAll(ctx)
}

func (c *Coordinator) ListBills(ctx context.Context) ([]models.Bill, error) {
	return c.bills.All(ctx)
}
