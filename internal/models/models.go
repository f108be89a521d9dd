package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnassignedID marks an entity that has not been persisted yet. Repositories
// assign the real key on insert.
const UnassignedID = -1

type Client struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type Purchase struct {
	ID        int       `json:"id"`
	ClientID  int       `json:"client_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	OrderDate time.Time `json:"order_date"`
}

// Bill is the append-only record of a completed purchase. TotalAmount is the
// unit price at purchase time multiplied by quantity; later price changes
// never rewrite it.
type Bill struct {
	OrderID     int             `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Timestamp   time.Time       `json:"timestamp"`
}
