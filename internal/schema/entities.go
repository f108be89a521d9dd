package schema

import (
	"time"

	"github.com/safar/order-management/internal/models"
	"github.com/shopspring/decimal"
)

var Clients = Descriptor[models.Client]{
	Table:      "client",
	PrimaryKey: "client_id",
	Columns: []Column[models.Client]{
		{
			Name: "client_id",
			Type: ColumnInt,
			Get:  func(c *models.Client) any { return c.ID },
			Set:  func(c *models.Client, v any) { c.ID = v.(int) },
		},
		{
			Name: "name",
			Type: ColumnString,
			Get:  func(c *models.Client) any { return c.Name },
			Set:  func(c *models.Client, v any) { c.Name = v.(string) },
		},
		{
			Name: "email",
			Type: ColumnString,
			Get:  func(c *models.Client) any { return c.Email },
			Set:  func(c *models.Client, v any) { c.Email = v.(string) },
		},
		{
			Name: "phone",
			Type: ColumnString,
			Get:  func(c *models.Client) any { return c.Phone },
			Set:  func(c *models.Client, v any) { c.Phone = v.(string) },
		},
	},
}

var Products = Descriptor[models.Product]{
	Table:      "product",
	PrimaryKey: "product_id",
	Columns: []Column[models.Product]{
		{
			Name: "product_id",
			Type: ColumnInt,
			Get:  func(p *models.Product) any { return p.ID },
			Set:  func(p *models.Product, v any) { p.ID = v.(int) },
		},
		{
			Name: "name",
			Type: ColumnString,
			Get:  func(p *models.Product) any { return p.Name },
			Set:  func(p *models.Product, v any) { p.Name = v.(string) },
		},
		{
			Name: "price",
			Type: ColumnDecimal,
			Get:  func(p *models.Product) any { return p.Price },
			Set:  func(p *models.Product, v any) { p.Price = v.(decimal.Decimal) },
		},
		{
			Name: "stock",
			Type: ColumnInt,
			Get:  func(p *models.Product) any { return p.Stock },
			Set:  func(p *models.Product, v any) { p.Stock = v.(int) },
		},
	},
}

var Purchases = Descriptor[models.Purchase]{
	Table:      "purchase",
	PrimaryKey: "order_id",
	Columns: []Column[models.Purchase]{
		{
			Name: "order_id",
			Type: ColumnInt,
			Get:  func(p *models.Purchase) any { return p.ID },
			Set:  func(p *models.Purchase, v any) { p.ID = v.(int) },
		},
		{
			Name: "client_id",
			Type: ColumnInt,
			Get:  func(p *models.Purchase) any { return p.ClientID },
			Set:  func(p *models.Purchase, v any) { p.ClientID = v.(int) },
		},
		{
			Name: "product_id",
			Type: ColumnInt,
			Get:  func(p *models.Purchase) any { return p.ProductID },
			Set:  func(p *models.Purchase, v any) { p.ProductID = v.(int) },
		},
		{
			Name: "quantity",
			Type: ColumnInt,
			Get:  func(p *models.Purchase) any { return p.Quantity },
			Set:  func(p *models.Purchase, v any) { p.Quantity = v.(int) },
		},
		{
			Name: "order_date",
			Type: ColumnTime,
			Get:  func(p *models.Purchase) any { return p.OrderDate },
			Set:  func(p *models.Purchase, v any) { p.OrderDate = v.(time.Time) },
		},
	},
}
