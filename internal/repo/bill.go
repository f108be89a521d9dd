package repo

import (
	"context"
	"database/sql"

	"github.com/safar/order-management/internal/database"
	"github.com/safar/order-management/internal/models"
)

// BillLog is the append-only bill repository. Bills are written once by the
// purchase workflow and only ever read back; there is no update or delete.
type BillLog struct {
	q Querier
}

func NewBillLog(q Querier) *BillLog {
	return &BillLog{q: q}
}

func (l *BillLog) WithTx(tx *sql.Tx) *BillLog {
	return &BillLog{q: tx}
}

func (l *BillLog) Add(ctx context.Context, bill models.Bill) error {
	_, err := l.q.ExecContext(ctx,
		`INSERT INTO log (order_id, total_amount, timestamp) VALUES ($1, $2, $3)`,
		bill.OrderID, bill.TotalAmount, bill.Timestamp)
	if err != nil {
		return database.NewStorageError("insert log", err)
	}
	return nil
}

func (l *BillLog) All(ctx context.Context) ([]models.Bill, error) {
	rows, err := l.q.QueryContext(ctx,
		`SELECT order_id, total_amount, timestamp FROM log ORDER BY timestamp, order_id`)
	if err != nil {
		return nil, database.NewStorageError("select log", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var bill models.Bill
		if err := rows.Scan(&bill.OrderID, &bill.TotalAmount, &bill.Timestamp); err != nil {
			return nil, database.NewStorageError("scan log", err)
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, database.NewStorageError("rows log", err)
	}

	return bills, nil
}
