// Package repo implements create/read/update/delete/list once, over the
// column metadata in a schema descriptor. Identifiers come only from
// descriptors; every value travels as a bound parameter.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/safar/order-management/internal/database"
	"github.com/safar/order-management/internal/schema"
	"github.com/shopspring/decimal"
)

// Querier is the subset of *sql.DB and *sql.Tx the repository needs, so the
// same repository can run standalone or inside a coordinator transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repo[E any] struct {
	q    Querier
	desc schema.Descriptor[E]

	insertStmt string
	updateStmt string
	deleteStmt string
	selectByID string
	selectAll  string
}

func New[E any](q Querier, desc schema.Descriptor[E]) *Repo[E] {
	dataNames := desc.DataNames()

	placeholders := make([]string, len(dataNames))
	setClauses := make([]string, len(dataNames))
	for i, name := range dataNames {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		setClauses[i] = fmt.Sprintf("%s = $%d", name, i+1)
	}

	allNames := strings.Join(desc.Names(), ", ")

	return &Repo[E]{
		q:    q,
		desc: desc,
		insertStmt: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			desc.Table, strings.Join(dataNames, ", "), strings.Join(placeholders, ", "), desc.PrimaryKey),
		updateStmt: fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
			desc.Table, strings.Join(setClauses, ", "), desc.PrimaryKey, len(dataNames)+1),
		deleteStmt: fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			desc.Table, desc.PrimaryKey),
		selectByID: fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
			allNames, desc.Table, desc.PrimaryKey),
		selectAll: fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
			allNames, desc.Table, desc.PrimaryKey),
	}
}

// WithTx returns a repository bound to tx instead of the original querier.
func (r *Repo[E]) WithTx(tx *sql.Tx) *Repo[E] {
	scoped := *r
	scoped.q = tx
	return &scoped
}

// Create inserts e and returns the generated primary key, which is also
// written back onto e.
func (r *Repo[E]) Create(ctx context.Context, e *E) (int, error) {
	args := r.dataArgs(e)

	var id int
	if err := r.q.QueryRowContext(ctx, r.insertStmt, args...).Scan(&id); err != nil {
		if database.IsUniqueViolation(err) {
			return 0, database.ErrDuplicateEntity
		}
		return 0, database.NewStorageError("insert "+r.desc.Table, err)
	}

	r.desc.KeyColumn().Set(e, id)
	return id, nil
}

// Update rewrites every non-key column of the row with the given id. Zero
// rows matched is still success; existence checks belong to the caller.
func (r *Repo[E]) Update(ctx context.Context, id int, e *E) error {
	args := append(r.dataArgs(e), id)

	if _, err := r.q.ExecContext(ctx, r.updateStmt, args...); err != nil {
		return database.NewStorageError("update "+r.desc.Table, err)
	}
	return nil
}

func (r *Repo[E]) Delete(ctx context.Context, id int) error {
	if _, err := r.q.ExecContext(ctx, r.deleteStmt, id); err != nil {
		return database.NewStorageError("delete "+r.desc.Table, err)
	}
	return nil
}

// FindByID returns found=false, not an error, when no row matches.
func (r *Repo[E]) FindByID(ctx context.Context, id int) (E, bool, error) {
	var e E

	holders := scanHolders(r.desc.Columns)
	err := r.q.QueryRowContext(ctx, r.selectByID, id).Scan(holders...)
	if err == sql.ErrNoRows {
		return e, false, nil
	}
	if err != nil {
		return e, false, database.NewStorageError("select "+r.desc.Table, err)
	}

	assignHolders(&e, r.desc.Columns, holders)
	return e, true, nil
}

// FindAll returns every row ordered by primary key.
func (r *Repo[E]) FindAll(ctx context.Context) ([]E, error) {
	rows, err := r.q.QueryContext(ctx, r.selectAll)
	if err != nil {
		return nil, database.NewStorageError("select "+r.desc.Table, err)
	}
	defer rows.Close()

	var entities []E
	for rows.Next() {
		var e E
		holders := scanHolders(r.desc.Columns)
		if err := rows.Scan(holders...); err != nil {
			return nil, database.NewStorageError("scan "+r.desc.Table, err)
		}
		assignHolders(&e, r.desc.Columns, holders)
		entities = append(entities, e)
	}

	if err := rows.Err(); err != nil {
		return nil, database.NewStorageError("rows "+r.desc.Table, err)
	}

	return entities, nil
}

func (r *Repo[E]) dataArgs(e *E) []any {
	cols := r.desc.DataColumns()
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = c.Get(e)
	}
	return args
}

// scanHolders builds one nullable scan target per column, typed by the
// column's declared semantic type.
func scanHolders[E any](cols []schema.Column[E]) []any {
	holders := make([]any, len(cols))
	for i, c := range cols {
		switch c.Type {
		case schema.ColumnInt:
			holders[i] = new(sql.NullInt64)
		case schema.ColumnString:
			holders[i] = new(sql.NullString)
		case schema.ColumnDecimal:
			holders[i] = new(decimal.NullDecimal)
		case schema.ColumnTime:
			holders[i] = new(sql.NullTime)
		}
	}
	return holders
}

// assignHolders writes scanned values back onto e. NULLs become the numeric
// zero value, the empty string, or the zero time; they are never skipped.
func assignHolders[E any](e *E, cols []schema.Column[E], holders []any) {
	for i, c := range cols {
		switch h := holders[i].(type) {
		case *sql.NullInt64:
			var v int
			if h.Valid {
				v = int(h.Int64)
			}
			c.Set(e, v)
		case *sql.NullString:
			var v string
			if h.Valid {
				v = h.String
			}
			c.Set(e, v)
		case *decimal.NullDecimal:
			var v decimal.Decimal
			if h.Valid {
				v = h.Decimal
			}
			c.Set(e, v)
		case *sql.NullTime:
			var v time.Time
			if h.Valid {
				v = h.Time
			}
			c.Set(e, v)
		}
	}
}
