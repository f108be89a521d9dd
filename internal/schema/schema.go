// Package schema declares the static table metadata the generic repository
// builds its SQL from. One descriptor per entity type, written out by hand:
// no runtime introspection decides which columns exist or how they bind.
package schema

type ColumnType int

const (
	ColumnInt ColumnType = iota
	ColumnString
	ColumnDecimal
	ColumnTime
)

// Column maps one database column to one entity field. Get reads the field
// for statement binding; Set writes a scanned value back. The repository
// guarantees the value passed to Set matches the column's declared type
// (int, string, decimal.Decimal, or time.Time).
type Column[E any] struct {
	Name string
	Type ColumnType
	Get  func(e *E) any
	Set  func(e *E, v any)
}

// Descriptor is the immutable schema of one entity type. Columns lists every
// persisted column in order, primary key included; PrimaryKey names which one
// it is. The key column is excluded from INSERT and UPDATE value lists and
// used in WHERE clauses and RETURNING.
type Descriptor[E any] struct {
	Table      string
	PrimaryKey string
	Columns    []Column[E]
}

// DataColumns returns the non-key columns in declaration order.
func (d Descriptor[E]) DataColumns() []Column[E] {
	cols := make([]Column[E], 0, len(d.Columns)-1)
	for _, c := range d.Columns {
		if c.Name != d.PrimaryKey {
			cols = append(cols, c)
		}
	}
	return cols
}

// KeyColumn returns the primary key column.
func (d Descriptor[E]) KeyColumn() Column[E] {
	for _, c := range d.Columns {
		if c.Name == d.PrimaryKey {
			return c
		}
	}
	panic("schema: descriptor for " + d.Table + " has no primary key column")
}

func columnNames[E any](cols []Column[E]) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Names returns the names of every column in declaration order.
func (d Descriptor[E]) Names() []string {
	return columnNames(d.Columns)
}

// DataNames returns the names of the non-key columns in declaration order.
func (d Descriptor[E]) DataNames() []string {
	return columnNames(d.DataColumns())
}
