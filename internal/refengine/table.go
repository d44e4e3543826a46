package refengine

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"diffsql/internal/util"
)

// Value is one cell of a reference result.
type Value struct {
	raw any
}

// IsNull reports whether the cell is SQL NULL.
func (v Value) IsNull() bool { return v.raw == nil }

// StringValue renders the cell as text the way a text protocol would; NULL
// becomes the text "NULL".
func (v Value) StringValue() string {
	switch x := v.raw.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}

// Row is one result row.
type Row struct {
	values []Value
}

// At returns the cell at column position i.
func (r Row) At(i int) Value { return r.values[i] }

// Len returns the number of cells.
func (r Row) Len() int { return len(r.values) }

// Table is a fully materialised result.
type Table struct {
	Columns []string
	rows    []Row
}

// NewTable builds a table from raw cell values, mostly for tests.
func NewTable(columns []string, rows ...[]any) *Table {
	t := &Table{Columns: columns}
	for _, raw := range rows {
		row := Row{values: make([]Value, len(raw))}
		for i, v := range raw {
			row.values[i] = Value{raw: v}
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns a forward iterator over the rows.
func (t *Table) Rows() *RowIterator {
	return &RowIterator{rows: t.rows, pos: -1}
}

// RowIterator walks a table once.
type RowIterator struct {
	rows []Row
	pos  int
}

// Next advances to the next row.
func (it *RowIterator) Next() bool {
	if it.pos+1 >= len(it.rows) {
		it.pos = len(it.rows)
		return false
	}
	it.pos++
	return true
}

// Row returns the current row.
func (it *RowIterator) Row() Row { return it.rows[it.pos] }

func readTable(rows *sql.Rows) (*Table, error) {
	defer util.CloseWithErr(rows, "reference rows")
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	table := &Table{Columns: cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := Row{values: make([]Value, len(cols))}
		for i, v := range raw {
			if b, ok := v.([]byte); ok {
				v = append([]byte(nil), b...)
			}
			row.values[i] = Value{raw: v}
		}
		table.rows = append(table.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
