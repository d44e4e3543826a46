// Package schema tracks the tables the generator may reference.
package schema

// ColumnType enumerates column data types.
type ColumnType int

// Column type constants for schema generation.
const (
	TypeInt ColumnType = iota
	TypeBigInt
	TypeDouble
	TypeVarchar
	TypeBool
)

// AllColumnTypes lists the types the generator draws from.
func AllColumnTypes() []ColumnType {
	return []ColumnType{TypeInt, TypeBigInt, TypeDouble, TypeVarchar, TypeBool}
}

// Column describes a table column.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Table describes a database table.
type Table struct {
	Name    string
	Columns []Column
	NextID  int64
}

// State tracks the current schema state.
type State struct {
	Tables []Table
}

// SQLType returns the SQL type string for this column.
func (c Column) SQLType() string {
	switch c.Type {
	case TypeInt:
		return "INT"
	case TypeBigInt:
		return "BIGINT"
	case TypeDouble:
		return "DOUBLE"
	case TypeVarchar:
		return "VARCHAR(64)"
	case TypeBool:
		return "BOOLEAN"
	default:
		return "INT"
	}
}

// TableByName returns a table by name if present.
func (s *State) TableByName(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// HasTables reports whether any tables exist in the schema state.
func (s *State) HasTables() bool {
	return s != nil && len(s.Tables) > 0
}

// Add appends a table.
func (s *State) Add(tbl Table) *Table {
	s.Tables = append(s.Tables, tbl)
	return &s.Tables[len(s.Tables)-1]
}

// Reset forgets all tables.
func (s *State) Reset() {
	s.Tables = nil
}
