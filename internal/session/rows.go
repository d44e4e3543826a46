package session

import (
	"database/sql"

	"diffsql/internal/resultset"
	"diffsql/internal/util"

	"github.com/pkg/errors"
)

// FirstColumn drains rows and returns column 0 of each row. rows is closed.
func FirstColumn(rows *sql.Rows) (resultset.Column, error) {
	defer util.CloseWithErr(rows, "query rows")
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errors.New("query returned no columns")
	}
	dest := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	out := resultset.Column{}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, dest[0])
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
