package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// generatorFaultCodes lists MySQL error codes caused by the generator rather
// than the server.
// 1050 table already exists, 1054 unknown column, 1064 syntax error,
// 1146 table doesn't exist, 1292 truncated value, 1366 incorrect value,
// 1406 data too long.
var generatorFaultCodes = map[uint16]struct{}{
	1050: {},
	1054: {},
	1064: {},
	1146: {},
	1292: {},
	1366: {},
	1406: {},
}

// ErrCode returns the MySQL error number, if any.
func ErrCode(err error) (uint16, bool) {
	if err == nil {
		return 0, false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number, true
	}
	return 0, false
}

// IsGeneratorFault reports whether err is a whitelisted generator fault.
func IsGeneratorFault(err error) bool {
	code, ok := ErrCode(err)
	if !ok {
		return false
	}
	_, ok = generatorFaultCodes[code]
	return ok
}

// IsRuntimeError reports server-side panics and internal errors.
func IsRuntimeError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "runtime error") || strings.Contains(msg, "panic") || strings.Contains(msg, "internal error")
}
