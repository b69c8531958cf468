package sqlite

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver for SQLite connections used by this
// package. It is go-sqlite3 with LowerFunc registered on every connection.
const DriverName = "sqlite3_news"

// LowerFunc is a Unicode-aware lower(). The built-in lower() and LIKE only
// fold ASCII letters.
const LowerFunc = "ulower"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(LowerFunc, strings.ToLower, true)
		},
	})
}
