package database

import (
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/mattn/go-sqlite3"
)

const SQLITE = "sqlite3"

type Connection struct {
	Driver string
	DB     *sql.DB
}

// Wraps a transaction so repositories can compose into a caller's
// transaction, e.g. a plan allocation spanning batches and stock.
type DB struct {
	*goqu.TxDatabase
}

var connection *Connection

// Establishes and returns a connection to the database. If a connection
// is already established, it is reused.
func GetConnection(driver, connectionUrl string) (*Connection, error) {
	if connection == nil {
		conn, err := sql.Open(driver, connectionUrl)
		if err != nil {
			return nil, err
		}

		if driver == SQLITE {
			// Writers back off instead of failing immediately while an
			// allocation transaction holds the database.
			if _, err := conn.Exec("PRAGMA busy_timeout = 5000; PRAGMA foreign_keys = ON"); err != nil {
				return nil, err
			}
		}

		connection = &Connection{driver, conn}
	}
	return connection, nil
}
