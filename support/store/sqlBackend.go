package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	// registers the postgres driver
	_ "github.com/lib/pq"
	// registers the sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/lightyeario/tradingbots/support/postgresdb"
)

const defaultSqlitePath = "./data/store.db"

const sqlTableCreate = "CREATE TABLE IF NOT EXISTS kv_store (k TEXT PRIMARY KEY, v TEXT NOT NULL)"

// sqlDialect holds the statements that differ between drivers
type sqlDialect struct {
	driver string
	query  string
	upsert string
	delete string
}

var sqliteDialect = sqlDialect{
	driver: "sqlite3",
	query:  "SELECT v FROM kv_store WHERE k = ?",
	upsert: "INSERT INTO kv_store (k, v) VALUES (?, ?) ON CONFLICT (k) DO UPDATE SET v = excluded.v",
	delete: "DELETE FROM kv_store WHERE k = ?",
}

var postgresDialect = sqlDialect{
	driver: "postgres",
	query:  "SELECT v FROM kv_store WHERE k = $1",
	upsert: "INSERT INTO kv_store (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = excluded.v",
	delete: "DELETE FROM kv_store WHERE k = $1",
}

// sqlBackend stores every key as one row of the kv_store table
type sqlBackend struct {
	db      *sql.DB
	dialect sqlDialect
}

func makeSqliteBackend(path string) (*sqlBackend, error) {
	if path == "" {
		path = defaultSqlitePath
	}
	log.Printf("making sqlite store with db path: %s\n", path)
	if e := os.MkdirAll(filepath.Dir(path), 0755); e != nil {
		return nil, fmt.Errorf("could not create directory for sqlite db '%s': %s", path, e)
	}
	return openSQLBackend(sqliteDialect, path)
}

func makePostgresBackend(c *postgresdb.Config) (*sqlBackend, error) {
	created, e := postgresdb.CreateDatabaseIfNotExists(c)
	if e != nil {
		return nil, e
	}
	if created {
		log.Printf("created postgres database '%s'\n", c.GetDbName())
	}
	return openSQLBackend(postgresDialect, c.MakeConnectString())
}

func openSQLBackend(dialect sqlDialect, dataSource string) (*sqlBackend, error) {
	db, e := sql.Open(dialect.driver, dataSource)
	if e != nil {
		return nil, fmt.Errorf("could not open %s database: %s", dialect.driver, e)
	}

	if e = postgresdb.CreateTableIfNotExists(db, sqlTableCreate); e != nil {
		db.Close()
		return nil, e
	}

	return &sqlBackend{
		db:      db,
		dialect: dialect,
	}, nil
}

func (b *sqlBackend) get(key string) ([]byte, bool, error) {
	var v string
	e := b.db.QueryRow(b.dialect.query, key).Scan(&v)
	if e == sql.ErrNoRows {
		return nil, false, nil
	}
	if e != nil {
		return nil, false, e
	}
	return []byte(v), true, nil
}

func (b *sqlBackend) set(key string, value []byte) error {
	_, e := b.db.Exec(b.dialect.upsert, key, string(value))
	return e
}

func (b *sqlBackend) del(key string) error {
	_, e := b.db.Exec(b.dialect.delete, key)
	return e
}

func (b *sqlBackend) close() error {
	return b.db.Close()
}
