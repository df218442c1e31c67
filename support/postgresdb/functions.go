package postgresdb

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// duplicate_database, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const errCodeDuplicateDatabase = "42P04"

// CreateDatabaseIfNotExists returns true if the database did not exist and was created
func CreateDatabaseIfNotExists(c *Config) (bool, error) {
	db, e := sql.Open("postgres", c.MakeConnectStringWithoutDB())
	if e != nil {
		return false, fmt.Errorf("could not connect to postgres instance: %s", e)
	}
	defer db.Close()

	dbName := c.GetDbName()
	_, e = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	if pqErr, ok := e.(*pq.Error); ok && pqErr.Code == errCodeDuplicateDatabase {
		return false, nil
	}
	if e != nil {
		return false, fmt.Errorf("could not create database '%s': %s", dbName, e)
	}
	return true, nil
}

// CreateTableIfNotExists runs a CREATE TABLE IF NOT EXISTS statement with any sql driver
func CreateTableIfNotExists(db *sql.DB, statement string) error {
	if _, e := db.Exec(statement); e != nil {
		return fmt.Errorf("could not create table (%s): %s", statement, e)
	}
	return nil
}
