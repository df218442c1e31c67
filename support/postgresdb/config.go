package postgresdb

import (
	"fmt"
	"strings"

	"github.com/lightyeario/tradingbots/support/utils"
)

const (
	defaultHost   = "localhost"
	defaultPort   = 5432
	defaultDbName = "tradingbots"
)

// Config locates the postgres database that backs the bot state store, empty fields take the defaults
type Config struct {
	Host      string `toml:"HOST"`
	Port      uint16 `toml:"PORT"`
	DbName    string `toml:"DB_NAME"`
	User      string `toml:"USER"`
	Password  string `toml:"PASSWORD"`
	SSLEnable bool   `toml:"SSL_ENABLE"`
}

// GetDbName is the configured database name or the default one
func (c *Config) GetDbName() string {
	if c.DbName == "" {
		return defaultDbName
	}
	return c.DbName
}

// MakeConnectStringWithoutDB is the lib/pq connection string of the server, used to create the database
func (c *Config) MakeConnectStringWithoutDB() string {
	host := c.Host
	if host == "" {
		host = defaultHost
	}
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	sslMode := "disable"
	if c.SSLEnable {
		sslMode = "require"
	}

	parts := []string{
		fmt.Sprintf("host=%s", host),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("sslmode=%s", sslMode),
	}
	if c.User != "" {
		parts = append(parts, fmt.Sprintf("user=%s", c.User))
	}
	if c.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", c.Password))
	}
	return strings.Join(parts, " ")
}

// MakeConnectString is the lib/pq connection string of the database
func (c *Config) MakeConnectString() string {
	return fmt.Sprintf("%s dbname=%s", c.MakeConnectStringWithoutDB(), c.GetDbName())
}

// String impl., the password is hidden
func (c Config) String() string {
	return utils.StructString(c, 0, map[string]func(interface{}) interface{}{
		"PASSWORD": utils.Hide,
	})
}
