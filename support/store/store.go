package store

import (
	"encoding/json"
	"fmt"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/support/postgresdb"
)

// backend is the raw byte-level storage underneath the JSON store
type backend interface {
	get(key string) ([]byte, bool, error)
	set(key string, value []byte) error
	del(key string) error
	close() error
}

// Config selects and configures the store backend
type Config struct {
	Type     string             `toml:"TYPE"`
	Path     string             `toml:"PATH"`
	Postgres *postgresdb.Config `toml:"POSTGRES_DB"`
}

// these are the available store types
const (
	TypeMemory   = "memory"
	TypePebble   = "pebble"
	TypeSqlite   = "sqlite"
	TypePostgres = "postgres"
)

// jsonStore implements api.Store on top of any backend
type jsonStore struct {
	b backend
}

var _ api.Store = &jsonStore{}

// MakeStore is a factory method, the default store is pebble
func MakeStore(c Config) (api.Store, error) {
	var b backend
	var e error
	switch c.Type {
	case TypeMemory:
		b = makeMemoryBackend()
	case TypePebble, "":
		b, e = makePebbleBackend(c.Path)
	case TypeSqlite:
		b, e = makeSqliteBackend(c.Path)
	case TypePostgres:
		if c.Postgres == nil {
			return nil, fmt.Errorf("POSTGRES_DB config is required for store type '%s'", c.Type)
		}
		b, e = makePostgresBackend(c.Postgres)
	default:
		return nil, fmt.Errorf("unrecognized store type '%s'", c.Type)
	}
	if e != nil {
		return nil, e
	}
	return &jsonStore{b: b}, nil
}

// MakeMemoryStore is a convenience for tests and dry runs
func MakeMemoryStore() api.Store {
	return &jsonStore{b: makeMemoryBackend()}
}

func plainKey(key string) string {
	return "k:" + key
}

func hashKey(name string, field string) string {
	return fmt.Sprintf("h:%s:%s", name, field)
}

func (s *jsonStore) read(key string, out interface{}) (bool, error) {
	bytes, ok, e := s.b.get(key)
	if e != nil {
		return false, fmt.Errorf("could not read key '%s': %s", key, e)
	}
	if !ok {
		return false, nil
	}
	if e = json.Unmarshal(bytes, out); e != nil {
		return false, fmt.Errorf("could not decode value of key '%s': %s", key, e)
	}
	return true, nil
}

func (s *jsonStore) write(key string, value interface{}) error {
	bytes, e := json.Marshal(value)
	if e != nil {
		return fmt.Errorf("could not encode value of key '%s': %s", key, e)
	}
	if e = s.b.set(key, bytes); e != nil {
		return fmt.Errorf("could not write key '%s': %s", key, e)
	}
	return nil
}

// Get impl.
func (s *jsonStore) Get(key string, out interface{}) (bool, error) {
	return s.read(plainKey(key), out)
}

// Set impl.
func (s *jsonStore) Set(key string, value interface{}) error {
	return s.write(plainKey(key), value)
}

// Delete impl.
func (s *jsonStore) Delete(key string) error {
	return s.b.del(plainKey(key))
}

// HGet impl.
func (s *jsonStore) HGet(name string, field string, out interface{}) (bool, error) {
	return s.read(hashKey(name, field), out)
}

// HSet impl.
func (s *jsonStore) HSet(name string, field string, value interface{}) error {
	return s.write(hashKey(name, field), value)
}

// HDel impl.
func (s *jsonStore) HDel(name string, field string) error {
	return s.b.del(hashKey(name, field))
}

// Close impl.
func (s *jsonStore) Close() error {
	return s.b.close()
}
