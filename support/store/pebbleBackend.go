package store

import (
	"fmt"
	"log"

	"github.com/cockroachdb/pebble"
)

const defaultPebblePath = "./data/store"

// pebbleBackend persists every write with a sync so that progress survives a crash
type pebbleBackend struct {
	db *pebble.DB
}

func makePebbleBackend(path string) (*pebbleBackend, error) {
	if path == "" {
		path = defaultPebblePath
	}
	db, e := pebble.Open(path, &pebble.Options{})
	if e != nil {
		return nil, fmt.Errorf("could not open pebble store at '%s': %s", path, e)
	}
	log.Printf("opened pebble store at path: %s\n", path)
	return &pebbleBackend{db: db}, nil
}

func (b *pebbleBackend) get(key string) ([]byte, bool, error) {
	v, closer, e := b.db.Get([]byte(key))
	if e == pebble.ErrNotFound {
		return nil, false, nil
	}
	if e != nil {
		return nil, false, e
	}
	defer closer.Close()

	// the slice is only valid until the closer is closed
	return append([]byte{}, v...), true, nil
}

func (b *pebbleBackend) set(key string, value []byte) error {
	return b.db.Set([]byte(key), value, pebble.Sync)
}

func (b *pebbleBackend) del(key string) error {
	return b.db.Delete([]byte(key), pebble.Sync)
}

func (b *pebbleBackend) close() error {
	return b.db.Close()
}
