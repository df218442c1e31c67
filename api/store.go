package api

// Store is the persistent key-value state shared by the bots of a single process.
// Values are JSON encoded; Get and HGet return false when the key does not exist.
// There is no locking, a store has a single writer
type Store interface {
	Get(key string, out interface{}) (bool, error)
	Set(key string, value interface{}) error
	Delete(key string) error

	// the H* variants address a named sub-collection, e.g. HSet("trades", "BTCUSD", trades)
	HGet(name string, field string, out interface{}) (bool, error)
	HSet(name string, field string, value interface{}) error
	HDel(name string, field string) error

	Close() error
}
