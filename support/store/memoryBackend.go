package store

type memoryBackend struct {
	m map[string][]byte
}

func makeMemoryBackend() *memoryBackend {
	return &memoryBackend{m: map[string][]byte{}}
}

func (b *memoryBackend) get(key string) ([]byte, bool, error) {
	v, ok := b.m[key]
	return v, ok, nil
}

func (b *memoryBackend) set(key string, value []byte) error {
	b.m[key] = append([]byte{}, value...)
	return nil
}

func (b *memoryBackend) del(key string) error {
	delete(b.m, key)
	return nil
}

func (b *memoryBackend) close() error {
	return nil
}
