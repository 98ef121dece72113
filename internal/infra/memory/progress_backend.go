package memory

import (
	"context"
	"sync"
)

// ProgressBackend keeps progress documents in process memory.
type ProgressBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewProgressBackend() *ProgressBackend {
	return &ProgressBackend{docs: make(map[string][]byte)}
}

func (b *ProgressBackend) Read(_ context.Context, profileID, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	raw, ok := b.docs[docKey(profileID, key)]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

func (b *ProgressBackend) Write(_ context.Context, profileID, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	b.mu.Lock()
	b.docs[docKey(profileID, key)] = stored
	b.mu.Unlock()
	return nil
}

func docKey(profileID, key string) string {
	return profileID + "/" + key
}
