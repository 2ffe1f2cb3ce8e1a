package studio

import "sync"

// busySet tracks generation targets in flight. It only guards calls made
// through the same Service.
type busySet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func (b *busySet) acquire(key string) (release func(), ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.keys == nil {
		b.keys = make(map[string]struct{})
	}
	if _, taken := b.keys[key]; taken {
		return nil, false
	}
	b.keys[key] = struct{}{}
	return func() {
		b.mu.Lock()
		delete(b.keys, key)
		b.mu.Unlock()
	}, true
}

