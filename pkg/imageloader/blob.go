package imageloader

import (
	"sync"

	"github.com/google/uuid"
)

// Blobs holds fetched image bytes behind blob: URLs.
type Blobs struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewBlobs() *Blobs {
	return &Blobs{items: map[string][]byte{}}
}

// Put stores data and returns its URL.
func (b *Blobs) Put(data []byte) string {
	url := "blob:" + uuid.NewString()
	b.mu.Lock()
	b.items[url] = data
	b.mu.Unlock()
	return url
}

func (b *Blobs) Get(url string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.items[url]
	return data, ok
}

// Revoke releases url.
func (b *Blobs) Revoke(url string) {
	b.mu.Lock()
	delete(b.items, url)
	b.mu.Unlock()
}

func (b *Blobs) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}
