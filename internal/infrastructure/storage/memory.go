package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	appshared "github.com/erp/distribution/internal/application/shared"
)

// Object is a stored blob with its content type
type Object struct {
	ContentType string
	Data        []byte
}

// MemoryObjectStore keeps objects in memory. It backs development
// setups without S3 and the handler tests.
type MemoryObjectStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

// NewMemoryObjectStore creates an empty store; download URLs are built on baseURL
func NewMemoryObjectStore(baseURL string) *MemoryObjectStore {
	if baseURL == "" {
		baseURL = "http://localhost:8080/files"
	}
	return &MemoryObjectStore{objects: make(map[string]Object), baseURL: baseURL}
}

// Put stores the whole body under key
func (m *MemoryObjectStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if key == "" {
		return ErrEmptyKey
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	m.mu.Lock()
	m.objects[key] = Object{ContentType: contentType, Data: buf.Bytes()}
	m.mu.Unlock()
	return nil
}

// PresignGet returns baseURL/key; the key must exist
func (m *MemoryObjectStore) PresignGet(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return m.baseURL + "/" + (&url.URL{Path: key}).EscapedPath(), nil
}

// Get returns a stored object
func (m *MemoryObjectStore) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o, ok
}

var _ appshared.ObjectStore = (*MemoryObjectStore)(nil)
