package graph

import (
	"bytes"
	"context"
	"sync"
)

// Compile-time check that MemoryBackend implements Backend.
var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps documents in process memory.
// Thread-safe. Stored bytes are copied on the way in and out.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[Kind]map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	docs := make(map[Kind]map[string][]byte, len(Kinds()))
	for _, k := range Kinds() {
		docs[k] = make(map[string][]byte)
	}
	return &MemoryBackend{docs: docs}
}

func (m *MemoryBackend) bucket(kind Kind) (map[string][]byte, error) {
	b, ok := m.docs[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	return b, nil
}

func (m *MemoryBackend) Get(_ context.Context, kind Kind, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, err := m.bucket(kind)
	if err != nil {
		return nil, err
	}
	data, ok := b[id]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (m *MemoryBackend) Insert(_ context.Context, kind Kind, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(kind)
	if err != nil {
		return err
	}
	if _, exists := b[id]; exists {
		return ErrAlreadyExists
	}
	b[id] = bytes.Clone(data)
	return nil
}

func (m *MemoryBackend) Replace(_ context.Context, kind Kind, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(kind)
	if err != nil {
		return err
	}
	if _, exists := b[id]; !exists {
		return ErrNotFound
	}
	b[id] = bytes.Clone(data)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, kind Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(kind)
	if err != nil {
		return err
	}
	if _, exists := b[id]; !exists {
		return ErrNotFound
	}
	delete(b, id)
	return nil
}

func (m *MemoryBackend) List(_ context.Context, kind Kind) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, err := m.bucket(kind)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(b))
	for _, data := range b {
		out = append(out, bytes.Clone(data))
	}
	return out, nil
}
