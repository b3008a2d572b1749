// forum/slot.go
package forum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorruptSlot reports a storage slot whose contents are not a topic array.
var ErrCorruptSlot = errors.New("corrupt storage slot")

// Backend holds the single storage slot. Load returns nil, nil when the slot
// has never been written.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// decodeTopics parses a slot. An empty slot is an empty collection.
func decodeTopics(data []byte) ([]Topic, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Topic{}, nil
	}
	if data[0] != '[' {
		return nil, fmt.Errorf("%w: not an array", ErrCorruptSlot)
	}
	var topics []Topic
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSlot, err)
	}
	for i := range topics {
		if topics[i].Replies == nil {
			topics[i].Replies = []Reply{}
		}
	}
	return topics, nil
}

func encodeTopics(topics []Topic) ([]byte, error) {
	if topics == nil {
		topics = []Topic{}
	}
	data, err := json.Marshal(topics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode topics: %w", err)
	}
	return data, nil
}

// MemoryBackend keeps the slot in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return bytes.Clone(m.data), nil
}

func (m *MemoryBackend) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = bytes.Clone(data)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

// FileBackend keeps the slot in a single JSON file.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

func (f *FileBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return data, nil
}

// Save writes to a temp file in the same directory and renames it over the
// slot, so readers never observe a partial write.
func (f *FileBackend) Save(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }
