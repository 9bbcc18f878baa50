package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrSlotEmpty is returned by Slot.Load when nothing was ever saved under the key
var ErrSlotEmpty = errors.New("history slot is empty")

// ErrSlotCorrupt is returned by Slot.Load when stored bytes cannot be decoded
var ErrSlotCorrupt = errors.New("history slot is corrupt")

// Slot is a named persistence cell holding one serialized history
type Slot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// MemorySlot keeps slots in process memory
type MemorySlot struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemorySlot creates an empty in-memory slot store
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{slots: make(map[string][]byte)}
}

// Load returns a copy of the stored bytes
func (m *MemorySlot) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[key]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return bytes.Clone(data), nil
}

// Save replaces the slot content
func (m *MemorySlot) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[key] = bytes.Clone(data)
	return nil
}

// Cipher encrypts slot payloads at rest
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// EncryptedSlot encrypts everything it saves into the wrapped slot
type EncryptedSlot struct {
	next   Slot
	cipher Cipher
}

// NewEncryptedSlot wraps next with cipher
func NewEncryptedSlot(next Slot, cipher Cipher) *EncryptedSlot {
	return &EncryptedSlot{next: next, cipher: cipher}
}

// Load reads and decrypts. Content that does not decrypt, such as plaintext
// written before encryption was enabled or under another key, is ErrSlotCorrupt.
func (e *EncryptedSlot) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := e.next.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	plaintext, err := e.cipher.Decrypt(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decrypt: %w", ErrSlotCorrupt, err)
	}
	return []byte(plaintext), nil
}

// Save encrypts and writes
func (e *EncryptedSlot) Save(ctx context.Context, key string, data []byte) error {
	ciphertext, err := e.cipher.Encrypt(string(data))
	if err != nil {
		return fmt.Errorf("failed to encrypt history slot: %w", err)
	}
	return e.next.Save(ctx, key, []byte(ciphertext))
}
