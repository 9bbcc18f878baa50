package azure

import (
	"context"
	"errors"
	"path"

	"github.com/vcscsvcscs/doctorai/apps/backend/internal/history"
)

const historyPrefix = "history"

// BlobSlot keeps each history slot as a JSON blob under history/
type BlobSlot struct {
	storage BlobStorage
}

// NewBlobSlot creates a history slot backend on top of blob storage
func NewBlobSlot(storage BlobStorage) *BlobSlot {
	return &BlobSlot{storage: storage}
}

// BlobName maps a slot key to its blob name
func BlobName(key string) string {
	return path.Join(historyPrefix, key) + ".json"
}

func (s *BlobSlot) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.storage.Download(ctx, BlobName(key))
	if errors.Is(err, ErrBlobNotFound) {
		return nil, history.ErrSlotEmpty
	}
	return data, err
}

func (s *BlobSlot) Save(ctx context.Context, key string, data []byte) error {
	return s.storage.Upload(ctx, BlobName(key), "application/json", data)
}
