package azure

import (
	"bytes"
	"context"
	"sync"

	"go.uber.org/zap"
)

// MockBlobStorageClient is an in-memory implementation of BlobStorage for testing
type MockBlobStorageClient struct {
	Storage map[string][]byte
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMockBlobStorageClient creates a new mock blob storage client
func NewMockBlobStorageClient(logger *zap.Logger) *MockBlobStorageClient {
	return &MockBlobStorageClient{
		Storage: make(map[string][]byte),
		logger:  logger,
	}
}

// Upload stores a copy of data under blobName
func (c *MockBlobStorageClient) Upload(ctx context.Context, blobName, contentType string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Storage[blobName] = bytes.Clone(data)

	if c.logger != nil {
		c.logger.Info("mock: blob uploaded",
			zap.String("blob_name", blobName),
			zap.String("content_type", contentType),
			zap.Int("size_bytes", len(data)),
		)
	}
	return nil
}

// Download returns a copy of the stored blob or ErrBlobNotFound
func (c *MockBlobStorageClient) Download(ctx context.Context, blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage[blobName]
	if !exists {
		return nil, ErrBlobNotFound
	}
	return bytes.Clone(data), nil
}

// Count returns the number of stored blobs
func (c *MockBlobStorageClient) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Storage)
}

var _ BlobStorage = (*MockBlobStorageClient)(nil)
