package azure

import (
	"context"
)

// BlobStorage defines the interface for blob storage operations
// This interface allows for easier testing with mock implementations
type BlobStorage interface {
	Upload(ctx context.Context, blobName, contentType string, data []byte) error
	Download(ctx context.Context, blobName string) ([]byte, error)
}

// Ensure BlobStorageClient implements BlobStorage interface
var _ BlobStorage = (*BlobStorageClient)(nil)
