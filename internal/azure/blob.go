package azure

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

// BlobStorageClient wraps Azure Blob Storage SDK for JSON documents
type BlobStorageClient struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobStorageClient creates a new Azure Blob Storage client
func NewBlobStorageClient(accountName, accountKey, containerName string, logger *zap.Logger) (*BlobStorageClient, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStorageClient{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Upload writes data as a block blob, replacing any previous content
func (c *BlobStorageClient) Upload(ctx context.Context, blobName, contentType string, data []byte) error {
	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr(contentType),
		},
	})
	if err != nil {
		c.logger.Error("failed to upload blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload blob: %w", err)
	}

	c.logger.Debug("blob uploaded",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)
	return nil
}

// Download reads a whole blob. A missing blob or container yields ErrBlobNotFound.
func (c *BlobStorageClient) Download(ctx context.Context, blobName string) ([]byte, error) {
	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrBlobNotFound
		}
		c.logger.Error("failed to download blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob data: %w", err)
	}

	return data, nil
}

// EnsureContainer creates the container unless it already exists
func (c *BlobStorageClient) EnsureContainer(ctx context.Context) error {
	_, err := c.client.CreateContainer(ctx, c.containerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("failed to create container %s: %w", c.containerName, err)
	}
	return nil
}

// ErrBlobNotFound is returned when the requested blob does not exist
var ErrBlobNotFound = errors.New("blob not found")

func toPtr(s string) *string {
	return &s
}
