package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/JaimeStill/campus/pkg/lifecycle"
)

// publicReadACL requests anonymous blob reads, mirroring the S3 canned ACL.
const publicReadACL = "public-read"

type azureBackend struct {
	client    *azblob.Client
	container string
	public    bool
	logger    *slog.Logger
}

// newAzure authenticates with the connection string when present, otherwise
// with the default Azure credential chain against AccountURL.
func newAzure(cfg *Config, logger *slog.Logger) (*azureBackend, error) {
	var (
		client *azblob.Client
		err    error
	)

	if cfg.ConnectionString != "" {
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	} else {
		var cred azcore.TokenCredential
		cred, err = azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("create azure credential: %w", err)
		}
		client, err = azblob.NewClient(cfg.AccountURL, cred, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azureBackend{
		client:    client,
		container: cfg.Bucket,
		public:    cfg.ObjectACL == publicReadACL,
		logger:    logger.With("provider", ProviderAzure),
	}, nil
}

func (a *azureBackend) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() error {
		var opts *azblob.CreateContainerOptions
		if a.public {
			opts = &azblob.CreateContainerOptions{
				Access: to.Ptr(container.PublicAccessTypeBlob),
			}
		}

		_, err := a.client.CreateContainer(lc.Context(), a.container, opts)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("storage container initialization failed", "error", err)
			return fmt.Errorf("create container %s: %w", a.container, err)
		}

		a.logger.Info("storage container ready", "container", a.container)
		return nil
	})
	return nil
}

func (a *azureBackend) Put(ctx context.Context, key string, body io.Reader, _ int64, contentType string) error {
	opts := &azblob.UploadStreamOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{
			BlobContentType: to.Ptr(contentType),
		}
	}

	if _, err := a.client.UploadStream(ctx, a.container, key, body, opts); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}
	return nil
}

func (a *azureBackend) Get(ctx context.Context, key string) (*Object, error) {
	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	obj := &Object{Body: resp.Body}
	if resp.ContentType != nil {
		obj.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		obj.ContentLength = *resp.ContentLength
	}
	return obj, nil
}

func (a *azureBackend) BaseURL() string {
	return strings.TrimSuffix(a.client.URL(), "/") + "/" + a.container
}
