package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Config holds Cloudinary credentials (from env or config).
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Client uploads non-media files (PDF receipts) as raw assets.
type Client interface {
	UploadRaw(ctx context.Context, file io.Reader, folder, publicID string) (url string, err error)
}

// BuildRawURL returns the delivery URL of a raw asset.
func BuildRawURL(cloudName, publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/raw/upload/%s", cloudName, publicID)
}

var overwrite = true

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func (c *clientImpl) UploadRaw(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "raw",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	return BuildRawURL(c.cloudName, result.PublicID), nil
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		uploader:  up,
	}, nil
}

// ReceiptArchive stores rendered receipts under one folder.
type ReceiptArchive struct {
	client Client
	folder string
}

func NewReceiptArchive(client Client, folder string) *ReceiptArchive {
	return &ReceiptArchive{client: client, folder: folder}
}

func (a *ReceiptArchive) Archive(ctx context.Context, name string, data []byte) (string, error) {
	url, err := a.client.UploadRaw(ctx, bytes.NewReader(data), a.folder, name)
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", name, err)
	}
	return url, nil
}
