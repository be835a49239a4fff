package storage

import (
	"context"
	"io"
)

// Storage defines the minimal interface for report-photo storage backends.
// Intentionally simple: Save a file, Delete a file, get its URL.
type Storage interface {
	// Save stores a file at the given key and returns an error on failure.
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a file by its key. Returns nil if file doesn't exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a file given its key.
	GetURL(key string) string
}

// Config holds connection settings for the S3 backend.
type Config struct {
	Region    string
	Endpoint  string // custom endpoint for MinIO/R2, empty for AWS
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // public base URL override, empty to derive from bucket
}
