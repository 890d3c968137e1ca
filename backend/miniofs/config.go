// Package miniofs adapts a MinIO/S3-compatible bucket. Objects live under
// an optional key prefix, directories are zero-byte marker objects, and
// visibility is stored as user metadata on each object.
package miniofs

import (
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Config holds bucket connection settings.
type Config struct {
	// Endpoint is the server address (e.g. "localhost:9000").
	Endpoint string

	// Bucket is the bucket name.
	Bucket string

	// AccessKey is the access key ID for authentication.
	AccessKey string

	// SecretKey is the secret access key for authentication.
	SecretKey string

	// UseSSL enables HTTPS connections.
	UseSSL bool

	// Prefix is an optional key prefix for namespacing within the bucket.
	Prefix string

	// Client is an optional pre-configured client. When provided,
	// Endpoint/AccessKey/SecretKey are ignored.
	Client *minio.Client

	// MaxDeleteConcurrency bounds parallel object removals during Clear.
	// Default: 10.
	MaxDeleteConcurrency int
}

// validate checks the configuration. Either Client or the full set of
// connection fields must be provided; Bucket is always required.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.Client != nil {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}
	return nil
}
