package storage

import (
	"errors"
	"fmt"
)

// Config holds configuration for the remote file provider.
type Config struct {
	// Provider selects the remote implementation (dropbox, s3).
	Provider string `mapstructure:"provider" default:"dropbox"`
	// Dropbox holds the Dropbox API settings.
	Dropbox DropboxConfig `mapstructure:"dropbox"`

	// Endpoint is the URL of the S3-compatible service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the bucket holding the product images.
	Bucket string `mapstructure:"bucket" default:"assets"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// PublicBaseURL is the public prefix share links are built from. Links are
	// stored permanently, so it is required for the s3 provider.
	PublicBaseURL string `mapstructure:"public_base_url" default:""`
	// PageSize is the number of objects returned per listing page.
	PageSize int `mapstructure:"page_size" default:"1000"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// DropboxConfig holds Dropbox API settings.
type DropboxConfig struct {
	// Token is the default access token, used when a caller supplies none.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds every Dropbox API request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}

const (
	ProviderDropbox = "dropbox"
	ProviderS3      = "s3"
)

// ErrNoPublicBaseURL is returned when the s3 provider has no public base URL.
var ErrNoPublicBaseURL = errors.New("s3 provider requires public_base_url")

// Validate checks the provider selection and its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderDropbox:
		return nil
	case ProviderS3:
		if c.PublicBaseURL == "" {
			return ErrNoPublicBaseURL
		}
		return nil
	default:
		return fmt.Errorf("unknown storage provider %q", c.Provider)
	}
}
