package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// EntryTag distinguishes files from folders in a listing.
type EntryTag string

const (
	TagFile   EntryTag = "file"
	TagFolder EntryTag = "folder"
)

// Entry is one item of a remote folder listing.
type Entry struct {
	Tag            EntryTag
	ID             string
	Path           string
	Name           string
	Size           int64
	ServerModified time.Time
}

// ListResult is one page of a cursor-paginated listing.
type ListResult struct {
	Entries []Entry
	Cursor  string
	HasMore bool
}

// Client defines the remote operations the sync pipeline needs.
type Client interface {
	// ListFolder returns the first page of a folder listing.
	ListFolder(ctx context.Context, path string, recursive bool) (*ListResult, error)
	// ListFolderContinue returns the page following cursor.
	ListFolderContinue(ctx context.Context, cursor string) (*ListResult, error)
	// CreateSharedLink returns a public URL for the file at path.
	// It returns a *LinkExistsError when the provider already has a link and
	// an error wrapping ErrUnauthorized when the credential is rejected.
	CreateSharedLink(ctx context.Context, path string) (string, error)
}

// ErrUnauthorized reports an expired or invalid credential. It is never retryable.
var ErrUnauthorized = errors.New("remote credential rejected")

// LinkExistsError reports that a share link already exists for a path.
type LinkExistsError struct {
	Path string
	URL  string
}

func (e *LinkExistsError) Error() string {
	return fmt.Sprintf("shared link already exists for %s", e.Path)
}

// Factory builds a Client for a credential. An empty credential selects the
// configured default.
type Factory func(credential string) (Client, error)

// NewFactory returns the Factory for the configured provider.
func NewFactory(cfg Config) Factory {
	switch cfg.Provider {
	case ProviderS3:
		return func(string) (Client, error) {
			return NewS3Client(cfg)
		}
	default:
		return func(credential string) (Client, error) {
			if credential == "" {
				credential = cfg.Dropbox.Token
			}
			return NewDropboxClient(credential, cfg.Dropbox)
		}
	}
}

// newTransport builds an HTTP transport with strict connection timeouts.
func newTransport(timeoutSeconds int) *http.Transport {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	timeout := time.Duration(timeoutSeconds) * time.Second

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
}
