package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/auth"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/sharing"
)

const sharedLinkAlreadyExistsTag = "shared_link_already_exists"

type dropboxClient struct {
	files   files.Client
	sharing sharing.Client
}

// NewDropboxClient creates a Client backed by the Dropbox API.
func NewDropboxClient(token string, cfg DropboxConfig) (Client, error) {
	if token == "" {
		return nil, fmt.Errorf("dropbox access token is required: %w", ErrUnauthorized)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}

	dbxCfg := dropbox.Config{
		Token:    token,
		LogLevel: dropbox.LogOff,
		Client: &http.Client{
			Transport: newTransport(timeout),
			Timeout:   time.Duration(timeout) * time.Second,
		},
	}

	return &dropboxClient{
		files:   files.New(dbxCfg),
		sharing: sharing.New(dbxCfg),
	}, nil
}

func (c *dropboxClient) ListFolder(ctx context.Context, path string, recursive bool) (*ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The API addresses the root folder as the empty string.
	if path == "/" {
		path = ""
	}
	arg := files.NewListFolderArg(path)
	arg.Recursive = recursive

	res, err := c.files.ListFolder(arg)
	if err != nil {
		return nil, classifyDropboxError(fmt.Errorf("list folder %q: %w", path, err))
	}
	return convertListing(res), nil
}

func (c *dropboxClient) ListFolderContinue(ctx context.Context, cursor string) (*ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := c.files.ListFolderContinue(files.NewListFolderContinueArg(cursor))
	if err != nil {
		return nil, classifyDropboxError(fmt.Errorf("list folder continue: %w", err))
	}
	return convertListing(res), nil
}

func (c *dropboxClient) CreateSharedLink(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := c.sharing.CreateSharedLinkWithSettings(sharing.NewCreateSharedLinkWithSettingsArg(path))
	if err == nil {
		return sharedLinkURL(res), nil
	}

	if existing, ok := existingLinkURL(err); ok {
		if existing == "" {
			// Older links come back without metadata; look the link up instead.
			existing, err = c.lookupLink(path)
			if err != nil {
				return "", err
			}
		}
		return "", &LinkExistsError{Path: path, URL: existing}
	}

	return "", classifyDropboxError(fmt.Errorf("create shared link %q: %w", path, err))
}

func (c *dropboxClient) lookupLink(path string) (string, error) {
	arg := sharing.NewListSharedLinksArg()
	arg.Path = path
	arg.DirectOnly = true

	res, err := c.sharing.ListSharedLinks(arg)
	if err != nil {
		return "", classifyDropboxError(fmt.Errorf("list shared links %q: %w", path, err))
	}
	for _, link := range res.Links {
		if url := sharedLinkURL(link); url != "" {
			return url, nil
		}
	}
	return "", fmt.Errorf("shared link for %q reported as existing but not found", path)
}

func convertListing(res *files.ListFolderResult) *ListResult {
	out := &ListResult{
		Entries: make([]Entry, 0, len(res.Entries)),
		Cursor:  res.Cursor,
		HasMore: res.HasMore,
	}
	for _, e := range res.Entries {
		switch m := e.(type) {
		case *files.FileMetadata:
			out.Entries = append(out.Entries, Entry{
				Tag:            TagFile,
				ID:             m.Id,
				Path:           m.PathDisplay,
				Name:           m.Name,
				Size:           int64(m.Size),
				ServerModified: m.ServerModified,
			})
		case *files.FolderMetadata:
			out.Entries = append(out.Entries, Entry{
				Tag:  TagFolder,
				ID:   m.Id,
				Path: m.PathDisplay,
				Name: m.Name,
			})
		}
	}
	return out
}

func sharedLinkURL(meta sharing.IsSharedLinkMetadata) string {
	switch m := meta.(type) {
	case *sharing.FileLinkMetadata:
		return m.Url
	case *sharing.FolderLinkMetadata:
		return m.Url
	case *sharing.SharedLinkMetadata:
		return m.Url
	}
	return ""
}

// existingLinkURL reports whether err is the "already exists" endpoint error and,
// when the payload carries it, the existing URL.
func existingLinkURL(err error) (string, bool) {
	var apiErr sharing.CreateSharedLinkWithSettingsAPIError
	var apiErrPtr *sharing.CreateSharedLinkWithSettingsAPIError

	var endpoint *sharing.CreateSharedLinkWithSettingsError
	switch {
	case errors.As(err, &apiErr):
		endpoint = apiErr.EndpointError
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		endpoint = apiErrPtr.EndpointError
	}
	if endpoint == nil || endpoint.Tag != sharedLinkAlreadyExistsTag {
		return "", false
	}
	if endpoint.SharedLinkAlreadyExists == nil || endpoint.SharedLinkAlreadyExists.Metadata == nil {
		return "", true
	}
	return sharedLinkURL(endpoint.SharedLinkAlreadyExists.Metadata), true
}

// classifyDropboxError maps authentication failures onto ErrUnauthorized.
func classifyDropboxError(err error) error {
	var authErr auth.AuthAPIError
	var authErrPtr *auth.AuthAPIError
	if errors.As(err, &authErr) || errors.As(err, &authErrPtr) {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return err
}
