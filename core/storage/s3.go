package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// authErrorCodes are S3 error codes that mean the credential itself is unusable.
var authErrorCodes = map[string]struct{}{
	"AccessDenied":          {},
	"InvalidAccessKeyId":    {},
	"SignatureDoesNotMatch": {},
	"ExpiredToken":          {},
	"InvalidToken":          {},
}

type s3Client struct {
	client *minio.Client
	cfg    Config
}

// s3Cursor is the opaque continuation state handed back to callers.
type s3Cursor struct {
	Prefix    string `json:"p"`
	Recursive bool   `json:"r"`
	After     string `json:"a"`
}

// NewS3Client creates a Client backed by an S3-compatible bucket (AWS S3, MinIO).
// Share links are built from cfg.PublicBaseURL, which must be set.
func NewS3Client(cfg Config) (Client, error) {
	if cfg.PublicBaseURL == "" {
		return nil, ErrNoPublicBaseURL
	}

	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(cfg.TimeoutSeconds),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}

	return &s3Client{client: minioClient, cfg: cfg}, nil
}

func (c *s3Client) ListFolder(ctx context.Context, folder string, recursive bool) (*ListResult, error) {
	prefix := strings.Trim(folder, "/")
	if prefix != "" {
		prefix += "/"
	}
	return c.listPage(ctx, s3Cursor{Prefix: prefix, Recursive: recursive})
}

func (c *s3Client) ListFolderContinue(ctx context.Context, cursor string) (*ListResult, error) {
	cur, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	return c.listPage(ctx, cur)
}

// CreateSharedLink confirms the object exists and returns its public URL.
// The URL does not expire.
func (c *s3Client) CreateSharedLink(ctx context.Context, objectPath string) (string, error) {
	key := strings.TrimPrefix(objectPath, "/")

	if _, err := c.client.StatObject(ctx, c.cfg.Bucket, key, minio.StatObjectOptions{}); err != nil {
		return "", classifyS3Error(fmt.Errorf("stat %q: %w", key, err))
	}
	return publicObjectURL(c.cfg.PublicBaseURL, key), nil
}

// listPage reads one page from the listing channel. The channel itself pages
// through the bucket; reading stops after PageSize+1 objects so the extra one
// tells whether another page exists.
func (c *s3Client) listPage(ctx context.Context, cur s3Cursor) (*ListResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := minio.ListObjectsOptions{
		Prefix:     cur.Prefix,
		Recursive:  cur.Recursive,
		StartAfter: cur.After,
	}

	res := &ListResult{}
	for obj := range c.client.ListObjects(ctx, c.cfg.Bucket, opts) {
		if obj.Err != nil {
			return nil, classifyS3Error(fmt.Errorf("list %q: %w", cur.Prefix, obj.Err))
		}
		if len(res.Entries) == c.cfg.PageSize {
			res.HasMore = true
			break
		}
		res.Entries = append(res.Entries, objectToEntry(obj))
		cur.After = obj.Key
	}

	encoded, err := encodeCursor(cur)
	if err != nil {
		return nil, err
	}
	res.Cursor = encoded
	return res, nil
}

func objectToEntry(obj minio.ObjectInfo) Entry {
	if strings.HasSuffix(obj.Key, "/") {
		return Entry{
			Tag:  TagFolder,
			ID:   obj.Key,
			Path: "/" + strings.TrimSuffix(obj.Key, "/"),
			Name: path.Base(strings.TrimSuffix(obj.Key, "/")),
		}
	}
	return Entry{
		Tag:            TagFile,
		ID:             obj.Key,
		Path:           "/" + obj.Key,
		Name:           path.Base(obj.Key),
		Size:           obj.Size,
		ServerModified: obj.LastModified,
	}
}

func publicObjectURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}

func encodeCursor(cur s3Cursor) (string, error) {
	raw, err := json.Marshal(cur)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(cursor string) (s3Cursor, error) {
	var cur s3Cursor
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return cur, fmt.Errorf("invalid cursor: %w", err)
	}
	if err := json.Unmarshal(raw, &cur); err != nil {
		return cur, fmt.Errorf("invalid cursor: %w", err)
	}
	return cur, nil
}

func classifyS3Error(err error) error {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return err
	}
	if _, ok := authErrorCodes[resp.Code]; ok {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return err
}
