// Package storage provides an abstraction over the remote file provider the
// catalog images live in.
//
// The sync pipeline needs three remote operations: a cursor-paginated folder
// listing, its continuation, and share link creation. Client captures exactly
// those so the pipeline can be tested against core/storage/mocks.
//
// # Providers
//
//   - Dropbox: files/list_folder and sharing/create_shared_link_with_settings
//     through the Dropbox SDK. Authentication failures map to ErrUnauthorized and
//     "already exists" responses to *LinkExistsError carrying the existing URL.
//   - S3: any S3-compatible bucket through the MinIO client. Object keys act as
//     remote ids; share links are permanent URLs built from PublicBaseURL.
//
// # Usage
//
//	factory := storage.NewFactory(cfg.Storage)
//	client, err := factory(token)
//	page, err := client.ListFolder(ctx, "/Products", true)
package storage
