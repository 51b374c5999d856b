// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

/*
Package blob defines the contract for path-addressed object storage and
its concrete implementations.

The store is treated as opaque: the platform assumes nothing beyond
path-addressed content plus a deterministic public-URL derivation rule.
Swap implementations by changing the concrete type injected at startup —
the MinIO implementation works with any S3-compatible provider.

# Trust Boundary

The bucket is a single shared namespace partitioned only by the tenant
path segment convention (restaurants/{tenantId}/...). There is no
server-side enforcement that a caller cannot write outside its own
prefix; tenant isolation is the responsibility of the asset layer, which
always derives paths from the verified tenant identity.
*/
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [ObjectStorage.Get] and [ObjectStorage.Remove]
// when no object exists at the given path.
var ErrNotFound = errors.New("blob: object not found")

// ObjectStorage is the interface for storing and retrieving objects.
type ObjectStorage interface {

	// Put writes data to the store under the given path with the declared
	// content type. Existing objects at the same path are overwritten —
	// callers that need immutability must generate fresh paths.
	Put(ctx context.Context, path string, data []byte, contentType string) error

	// Get downloads the full object at path along with its stored content
	// type. Returns [ErrNotFound] if the object does not exist.
	Get(ctx context.Context, path string) (data []byte, contentType string, err error)

	// Remove deletes the object at path.
	// Returns [ErrNotFound] if the object does not exist.
	Remove(ctx context.Context, path string) error

	// PublicURL constructs the browser-accessible URL for a given path.
	PublicURL(path string) string
}
