// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package asset

import (
	"path"
	"strings"

	"github.com/minhdao/restora/internal/platform/apperr"
	"github.com/minhdao/restora/pkg/uuid"
)

// pathRoot is the first segment of every managed storage key.
const pathRoot = "restaurants"

/*
BuildPath generates a collision-free, tenant-prefixed storage key:

	restaurants/{tenantId}/{category}/{uuid}.{ext}

The random segment is a v4 UUID, so two calls never produce the same key.
The extension is taken from the original filename, lower-cased, without
the leading dot; a filename with no extension yields a key with no
extension either.

The tenant id is embedded verbatim — never percent-decoded or otherwise
transformed. Callers must pass a verified tenant identity, not raw
request input.
*/
func BuildPath(tenantID string, category Category, originalFilename string) string {
	var builder strings.Builder
	builder.WriteString(pathRoot)
	builder.WriteByte('/')
	builder.WriteString(tenantID)
	builder.WriteByte('/')
	builder.WriteString(string(category))
	builder.WriteByte('/')
	builder.WriteString(uuid.Random())

	if ext := extensionOf(originalFilename); ext != "" {
		builder.WriteByte('.')
		builder.WriteString(ext)
	}

	return builder.String()
}

// extensionOf returns the lower-cased filename suffix without the dot.
func extensionOf(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	return strings.ToLower(ext)
}

/*
ParsePublicURL validates a public asset URL against the managed bucket's
public-object prefix and extracts the storage key behind it.

This is the single place raw URLs are turned into storage paths; all
destructive operations go through it, so a URL pointing at a foreign
bucket or host can never reach a remove call. Downstream code works with
the returned key and never re-splits the URL.

Parameters:
  - publicPrefix: the bucket's public-URL prefix, without trailing slash.
  - publicURL: the candidate URL taken from an entity field or request.

Returns:
  - string: the storage key (e.g. "restaurants/t1/logo/abc.jpg").
  - error: an INVALID_REFERENCE [apperr.AppError] when the URL is outside
    the managed prefix or carries no key.
*/
func ParsePublicURL(publicPrefix, publicURL string) (string, error) {
	prefix := strings.TrimSuffix(publicPrefix, "/") + "/"

	if !strings.HasPrefix(publicURL, prefix) {
		return "", apperr.InvalidReference("URL does not reference managed storage")
	}

	key := strings.TrimPrefix(publicURL, prefix)
	if key == "" || strings.HasPrefix(key, "/") {
		return "", apperr.InvalidReference("URL carries no storage path")
	}

	return key, nil
}
