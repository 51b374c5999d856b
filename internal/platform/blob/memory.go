// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package blob

import (
	"context"
	"errors"
	"sync"
)

// ErrSyntheticPutFailure is returned by [MemoryStorage.Put] when the
// FailPutAfter threshold has been crossed.
var ErrSyntheticPutFailure = errors.New("blob: synthetic put failure")

// MemoryStorage is an in-memory [ObjectStorage] used by unit tests and
// local development without a bucket.
//
// # Concurrency
//
// Safe for concurrent use; a single mutex guards the object map.
type MemoryStorage struct {
	mu           sync.Mutex
	objects      map[string]memoryObject
	publicPrefix string

	// PutCalls counts successful and attempted writes, letting tests
	// assert that batch validation rejected a request before any I/O.
	PutCalls int

	// RemoveCalls counts removal attempts, letting tests assert that a
	// rejected URL never reached a remove call.
	RemoveCalls int

	// FailPutAfter, when > 0, makes every Put past the Nth call fail with
	// a synthetic error. Used to exercise partial-batch failure handling.
	FailPutAfter int
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryStorage creates an empty in-memory store whose public URLs are
// rooted at the given prefix (no trailing slash).
func NewMemoryStorage(publicPrefix string) *MemoryStorage {
	return &MemoryStorage{
		objects:      make(map[string]memoryObject),
		publicPrefix: publicPrefix,
	}
}

// Put implements [ObjectStorage].
func (storage *MemoryStorage) Put(_ context.Context, path string, data []byte, contentType string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	storage.PutCalls++
	if storage.FailPutAfter > 0 && storage.PutCalls > storage.FailPutAfter {
		return ErrSyntheticPutFailure
	}

	copied := make([]byte, len(data))
	copy(copied, data)

	storage.objects[path] = memoryObject{data: copied, contentType: contentType}
	return nil
}

// Get implements [ObjectStorage].
func (storage *MemoryStorage) Get(_ context.Context, path string) ([]byte, string, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	object, found := storage.objects[path]
	if !found {
		return nil, "", ErrNotFound
	}

	copied := make([]byte, len(object.data))
	copy(copied, object.data)
	return copied, object.contentType, nil
}

// Remove implements [ObjectStorage].
func (storage *MemoryStorage) Remove(_ context.Context, path string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	storage.RemoveCalls++
	if _, found := storage.objects[path]; !found {
		return ErrNotFound
	}

	delete(storage.objects, path)
	return nil
}

// PublicURL implements [ObjectStorage].
func (storage *MemoryStorage) PublicURL(path string) string {
	return storage.publicPrefix + "/" + path
}

// Len returns the number of stored objects.
func (storage *MemoryStorage) Len() int {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	return len(storage.objects)
}

// Has reports whether an object exists at path.
func (storage *MemoryStorage) Has(path string) bool {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	_, found := storage.objects[path]
	return found
}

// ContentType returns the stored content type for path, or "" if absent.
func (storage *MemoryStorage) ContentType(path string) string {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	return storage.objects[path].contentType
}
