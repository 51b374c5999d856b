// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

/*
Package asset implements the tenant-scoped media lifecycle: batch upload,
replace, delete, and cross-tenant copy of files referenced by restaurant
rows.

Every object lives under a tenant-prefixed storage key of the form
restaurants/{tenantId}/{category}/{uuid}.{ext}. Keys are never reused:
replacing a file means deleting the old object and creating a new one at
a fresh key, so a public URL either serves the exact bytes uploaded under
it or nothing at all.

Architecture:

  - Category/Policy: per-field count and size limits, enforced before I/O.
  - Reference: a validated, immutable handle to one stored object.
  - Service: the storage workflows (upload, delete, replace, copy).
  - Orchestrator: reconciles upload results into entity fields
    (single-value slots vs. ordered collections).
*/
package asset

import (
	"errors"
	"fmt"
	"strings"
)

// # Categories

// Category names the entity field an asset belongs to. It is the third
// segment of the storage key.
type Category string

const (
	CategoryLogo         Category = "logo"
	CategoryCover        Category = "cover"
	CategoryPhoto        Category = "photo"
	CategoryGallery      Category = "gallery"
	CategoryMenu         Category = "menu"
	CategoryCertificates Category = "certificates"
)

// ParseCategory maps a raw request string onto a known [Category].
func ParseCategory(raw string) (Category, bool) {
	category := Category(strings.ToLower(raw))
	_, known := categoryPolicies[category]
	return category, known
}

// IsSlot reports whether the category is a single-value entity field.
// Non-slot categories are ordered collections.
func (category Category) IsSlot() bool {
	switch category {
	case CategoryLogo, CategoryCover, CategoryPhoto:
		return true
	default:
		return false
	}
}

func (category Category) String() string { return string(category) }

// # Policies

const (
	// MaxImageBytes is the size ceiling for any image upload.
	MaxImageBytes = 5 << 20 // 5 MiB

	// MaxDocumentBytes is the looser ceiling for PDF documents.
	MaxDocumentBytes = 20 << 20 // 20 MiB
)

// Policy bounds a single upload batch for one category.
type Policy struct {
	// MaxFiles caps how many files one batch may carry. For slot
	// categories this is always 1.
	MaxFiles int

	// AllowsDocuments permits application/pdf in addition to images.
	AllowsDocuments bool
}

// categoryPolicies is the per-field upload policy table. Counts follow
// the product limits surfaced in the owner dashboard.
var categoryPolicies = map[Category]Policy{
	CategoryLogo:         {MaxFiles: 1},
	CategoryCover:        {MaxFiles: 1},
	CategoryPhoto:        {MaxFiles: 1},
	CategoryGallery:      {MaxFiles: 10},
	CategoryMenu:         {MaxFiles: 5, AllowsDocuments: true},
	CategoryCertificates: {MaxFiles: 5, AllowsDocuments: true},
}

// PolicyFor returns the upload policy for a category.
func PolicyFor(category Category) (Policy, bool) {
	policy, known := categoryPolicies[category]
	return policy, known
}

// # Value Types

// FileUpload is one client-submitted file, fully read into memory so
// policy checks run before any storage I/O.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SizeBytes returns the payload size.
func (file FileUpload) SizeBytes() int64 { return int64(len(file.Data)) }

// Reference is a validated, immutable handle to one stored object.
//
// A Reference is created only by a successful upload or copy; its Path is
// never mutated in place. Replace is modeled as delete-old + create-new.
type Reference struct {
	TenantID    string   `json:"tenantId"`
	Category    Category `json:"category"`
	Path        string   `json:"path"`
	PublicURL   string   `json:"publicUrl"`
	ContentType string   `json:"contentType"`
	SizeBytes   int64    `json:"sizeBytes"`
}

// Slot is a single-value entity field holding at most one reference.
//
// Only terminal states are observable: a slot is either empty or
// occupied, never mid-transfer.
type Slot struct {
	ref *Reference
}

// EmptySlot returns the vacant slot value.
func EmptySlot() Slot { return Slot{} }

// OccupiedSlot returns a slot holding the given reference.
func OccupiedSlot(ref Reference) Slot { return Slot{ref: &ref} }

// IsEmpty reports whether the slot holds no reference.
func (slot Slot) IsEmpty() bool { return slot.ref == nil }

// Reference returns the held reference, if any.
func (slot Slot) Reference() (Reference, bool) {
	if slot.ref == nil {
		return Reference{}, false
	}
	return *slot.ref, true
}

// URL returns the held public URL, or "" for an empty slot.
func (slot Slot) URL() string {
	if slot.ref == nil {
		return ""
	}
	return slot.ref.PublicURL
}

// Collection is an ordered sequence of references for a multi-value
// field. Insertion order is meaningful: the first gallery image doubles
// as the card thumbnail.
type Collection []Reference

// URLs projects the collection onto its public URLs, preserving order.
func (collection Collection) URLs() []string {
	urls := make([]string, len(collection))
	for index, ref := range collection {
		urls[index] = ref.PublicURL
	}
	return urls
}

// # Batch Failure

// ErrSkippedAfterFailure marks batch items that were never attempted
// because an earlier write in the same batch failed.
var ErrSkippedAfterFailure = errors.New("asset: skipped after earlier upload failure")

// FailedUpload records one batch item that did not reach storage.
type FailedUpload struct {
	Filename string
	Err      error
}

// PartialBatchError reports a batch where some writes succeeded before
// one failed. Batch validation is all-or-nothing, but writes are not:
// objects persisted before the failure stay persisted, and the caller
// decides whether to retry just the failed subset.
type PartialBatchError struct {
	// Succeeded lists references created before the failure, in batch order.
	Succeeded []Reference
	// Failed lists the failing item first, then any skipped items.
	Failed []FailedUpload
}

// Error implements the error interface.
func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("asset: batch partially failed (%d succeeded, %d failed)",
		len(e.Succeeded), len(e.Failed))
}

// Unwrap exposes the first underlying storage error.
func (e *PartialBatchError) Unwrap() error {
	if len(e.Failed) == 0 {
		return nil
	}
	return e.Failed[0].Err
}
