// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package asset

import (
	"context"
	"errors"
	"fmt"

	"github.com/minhdao/restora/internal/platform/apperr"
	"github.com/minhdao/restora/pkg/slice"
)

// Orchestrator reconciles upload results into entity fields.
//
// It owns the slot-versus-collection semantics: single-value fields
// (logo, cover, photo) accept exactly one file and replace what they
// hold; multi-value fields (gallery, menu, certificates) only ever
// append, and removal of one member is a separate explicit operation.
type Orchestrator struct {
	assets *Service
}

// NewOrchestrator wires the orchestrator onto the asset service.
func NewOrchestrator(assets *Service) *Orchestrator {
	return &Orchestrator{assets: assets}
}

/*
SetSlot stores one file into a single-value field.

An empty slot gets a plain upload; an occupied slot gets a delete-first
replace. The returned slot is always a terminal state: occupied with the
new reference on success, unchanged on a failure that left storage
intact, and empty when the replace deleted the old object but could not
store the new one (the error then wraps [ErrSlotVacated] — callers must
persist the empty slot and re-prompt for a file).

Returns:
  - Slot: the field's new committed state.
  - error: nil on success; otherwise the upload or replace failure.
*/
func (orchestrator *Orchestrator) SetSlot(ctx context.Context, tenantID string, category Category, current Slot, file FileUpload) (Slot, error) {
	if !category.IsSlot() {
		return current, apperr.ValidationError(fmt.Sprintf("%s is not a single-value field", category))
	}

	if current.IsEmpty() {
		refs, err := orchestrator.assets.Upload(ctx, tenantID, category, []FileUpload{file})
		if err != nil {
			return EmptySlot(), err
		}
		return OccupiedSlot(refs[0]), nil
	}

	ref, err := orchestrator.assets.Replace(ctx, tenantID, category, current.URL(), file)
	if err != nil {
		if errors.Is(err, ErrSlotVacated) {
			// The old object is gone; keeping the stale URL would serve 404s.
			return EmptySlot(), err
		}
		return current, err
	}

	return OccupiedSlot(ref), nil
}

// ClearSlot deletes the object behind an occupied slot and vacates it.
// Clearing an already-empty slot is a no-op.
func (orchestrator *Orchestrator) ClearSlot(ctx context.Context, current Slot) (Slot, error) {
	if current.IsEmpty() {
		return current, nil
	}

	if err := orchestrator.assets.Delete(ctx, current.URL()); err != nil {
		return current, err
	}

	return EmptySlot(), nil
}

/*
AppendToCollection uploads a batch of files and appends the resulting
references to a multi-value field, preserving submission order.

New uploads never displace existing members. On a policy rejection the
collection is returned unchanged; on a mid-batch failure the collection
gains only the files that did reach storage, and the
[*PartialBatchError] tells the caller exactly which ones failed.

Returns:
  - Collection: the field's new committed state.
  - error: nil, VALIDATION_ERROR, or a [*PartialBatchError].
*/
func (orchestrator *Orchestrator) AppendToCollection(ctx context.Context, tenantID string, category Category, current Collection, files []FileUpload) (Collection, error) {
	if category.IsSlot() {
		return current, apperr.ValidationError(fmt.Sprintf("%s is not a collection field", category))
	}

	refs, err := orchestrator.assets.Upload(ctx, tenantID, category, files)
	if err != nil {
		var partial *PartialBatchError
		if errors.As(err, &partial) {
			return append(current, partial.Succeeded...), err
		}
		return current, err
	}

	return append(current, refs...), nil
}

/*
RemoveFromCollection deletes one member's object and filters its
reference out of the collection, keeping the order of the rest.

When the object is already gone from storage the reference is still
filtered out — the field must not keep serving a dead URL — and the
NOT_FOUND error is reported alongside the updated collection.

Returns:
  - Collection: the field's new committed state.
  - error: nil, INVALID_REFERENCE, NOT_FOUND, or TRANSIENT_IO.
*/
func (orchestrator *Orchestrator) RemoveFromCollection(ctx context.Context, current Collection, publicURL string) (Collection, error) {
	err := orchestrator.assets.Delete(ctx, publicURL)
	if err != nil {
		appErr := apperr.As(err)
		if appErr == nil || appErr.Code != "NOT_FOUND" {
			return current, err
		}
	}

	filtered := Collection(slice.Filter([]Reference(current), func(ref Reference) bool {
		return ref.PublicURL != publicURL
	}))

	return filtered, err
}
