// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minhdao/restora/internal/core/asset"
	"github.com/minhdao/restora/internal/platform/apperr"
	"github.com/minhdao/restora/pkg/pointer"
	"github.com/minhdao/restora/pkg/slice"
	"github.com/minhdao/restora/pkg/slug"
	"github.com/minhdao/restora/pkg/uuid"
)

/*
UploadMedia stores submitted files into one media field of a restaurant.

Slot categories (logo, cover, photo) accept exactly one file and replace
the current object; collection categories append in submission order.
The entity row is updated to the field's new committed state even when
the storage workflow partially failed, so database URLs always point at
objects that exist:

  - A vacated slot (replace deleted the old object, upload failed) is
    persisted as empty and the error returned.
  - A partially-written batch persists only the URLs that reached
    storage; the [*asset.PartialBatchError] travels back to the handler.

Returns:
  - *Restaurant: The entity with the field's committed state.
  - error: Validation, partial-batch, or storage errors.
*/
func (service *Service) UploadMedia(context context.Context, restaurantID string, category asset.Category, files []asset.FileUpload) (*Restaurant, error) {
	r, err := service.repo.GetRestaurant(context, restaurantID)
	if err != nil {
		return nil, err
	}

	if category.IsSlot() {
		return service.uploadSlot(context, r, category, files)
	}
	return service.uploadCollection(context, r, category, files)
}

func (service *Service) uploadSlot(context context.Context, r *Restaurant, category asset.Category, files []asset.FileUpload) (*Restaurant, error) {
	if len(files) != 1 {
		return nil, apperr.ValidationError(fmt.Sprintf("%s accepts exactly one file", category))
	}

	current := asset.EmptySlot()
	if url := *slotURL(r, category); url != "" {
		current = asset.OccupiedSlot(asset.Reference{PublicURL: url})
	}

	updated, uploadErr := service.media.SetSlot(context, r.ID, category, current, files[0])
	if uploadErr != nil && !errors.Is(uploadErr, asset.ErrSlotVacated) {
		// Storage state unchanged, nothing to persist. A single-file
		// batch failure means nothing was written at all, so it maps to
		// a plain transient error rather than a partial result.
		var partial *asset.PartialBatchError
		if errors.As(uploadErr, &partial) && len(partial.Failed) > 0 {
			return nil, apperr.TransientIO("Upload failed", partial.Failed[0].Err)
		}
		return nil, uploadErr
	}

	*slotURL(r, category) = updated.URL()
	if err := service.persistMedia(context, r, category); err != nil {
		return nil, err
	}

	return r, uploadErr
}

func (service *Service) uploadCollection(context context.Context, r *Restaurant, category asset.Category, files []asset.FileUpload) (*Restaurant, error) {
	urls := collectionURLs(r, category)
	current := referencesFromURLs(*urls)

	updated, uploadErr := service.media.AppendToCollection(context, r.ID, category, current, files)
	if uploadErr != nil {
		var partial *asset.PartialBatchError
		if !errors.As(uploadErr, &partial) {
			// Policy rejection: nothing was written, nothing changes.
			return nil, uploadErr
		}
	}

	*urls = updated.URLs()
	if err := service.persistMedia(context, r, category); err != nil {
		return nil, err
	}

	return r, uploadErr
}

/*
DeleteMedia removes one stored object from a media field.

For a slot category the URL must match the field's current value; the
object is deleted and the slot persisted as empty. For a collection the
URL must be a member; it is deleted and filtered out, preserving the
order of the remaining entries. An object already missing from storage
still gets its URL dropped from the row — the field must not keep
serving a dead link — and the NOT_FOUND error is returned alongside.

Returns:
  - *Restaurant: The entity with the field's committed state.
  - error: Validation, reference, or storage errors.
*/
func (service *Service) DeleteMedia(context context.Context, restaurantID string, category asset.Category, publicURL string) (*Restaurant, error) {
	r, err := service.repo.GetRestaurant(context, restaurantID)
	if err != nil {
		return nil, err
	}

	if category.IsSlot() {
		return service.deleteSlot(context, r, category, publicURL)
	}
	return service.deleteFromCollection(context, r, category, publicURL)
}

func (service *Service) deleteSlot(context context.Context, r *Restaurant, category asset.Category, publicURL string) (*Restaurant, error) {
	url := slotURL(r, category)
	if *url == "" || *url != publicURL {
		return nil, apperr.NotFound("Asset")
	}

	updated, deleteErr := service.media.ClearSlot(context, asset.OccupiedSlot(asset.Reference{PublicURL: publicURL}))
	if deleteErr != nil {
		appErr := apperr.As(deleteErr)
		if appErr == nil || appErr.Code != "NOT_FOUND" {
			return nil, deleteErr
		}
		// Object already gone out-of-band; drop the dead URL anyway.
		updated = asset.EmptySlot()
	}

	*url = updated.URL()
	if err := service.persistMedia(context, r, category); err != nil {
		return nil, err
	}

	return r, deleteErr
}

func (service *Service) deleteFromCollection(context context.Context, r *Restaurant, category asset.Category, publicURL string) (*Restaurant, error) {
	urls := collectionURLs(r, category)
	if !slice.Contains(*urls, publicURL) {
		return nil, apperr.NotFound("Asset")
	}

	updated, deleteErr := service.media.RemoveFromCollection(context, referencesFromURLs(*urls), publicURL)
	if deleteErr != nil {
		appErr := apperr.As(deleteErr)
		if appErr == nil || appErr.Code != "NOT_FOUND" {
			return nil, deleteErr
		}
	}

	*urls = updated.URLs()
	if err := service.persistMedia(context, r, category); err != nil {
		return nil, err
	}

	return r, deleteErr
}

/*
DuplicateRestaurant clones a restaurant profile under a new owner,
copying every stored asset into the new restaurant's storage namespace.

Asset copying degrades gracefully: a source object that cannot be
downloaded is skipped (the clone keeps its other fields and simply
lacks that asset), matching the behavior of catalog duplication in the
owner dashboard. Source objects are never mutated or removed.

Returns:
  - *Restaurant: The newly created clone.
  - error: apperr.NotFound for the source, or storage/database errors.
*/
func (service *Service) DuplicateRestaurant(context context.Context, sourceID, newOwnerID, newName string) (*Restaurant, error) {
	source, err := service.repo.GetRestaurant(context, sourceID)
	if err != nil {
		return nil, err
	}

	if newName == "" {
		newName = source.Name
	}

	clone := &Restaurant{
		ID:           uuid.New(),
		OwnerID:      newOwnerID,
		Name:         newName,
		Description:  source.Description,
		CuisineTypes: orEmpty(source.CuisineTypes),
		Phone:        source.Phone,
		Address:      source.Address,
		City:         source.City,
		Location:     source.Location,
		Status:       StatusDraft,
	}
	// Duplicates share a display name with their source, so the slug
	// carries an id prefix to stay unique.
	clone.Slug = slug.From(clone.Name) + "-" + clone.ID[:8]

	clone.LogoURL, err = service.copyAsset(context, source.LogoURL, clone.ID)
	if err != nil {
		return nil, err
	}
	clone.CoverURL, err = service.copyAsset(context, source.CoverURL, clone.ID)
	if err != nil {
		return nil, err
	}

	clone.GalleryURLs, err = service.copyAssets(context, source.GalleryURLs, clone.ID)
	if err != nil {
		return nil, err
	}
	clone.MenuURLs, err = service.copyAssets(context, source.MenuURLs, clone.ID)
	if err != nil {
		return nil, err
	}
	clone.CertificateURLs, err = service.copyAssets(context, source.CertificateURLs, clone.ID)
	if err != nil {
		return nil, err
	}

	if err := service.repo.CreateRestaurant(context, clone); err != nil {
		return nil, err
	}

	service.logger.Info("restaurant_duplicated",
		slog.String("source_id", sourceID),
		slog.String("clone_id", clone.ID),
	)
	return clone, nil
}

// copyAsset copies one optional asset into the target tenant's
// namespace. An unavailable source yields "" without error.
func (service *Service) copyAsset(context context.Context, sourceURL, targetTenantID string) (string, error) {
	if sourceURL == "" {
		return "", nil
	}

	ref, err := service.assets.CopyAcrossTenant(context, sourceURL, targetTenantID)
	if err != nil {
		return "", err
	}
	if ref == nil {
		return "", nil
	}
	return ref.PublicURL, nil
}

// copyAssets copies a collection, dropping unavailable sources and
// preserving the order of the rest.
func (service *Service) copyAssets(context context.Context, sourceURLs []string, targetTenantID string) ([]string, error) {
	copied := []string{}
	for _, sourceURL := range sourceURLs {
		url, err := service.copyAsset(context, sourceURL, targetTenantID)
		if err != nil {
			return nil, err
		}
		if url != "" {
			copied = append(copied, url)
		}
	}
	return copied, nil
}

// persistMedia writes one media field's committed state and drops the
// detail cache entry.
func (service *Service) persistMedia(context context.Context, r *Restaurant, category asset.Category) error {
	update := MediaUpdate{}

	switch category {
	case asset.CategoryLogo:
		update.LogoURL = pointer.To(r.LogoURL)
	case asset.CategoryCover, asset.CategoryPhoto:
		update.CoverURL = pointer.To(r.CoverURL)
	case asset.CategoryGallery:
		update.GalleryURLs = pointer.To(r.GalleryURLs)
	case asset.CategoryMenu:
		update.MenuURLs = pointer.To(r.MenuURLs)
	case asset.CategoryCertificates:
		update.CertificateURLs = pointer.To(r.CertificateURLs)
	}

	if err := service.repo.UpdateMedia(context, r.ID, update); err != nil {
		return err
	}

	service.invalidateCache(context, r.Slug)
	return nil
}

// slotURL maps a slot category onto its entity field.
func slotURL(r *Restaurant, category asset.Category) *string {
	if category == asset.CategoryLogo {
		return &r.LogoURL
	}
	// Cover and the single item photo share the cover field.
	return &r.CoverURL
}

// collectionURLs maps a collection category onto its entity field.
func collectionURLs(r *Restaurant, category asset.Category) *[]string {
	switch category {
	case asset.CategoryMenu:
		return &r.MenuURLs
	case asset.CategoryCertificates:
		return &r.CertificateURLs
	default:
		return &r.GalleryURLs
	}
}

// referencesFromURLs rebuilds lightweight references from stored URLs.
// Only the public URL survives the database round-trip; that is all the
// collection operations need.
func referencesFromURLs(urls []string) asset.Collection {
	return asset.Collection(slice.Map(urls, func(url string) asset.Reference {
		return asset.Reference{PublicURL: url}
	}))
}
