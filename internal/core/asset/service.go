// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package asset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minhdao/restora/internal/platform/apperr"
	"github.com/minhdao/restora/internal/platform/blob"
)

// ErrSlotVacated marks a replace whose delete phase succeeded but whose
// upload phase failed. The old object is gone and nothing took its
// place; callers must record the slot as empty and re-prompt for a file.
var ErrSlotVacated = errors.New("asset: slot vacated, replacement upload failed")

// Service implements the asset storage workflows on top of an
// [blob.ObjectStorage].
//
// The service never retries failed storage calls; retry policy belongs
// to the caller. There is no locking around a storage path or entity
// field, so two concurrent replaces of the same slot race and the last
// write wins (the loser's object becomes an unreferenced orphan).
type Service struct {
	storage      blob.ObjectStorage
	publicPrefix string
	logger       *slog.Logger
}

// NewService creates the asset service. publicPrefix is the bucket's
// public-object URL prefix used to validate inbound URLs.
func NewService(storage blob.ObjectStorage, publicPrefix string, logger *slog.Logger) *Service {
	return &Service{
		storage:      storage,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
		logger:       logger,
	}
}

// # Upload

/*
Upload persists a batch of files for one tenant and category.

The batch is validated as a unit before any network call: a count over
the category's policy or any over-sized file rejects the whole batch with
a VALIDATION_ERROR and writes nothing. Writes themselves are sequential
and NOT rolled back — if a write fails mid-batch, earlier objects stay
persisted and the failure surfaces as a [*PartialBatchError] listing
exactly which files succeeded, which failed, and which were skipped.

Parameters:
  - tenantID: the verified owning tenant; embedded verbatim in every key.
  - category: the target entity field.
  - files: the submitted batch, already read into memory.

Returns:
  - []Reference: one reference per file, in batch order.
  - error: VALIDATION_ERROR, or a [*PartialBatchError] on mid-batch failure.
*/
func (service *Service) Upload(ctx context.Context, tenantID string, category Category, files []FileUpload) ([]Reference, error) {
	policy, known := PolicyFor(category)
	if !known {
		return nil, apperr.ValidationError(fmt.Sprintf("Unknown asset category %q", category))
	}
	if len(files) == 0 {
		return nil, apperr.ValidationError("No files submitted")
	}
	if len(files) > policy.MaxFiles {
		return nil, apperr.ValidationError(fmt.Sprintf(
			"Too many files for %s: got %d, maximum is %d", category, len(files), policy.MaxFiles))
	}

	var details []apperr.FieldError
	for _, file := range files {
		if message := validateFile(file, policy); message != "" {
			details = append(details, apperr.FieldError{Field: file.Filename, Message: message})
		}
	}
	if len(details) > 0 {
		return nil, apperr.ValidationError("One or more files violate the upload policy", details...)
	}

	succeeded := make([]Reference, 0, len(files))
	for index, file := range files {
		key := BuildPath(tenantID, category, file.Filename)

		if err := service.storage.Put(ctx, key, file.Data, file.ContentType); err != nil {
			service.logger.Error("asset upload failed mid-batch",
				slog.String("tenant_id", tenantID),
				slog.String("category", string(category)),
				slog.String("path", key),
				slog.Int("succeeded", len(succeeded)),
				slog.String("error", err.Error()),
			)
			return nil, &PartialBatchError{
				Succeeded: succeeded,
				Failed:    failedTail(files[index:], err),
			}
		}

		succeeded = append(succeeded, Reference{
			TenantID:    tenantID,
			Category:    category,
			Path:        key,
			PublicURL:   service.storage.PublicURL(key),
			ContentType: file.ContentType,
			SizeBytes:   file.SizeBytes(),
		})
	}

	return succeeded, nil
}

// failedTail marks the failing file with its cause and every later file
// in the batch as skipped.
func failedTail(remaining []FileUpload, cause error) []FailedUpload {
	failed := make([]FailedUpload, len(remaining))
	failed[0] = FailedUpload{Filename: remaining[0].Filename, Err: cause}
	for index := 1; index < len(remaining); index++ {
		failed[index] = FailedUpload{Filename: remaining[index].Filename, Err: ErrSkippedAfterFailure}
	}
	return failed
}

// validateFile checks one file against the category policy. It returns a
// human-readable message, or "" when the file passes.
func validateFile(file FileUpload, policy Policy) string {
	switch {
	case len(file.Data) == 0:
		return "file is empty"

	case isImage(file.ContentType):
		if file.SizeBytes() > MaxImageBytes {
			return fmt.Sprintf("image exceeds the %d MiB limit", MaxImageBytes>>20)
		}

	case isDocument(file.ContentType):
		if !policy.AllowsDocuments {
			return "documents are not allowed for this category"
		}
		if file.SizeBytes() > MaxDocumentBytes {
			return fmt.Sprintf("document exceeds the %d MiB limit", MaxDocumentBytes>>20)
		}

	default:
		return fmt.Sprintf("unsupported content type %q", file.ContentType)
	}

	return ""
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func isDocument(contentType string) bool {
	return contentType == "application/pdf"
}

// # Delete

/*
Delete removes the object behind a public URL.

The URL must carry the managed bucket's public prefix; anything else is
rejected with INVALID_REFERENCE before a remove call is made. This is
the safety check keeping destructive operations off foreign resources.

Returns:
  - error: INVALID_REFERENCE for a foreign URL, NOT_FOUND when the object
    is already gone, TRANSIENT_IO for storage failures.
*/
func (service *Service) Delete(ctx context.Context, publicURL string) error {
	key, err := ParsePublicURL(service.publicPrefix, publicURL)
	if err != nil {
		return err
	}

	if err := service.storage.Remove(ctx, key); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return apperr.NotFound("Asset")
		}
		return apperr.TransientIO("Failed to remove asset", err)
	}

	service.logger.Info("asset deleted", slog.String("path", key))
	return nil
}

// # Replace

/*
Replace swaps the object behind a slot: delete the old URL first, then
upload the new file under a fresh key.

The two steps are NOT atomic. When the delete succeeds but the upload
fails, the old object is already gone; the returned error wraps
[ErrSlotVacated] so the caller records the slot as empty and re-prompts
for a file instead of keeping a dangling URL.

Returns:
  - Reference: the newly stored object on full success.
  - error: the delete phase's error verbatim, or the upload phase's error
    joined with [ErrSlotVacated].
*/
func (service *Service) Replace(ctx context.Context, tenantID string, category Category, oldURL string, file FileUpload) (Reference, error) {
	if err := service.Delete(ctx, oldURL); err != nil {
		return Reference{}, err
	}

	refs, err := service.Upload(ctx, tenantID, category, []FileUpload{file})
	if err != nil {
		return Reference{}, errors.Join(ErrSlotVacated, err)
	}

	return refs[0], nil
}

// # Cross-Tenant Copy

/*
CopyAcrossTenant downloads the object behind sourceURL and re-uploads it
under the target tenant's namespace, preserving category, extension, and
content type. The source object is never mutated or removed.

Failure handling is deliberately asymmetric: any problem obtaining the
source bytes (foreign URL, malformed key, missing object, download
error) returns (nil, nil) so that duplicate-entity flows degrade
gracefully — the copy keeps its other fields and loses only this asset.
A failure writing the new object is a real error.

Returns:
  - *Reference: the new object under targetTenantID, or nil when the
    source was unavailable.
  - error: TRANSIENT_IO only, for upload failures.
*/
func (service *Service) CopyAcrossTenant(ctx context.Context, sourceURL, targetTenantID string) (*Reference, error) {
	key, err := ParsePublicURL(service.publicPrefix, sourceURL)
	if err != nil {
		service.logger.Warn("asset copy skipped: source outside managed storage",
			slog.String("source_url", sourceURL))
		return nil, nil
	}

	category, filename, ok := splitKey(key)
	if !ok {
		service.logger.Warn("asset copy skipped: malformed source path",
			slog.String("path", key))
		return nil, nil
	}

	data, contentType, err := service.storage.Get(ctx, key)
	if err != nil {
		service.logger.Warn("asset copy skipped: source download failed",
			slog.String("path", key),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	newKey := BuildPath(targetTenantID, category, filename)
	if err := service.storage.Put(ctx, newKey, data, contentType); err != nil {
		return nil, apperr.TransientIO("Failed to store copied asset", err)
	}

	service.logger.Info("asset copied across tenants",
		slog.String("source_path", key),
		slog.String("target_path", newKey),
	)

	return &Reference{
		TenantID:    targetTenantID,
		Category:    category,
		Path:        newKey,
		PublicURL:   service.storage.PublicURL(newKey),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}, nil
}

// splitKey decomposes a managed storage key into its category and final
// filename segment. Keys have the shape restaurants/{tenant}/{category}/{file}.
func splitKey(key string) (Category, string, bool) {
	segments := strings.Split(key, "/")
	if len(segments) != 4 || segments[0] != pathRoot {
		return "", "", false
	}

	category, known := ParseCategory(segments[2])
	if !known || segments[3] == "" {
		return "", "", false
	}

	return category, segments[3], true
}
