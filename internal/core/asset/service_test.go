// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package asset_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhdao/restora/internal/core/asset"
	"github.com/minhdao/restora/internal/platform/apperr"
	"github.com/minhdao/restora/internal/platform/blob"
)

func newTestService(t *testing.T) (*asset.Service, *blob.MemoryStorage) {
	t.Helper()

	storage := blob.NewMemoryStorage(testPublicPrefix)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return asset.NewService(storage, testPublicPrefix, logger), storage
}

func imageFile(name string, size int) asset.FileUpload {
	return asset.FileUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Data:        bytes.Repeat([]byte{0xAB}, size),
	}
}

func pdfFile(name string, size int) asset.FileUpload {
	return asset.FileUpload{
		Filename:    name,
		ContentType: "application/pdf",
		Data:        bytes.Repeat([]byte{0xCD}, size),
	}
}

// # Upload

func TestUpload(t *testing.T) {
	service, storage := newTestService(t)

	files := []asset.FileUpload{
		imageFile("a.jpg", 64),
		imageFile("b.jpg", 128),
		imageFile("c.jpg", 256),
	}

	refs, err := service.Upload(context.Background(), "tenant-1", asset.CategoryGallery, files)

	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, 3, storage.PutCalls)

	for index, ref := range refs {
		assert.Equal(t, "tenant-1", ref.TenantID)
		assert.Equal(t, asset.CategoryGallery, ref.Category)
		assert.True(t, strings.HasPrefix(ref.Path, "restaurants/tenant-1/gallery/"))
		assert.Equal(t, testPublicPrefix+"/"+ref.Path, ref.PublicURL)
		assert.Equal(t, files[index].SizeBytes(), ref.SizeBytes)
		assert.True(t, storage.Has(ref.Path))
	}
}

func TestUploadRejectsOverCountBatchBeforeIO(t *testing.T) {
	service, storage := newTestService(t)

	files := make([]asset.FileUpload, 6)
	for index := range files {
		files[index] = pdfFile("menu.pdf", 64)
	}

	_, err := service.Upload(context.Background(), "tenant-1", asset.CategoryMenu, files)

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, 0, storage.PutCalls, "rejected batches must never reach storage")
}

func TestUploadRejectsOversizedImageBeforeIO(t *testing.T) {
	service, storage := newTestService(t)

	files := []asset.FileUpload{
		imageFile("small.jpg", 64),
		imageFile("huge.jpg", asset.MaxImageBytes+1),
	}

	_, err := service.Upload(context.Background(), "tenant-1", asset.CategoryGallery, files)

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "huge.jpg", appErr.Details[0].Field)
	assert.Equal(t, 0, storage.PutCalls)
}

func TestUploadRejectsDocumentForImageOnlyCategory(t *testing.T) {
	service, storage := newTestService(t)

	_, err := service.Upload(context.Background(), "tenant-1", asset.CategoryGallery,
		[]asset.FileUpload{pdfFile("menu.pdf", 64)})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Equal(t, 0, storage.PutCalls)
}

func TestUploadAllowsDocumentsForMenu(t *testing.T) {
	service, _ := newTestService(t)

	refs, err := service.Upload(context.Background(), "tenant-1", asset.CategoryMenu,
		[]asset.FileUpload{pdfFile("menu.pdf", asset.MaxImageBytes+1)})

	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "application/pdf", refs[0].ContentType)
}

func TestUploadPartialFailureKeepsEarlierWrites(t *testing.T) {
	service, storage := newTestService(t)
	storage.FailPutAfter = 1

	files := []asset.FileUpload{
		imageFile("first.jpg", 64),
		imageFile("second.jpg", 64),
		imageFile("third.jpg", 64),
	}

	_, err := service.Upload(context.Background(), "tenant-1", asset.CategoryGallery, files)

	var partial *asset.PartialBatchError
	require.ErrorAs(t, err, &partial)

	require.Len(t, partial.Succeeded, 1)
	assert.Equal(t, "tenant-1", partial.Succeeded[0].TenantID)
	assert.True(t, storage.Has(partial.Succeeded[0].Path), "earlier writes stay persisted")

	require.Len(t, partial.Failed, 2)
	assert.Equal(t, "second.jpg", partial.Failed[0].Filename)
	assert.ErrorIs(t, partial.Failed[0].Err, blob.ErrSyntheticPutFailure)
	assert.Equal(t, "third.jpg", partial.Failed[1].Filename)
	assert.ErrorIs(t, partial.Failed[1].Err, asset.ErrSkippedAfterFailure)

	assert.Equal(t, 1, storage.Len())
}

func TestUploadUnknownCategory(t *testing.T) {
	service, storage := newTestService(t)

	_, err := service.Upload(context.Background(), "tenant-1", asset.Category("banner"),
		[]asset.FileUpload{imageFile("b.jpg", 64)})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Equal(t, 0, storage.PutCalls)
}

// # Delete

func TestDelete(t *testing.T) {
	service, storage := newTestService(t)

	refs, err := service.Upload(context.Background(), "tenant-1", asset.CategoryLogo,
		[]asset.FileUpload{imageFile("logo.png", 64)})
	require.NoError(t, err)

	err = service.Delete(context.Background(), refs[0].PublicURL)

	require.NoError(t, err)
	assert.False(t, storage.Has(refs[0].Path))
}

func TestDeleteRejectsForeignURLWithoutRemoveCall(t *testing.T) {
	service, storage := newTestService(t)

	err := service.Delete(context.Background(),
		"https://h/storage/v1/object/public/OTHERBUCKET/x.jpg")

	require.Error(t, err)
	assert.Equal(t, "INVALID_REFERENCE", apperr.As(err).Code)
	assert.Equal(t, 0, storage.RemoveCalls, "foreign URLs must never reach a remove call")
}

func TestDeleteMissingObject(t *testing.T) {
	service, _ := newTestService(t)

	err := service.Delete(context.Background(),
		testPublicPrefix+"/restaurants/tenant-1/logo/gone.jpg")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Replace

func TestReplace(t *testing.T) {
	service, storage := newTestService(t)

	old, err := service.Upload(context.Background(), "tenant-1", asset.CategoryCover,
		[]asset.FileUpload{imageFile("old.jpg", 64)})
	require.NoError(t, err)

	replacement, err := service.Replace(context.Background(), "tenant-1", asset.CategoryCover,
		old[0].PublicURL, imageFile("new.jpg", 128))

	require.NoError(t, err)
	assert.False(t, storage.Has(old[0].Path), "old object must be removed")
	assert.True(t, storage.Has(replacement.Path))
	assert.NotEqual(t, old[0].Path, replacement.Path, "replace must use a fresh key")
}

func TestReplaceUploadFailureVacatesSlot(t *testing.T) {
	service, storage := newTestService(t)

	old, err := service.Upload(context.Background(), "tenant-1", asset.CategoryCover,
		[]asset.FileUpload{imageFile("old.jpg", 64)})
	require.NoError(t, err)

	// The seed upload consumed call 1; the replacement write is call 2.
	storage.FailPutAfter = 1

	_, err = service.Replace(context.Background(), "tenant-1", asset.CategoryCover,
		old[0].PublicURL, imageFile("new.jpg", 64))

	require.Error(t, err)
	assert.ErrorIs(t, err, asset.ErrSlotVacated)
	assert.False(t, storage.Has(old[0].Path), "delete phase already removed the old object")
	assert.Equal(t, 0, storage.Len())
}

func TestReplaceDeleteFailurePropagates(t *testing.T) {
	service, storage := newTestService(t)

	_, err := service.Replace(context.Background(), "tenant-1", asset.CategoryCover,
		"https://h/storage/v1/object/public/OTHERBUCKET/x.jpg", imageFile("new.jpg", 64))

	require.Error(t, err)
	assert.Equal(t, "INVALID_REFERENCE", apperr.As(err).Code)
	assert.False(t, errors.Is(err, asset.ErrSlotVacated))
	assert.Equal(t, 0, storage.PutCalls, "upload must not run when delete fails")
}

// # Cross-Tenant Copy

func TestCopyAcrossTenant(t *testing.T) {
	service, storage := newTestService(t)

	source, err := service.Upload(context.Background(), "tenant-a", asset.CategoryGallery,
		[]asset.FileUpload{imageFile("dish.jpg", 64)})
	require.NoError(t, err)

	copied, err := service.CopyAcrossTenant(context.Background(), source[0].PublicURL, "tenant-b")

	require.NoError(t, err)
	require.NotNil(t, copied)
	assert.Equal(t, "tenant-b", copied.TenantID)
	assert.True(t, strings.HasPrefix(copied.Path, "restaurants/tenant-b/gallery/"))
	assert.NotEqual(t, source[0].Path, copied.Path)
	assert.Equal(t, source[0].ContentType, copied.ContentType)
	assert.Equal(t, source[0].SizeBytes, copied.SizeBytes)

	// Copy, not move: the source object is untouched.
	data, contentType, err := storage.Get(context.Background(), source[0].Path)
	require.NoError(t, err)
	assert.Len(t, data, 64)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestCopyAcrossTenantMissingSourceReturnsNil(t *testing.T) {
	service, _ := newTestService(t)

	copied, err := service.CopyAcrossTenant(context.Background(),
		testPublicPrefix+"/restaurants/tenant-a/gallery/gone.jpg", "tenant-b")

	require.NoError(t, err)
	assert.Nil(t, copied)
}

func TestCopyAcrossTenantForeignSourceReturnsNil(t *testing.T) {
	service, storage := newTestService(t)

	copied, err := service.CopyAcrossTenant(context.Background(),
		"https://evil.example.com/x.jpg", "tenant-b")

	require.NoError(t, err)
	assert.Nil(t, copied)
	assert.Equal(t, 0, storage.PutCalls)
}
