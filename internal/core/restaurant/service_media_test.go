// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhdao/restora/internal/core/asset"
	"github.com/minhdao/restora/internal/core/restaurant"
	"github.com/minhdao/restora/internal/platform/apperr"
	"github.com/minhdao/restora/internal/platform/blob"
	"github.com/minhdao/restora/internal/platform/dberr"
)

const testPublicPrefix = "https://cdn.restora.app/storage/v1/object/public/restora-media"

// memoryRepository is an in-memory [restaurant.Repository] for service tests.
type memoryRepository struct {
	rows map[string]*restaurant.Restaurant
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[string]*restaurant.Restaurant)}
}

func (repo *memoryRepository) ListRestaurants(_ context.Context, _ restaurant.Filter, _, _ int) ([]*restaurant.Restaurant, int, error) {
	var all []*restaurant.Restaurant
	for _, r := range repo.rows {
		all = append(all, r)
	}
	return all, len(all), nil
}

func (repo *memoryRepository) GetRestaurant(_ context.Context, id string) (*restaurant.Restaurant, error) {
	r, found := repo.rows[id]
	if !found {
		return nil, dberr.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (repo *memoryRepository) GetRestaurantBySlug(_ context.Context, slug string) (*restaurant.Restaurant, error) {
	for _, r := range repo.rows {
		if r.Slug == slug {
			clone := *r
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *memoryRepository) CreateRestaurant(_ context.Context, r *restaurant.Restaurant) error {
	repo.rows[r.ID] = r
	return nil
}

func (repo *memoryRepository) UpdateRestaurant(_ context.Context, r *restaurant.Restaurant) error {
	if _, found := repo.rows[r.ID]; !found {
		return dberr.ErrNotFound
	}
	repo.rows[r.ID] = r
	return nil
}

func (repo *memoryRepository) UpdateMedia(_ context.Context, id string, update restaurant.MediaUpdate) error {
	r, found := repo.rows[id]
	if !found {
		return dberr.ErrNotFound
	}

	if update.LogoURL != nil {
		r.LogoURL = *update.LogoURL
	}
	if update.CoverURL != nil {
		r.CoverURL = *update.CoverURL
	}
	if update.GalleryURLs != nil {
		r.GalleryURLs = *update.GalleryURLs
	}
	if update.MenuURLs != nil {
		r.MenuURLs = *update.MenuURLs
	}
	if update.CertificateURLs != nil {
		r.CertificateURLs = *update.CertificateURLs
	}
	return nil
}

func (repo *memoryRepository) DeleteRestaurant(_ context.Context, id string) error {
	if _, found := repo.rows[id]; !found {
		return dberr.ErrNotFound
	}
	delete(repo.rows, id)
	return nil
}

// noopCache satisfies [restaurant.Cache] without storing anything.
type noopCache struct{}

func (noopCache) GetBySlug(context.Context, string) (*restaurant.Restaurant, error) { return nil, nil }
func (noopCache) Set(context.Context, *restaurant.Restaurant) error                 { return nil }
func (noopCache) Invalidate(context.Context, string) error                          { return nil }

func newMediaTestService(t *testing.T) (*restaurant.Service, *memoryRepository, *blob.MemoryStorage) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage := blob.NewMemoryStorage(testPublicPrefix)
	assets := asset.NewService(storage, testPublicPrefix, logger)
	repo := newMemoryRepository()

	service := restaurant.NewService(repo, noopCache{}, asset.NewOrchestrator(assets), assets, logger)
	return service, repo, storage
}

func seedRestaurant(t *testing.T, repo *memoryRepository, id string) *restaurant.Restaurant {
	t.Helper()

	r := &restaurant.Restaurant{
		ID:              id,
		OwnerID:         "owner-1",
		Name:            "Cafe Mondegar",
		Slug:            "cafe-mondegar",
		GalleryURLs:     []string{},
		MenuURLs:        []string{},
		CertificateURLs: []string{},
		Status:          restaurant.StatusPublished,
	}
	require.NoError(t, repo.CreateRestaurant(context.Background(), r))
	return r
}

func jpeg(name string) asset.FileUpload {
	return asset.FileUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Data:        []byte("jpeg-bytes-" + name),
	}
}

func TestUploadMediaToEmptyLogoSlot(t *testing.T) {
	service, repo, storage := newMediaTestService(t)
	seedRestaurant(t, repo, "rest-1")

	updated, err := service.UploadMedia(context.Background(), "rest-1", asset.CategoryLogo,
		[]asset.FileUpload{jpeg("logo.jpg")})

	require.NoError(t, err)
	require.NotEmpty(t, updated.LogoURL)
	assert.Contains(t, updated.LogoURL, "restaurants/rest-1/logo/")

	persisted, err := repo.GetRestaurant(context.Background(), "rest-1")
	require.NoError(t, err)
	assert.Equal(t, updated.LogoURL, persisted.LogoURL)
	assert.Equal(t, 1, storage.Len())
}

func TestUploadMediaReplacesOccupiedSlot(t *testing.T) {
	service, repo, storage := newMediaTestService(t)
	seedRestaurant(t, repo, "rest-1")

	first, err := service.UploadMedia(context.Background(), "rest-1", asset.CategoryLogo,
		[]asset.FileUpload{jpeg("v1.jpg")})
	require.NoError(t, err)

	second, err := service.UploadMedia(context.Background(), "rest-1", asset.CategoryLogo,
		[]asset.FileUpload{jpeg("v2.jpg")})
	require.NoError(t, err)

	assert.NotEqual(t, first.LogoURL, second.LogoURL)
	assert.Equal(t, 1, storage.Len(), "the replaced object must be removed")
}

func TestUploadMediaSlotRejectsMultipleFiles(t *testing.T) {
	service, repo, storage := newMediaTestService(t)
	seedRestaurant(t, repo, "rest-1")

	_, err := service.UploadMedia(context.Background(), "rest-1", asset.CategoryLogo,
		[]asset.FileUpload{jpeg("a.jpg"), jpeg("b.jpg")})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Equal(t, 0, storage.PutCalls)
}

func TestUploadMediaVacatedSlotPersistsEmpty(t *testing.T) {
	service, repo, storage := newMediaTestService(t)
	seedRestaurant(t, repo, "rest-1")

	_, err := service.UploadMedia(context.Background(), "rest-1", asset.CategoryCover,
		[]asset.FileUpload{jpeg("old.jpg")})
	require.NoError(t, err)

	// The seed upload was put 1; the replacement write fails as put 2.
	storage.FailPutAfter = 1

	_, err = service.UploadMedia(context.Background(), "rest-1", asset.CategoryCover,
		[]asset.FileUpload{jpeg("new.jpg")})

	require.Error(t, err)
	assert.ErrorIs(t, err, asset.ErrSlotVacated)

	persisted, getErr := repo.GetRestaurant(context.Background(), "rest-1")
	require.NoError(t, getErr)
	assert.Empty(t, persisted.CoverURL, "a vacated slot must not keep the dead URL")
}

func TestUploadMediaAppendsToGallery(t *testing.T) {
	service, repo, _ := newMediaTestService(t)
	seedRestaurant(t, repo, "rest-1")

	first, err := service.UploadMedia(context.Background(), "rest-1", asset.CategoryGallery,
		[]asset.FileUpload{jpeg("a.jpg")})
	require.NoError(t, err)
	require.Len(t, first.GalleryURLs, 1)

	second, err := service.UploadMedia(context.Background(), "rest-1", asset.CategoryGallery,
		[]asset.FileUpload{jpeg("b.jpg"), jpeg("c.jpg")})
	require.NoError(t, err)

	require.Len(t, second.GalleryURLs, 3)
	assert.Equal(t, first.GalleryURLs[0], second.GalleryURLs[0], "appends must not displace existing members")
}

func TestUploadMediaPartialBatchPersistsOnlySucceeded(t *testing.T) {
	service, repo, storage := newMediaTestService(t)
	seedRestaurant(t, repo, "rest-1")
	storage.FailPutAfter = 1

	updated, err := service.UploadMedia(context.Background(), "rest-1", asset.CategoryGallery,
		[]asset.FileUpload{jpeg("a.jpg"), jpeg("b.jpg")})

	var partial *asset.PartialBatchError
	require.ErrorAs(t, err, &partial)
	require.NotNil(t, updated)
	require.Len(t, updated.GalleryURLs, 1)

	persisted, getErr := repo.GetRestaurant(context.Background(), "rest-1")
	require.NoError(t, getErr)
	assert.Equal(t, updated.GalleryURLs, persisted.GalleryURLs)
}

func TestDeleteMediaFromGallery(t *testing.T) {
	service, repo, storage := newMediaTestService(t)
	seedRestaurant(t, repo, "rest-1")

	uploaded, err := service.UploadMedia(context.Background(), "rest-1", asset.CategoryGallery,
		[]asset.FileUpload{jpeg("a.jpg"), jpeg("b.jpg"), jpeg("c.jpg")})
	require.NoError(t, err)

	updated, err := service.DeleteMedia(context.Background(), "rest-1", asset.CategoryGallery,
		uploaded.GalleryURLs[1])

	require.NoError(t, err)
	require.Len(t, updated.GalleryURLs, 2)
	assert.Equal(t, uploaded.GalleryURLs[0], updated.GalleryURLs[0])
	assert.Equal(t, uploaded.GalleryURLs[2], updated.GalleryURLs[1])
	assert.Equal(t, 2, storage.Len())
}

func TestDeleteMediaUnknownURL(t *testing.T) {
	service, repo, _ := newMediaTestService(t)
	seedRestaurant(t, repo, "rest-1")

	_, err := service.DeleteMedia(context.Background(), "rest-1", asset.CategoryGallery,
		testPublicPrefix+"/restaurants/rest-1/gallery/ghost.jpg")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestDuplicateRestaurantCopiesAssets(t *testing.T) {
	service, repo, storage := newMediaTestService(t)
	source := seedRestaurant(t, repo, "rest-a")

	_, err := service.UploadMedia(context.Background(), source.ID, asset.CategoryLogo,
		[]asset.FileUpload{jpeg("logo.jpg")})
	require.NoError(t, err)
	_, err = service.UploadMedia(context.Background(), source.ID, asset.CategoryGallery,
		[]asset.FileUpload{jpeg("g1.jpg"), jpeg("g2.jpg")})
	require.NoError(t, err)

	clone, err := service.DuplicateRestaurant(context.Background(), source.ID, "owner-2", "Cafe Mondegar Andheri")

	require.NoError(t, err)
	assert.Equal(t, "owner-2", clone.OwnerID)
	assert.NotEqual(t, source.ID, clone.ID)

	assert.Contains(t, clone.LogoURL, "restaurants/"+clone.ID+"/logo/")
	require.Len(t, clone.GalleryURLs, 2)
	for _, url := range clone.GalleryURLs {
		assert.Contains(t, url, "restaurants/"+clone.ID+"/gallery/")
	}

	// Copies, not moves: the source keeps all three objects.
	sourceRow, err := repo.GetRestaurant(context.Background(), source.ID)
	require.NoError(t, err)
	assert.True(t, storage.Has(mustKey(t, sourceRow.LogoURL)))
	assert.Equal(t, 6, storage.Len())
}

func TestDuplicateRestaurantSkipsMissingAssets(t *testing.T) {
	service, repo, storage := newMediaTestService(t)
	source := seedRestaurant(t, repo, "rest-a")

	uploaded, err := service.UploadMedia(context.Background(), source.ID, asset.CategoryGallery,
		[]asset.FileUpload{jpeg("g1.jpg"), jpeg("g2.jpg")})
	require.NoError(t, err)

	// Remove one object out-of-band; its row URL now dangles.
	require.NoError(t, storage.Remove(context.Background(), mustKey(t, uploaded.GalleryURLs[0])))

	clone, err := service.DuplicateRestaurant(context.Background(), source.ID, "owner-2", "")

	require.NoError(t, err)
	require.Len(t, clone.GalleryURLs, 1, "unavailable sources are skipped, not fatal")
	assert.Contains(t, clone.GalleryURLs[0], "restaurants/"+clone.ID+"/gallery/")
}

// mustKey strips the public prefix off a URL.
func mustKey(t *testing.T, url string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(url, testPublicPrefix+"/"))
	return strings.TrimPrefix(url, testPublicPrefix+"/")
}
