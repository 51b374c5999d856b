// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant

import (
	"context"
	"log/slog"

	"github.com/minhdao/restora/internal/core/asset"
	"github.com/minhdao/restora/internal/core/geo"
	"github.com/minhdao/restora/internal/platform/apperr"
	"github.com/minhdao/restora/internal/platform/validate"
	"github.com/minhdao/restora/pkg/slug"
	"github.com/minhdao/restora/pkg/uuid"
)

// Service implements the restaurant business logic.
type Service struct {
	repo   Repository
	cache  Cache
	media  *asset.Orchestrator
	assets *asset.Service
	logger *slog.Logger
}

func NewService(repo Repository, cache Cache, media *asset.Orchestrator, assets *asset.Service, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		media:  media,
		assets: assets,
		logger: logger,
	}
}

func (service *Service) ListRestaurants(context context.Context, filter Filter, limit, offset int) ([]*Restaurant, int, error) {
	return service.repo.ListRestaurants(context, filter, limit, offset)
}

func (service *Service) GetRestaurant(context context.Context, id string) (*Restaurant, error) {
	return service.repo.GetRestaurant(context, id)
}

/*
GetRestaurantBySlug resolves a restaurant through the read-through cache.

Description: Cache failures are logged and bypassed — Redis being down
degrades latency, never availability.

Parameters:
  - context: context.Context
  - restaurantSlug: string

Returns:
  - *Restaurant: The resolved entity
  - error: apperr.NotFound or storage errors
*/
func (service *Service) GetRestaurantBySlug(context context.Context, restaurantSlug string) (*Restaurant, error) {
	if cached, err := service.cache.GetBySlug(context, restaurantSlug); err != nil {
		service.logger.Warn("restaurant_cache_read_failed", slog.String("error", err.Error()))
	} else if cached != nil {
		return cached, nil
	}

	r, err := service.repo.GetRestaurantBySlug(context, restaurantSlug)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, r); err != nil {
		service.logger.Warn("restaurant_cache_write_failed", slog.String("error", err.Error()))
	}

	return r, nil
}

func (service *Service) CreateRestaurant(context context.Context, ownerID string, input CreateInput) (*Restaurant, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	validator.MaxLen(FieldDescription, input.Description, 5000)

	if input.Phone != "" {
		validator.Phone(FieldPhone, input.Phone)
	}

	location, err := resolveLocation(validator, input.Lat, input.Lng)
	if err != nil {
		return nil, err
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	r := &Restaurant{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Name:            input.Name,
		Slug:            slug.From(input.Name),
		Description:     input.Description,
		CuisineTypes:    orEmpty(input.CuisineTypes),
		Phone:           input.Phone,
		Address:         input.Address,
		City:            input.City,
		Location:        location,
		GalleryURLs:     []string{},
		MenuURLs:        []string{},
		CertificateURLs: []string{},
		Status:          StatusDraft,
	}

	if err := service.repo.CreateRestaurant(context, r); err != nil {
		return nil, err
	}

	service.logger.Info("restaurant_created",
		slog.String("restaurant_id", r.ID),
		slog.String("owner_id", ownerID),
	)
	return r, nil
}

func (service *Service) UpdateRestaurant(context context.Context, id string, input UpdateInput) (*Restaurant, error) {
	r, err := service.repo.GetRestaurant(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		r.Name = *input.Name
	}
	if input.Description != nil {
		r.Description = *input.Description
	}
	if input.CuisineTypes != nil {
		r.CuisineTypes = orEmpty(*input.CuisineTypes)
	}
	if input.Phone != nil {
		r.Phone = *input.Phone
	}
	if input.Address != nil {
		r.Address = *input.Address
	}
	if input.City != nil {
		r.City = *input.City
	}
	if input.Status != nil {
		r.Status = *input.Status
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, r.Name).MaxLen(FieldName, r.Name, 200)
	validator.MaxLen(FieldDescription, r.Description, 5000)

	if r.Phone != "" {
		validator.Phone(FieldPhone, r.Phone)
	}
	if input.Status != nil {
		validator.Custom(FieldStatus, !r.Status.IsValid(), "Unknown status")
	}

	location, err := resolveLocation(validator, input.Lat, input.Lng)
	if err != nil {
		return nil, err
	}
	if location != nil {
		r.Location = location
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateRestaurant(context, r); err != nil {
		return nil, err
	}

	service.invalidateCache(context, r.Slug)
	service.logger.Info("restaurant_updated", slog.String("restaurant_id", r.ID))
	return r, nil
}

func (service *Service) DeleteRestaurant(context context.Context, id string) error {
	r, err := service.repo.GetRestaurant(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.DeleteRestaurant(context, id); err != nil {
		return err
	}

	service.invalidateCache(context, r.Slug)
	service.logger.Warn("restaurant_deleted", slog.String("restaurant_id", id))
	return nil
}

// invalidateCache drops the detail cache entry; failures only get logged.
func (service *Service) invalidateCache(context context.Context, restaurantSlug string) {
	if err := service.cache.Invalidate(context, restaurantSlug); err != nil {
		service.logger.Warn("restaurant_cache_invalidate_failed",
			slog.String("slug", restaurantSlug),
			slog.String("error", err.Error()),
		)
	}
}

// resolveLocation validates an optional coordinate pair. Exactly one of
// lat/lng being present is a validation error; both present yields a
// validated point.
func resolveLocation(validator *validate.Validator, lat, lng *float64) (*geo.LocationPoint, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, apperr.ValidationError("Latitude and longitude must be provided together")
	}

	validator.Latitude(FieldLat, *lat).Longitude(FieldLng, *lng)
	if validator.HasErrors() {
		return nil, nil
	}

	point, ok := geo.NewPoint(*lat, *lng)
	if !ok {
		return nil, apperr.ValidationError("Invalid coordinates")
	}
	return &point, nil
}

// orEmpty normalizes a nil slice to an empty one so array columns never
// store NULL.
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
