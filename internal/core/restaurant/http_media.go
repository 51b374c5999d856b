// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhdao/restora/internal/core/asset"
	"github.com/minhdao/restora/internal/platform/apperr"
	requestutil "github.com/minhdao/restora/internal/platform/request"
	"github.com/minhdao/restora/internal/platform/respond"
	"github.com/minhdao/restora/pkg/slice"
)

// mediaFormField is the multipart form field carrying upload parts.
const mediaFormField = "files"

// mediaResponse is the media section of a restaurant, returned by every
// media mutation so clients can re-render without a second fetch.
type mediaResponse struct {
	RestaurantID    string   `json:"restaurant_id"`
	LogoURL         string   `json:"logo_url,omitempty"`
	CoverURL        string   `json:"cover_url,omitempty"`
	GalleryURLs     []string `json:"gallery_urls"`
	MenuURLs        []string `json:"menu_urls"`
	CertificateURLs []string `json:"certificate_urls"`
}

// batchItemStatus reports one failed file of a partially-written batch.
type batchItemStatus struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// partialUploadResponse is the 207 payload: the committed media state
// plus the exact files the client should retry.
type partialUploadResponse struct {
	Media  mediaResponse     `json:"media"`
	Failed []batchItemStatus `json:"failed"`
}

func (handler *Handler) registerMediaRoutes(router chi.Router) {
	router.Post("/{id}/media/{category}", handler.uploadMedia)
	router.Delete("/{id}/media/{category}", handler.deleteMedia)
	router.Post("/{id}/duplicate", handler.duplicateRestaurant)
}

func (handler *Handler) uploadMedia(writer http.ResponseWriter, request *http.Request) {
	restaurantID := requestutil.ID(request, "id")
	if err := requireTenantAccess(request, restaurantID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := parseCategoryParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	formFiles, err := requestutil.FormFiles(request, mediaFormField)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	files := slice.Map(formFiles, func(file requestutil.FormFile) asset.FileUpload {
		return asset.FileUpload{
			Filename:    file.Filename,
			ContentType: file.ContentType,
			Data:        file.Data,
		}
	})

	restaurant, err := handler.service.UploadMedia(request.Context(), restaurantID, category, files)
	if err != nil {
		var partial *asset.PartialBatchError
		switch {
		case errors.As(err, &partial) && !errors.Is(err, asset.ErrSlotVacated):
			respond.MultiStatus(writer, partialUploadResponse{
				Media:  mediaOf(restaurant),
				Failed: batchStatuses(partial),
			})

		case errors.Is(err, asset.ErrSlotVacated):
			respond.Error(writer, request, apperr.TransientIO(
				"Replacement upload failed; the previous file was removed", err))

		default:
			respond.Error(writer, request, err)
		}
		return
	}

	respond.OK(writer, mediaOf(restaurant))
}

// deleteMediaRequest is the JSON body of a media deletion.
type deleteMediaRequest struct {
	URL string `json:"url"`
}

func (handler *Handler) deleteMedia(writer http.ResponseWriter, request *http.Request) {
	restaurantID := requestutil.ID(request, "id")
	if err := requireTenantAccess(request, restaurantID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := parseCategoryParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input deleteMediaRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.URL == "" {
		respond.Error(writer, request, validateURLRequired())
		return
	}

	restaurant, err := handler.service.DeleteMedia(request.Context(), restaurantID, category, input.URL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, mediaOf(restaurant))
}

// duplicateRequest optionally renames the clone.
type duplicateRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) duplicateRestaurant(writer http.ResponseWriter, request *http.Request) {
	sourceID := requestutil.ID(request, "id")
	if err := requireTenantAccess(request, sourceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input duplicateRequest
	if request.ContentLength > 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	clone, err := handler.service.DuplicateRestaurant(request.Context(), sourceID, claims.UserID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, clone)
}

// parseCategoryParam resolves the {category} URL segment.
func parseCategoryParam(request *http.Request) (asset.Category, error) {
	raw := requestutil.Param(request, "category")
	category, known := asset.ParseCategory(raw)
	if !known {
		return "", apperr.ValidationError(fmt.Sprintf("Unknown media category %q", raw))
	}
	return category, nil
}

func validateURLRequired() error {
	return apperr.ValidationError("Field 'url' is required")
}

func mediaOf(r *Restaurant) mediaResponse {
	return mediaResponse{
		RestaurantID:    r.ID,
		LogoURL:         r.LogoURL,
		CoverURL:        r.CoverURL,
		GalleryURLs:     r.GalleryURLs,
		MenuURLs:        r.MenuURLs,
		CertificateURLs: r.CertificateURLs,
	}
}

func batchStatuses(partial *asset.PartialBatchError) []batchItemStatus {
	return slice.Map(partial.Failed, func(failed asset.FailedUpload) batchItemStatus {
		return batchItemStatus{
			Filename: failed.Filename,
			Error:    failed.Err.Error(),
		}
	})
}
