// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhdao/restora/internal/platform/apperr"
	"github.com/minhdao/restora/internal/platform/middleware"
	requestutil "github.com/minhdao/restora/internal/platform/request"
	"github.com/minhdao/restora/internal/platform/respond"
	"github.com/minhdao/restora/internal/platform/sec"
	"github.com/minhdao/restora/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes builds the mountable router for the restaurant domain.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listRestaurants)
	router.Get("/{id}", handler.getRestaurant)
	router.Get("/slug/{slug}", handler.getRestaurantBySlug)

	// Owner/Admin Only
	router.Group(func(ownerRoute chi.Router) {
		ownerRoute.Use(middleware.RequireRole(sec.RoleOwner))

		ownerRoute.Post("/", handler.createRestaurant)
		ownerRoute.Patch("/{id}", handler.updateRestaurant)
		ownerRoute.Delete("/{id}", handler.deleteRestaurant)

		handler.registerMediaRoutes(ownerRoute)
	})
}

// requireTenantAccess authorizes a mutation of the given restaurant:
// admins pass, owners pass only for the tenant named in their verified
// token claims. The restaurant id IS the tenant id.
func requireTenantAccess(request *http.Request, restaurantID string) error {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return err
	}

	if sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		return nil
	}
	if claims.TenantID != restaurantID {
		return apperr.Forbidden("You do not manage this restaurant")
	}

	return nil
}

// listingStatus resolves the status filter for a listing request.
// Anonymous and member callers only ever see published restaurants;
// owners and admins may request any status.
func listingStatus(claims *sec.AuthClaims, requested Status) Status {
	if claims != nil && sec.UserRole(claims.Role).AtLeast(sec.RoleOwner) {
		return requested
	}
	return StatusPublished
}

// canViewUnpublished reports whether the caller may read a draft or
// suspended listing: admins, or the restaurant's own tenant. Everyone
// else gets a NOT_FOUND so unpublished listings do not leak existence.
func canViewUnpublished(claims *sec.AuthClaims, restaurantID string) bool {
	if claims == nil {
		return false
	}
	if sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		return true
	}
	return claims.TenantID == restaurantID
}

func (handler *Handler) listRestaurants(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query:   request.URL.Query().Get("q"),
		City:    request.URL.Query().Get("city"),
		Cuisine: request.URL.Query().Get("cuisine"),
		Status:  listingStatus(requestutil.Claims(request), Status(request.URL.Query().Get("status"))),
	}

	restaurants, total, err := handler.service.ListRestaurants(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, restaurants, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getRestaurant(writer http.ResponseWriter, request *http.Request) {
	restaurant, err := handler.service.GetRestaurant(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if restaurant.Status != StatusPublished && !canViewUnpublished(requestutil.Claims(request), restaurant.ID) {
		respond.Error(writer, request, apperr.NotFound("Restaurant"))
		return
	}
	respond.OK(writer, restaurant)
}

func (handler *Handler) getRestaurantBySlug(writer http.ResponseWriter, request *http.Request) {
	restaurant, err := handler.service.GetRestaurantBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if restaurant.Status != StatusPublished && !canViewUnpublished(requestutil.Claims(request), restaurant.ID) {
		respond.Error(writer, request, apperr.NotFound("Restaurant"))
		return
	}
	respond.OK(writer, restaurant)
}

func (handler *Handler) createRestaurant(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	restaurant, err := handler.service.CreateRestaurant(request.Context(), claims.UserID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, restaurant)
}

func (handler *Handler) updateRestaurant(writer http.ResponseWriter, request *http.Request) {
	restaurantID := requestutil.ID(request, "id")
	if err := requireTenantAccess(request, restaurantID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	restaurant, err := handler.service.UpdateRestaurant(request.Context(), restaurantID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, restaurant)
}

func (handler *Handler) deleteRestaurant(writer http.ResponseWriter, request *http.Request) {
	restaurantID := requestutil.ID(request, "id")
	if err := requireTenantAccess(request, restaurantID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteRestaurant(request.Context(), restaurantID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
