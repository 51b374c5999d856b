// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

/*
Package restaurant defines the core domain entity of the Restora platform.

A restaurant is also the TENANT of the media subsystem: its id prefixes
every storage key of its assets (logo, cover, gallery, menu documents,
certificates), and its geographic location round-trips through the
PostGIS geography codec on every read and write.

Core Responsibility:

  - Profile: Name, cuisine, contact, and address data shown on listing pages.
  - Location: A validated coordinate pair stored as geography(Point, 4326).
  - Media: Single-value asset slots and ordered asset collections.
*/
package restaurant

import (
	"time"

	"github.com/minhdao/restora/internal/core/geo"
)

// # Domain Enums

// Status represents the listing lifecycle of a restaurant.
type Status string

const (
	// StatusDraft indicates the profile is being prepared by its owner.
	StatusDraft Status = "draft"

	// StatusPublished indicates the restaurant is visible in discovery.
	StatusPublished Status = "published"

	// StatusSuspended indicates the listing was taken down by moderation.
	StatusSuspended Status = "suspended"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusSuspended:
		return true
	}
	return false
}

// # Core Entity

// Restaurant is the central aggregate of the Restora domain.
//
// Its ID doubles as the media tenant id: every asset URL below belongs
// to a storage key under restaurants/{ID}/...
type Restaurant struct {
	ID           string   `json:"id"`
	OwnerID      string   `json:"owner_id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"` // URL-safe identifier
	Description  string   `json:"description"`
	CuisineTypes []string `json:"cuisine_types"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	City         string   `json:"city"`

	// Location is nil when the stored geography is absent or undecodable.
	Location *geo.LocationPoint `json:"location,omitempty"`

	// # Media Fields
	// Single-value slots hold at most one URL; collections are ordered
	// (the first gallery image doubles as the card thumbnail).
	LogoURL         string   `json:"logo_url,omitempty"`
	CoverURL        string   `json:"cover_url,omitempty"`
	GalleryURLs     []string `json:"gallery_urls"`
	MenuURLs        []string `json:"menu_urls"`
	CertificateURLs []string `json:"certificate_urls"`

	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // nil = active; non-nil = soft-deleted
}

// # Search & Filtering

// Filter holds the parameters for a filtered restaurant list query.
type Filter struct {
	Query   string `json:"q,omitempty"` // Name search term
	City    string `json:"city,omitempty"`
	Cuisine string `json:"cuisine,omitempty"`
	Status  Status `json:"status,omitempty"`
}

// # Inputs

// CreateInput carries the owner-submitted fields for a new restaurant.
// Coordinates are optional; when present both must be valid.
type CreateInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CuisineTypes []string `json:"cuisine_types"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

// UpdateInput carries a partial profile update. Nil fields are untouched.
type UpdateInput struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	CuisineTypes *[]string `json:"cuisine_types"`
	Phone        *string   `json:"phone"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	Status       *Status   `json:"status"`
	Lat          *float64  `json:"lat"`
	Lng          *float64  `json:"lng"`
}

// MediaUpdate is the partial-field update the media workflows write
// through the entity store. Nil fields are untouched; a non-nil field
// overwrites the column, including overwriting with an empty value.
type MediaUpdate struct {
	LogoURL         *string
	CoverURL        *string
	GalleryURLs     *[]string
	MenuURLs        *[]string
	CertificateURLs *[]string
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldSlug         = "slug"
	FieldDescription  = "description"
	FieldCuisineTypes = "cuisine_types"
	FieldPhone        = "phone"
	FieldAddress      = "address"
	FieldCity         = "city"
	FieldLat          = "lat"
	FieldLng          = "lng"
	FieldStatus       = "status"
	FieldCategory     = "category"
	FieldFiles        = "files"
	FieldURL          = "url"
)
