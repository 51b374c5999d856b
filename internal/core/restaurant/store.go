// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant

import "context"

// Repository is the persistence contract for restaurants.
//
// The media workflows write only URL fields through [UpdateMedia]; raw
// bytes never cross this boundary.
type Repository interface {
	ListRestaurants(context context.Context, f Filter, limit, offset int) ([]*Restaurant, int, error)
	GetRestaurant(context context.Context, id string) (*Restaurant, error)
	GetRestaurantBySlug(context context.Context, slug string) (*Restaurant, error)
	CreateRestaurant(context context.Context, r *Restaurant) error
	UpdateRestaurant(context context.Context, r *Restaurant) error
	UpdateMedia(context context.Context, id string, update MediaUpdate) error
	DeleteRestaurant(context context.Context, id string) error
}

// Cache is the read-through cache for restaurant detail lookups.
//
// A miss is (nil, nil), not an error; cache failures must never break
// the request path.
type Cache interface {
	GetBySlug(context context.Context, slug string) (*Restaurant, error)
	Set(context context.Context, r *Restaurant) error
	Invalidate(context context.Context, slug string) error
}
