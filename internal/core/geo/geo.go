// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

/*
Package geo implements the geography codec for the Restora platform.

Restaurant coordinates live in a PostGIS geography(Point, 4326) column.
The write path and the read path use different encodings, and legacy rows
carry a third:

  - Write: EWKT literal "SRID=4326;POINT(<lng> <lat>)" (longitude first).
  - Read: extended WKB rendered as hex text (little-endian Point with SRID).
  - Legacy: JSON text of the form {"lat": ..., "lng": ...}.

Only the Point geometry is supported; polygon/line support is out of scope
and must not be added here.
*/
package geo

import "math"

// # Location Value Type

// LocationPoint is an immutable validated coordinate pair (WGS 84).
//
// Instances are constructed only through [NewPoint] or the codec's decode
// path; an invalid input never produces a partially-populated point.
type LocationPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewPoint validates and constructs a [LocationPoint].
//
// It reports ok=false when either coordinate is NaN, infinite, or outside
// the valid range (lat ∈ [-90, 90], lng ∈ [-180, 180]).
func NewPoint(lat, lng float64) (LocationPoint, bool) {
	if !isFinite(lat) || !isFinite(lng) {
		return LocationPoint{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return LocationPoint{}, false
	}
	return LocationPoint{Lat: lat, Lng: lng}, true
}

// isFinite reports whether f is neither NaN nor infinite.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// # Ingestion Union

// inputKind discriminates the variants of [GeographyInput].
type inputKind int

const (
	kindNone inputKind = iota
	kindLatLng
	kindText
)

// GeographyInput is a tagged union describing every form a location may
// arrive in: an already-structured lat/lng pair, or opaque text that is
// either JSON or WKB hex.
//
// The decode step matches the variant explicitly and never coerces
// between representations except via the documented parse attempts.
// The zero value is the "no input" variant and decodes to nothing.
type GeographyInput struct {
	kind inputKind
	lat  float64
	lng  float64
	text string
}

// LatLngInput wraps a structured coordinate pair.
func LatLngInput(lat, lng float64) GeographyInput {
	return GeographyInput{kind: kindLatLng, lat: lat, lng: lng}
}

// TextInput wraps opaque location text (JSON or WKB hex, probed in that order).
func TextInput(text string) GeographyInput {
	return GeographyInput{kind: kindText, text: text}
}

// NoInput returns the empty variant.
func NoInput() GeographyInput {
	return GeographyInput{}
}

// IsZero reports whether the input is the empty variant.
func (input GeographyInput) IsZero() bool {
	return input.kind == kindNone
}
