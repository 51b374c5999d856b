// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package geo

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// # Wire Format Constants

const (
	// ewktPrefix opens every encoded literal; PostGIS parses it natively.
	ewktPrefix = "SRID=4326;POINT("

	// wkbHeaderHexLen is the fixed width of the extended-WKB header as hex
	// text: byte order (1 byte), geometry type with SRID flag (4 bytes),
	// SRID (4 bytes) — 9 bytes, 18 hex characters. The header is skipped
	// at a fixed offset; big-endian payloads are not auto-detected.
	wkbHeaderHexLen = 18

	// wkbCoordHexLen is the width of one IEEE-754 double as hex text.
	wkbCoordHexLen = 16
)

// # Encoding

/*
Encode converts a coordinate pair into the EWKT literal sent to the
database, e.g. "SRID=4326;POINT(73.8278 15.4909)".

Longitude precedes latitude inside POINT, per WKT convention. Coordinates
are rendered with the shortest decimal text that round-trips the exact
float64 value, so no precision is lost on the wire.

Parameters:
  - lat: latitude in degrees, must be finite and within [-90, 90].
  - lng: longitude in degrees, must be finite and within [-180, 180].

Returns:
  - string: the EWKT literal, or "" when validation fails.
  - bool: false when either coordinate is invalid.
*/
func Encode(lat, lng float64) (string, bool) {
	point, ok := NewPoint(lat, lng)
	if !ok {
		return "", false
	}
	return point.EWKT(), true
}

// EWKT renders the point as the write-path database literal.
func (point LocationPoint) EWKT() string {
	var builder strings.Builder
	builder.WriteString(ewktPrefix)
	builder.WriteString(strconv.FormatFloat(point.Lng, 'f', -1, 64))
	builder.WriteByte(' ')
	builder.WriteString(strconv.FormatFloat(point.Lat, 'f', -1, 64))
	builder.WriteByte(')')
	return builder.String()
}

// # Decoding

/*
Decode converts a [GeographyInput] back into a [LocationPoint].

Variants are handled in a fixed priority order:

 1. A structured lat/lng pair is validated and returned as-is.
 2. Text is first probed as JSON ({"lat": ..., "lng": ...}).
 3. Failing that, text is probed as extended-WKB hex.

Every failure mode — empty input, malformed JSON, truncated hex, NaN
coordinates — reports ok=false. Decode never panics and never returns a
partially-populated point.

Parameters:
  - input: the tagged ingestion union; the zero value decodes to nothing.

Returns:
  - LocationPoint: the decoded coordinate pair.
  - bool: false when no variant yielded a valid point.
*/
func Decode(input GeographyInput) (LocationPoint, bool) {
	switch input.kind {
	case kindLatLng:
		return NewPoint(input.lat, input.lng)
	case kindText:
		return DecodeText(input.text)
	default:
		return LocationPoint{}, false
	}
}

// DecodeText probes raw location text: JSON first, then WKB hex.
func DecodeText(text string) (LocationPoint, bool) {
	if text == "" {
		return LocationPoint{}, false
	}
	if point, ok := decodeJSON(text); ok {
		return point, true
	}
	return decodeWKBHex(text)
}

// jsonPoint mirrors the legacy JSON column shape. Pointers distinguish an
// absent field from an explicit zero coordinate.
type jsonPoint struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// decodeJSON parses the legacy {"lat": ..., "lng": ...} text form.
func decodeJSON(text string) (LocationPoint, bool) {
	var parsed jsonPoint
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return LocationPoint{}, false
	}
	if parsed.Lat == nil || parsed.Lng == nil {
		return LocationPoint{}, false
	}
	return NewPoint(*parsed.Lat, *parsed.Lng)
}

/*
decodeWKBHex parses the PostGIS read-path representation: a hex string of
the extended-WKB Point — header, then X (longitude) and Y (latitude) as
little-endian doubles.

The 18-character header is skipped without inspection. Anything that does
not fit the little-endian Point layout fails the decode; there is no
fallback to big-endian or to other geometry types.
*/
func decodeWKBHex(text string) (LocationPoint, bool) {
	if len(text) < wkbHeaderHexLen+2*wkbCoordHexLen {
		return LocationPoint{}, false
	}

	body := text[wkbHeaderHexLen:]
	lng, ok := parseCoordHex(body[:wkbCoordHexLen])
	if !ok {
		return LocationPoint{}, false
	}
	lat, ok := parseCoordHex(body[wkbCoordHexLen : 2*wkbCoordHexLen])
	if !ok {
		return LocationPoint{}, false
	}

	return NewPoint(lat, lng)
}

// parseCoordHex decodes 16 hex characters into a little-endian float64.
func parseCoordHex(text string) (float64, bool) {
	raw, err := hex.DecodeString(text)
	if err != nil {
		return 0, false
	}
	value := math.Float64frombits(binary.LittleEndian.Uint64(raw))
	if math.IsNaN(value) {
		return 0, false
	}
	return value, true
}
