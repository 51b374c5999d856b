// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package geo_test

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhdao/restora/internal/core/geo"
)

// wkbPointHex renders a coordinate pair the way PostGIS returns a
// geography(Point, 4326) column: header plus two little-endian doubles,
// longitude first.
func wkbPointHex(lat, lng float64) string {
	const header = "0101000020E6100000"

	coords := make([]byte, 16)
	binary.LittleEndian.PutUint64(coords[0:8], math.Float64bits(lng))
	binary.LittleEndian.PutUint64(coords[8:16], math.Float64bits(lat))

	return header + hex.EncodeToString(coords)
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		name     string
		lat      float64
		lng      float64
		expected string
		ok       bool
	}{
		{
			name:     "goa coordinates",
			lat:      15.4909,
			lng:      73.8278,
			expected: "SRID=4326;POINT(73.8278 15.4909)",
			ok:       true,
		},
		{
			name:     "origin",
			lat:      0,
			lng:      0,
			expected: "SRID=4326;POINT(0 0)",
			ok:       true,
		},
		{
			name:     "negative coordinates",
			lat:      -33.8688,
			lng:      -70.6693,
			expected: "SRID=4326;POINT(-70.6693 -33.8688)",
			ok:       true,
		},
		{
			name:     "range boundaries",
			lat:      90,
			lng:      -180,
			expected: "SRID=4326;POINT(-180 90)",
			ok:       true,
		},
		{
			name: "latitude above range",
			lat:  90.0001,
			lng:  0,
		},
		{
			name: "longitude below range",
			lat:  0,
			lng:  -180.5,
		},
		{
			name: "nan latitude",
			lat:  math.NaN(),
			lng:  73.8278,
		},
		{
			name: "infinite longitude",
			lat:  15.4909,
			lng:  math.Inf(1),
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			literal, ok := geo.Encode(testCase.lat, testCase.lng)

			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.expected, literal)
		})
	}
}

func TestEncodePreservesFullPrecision(t *testing.T) {
	// The rendering must be the shortest decimal that round-trips the
	// exact float64 — not a truncated decimal, and not the source literal
	// either when that literal is not representable (15.490912345678901
	// rounds to the double whose shortest form is 15.4909123456789).
	lat := 15.490912345678901
	lng := 73.82781234567891

	literal, ok := geo.Encode(lat, lng)
	require.True(t, ok)
	assert.Equal(t, "SRID=4326;POINT(73.82781234567891 15.4909123456789)", literal)

	expected := "SRID=4326;POINT(" +
		strconv.FormatFloat(lng, 'f', -1, 64) + " " +
		strconv.FormatFloat(lat, 'f', -1, 64) + ")"
	assert.Equal(t, expected, literal)
}

func TestDecodeStructuredInput(t *testing.T) {
	point, ok := geo.Decode(geo.LatLngInput(12.9716, 77.5946))

	require.True(t, ok)
	assert.Equal(t, 12.9716, point.Lat)
	assert.Equal(t, 77.5946, point.Lng)
}

func TestDecodeStructuredInputRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name string
		lat  float64
		lng  float64
	}{
		{name: "nan latitude", lat: math.NaN(), lng: 77.5946},
		{name: "infinite longitude", lat: 12.9716, lng: math.Inf(-1)},
		{name: "latitude out of range", lat: 91, lng: 77.5946},
		{name: "longitude out of range", lat: 12.9716, lng: 181},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, ok := geo.Decode(geo.LatLngInput(testCase.lat, testCase.lng))
			assert.False(t, ok)
		})
	}
}

func TestDecodeJSONText(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected geo.LocationPoint
		ok       bool
	}{
		{
			name:     "legacy json column",
			text:     `{"lat": 15.4909, "lng": 73.8278}`,
			expected: geo.LocationPoint{Lat: 15.4909, Lng: 73.8278},
			ok:       true,
		},
		{
			name:     "zero coordinates are valid",
			text:     `{"lat": 0, "lng": 0}`,
			expected: geo.LocationPoint{},
			ok:       true,
		},
		{
			name: "missing lng field",
			text: `{"lat": 15.4909}`,
		},
		{
			name: "string coordinates rejected",
			text: `{"lat": "15.4909", "lng": "73.8278"}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			point, ok := geo.Decode(geo.TextInput(testCase.text))

			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.expected, point)
		})
	}
}

func TestDecodeWKBHex(t *testing.T) {
	point, ok := geo.Decode(geo.TextInput(wkbPointHex(15.4909, 73.8278)))

	require.True(t, ok)
	assert.InDelta(t, 15.4909, point.Lat, 1e-6)
	assert.InDelta(t, 73.8278, point.Lng, 1e-6)
}

func TestDecodeWKBHexLowercase(t *testing.T) {
	// PostGIS emits uppercase hex; some drivers lowercase it in transit.
	lowered := wkbPointHex(-33.8688, 151.2093)
	point, ok := geo.Decode(geo.TextInput(toLower(lowered)))

	require.True(t, ok)
	assert.InDelta(t, -33.8688, point.Lat, 1e-6)
	assert.InDelta(t, 151.2093, point.Lng, 1e-6)
}

func toLower(text string) string {
	raw := []byte(text)
	for index, char := range raw {
		if char >= 'A' && char <= 'F' {
			raw[index] = char + ('a' - 'A')
		}
	}
	return string(raw)
}

func TestDecodeRejectsMalformedText(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "empty string", text: ""},
		{name: "header only", text: "0101000020E6100000"},
		{name: "truncated coordinate block", text: "0101000020E6100000" + "00000000"},
		{name: "non hex payload", text: "0101000020E6100000" + "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"},
		{name: "free text", text: "somewhere in goa"},
		{name: "json array", text: `[15.4909, 73.8278]`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, ok := geo.Decode(geo.TextInput(testCase.text))
			assert.False(t, ok)
		})
	}
}

func TestDecodeRejectsNaNPayload(t *testing.T) {
	_, ok := geo.Decode(geo.TextInput(wkbPointHex(math.NaN(), 73.8278)))
	assert.False(t, ok)
}

func TestDecodeEmptyInput(t *testing.T) {
	_, ok := geo.Decode(geo.NoInput())
	assert.False(t, ok)

	assert.True(t, geo.NoInput().IsZero())
	assert.False(t, geo.LatLngInput(1, 1).IsZero())
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	original, ok := geo.Decode(geo.TextInput(wkbPointHex(15.4909, 73.8278)))
	require.True(t, ok)

	// Re-decoding the structured form is idempotent.
	again, ok := geo.Decode(geo.LatLngInput(original.Lat, original.Lng))
	require.True(t, ok)
	assert.Equal(t, original, again)

	literal := again.EWKT()
	assert.Equal(t, "SRID=4326;POINT(73.8278 15.4909)", literal)
}
