// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package asset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhdao/restora/internal/core/asset"
	"github.com/minhdao/restora/internal/platform/apperr"
)

const testPublicPrefix = "https://cdn.restora.app/storage/v1/object/public/restora-media"

func TestBuildPath(t *testing.T) {
	path := asset.BuildPath("tenant-1", asset.CategoryGallery, "Beach View.JPG")

	segments := strings.Split(path, "/")
	require.Len(t, segments, 4)
	assert.Equal(t, "restaurants", segments[0])
	assert.Equal(t, "tenant-1", segments[1])
	assert.Equal(t, "gallery", segments[2])
	assert.True(t, strings.HasSuffix(segments[3], ".jpg"), "extension must be lower-cased: %s", segments[3])
}

func TestBuildPathIsCollisionFree(t *testing.T) {
	first := asset.BuildPath("tenant-1", asset.CategoryLogo, "logo.png")
	second := asset.BuildPath("tenant-1", asset.CategoryLogo, "logo.png")

	assert.NotEqual(t, first, second)
}

func TestBuildPathWithoutExtension(t *testing.T) {
	path := asset.BuildPath("tenant-1", asset.CategoryMenu, "menu")

	segments := strings.Split(path, "/")
	require.Len(t, segments, 4)
	assert.NotContains(t, segments[3], ".")
}

func TestBuildPathKeepsTenantVerbatim(t *testing.T) {
	// The builder must not decode or sanitize the tenant segment;
	// verification happens before this boundary.
	path := asset.BuildPath("tenant%2F1", asset.CategoryCover, "c.webp")

	assert.True(t, strings.HasPrefix(path, "restaurants/tenant%2F1/cover/"))
}

func TestParsePublicURL(t *testing.T) {
	testCases := []struct {
		name        string
		url         string
		expectedKey string
		errCode     string
	}{
		{
			name:        "managed url",
			url:         testPublicPrefix + "/restaurants/t1/logo/abc.jpg",
			expectedKey: "restaurants/t1/logo/abc.jpg",
		},
		{
			name:    "other bucket",
			url:     "https://cdn.restora.app/storage/v1/object/public/OTHERBUCKET/x.jpg",
			errCode: "INVALID_REFERENCE",
		},
		{
			name:    "foreign host",
			url:     "https://evil.example.com/restaurants/t1/logo/abc.jpg",
			errCode: "INVALID_REFERENCE",
		},
		{
			name:    "prefix with no key",
			url:     testPublicPrefix + "/",
			errCode: "INVALID_REFERENCE",
		},
		{
			name:    "empty url",
			url:     "",
			errCode: "INVALID_REFERENCE",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			key, err := asset.ParsePublicURL(testPublicPrefix, testCase.url)

			if testCase.errCode == "" {
				require.NoError(t, err)
				assert.Equal(t, testCase.expectedKey, key)
				return
			}

			require.Error(t, err)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, testCase.errCode, appErr.Code)
		})
	}
}
