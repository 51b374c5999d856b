// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhdao/restora/internal/platform/database/schema"
)

// highestPlaceholder returns the largest $N referenced in a query.
func highestPlaceholder(t *testing.T, query string) int {
	t.Helper()

	matches := regexp.MustCompile(`\$(\d+)`).FindAllStringSubmatch(query, -1)
	highest := 0
	for _, match := range matches {
		n, err := strconv.Atoi(match[1])
		require.NoError(t, err)
		if n > highest {
			highest = n
		}
	}
	return highest
}

func TestInsertRestaurantQueryIsWellFormed(t *testing.T) {
	query := insertRestaurantSQL()

	// A verb/argument mismatch in the query builder surfaces as a fmt
	// error marker inside the SQL text.
	assert.NotContains(t, query, "%!")
	assert.NotContains(t, query, "(MISSING)")
	assert.NotContains(t, query, "(EXTRA")

	table := schema.CoreRestaurant
	for _, column := range []string{
		table.ID, table.OwnerID, table.Name, table.Slug, table.Description,
		table.CuisineTypes, table.Phone, table.Address, table.City,
		table.Location, table.LogoURL, table.CoverURL, table.GalleryURLs,
		table.MenuURLs, table.CertificateURLs, table.Status,
	} {
		assert.Contains(t, query, column)
	}

	// The timestamp columns are server-populated on insert.
	assert.Equal(t, 2, strings.Count(query, "NOW()"))
}

func TestInsertRestaurantArgsMatchPlaceholders(t *testing.T) {
	r := &Restaurant{
		ID:              "rest-1",
		OwnerID:         "owner-1",
		Name:            "Cafe Mondegar",
		Slug:            "cafe-mondegar",
		LogoURL:         "https://cdn.restora.app/storage/v1/object/public/restora-media/restaurants/rest-1/logo/a.png",
		CoverURL:        "https://cdn.restora.app/storage/v1/object/public/restora-media/restaurants/rest-1/cover/b.jpg",
		GalleryURLs:     []string{},
		MenuURLs:        []string{},
		CertificateURLs: []string{},
		Status:          StatusDraft,
	}

	query := insertRestaurantSQL()
	args := insertRestaurantArgs(r)

	require.Equal(t, highestPlaceholder(t, query), len(args),
		"every $N placeholder needs exactly one bind argument")

	// The media slots ride along on create; a duplicated restaurant's
	// copied logo and cover must not fall back to the column defaults.
	assert.Contains(t, args, r.LogoURL)
	assert.Contains(t, args, r.CoverURL)
	assert.Equal(t, r.LogoURL, args[10])
	assert.Equal(t, r.CoverURL, args[11])
}

func TestSelectColumnsMatchScanTargets(t *testing.T) {
	// scanRestaurant reads 18 fields; the shared projection must stay in
	// lock-step with it.
	projection := selectColumns()
	assert.Equal(t, 18, len(strings.Split(projection, ", ")))
	assert.NotContains(t, projection, "%!")
}
