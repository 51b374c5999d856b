// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhdao/restora/internal/platform/sec"
)

func claimsFor(role, tenantID string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "user-1", TenantID: tenantID, Role: role}
}

func TestListingStatus(t *testing.T) {
	testCases := []struct {
		name      string
		claims    *sec.AuthClaims
		requested Status
		expected  Status
	}{
		{
			name:      "anonymous caller is pinned to published",
			claims:    nil,
			requested: StatusDraft,
			expected:  StatusPublished,
		},
		{
			name:      "anonymous caller without a status filter",
			claims:    nil,
			requested: "",
			expected:  StatusPublished,
		},
		{
			name:      "member caller is pinned to published",
			claims:    claimsFor(string(sec.RoleMember), ""),
			requested: StatusSuspended,
			expected:  StatusPublished,
		},
		{
			name:      "owner may request drafts",
			claims:    claimsFor(string(sec.RoleOwner), "rest-1"),
			requested: StatusDraft,
			expected:  StatusDraft,
		},
		{
			name:      "admin may request any status",
			claims:    claimsFor(string(sec.RoleAdmin), ""),
			requested: StatusSuspended,
			expected:  StatusSuspended,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, listingStatus(testCase.claims, testCase.requested))
		})
	}
}

func TestCanViewUnpublished(t *testing.T) {
	testCases := []struct {
		name     string
		claims   *sec.AuthClaims
		expected bool
	}{
		{
			name:     "anonymous caller cannot view",
			claims:   nil,
			expected: false,
		},
		{
			name:     "member cannot view",
			claims:   claimsFor(string(sec.RoleMember), ""),
			expected: false,
		},
		{
			name:     "owner of another restaurant cannot view",
			claims:   claimsFor(string(sec.RoleOwner), "rest-2"),
			expected: false,
		},
		{
			name:     "owning tenant can view",
			claims:   claimsFor(string(sec.RoleOwner), "rest-1"),
			expected: true,
		},
		{
			name:     "admin can view",
			claims:   claimsFor(string(sec.RoleAdmin), ""),
			expected: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, canViewUnpublished(testCase.claims, "rest-1"))
		})
	}
}
