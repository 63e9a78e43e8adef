package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	all := AllCategories()
	require.Len(t, all, 11)

	seen := make(map[Category]bool)
	for _, c := range all {
		assert.False(t, seen[c], "duplicate category %s", c)
		seen[c] = true

		info := c.Info()
		assert.True(t, c.Valid(), c)
		assert.Equal(t, c, info.ID)
		assert.NotEmpty(t, c.Label(), c)
		assert.Equal(t, info.Emoji, c.Emoji())
		assert.NotEmpty(t, info.Emoji, c)
		assert.NotEmpty(t, info.Description, c)
	}

	assert.Equal(t, "MCP Server", CategoryMCPServer.Label())

	all[0] = "changed"
	assert.Equal(t, CategorySearch, AllCategories()[0])

	for _, c := range []Category{"", "gaming", "Search"} {
		assert.False(t, c.Valid(), c)
		assert.Empty(t, c.Label())
		assert.Equal(t, CategoryInfo{ID: c}, c.Info())
	}
}

func TestEnums(t *testing.T) {
	tests := []struct {
		name   string
		valid  func() bool
		label  string
		labelf func() string
	}{
		{"api interface", InterfaceAPI.Valid, "API", InterfaceAPI.Label},
		{"graphql interface", InterfaceGraphQL.Valid, "GraphQL", InterfaceGraphQL.Label},
		{"unknown interface", Interface("grpc").Valid, "", Interface("grpc").Label},
		{"api signup", SignupAPI.Valid, "API Signup", SignupAPI.Label},
		{"bot friendly signup", SignupWebsiteBotFriendly.Valid, "Bot Friendly", SignupWebsiteBotFriendly.Label},
		{"human signup", SignupHumanOnly.Valid, "Human Required", SignupHumanOnly.Label},
		{"unknown signup", SignupMethod("email").Valid, "", SignupMethod("email").Label},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label != "", tt.valid())
			assert.Equal(t, tt.label, tt.labelf())
		})
	}

	assert.Len(t, AllInterfaces(), 6)
	assert.Len(t, AllSignupMethods(), 3)
	for _, p := range AllPricingModels() {
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, PricingModel("freemium").Valid())
}

func TestScoreBoundaries(t *testing.T) {
	tests := []struct {
		score int
		label string
		tier  ScoreTier
	}{
		{10, "Native", ScoreTierHigh},
		{9, "Excellent", ScoreTierHigh},
		{8, "Good", ScoreTierMedium},
		{7, "Good", ScoreTierMedium},
		{6, "Partial", ScoreTierLow},
		{5, "Partial", ScoreTierLow},
		{4, "Limited", ScoreTierLow},
		{1, "Limited", ScoreTierLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.label, ScoreLabel(tt.score), "label for %d", tt.score)
		assert.Equal(t, tt.tier, TierForScore(tt.score), "tier for %d", tt.score)
	}
}

func TestInterfaces(t *testing.T) {
	var f Interfaces
	for _, i := range AllInterfaces() {
		assert.False(t, f.Has(i), i)
	}

	f = f.Set(InterfaceMCP, true).Set(InterfaceAPI, true)
	assert.True(t, f.Has(InterfaceMCP))
	assert.Equal(t, []Interface{InterfaceAPI, InterfaceMCP}, f.Enabled())

	f = f.Set(InterfaceAPI, false).Set("grpc", true)
	assert.False(t, f.Has("grpc"))
	assert.Equal(t, Interfaces{MCP: true}, f)
}

func TestToolClone(t *testing.T) {
	mcp := "https://example.com/mcp"
	orig := Tool{
		Slug:         "exa",
		SDKLanguages: []string{"python"},
		Tags:         []string{"search"},
		MCPServerURL: &mcp,
		AddedAt:      time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	clone := orig.Clone()
	clone.SDKLanguages[0] = "go"
	clone.Tags[0] = "changed"
	*clone.MCPServerURL = "https://other.example.com"

	assert.Equal(t, "python", orig.SDKLanguages[0])
	assert.Equal(t, "search", orig.Tags[0])
	assert.Equal(t, "https://example.com/mcp", *orig.MCPServerURL)
	assert.Equal(t, orig.AddedAt, clone.AddedAt)
}
