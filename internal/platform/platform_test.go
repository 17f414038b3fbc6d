package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Platform
	}{
		{"android", Android},
		{"apk", Android},
		{"ios", IOS},
		{"ipa", IOS},
		{"macos", MacOS},
		{"app", MacOS},
		{"dmg", MacOS},
		{"windows", Windows},
		{"exe", Windows},
		{"web", Web},
	}

	for _, test := range tests {
		p, err := Parse(test.input)
		require.NoError(t, err, "Parse(%q)", test.input)
		assert.Equal(t, test.expected, p, "Parse(%q)", test.input)
	}

	_, err := Parse("amiga")
	assert.Error(t, err)
}

func TestCacheKeyDistinctness(t *testing.T) {
	base := BuildConfig{Platform: Android, Configuration: "debug", Optimization: "standard"}

	configs := []BuildConfig{
		{Platform: IOS, Configuration: "debug", Optimization: "standard"},
		{Platform: Android, Configuration: "release", Optimization: "standard"},
		{Platform: Android, Configuration: "debug", Optimization: "aggressive"},
	}

	seen := map[string]bool{base.CacheKey(): true}
	for _, cfg := range configs {
		key := cfg.CacheKey()
		assert.False(t, seen[key], "cache key collision for %+v", cfg)
		seen[key] = true
	}
}

func TestCacheKeyStable(t *testing.T) {
	a := BuildConfig{Platform: Web, Configuration: "release", Optimization: "standard"}
	b := BuildConfig{Platform: Web, Configuration: "release", Optimization: "standard", ProjectDir: "/elsewhere", Parallel: true}

	// Project dir and toggles do not participate in the key.
	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.Len(t, a.CacheKey(), 64)
}

func TestBuildResultSummary(t *testing.T) {
	r := &BuildResult{Success: true, Cached: true}
	assert.Contains(t, r.Summary(), "SUCCESS (cached)")

	r = &BuildResult{Errors: []string{"boom"}}
	assert.Contains(t, r.Summary(), "FAILED")
	assert.Contains(t, r.Summary(), "Errors: 1")
}
