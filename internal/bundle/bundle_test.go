package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helpers "github.com/divvun/divvun-worker-grammar/internal/testutil/testutils"
)

func loadFixture(t *testing.T) *Bundle {
	t.Helper()
	path := helpers.WriteBundle(t, helpers.DefaultBundleFixture())
	b, err := Load(path)
	require.NoError(t, err)
	return b
}

func TestLoad(t *testing.T) {
	b := loadFixture(t)
	assert.Equal(t, "test-grammar", b.Name())
	assert.Equal(t, "en", b.Language())
	assert.Equal(t, "1.0.0", b.Version())
	assert.Len(t, b.Rules(), 2)
	assert.Equal(t, []string{"double-word", "double-space"}, b.Detectors())
	assert.Equal(t, []string{"en", "se"}, b.Locales())
}

func TestLoadMissingManifest(t *testing.T) {
	fixture := helpers.DefaultBundleFixture()
	fixture.Manifest = ""
	path := helpers.WriteBundle(t, fixture)
	_, err := Load(path)
	assert.ErrorContains(t, err, "manifest.yaml")
}

func TestLoadMissingRules(t *testing.T) {
	fixture := helpers.DefaultBundleFixture()
	fixture.Rules = ""
	path := helpers.WriteBundle(t, fixture)
	_, err := Load(path)
	assert.ErrorContains(t, err, "rules.yaml")
}

func TestLoadBadPattern(t *testing.T) {
	fixture := helpers.DefaultBundleFixture()
	fixture.Rules = "rules:\n  - code: broken\n    pattern: '(['\n"
	path := helpers.WriteBundle(t, fixture)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadUnknownDetector(t *testing.T) {
	fixture := helpers.DefaultBundleFixture()
	fixture.Manifest = "name: x\nlanguage: en\ndetectors: [nope]\n"
	path := helpers.WriteBundle(t, fixture)
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown detector")
}

func TestLocalizeFallback(t *testing.T) {
	b := loadFixture(t)

	title, desc := b.Localize("typo-lowercase-i", []string{"se"})
	assert.Equal(t, "Smávva bustáva", title)
	assert.Empty(t, desc)

	// se has no entry for punct-space-before; falls back to bundle language
	title, _ = b.Localize("punct-space-before", []string{"se"})
	assert.Equal(t, "Space before punctuation", title)

	// unknown code falls back to the code itself
	title, _ = b.Localize("no-such-code", nil)
	assert.Equal(t, "no-such-code", title)
}

func TestLocalizeMatchesRegionalVariant(t *testing.T) {
	b := loadFixture(t)
	title, _ := b.Localize("typo-lowercase-i", []string{"en-GB", "se"})
	assert.Equal(t, "Lowercase pronoun", title)
}

func TestErrorPreferences(t *testing.T) {
	b := loadFixture(t)
	prefs := b.ErrorPreferences([]string{"en"})
	assert.Equal(t, "Lowercase pronoun", prefs["typo-lowercase-i"])
	assert.Equal(t, "Repeated word", prefs["double-word"])
	assert.Len(t, prefs, 4)
}

func TestProviderSwap(t *testing.T) {
	b := loadFixture(t)
	p := NewProvider(b)
	assert.Same(t, b, p.Current())

	b2 := loadFixture(t)
	p.Swap(b2)
	assert.Same(t, b2, p.Current())
}
