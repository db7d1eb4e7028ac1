package helpers

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// BundleFixture describes the members of a test bundle archive.
type BundleFixture struct {
	Manifest string
	Rules    string
	// locale -> YAML content for errors/<locale>.yaml
	Locales map[string]string
}

// DefaultBundleFixture returns a small but realistic bundle: one typo rule,
// one punctuation rule, both built-in detectors, English and Northern Sami
// localizations.
func DefaultBundleFixture() BundleFixture {
	return BundleFixture{
		Manifest: `name: test-grammar
language: en
version: "1.0.0"
detectors: [double-word, double-space]
`,
		Rules: `rules:
  - code: typo-lowercase-i
    pattern: '(^|[ ])(i)([ ]|$)'
    replacements: ["${1}I${3}"]
    tags: [typo]
  - code: punct-space-before
    pattern: ' +([,.!?;:])'
    replacements: ["$1"]
    tags: [punct]
`,
		Locales: map[string]string{
			"en": `typo-lowercase-i:
  title: Lowercase pronoun
  description: The pronoun "I" must be capitalized.
punct-space-before:
  title: Space before punctuation
  description: Remove the space before "{form}".
double-word:
  title: Repeated word
  description: The word is repeated.
double-space:
  title: Repeated space
  description: Collapse consecutive spaces.
`,
			"se": `typo-lowercase-i:
  title: Smávva bustáva
double-word:
  title: Geardduhuvvon sátni
`,
		},
	}
}

// WriteBundle writes the fixture as a .drb zip archive and returns its path.
func WriteBundle(t testing.TB, fixture BundleFixture) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.drb")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create bundle file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip member %s: %v", name, err)
		}
	}

	if fixture.Manifest != "" {
		write("manifest.yaml", fixture.Manifest)
	}
	if fixture.Rules != "" {
		write("rules.yaml", fixture.Rules)
	}
	for locale, content := range fixture.Locales {
		write("errors/"+locale+".yaml", content)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return path
}
