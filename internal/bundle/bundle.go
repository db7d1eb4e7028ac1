// Package bundle loads grammar bundles (.drb files): zip archives carrying a
// manifest, grammar rules and per-locale error message localizations. A loaded
// Bundle is immutable; hot reload swaps whole bundles via Provider.
package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	derrors "github.com/divvun/divvun-worker-grammar/internal/errors"
)

// Bundle is a loaded grammar bundle.
type Bundle struct {
	path     string
	manifest Manifest
	rules    []Rule

	// locale -> error code -> localization
	locales map[string]map[string]Localization
	matcher language.Matcher
	// matcher index -> locale key, in matcher order
	matcherLocales []string
}

// Localization is the localized presentation of one error code.
type Localization struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Load reads and validates a bundle archive. All rule patterns are compiled
// up front so a malformed bundle fails at startup, not mid-request.
func Load(bundlePath string) (*Bundle, error) {
	zr, err := zip.OpenReader(bundlePath)
	if err != nil {
		return nil, derrors.BundleLoadError(bundlePath, err)
	}
	defer zr.Close()

	b := &Bundle{
		path:    bundlePath,
		locales: make(map[string]map[string]Localization),
	}

	var manifestSeen, rulesSeen bool
	for _, f := range zr.File {
		name := path.Clean(f.Name)
		switch {
		case name == "manifest.yaml":
			if err := readYAMLMember(f, &b.manifest); err != nil {
				return nil, derrors.BundleLoadError(bundlePath, fmt.Errorf("manifest.yaml: %w", err))
			}
			manifestSeen = true
		case name == "rules.yaml":
			var spec rulesFile
			if err := readYAMLMember(f, &spec); err != nil {
				return nil, derrors.BundleLoadError(bundlePath, fmt.Errorf("rules.yaml: %w", err))
			}
			rules, err := compileRules(spec.Rules)
			if err != nil {
				return nil, err
			}
			b.rules = rules
			rulesSeen = true
		case strings.HasPrefix(name, "errors/") && strings.HasSuffix(name, ".yaml"):
			locale := strings.TrimSuffix(path.Base(name), ".yaml")
			var loc map[string]Localization
			if err := readYAMLMember(f, &loc); err != nil {
				return nil, derrors.BundleLoadError(bundlePath, fmt.Errorf("%s: %w", name, err))
			}
			b.locales[locale] = loc
		}
	}

	if !manifestSeen {
		return nil, derrors.BundleLoadError(bundlePath, fmt.Errorf("missing manifest.yaml"))
	}
	if !rulesSeen {
		return nil, derrors.BundleLoadError(bundlePath, fmt.Errorf("missing rules.yaml"))
	}
	if err := b.manifest.validate(); err != nil {
		return nil, derrors.BundleLoadError(bundlePath, err)
	}

	b.buildMatcher()
	return b, nil
}

func readYAMLMember(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

// buildMatcher constructs a language matcher over the available locales. The
// bundle language goes first so it acts as the fallback match.
func (b *Bundle) buildMatcher() {
	keys := make([]string, 0, len(b.locales))
	for k := range b.locales {
		if k == b.manifest.Language {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := append([]string{b.manifest.Language}, keys...)

	tags := make([]language.Tag, 0, len(ordered))
	valid := make([]string, 0, len(ordered))
	for _, k := range ordered {
		tag, err := language.Parse(k)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		valid = append(valid, k)
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
		valid = []string{"en"}
	}
	b.matcher = language.NewMatcher(tags)
	b.matcherLocales = valid
}

// Path returns the path the bundle was loaded from.
func (b *Bundle) Path() string { return b.path }

// Name returns the bundle name from the manifest.
func (b *Bundle) Name() string { return b.manifest.Name }

// Language returns the bundle's primary language.
func (b *Bundle) Language() string { return b.manifest.Language }

// Version returns the bundle version string.
func (b *Bundle) Version() string { return b.manifest.Version }

// Rules returns the compiled grammar rules.
func (b *Bundle) Rules() []Rule { return b.rules }

// Detectors returns the built-in detectors enabled by the manifest.
func (b *Bundle) Detectors() []string { return b.manifest.Detectors }

// Locales returns the locales with localizations, bundle language first.
func (b *Bundle) Locales() []string { return b.matcherLocales }

// resolveLocale picks the best available locale for the request's priority list.
func (b *Bundle) resolveLocale(locales []string) string {
	if len(locales) == 0 {
		return b.manifest.Language
	}
	desired := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		if tag, err := language.Parse(l); err == nil {
			desired = append(desired, tag)
		}
	}
	if len(desired) == 0 {
		return b.manifest.Language
	}
	_, idx, conf := b.matcher.Match(desired...)
	if conf == language.No || idx >= len(b.matcherLocales) {
		return b.manifest.Language
	}
	return b.matcherLocales[idx]
}

// Localize returns the localized title and description for an error code,
// falling back to the bundle language and finally to the code itself.
func (b *Bundle) Localize(code string, locales []string) (title, description string) {
	locale := b.resolveLocale(locales)
	if loc, ok := b.locales[locale][code]; ok && loc.Title != "" {
		return loc.Title, loc.Description
	}
	if loc, ok := b.locales[b.manifest.Language][code]; ok && loc.Title != "" {
		return loc.Title, loc.Description
	}
	return code, ""
}

// ErrorPreferences returns error code -> localized title for every rule and
// enabled detector, used by the preferences endpoint.
func (b *Bundle) ErrorPreferences(locales []string) map[string]string {
	prefs := make(map[string]string, len(b.rules)+len(b.manifest.Detectors))
	for _, r := range b.rules {
		title, _ := b.Localize(r.Code, locales)
		prefs[r.Code] = title
	}
	for _, d := range b.manifest.Detectors {
		title, _ := b.Localize(d, locales)
		prefs[d] = title
	}
	return prefs
}
