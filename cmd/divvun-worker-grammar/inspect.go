package main

import (
	"fmt"
	"strings"

	"github.com/divvun/divvun-worker-grammar/internal/bundle"
	derrors "github.com/divvun/divvun-worker-grammar/internal/errors"
)

// runInspect prints bundle metadata, rules and localization coverage.
func runInspect(path string) error {
	b, err := bundle.Load(path)
	if err != nil {
		return derrors.BundleLoadError(path, err)
	}

	fmt.Printf("Bundle:    %s\n", b.Name())
	fmt.Printf("Language:  %s\n", b.Language())
	fmt.Printf("Version:   %s\n", b.Version())
	fmt.Printf("Locales:   %s\n", strings.Join(b.Locales(), ", "))

	if detectors := b.Detectors(); len(detectors) > 0 {
		fmt.Printf("Detectors: %s\n", strings.Join(detectors, ", "))
	}

	rules := b.Rules()
	fmt.Printf("Rules:     %d\n", len(rules))
	for _, r := range rules {
		tags := ""
		if len(r.Tags) > 0 {
			tags = " [" + strings.Join(r.Tags, ", ") + "]"
		}
		fmt.Printf("  %-24s %s%s\n", r.Code, r.Pattern.String(), tags)
	}
	return nil
}
