package checker

import (
	"context"
	"sort"
	"strings"

	"github.com/divvun/divvun-worker-grammar/internal/bundle"
	derrors "github.com/divvun/divvun-worker-grammar/internal/errors"
)

// Pipeline checks text against one bundle with fixed per-request options.
type Pipeline struct {
	bundle *bundle.Bundle
	opts   Options
	ignore map[string]struct{}
}

// New creates a pipeline over the given bundle.
func New(b *bundle.Bundle, opts Options) *Pipeline {
	if opts.Encoding == "" {
		opts.Encoding = EncodingUTF16
	}
	ignore := make(map[string]struct{}, len(opts.Ignore))
	for _, tag := range opts.Ignore {
		ignore[tag] = struct{}{}
	}
	return &Pipeline{bundle: b, opts: opts, ignore: ignore}
}

// Check runs all rules and enabled detectors over text. Errors are returned
// ordered by start offset. Empty text yields an empty error list.
func (p *Pipeline) Check(ctx context.Context, text string) (Result, error) {
	result := Result{Text: text, Errs: []Err{}}
	if text == "" {
		return result, nil
	}

	offsets := newOffsetMap(text, p.opts.Encoding)

	for _, rule := range p.bundle.Rules() {
		if err := ctx.Err(); err != nil {
			return Result{}, derrors.PipelineError(err)
		}
		if p.ignored(rule.Code, rule.Tags) {
			continue
		}
		result.Errs = append(result.Errs, p.applyRule(rule, text, offsets)...)
	}

	for _, detector := range p.bundle.Detectors() {
		if err := ctx.Err(); err != nil {
			return Result{}, derrors.PipelineError(err)
		}
		if p.ignored(detector, nil) {
			continue
		}
		var matches []match
		switch detector {
		case "double-word":
			matches = findDoubleWords(text)
		case "double-space":
			matches = findDoubleSpaces(text)
		}
		for _, m := range matches {
			result.Errs = append(result.Errs, p.newErr(detector, text, m, offsets))
		}
	}

	sort.SliceStable(result.Errs, func(i, j int) bool {
		if result.Errs[i].Beg != result.Errs[j].Beg {
			return result.Errs[i].Beg < result.Errs[j].Beg
		}
		return result.Errs[i].End < result.Errs[j].End
	})
	return result, nil
}

func (p *Pipeline) ignored(code string, tags []string) bool {
	if _, ok := p.ignore[code]; ok {
		return true
	}
	for _, tag := range tags {
		if _, ok := p.ignore[tag]; ok {
			return true
		}
	}
	return false
}

// applyRule collects every match of a rule as a reported error.
func (p *Pipeline) applyRule(rule bundle.Rule, text string, offsets *offsetMap) []Err {
	locs := rule.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	errs := make([]Err, 0, len(locs))
	for _, loc := range locs {
		m := match{beg: loc[0], end: loc[1]}
		suggestions := make([]string, 0, len(rule.Replacements))
		for _, tmpl := range rule.Replacements {
			expanded := rule.Pattern.ExpandString(nil, tmpl, text, loc)
			suggestions = append(suggestions, string(expanded))
		}
		e := p.newErr(rule.Code, text, m, offsets)
		e.Suggestions = suggestions
		errs = append(errs, e)
	}
	return errs
}

// match is a half-open byte range in the input text.
type match struct {
	beg, end int
	// suggestions produced by the detector itself, if any
	suggestions []string
}

func (p *Pipeline) newErr(code, text string, m match, offsets *offsetMap) Err {
	form := text[m.beg:m.end]
	title, description := p.bundle.Localize(code, p.opts.Locales)
	description = strings.ReplaceAll(description, "{form}", form)
	suggestions := m.suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return Err{
		Form:        form,
		Beg:         offsets.convert(m.beg),
		End:         offsets.convert(m.end),
		Code:        code,
		Title:       title,
		Description: description,
		Suggestions: suggestions,
	}
}
