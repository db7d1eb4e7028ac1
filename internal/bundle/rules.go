package bundle

import (
	"fmt"
	"regexp"

	derrors "github.com/divvun/divvun-worker-grammar/internal/errors"
)

// Rule is a compiled grammar rule. Matches of Pattern become reported errors
// with Code; Replacements are regexp expansion templates ($1 style) producing
// the suggestion list.
type Rule struct {
	Code         string
	Pattern      *regexp.Regexp
	Replacements []string
	Tags         []string
}

type rulesFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Code         string   `yaml:"code"`
	Pattern      string   `yaml:"pattern"`
	Replacements []string `yaml:"replacements,omitempty"`
	Tags         []string `yaml:"tags,omitempty"`
}

func compileRules(specs []ruleSpec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if s.Code == "" {
			return nil, derrors.BundleRuleError("", fmt.Errorf("rule without code"))
		}
		if seen[s.Code] {
			return nil, derrors.BundleRuleError(s.Code, fmt.Errorf("duplicate rule code"))
		}
		seen[s.Code] = true
		if s.Pattern == "" {
			return nil, derrors.BundleRuleError(s.Code, fmt.Errorf("rule without pattern"))
		}
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, derrors.BundleRuleError(s.Code, err)
		}
		rules = append(rules, Rule{
			Code:         s.Code,
			Pattern:      re,
			Replacements: s.Replacements,
			Tags:         s.Tags,
		})
	}
	return rules, nil
}
