package report

import (
	"fmt"
	"regexp"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/config"
	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

// NoiseFilter excludes system-owned resources from the report. Which
// resources count as noise is organization-specific, so the rules come from
// configuration rather than code.
type NoiseFilter struct {
	rules []noiseRule
}

type noiseRule struct {
	id   *regexp.Regexp
	name *regexp.Regexp
}

func NewNoiseFilter(rules []config.NoiseRule) (*NoiseFilter, error) {
	f := &NoiseFilter{}
	for _, r := range rules {
		var compiled noiseRule
		var err error
		if r.ID != "" {
			if compiled.id, err = regexp.Compile(r.ID); err != nil {
				return nil, fmt.Errorf("noise rule id pattern %q: %w", r.ID, err)
			}
		}
		if r.Name != "" {
			if compiled.name, err = regexp.Compile(r.Name); err != nil {
				return nil, fmt.Errorf("noise rule name pattern %q: %w", r.Name, err)
			}
		}
		if compiled.id == nil && compiled.name == nil {
			continue // empty rule, nothing to match
		}
		f.rules = append(f.rules, compiled)
	}
	return f, nil
}

// IsNoise reports whether the resolved resource should be excluded. A rule
// matches when every pattern it sets matches.
func (f *NoiseFilter) IsNoise(res model.ResolvedResource) bool {
	for _, rule := range f.rules {
		if rule.id != nil && !rule.id.MatchString(res.Ref.ID) {
			continue
		}
		if rule.name != nil && !rule.name.MatchString(res.Name) {
			continue
		}
		return true
	}
	return false
}
