package enrichment

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules holds the surface vocabulary of the LLM classifiers. The prompts
// sent upstream and the validation sets are both derived from this one
// structure, so relabelling (e.g. localised category names) cannot drift
// out of sync with validation.
type Rules struct {
	Categories CategoryLabels `yaml:"categories" json:"categories"`
	SpamSigns  []string       `yaml:"spam_signs" json:"spam_signs"`
}

type CategoryLabels struct {
	Technical string `yaml:"technical" json:"technical"`
	Billing   string `yaml:"billing" json:"billing"`
	Other     string `yaml:"other" json:"other"`
}

func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultRules(), err
	}

	var rules Rules
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return DefaultRules(), err
	}

	if rules.Categories.Technical == "" || rules.Categories.Billing == "" || rules.Categories.Other == "" {
		return DefaultRules(), errors.New("classifier rules must name all three category labels")
	}
	if len(rules.SpamSigns) == 0 {
		rules.SpamSigns = DefaultRules().SpamSigns
	}

	return rules, nil
}

func DefaultRules() Rules {
	return Rules{
		Categories: CategoryLabels{
			Technical: "technical",
			Billing:   "billing",
			Other:     "other",
		},
		SpamSigns: []string{
			"promotional offers or advertising",
			"urgency language pushing immediate action",
			"promises of unrealistic gains or rewards",
			"suspicious contact details or links",
			"text that reads like a bulk mailing rather than a personal complaint",
		},
	}
}

// lookup maps a normalised upstream answer back to the canonical category.
// An empty answer never matches a label, whatever the labels are.
func (r Rules) lookup(label string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return CategoryOther, false
	}
	switch normalized {
	case strings.ToLower(r.Categories.Technical):
		return CategoryTechnical, true
	case strings.ToLower(r.Categories.Billing):
		return CategoryBilling, true
	case strings.ToLower(r.Categories.Other):
		return CategoryOther, true
	}
	return CategoryOther, false
}
