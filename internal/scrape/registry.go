package scrape

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/selectors.yaml
var selectorsYAML embed.FS

// Selectors holds every CSS selector the extractor needs, plus the sport
// icon map. Kept in an embedded YAML file so a markup change on the site is
// a config edit, not a code change.
type Selectors struct {
	Page       PageConfig     `yaml:"page"`
	Containers []string       `yaml:"containers"`
	Validity   ValidityConfig `yaml:"validity"`
	Fields     FieldConfig    `yaml:"fields"`
	Sports     map[int]string `yaml:"sports"`
}

// PageConfig identifies page-level landmarks.
type PageConfig struct {
	Marker string `yaml:"marker"` // present whenever the listing section rendered
}

// ValidityConfig decides whether a container is actually a boost card.
type ValidityConfig struct {
	BoostBadge string `yaml:"boost_badge"`
	Odds       string `yaml:"odds"`
}

// FieldConfig maps record fields to selectors inside a boost card.
type FieldConfig struct {
	SportIcon   string `yaml:"sport_icon"`
	Detail      string `yaml:"detail"`
	Match       string `yaml:"match"`
	Market      string `yaml:"market"`
	BaseOdds    string `yaml:"base_odds"`
	BoostedOdds string `yaml:"boosted_odds"`
}

// LoadSelectors reads the embedded selectors.yaml. A non-empty path
// overrides it from the filesystem, for trying new selectors without a
// rebuild.
func LoadSelectors(path string) (*Selectors, error) {
	data, err := selectorsYAML.ReadFile("config/selectors.yaml")
	if path != "" {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read selector config: %w", err)
	}

	var sel Selectors
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("parse selector config: %w", err)
	}
	if len(sel.Containers) == 0 {
		return nil, fmt.Errorf("selector config has no container selectors")
	}
	return &sel, nil
}
