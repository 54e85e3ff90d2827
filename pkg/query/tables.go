package query

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SynonymRow maps one extraction result to the substrings that trigger
// it. Rows are evaluated in declared order so extraction output is
// deterministic.
type SynonymRow struct {
	Value string   `yaml:"value"`
	Terms []string `yaml:"terms"`
}

// Tables holds the keyword vocabulary for slot extraction. The defaults
// mirror the dispensary catalog taxonomy; deployments can override them
// with a YAML file (see LoadTablesFile).
type Tables struct {
	Categories []SynonymRow `yaml:"categories"`
	Strains    []SynonymRow `yaml:"strains"`
	Effects    []SynonymRow `yaml:"effects"`
}

// DefaultTables returns the built-in vocabulary.
func DefaultTables() *Tables {
	return &Tables{
		Categories: []SynonymRow{
			{Value: "flower", Terms: []string{"flower", "bud", "herb"}},
			{Value: "pre-roll", Terms: []string{"pre-roll", "joint", "roll"}},
			{Value: "vape", Terms: []string{"vape", "cartridge", "pen"}},
			{Value: "edible", Terms: []string{"edible", "gummy", "chocolate"}},
			{Value: "concentrate", Terms: []string{"concentrate", "dab", "wax", "shatter"}},
			{Value: "tincture", Terms: []string{"tincture", "oil", "drops"}},
		},
		Strains: []SynonymRow{
			{Value: "indica", Terms: []string{"indica", "in da couch", "relaxing", "sleep"}},
			{Value: "sativa", Terms: []string{"sativa", "energetic", "uplifting", "energy"}},
			{Value: "hybrid", Terms: []string{"hybrid", "balanced", "mix"}},
		},
		Effects: []SynonymRow{
			{Value: "relaxation", Terms: []string{"relax", "calm", "peace", "chill"}},
			{Value: "sleep", Terms: []string{"sleep", "insomnia", "rest", "bed"}},
			{Value: "pain", Terms: []string{"pain", "ache", "relief", "sore"}},
			{Value: "anxiety", Terms: []string{"anxiety", "stress", "worried"}},
			{Value: "energy", Terms: []string{"energy", "focus", "active", "creative"}},
			{Value: "mood", Terms: []string{"mood", "happy", "euphoric", "uplift"}},
		},
	}
}

// LoadTablesFile reads a vocabulary override from a YAML file. Empty
// sections fall back to the defaults so partial overrides are possible.
func LoadTablesFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables file: %w", err)
	}

	var tables Tables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parse tables file: %w", err)
	}

	defaults := DefaultTables()
	if len(tables.Categories) == 0 {
		tables.Categories = defaults.Categories
	}
	if len(tables.Strains) == 0 {
		tables.Strains = defaults.Strains
	}
	if len(tables.Effects) == 0 {
		tables.Effects = defaults.Effects
	}
	return &tables, nil
}
