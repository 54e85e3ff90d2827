package query

import (
	"reflect"
	"testing"

	"virtual-budtender-be/pkg/catalog"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"Do you have any indica flower?", IntentProductQuery},
		{"I want something relaxing for sleep", IntentProductQuery},
		{"show me more", IntentMoreOptions},
		{"any other options?", IntentMoreOptions},
		{"can you explain that?", IntentProductDetails},
		{"tell me more", IntentMoreOptions}, // "more" outranks "tell me more"
		{"tell me more about the edible", IntentProductQuery},
		{"how was your day?", IntentConversation},
		{"", IntentConversation},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := classifyIntent(tt.text); got != tt.want {
				t.Errorf("classifyIntent(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestIntentRuleOrder(t *testing.T) {
	// The rule table is the contract: priority is product query, then more
	// options, then details, with conversation as the default.
	wantOrder := []Intent{IntentProductQuery, IntentMoreOptions, IntentProductDetails}
	if len(intentRules) != len(wantOrder) {
		t.Fatalf("intentRules has %d rules, want %d", len(intentRules), len(wantOrder))
	}
	for i, rule := range intentRules {
		if rule.Intent != wantOrder[i] {
			t.Errorf("rule %d = %s, want %s", i, rule.Intent, wantOrder[i])
		}
	}
}

func TestAnalyzeExtraction(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	tests := []struct {
		name           string
		text           string
		fallback       catalog.ExperienceLevel
		wantIntent     Intent
		wantCategories []string
		wantStrains    []string
		wantEffects    []string
		wantLevel      catalog.ExperienceLevel
		wantPrice      catalog.PriceBand
	}{
		{
			name:           "new user wanting relaxation and sleep",
			text:           "I'm new and want something relaxing for sleep",
			wantIntent:     IntentProductQuery,
			wantCategories: []string{},
			wantStrains:    []string{"indica"},
			wantEffects:    []string{"relaxation", "sleep"},
			wantLevel:      catalog.LevelNovice,
			wantPrice:      catalog.PriceBandNone,
		},
		{
			name:           "multiple categories",
			text:           "got any cheap gummies or pre-rolls?",
			wantIntent:     IntentProductQuery,
			wantCategories: []string{"pre-roll", "edible"},
			wantStrains:    []string{},
			wantEffects:    []string{},
			wantLevel:      catalog.LevelIntermediate,
			wantPrice:      catalog.PriceBandLow,
		},
		{
			name:           "experienced daily user wanting premium vape",
			text:           "daily smoker here, looking for a top-shelf vape cartridge",
			wantIntent:     IntentProductQuery,
			wantCategories: []string{"vape"},
			wantStrains:    []string{},
			wantEffects:    []string{},
			wantLevel:      catalog.LevelExperienced,
			wantPrice:      catalog.PriceBandHigh,
		},
		{
			name:           "session fallback fills experience level",
			text:           "something for pain please",
			fallback:       catalog.LevelExperienced,
			wantIntent:     IntentProductQuery,
			wantCategories: []string{},
			wantStrains:    []string{},
			wantEffects:    []string{"pain"},
			wantLevel:      catalog.LevelExperienced,
			wantPrice:      catalog.PriceBandNone,
		},
		{
			name:           "plain conversation",
			text:           "how late are you open today?",
			wantIntent:     IntentConversation,
			wantCategories: []string{},
			wantStrains:    []string{},
			wantEffects:    []string{},
			wantLevel:      catalog.LevelIntermediate,
			wantPrice:      catalog.PriceBandNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Analyze(tt.text, tt.fallback)

			if got.Intent != tt.wantIntent {
				t.Errorf("Intent = %s, want %s", got.Intent, tt.wantIntent)
			}
			if !reflect.DeepEqual(got.Categories, tt.wantCategories) {
				t.Errorf("Categories = %v, want %v", got.Categories, tt.wantCategories)
			}
			if !reflect.DeepEqual(got.Strains, tt.wantStrains) {
				t.Errorf("Strains = %v, want %v", got.Strains, tt.wantStrains)
			}
			if !reflect.DeepEqual(got.Effects, tt.wantEffects) {
				t.Errorf("Effects = %v, want %v", got.Effects, tt.wantEffects)
			}
			if got.ExperienceLevel != tt.wantLevel {
				t.Errorf("ExperienceLevel = %s, want %s", got.ExperienceLevel, tt.wantLevel)
			}
			if got.PriceBand != tt.wantPrice {
				t.Errorf("PriceBand = %s, want %s", got.PriceBand, tt.wantPrice)
			}
		})
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	text := "I'm new and want something relaxing for sleep"

	first := analyzer.Analyze(text, catalog.LevelIntermediate)
	for i := 0; i < 50; i++ {
		if got := analyzer.Analyze(text, catalog.LevelIntermediate); !reflect.DeepEqual(got, first) {
			t.Fatalf("analysis changed between calls: %+v vs %+v", got, first)
		}
	}
}

func TestCriteria(t *testing.T) {
	a := Analysis{
		Categories:      []string{"flower", "edible"},
		Strains:         []string{"indica"},
		Effects:         []string{"sleep"},
		ExperienceLevel: catalog.LevelNovice,
		PriceBand:       catalog.PriceBandLow,
	}

	c := a.Criteria()
	if c.Category != "flower" {
		t.Errorf("Category = %q, want flower (first extracted wins)", c.Category)
	}
	if c.Strain != "indica" {
		t.Errorf("Strain = %q, want indica", c.Strain)
	}
	if len(c.Effects) != 1 || c.Effects[0] != "sleep" {
		t.Errorf("Effects = %v", c.Effects)
	}
}

func TestDefaultTablesCoverEveryCategory(t *testing.T) {
	tables := DefaultTables()
	wantCategories := []string{"flower", "pre-roll", "vape", "edible", "concentrate", "tincture"}
	if len(tables.Categories) != len(wantCategories) {
		t.Fatalf("categories rows = %d, want %d", len(tables.Categories), len(wantCategories))
	}
	for i, want := range wantCategories {
		if tables.Categories[i].Value != want {
			t.Errorf("categories[%d] = %s, want %s", i, tables.Categories[i].Value, want)
		}
		if len(tables.Categories[i].Terms) == 0 {
			t.Errorf("categories[%d] has no terms", i)
		}
	}
}
