package recommend

import (
	"strings"
	"testing"

	"virtual-budtender-be/pkg/catalog"
)

func item(id string, thcMax float64, inventory int, effects ...string) *catalog.Item {
	return &catalog.Item{
		Id:        id,
		Name:      id,
		Category:  "Flower",
		THCMax:    thcMax,
		Inventory: inventory,
		Effects:   effects,
		Active:    true,
	}
}

func TestScoreComponents(t *testing.T) {
	s := NewScorer(Config{})
	criteria := catalog.SearchCriteria{
		Effects:         []string{"relaxation", "sleep"},
		ExperienceLevel: catalog.LevelNovice,
	}

	tests := []struct {
		name string
		it   *catalog.Item
		want float64
	}{
		{
			name: "two effects, ideal THC, capped inventory",
			// 10 (effects) + 10 (thc at ideal 10) + 3 (inventory cap)
			it:   item("A", 10, 100, "relaxation", "sleep"),
			want: 23,
		},
		{
			name: "one effect, off-ideal THC",
			// 5 + (10 - |14-10|) + 0.5
			it:   item("B", 14, 5, "sleep"),
			want: 11.5,
		},
		{
			name: "no THC data scores zero on fit",
			// 5 + 0 + 1
			it:   item("C", 0, 10, "sleep"),
			want: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.it, criteria); got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreEffectMonotonicity(t *testing.T) {
	s := NewScorer(Config{})
	criteria := catalog.SearchCriteria{
		Effects:         []string{"relaxation", "sleep", "pain"},
		ExperienceLevel: catalog.LevelIntermediate,
	}

	without := item("X", 20, 10, "relaxation")
	with := item("X", 20, 10, "relaxation", "sleep")

	if s.Score(with, criteria) < s.Score(without, criteria) {
		t.Errorf("adding a matching effect lowered the score: %v < %v",
			s.Score(with, criteria), s.Score(without, criteria))
	}
}

func TestScorePriceBandBonus(t *testing.T) {
	s := NewScorer(Config{})

	cheap := 8.0
	pricey := 20.0
	low := item("low", 0, 10)
	low.PricePerGram = &cheap
	high := item("high", 0, 10)
	high.PricePerGram = &pricey

	if got := s.Score(low, catalog.SearchCriteria{PriceBand: catalog.PriceBandLow}); got != 4 {
		t.Errorf("low band bonus score = %v, want 4", got)
	}
	if got := s.Score(high, catalog.SearchCriteria{PriceBand: catalog.PriceBandHigh}); got != 4 {
		t.Errorf("high band bonus score = %v, want 4", got)
	}
	if got := s.Score(low, catalog.SearchCriteria{PriceBand: catalog.PriceBandHigh}); got != 1 {
		t.Errorf("mismatched band should get no bonus, got %v", got)
	}
}

func TestRankOrdering(t *testing.T) {
	s := NewScorer(Config{})
	criteria := catalog.SearchCriteria{
		Effects:         []string{"sleep"},
		ExperienceLevel: catalog.LevelNovice,
	}

	items := []*catalog.Item{
		item("weak", 0, 10),
		item("strong", 10, 10, "sleep"),
	}

	ranked := s.Rank(items, criteria)
	if ranked[0].Item.Id != "strong" || ranked[1].Item.Id != "weak" {
		t.Errorf("ranked order = [%s %s], want [strong weak]", ranked[0].Item.Id, ranked[1].Item.Id)
	}
}

func TestRankStableTies(t *testing.T) {
	s := NewScorer(Config{})
	criteria := catalog.SearchCriteria{ExperienceLevel: catalog.LevelNovice}

	// Identical items score identically; encounter order must survive.
	items := []*catalog.Item{
		item("first", 10, 10),
		item("second", 10, 10),
		item("third", 10, 10),
	}

	for i := 0; i < 20; i++ {
		ranked := s.Rank(items, criteria)
		if ranked[0].Item.Id != "first" || ranked[1].Item.Id != "second" || ranked[2].Item.Id != "third" {
			t.Fatalf("tie order broken on run %d: [%s %s %s]",
				i, ranked[0].Item.Id, ranked[1].Item.Id, ranked[2].Item.Id)
		}
	}
}

func TestMatchDetails(t *testing.T) {
	s := NewScorer(Config{LowStockThreshold: 5})
	criteria := catalog.SearchCriteria{
		Effects:         []string{"sleep", "pain"},
		ExperienceLevel: catalog.LevelNovice,
	}

	ranked := s.Rank([]*catalog.Item{item("A", 12, 3, "sleep")}, criteria)
	details := ranked[0].MatchDetails

	if len(details) != 3 {
		t.Fatalf("details = %v, want THC, effects and stock lines", details)
	}
	if !strings.Contains(details[0], "12.0%") || !strings.Contains(details[0], "novice") {
		t.Errorf("THC detail = %q", details[0])
	}
	if !strings.Contains(details[1], "sleep") || strings.Contains(details[1], "pain") {
		t.Errorf("effects detail = %q", details[1])
	}
	if !strings.Contains(details[2], "3 units") {
		t.Errorf("stock detail = %q", details[2])
	}
}

func TestRankCopiesItems(t *testing.T) {
	s := NewScorer(Config{})
	src := item("A", 10, 10, "sleep")

	ranked := s.Rank([]*catalog.Item{src}, catalog.SearchCriteria{ExperienceLevel: catalog.LevelNovice})
	ranked[0].Item.Name = "mutated"

	if src.Name != "A" {
		t.Error("ranking must not alias the catalog item")
	}
}
