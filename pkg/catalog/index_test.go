package catalog

import (
	"testing"
)

func rec(id, name, category string) RawRecord {
	return RawRecord{Id: id, Name: name, Category: category, Inventory: 10}
}

func TestLoadValidation(t *testing.T) {
	ix := NewIndex(PriceBands{})

	records := []RawRecord{
		rec("A", "Blue Dream", "Flower"),
		{Name: "No Id", Category: "Flower"},
		{Id: "C", Category: "Flower"},
		{Id: "D", Name: "No Category"},
		rec("A", "Duplicate Id", "Edible"),
		rec("E", "Sour Gummies", "Edible"),
	}

	accepted, rejected := ix.Load(records)
	if accepted != 2 {
		t.Errorf("accepted = %d, want 2", accepted)
	}
	if rejected != 4 {
		t.Errorf("rejected = %d, want 4", rejected)
	}
	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}

	if it, ok := ix.Get("A"); !ok || it.Name != "Blue Dream" {
		t.Errorf("Get(A) should keep the first occurrence, got %+v", it)
	}
}

func TestLoadCoercion(t *testing.T) {
	data := []byte(`[
		{"id":"A","name":"Blue Dream","category":"Flower","thc_max":"21.5","price":35,"unit_grams":3.5,"inventory":"8"},
		{"id":"B","name":"Mystery","category":"Edible","thc_max":"not-a-number","price":-5,"inventory":null}
	]`)

	records, err := ParseRecords(data)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}

	ix := NewIndex(PriceBands{})
	ix.Load(records)

	a, _ := ix.Get("A")
	if a.THCMax != 21.5 || a.Inventory != 8 {
		t.Errorf("A coercion: thcMax=%v inventory=%v", a.THCMax, a.Inventory)
	}
	if a.PricePerGram == nil || *a.PricePerGram != 10 {
		t.Errorf("A price per gram = %v, want 10", a.PricePerGram)
	}

	b, _ := ix.Get("B")
	if b.THCMax != 0 || b.Price != 0 || b.Inventory != 0 {
		t.Errorf("B coercion to zero failed: %+v", b)
	}
	if b.PricePerGram != nil {
		t.Errorf("B should have no price per gram without price and unit size")
	}
}

func TestParseRecordsUnreadable(t *testing.T) {
	_, err := ParseRecords([]byte(`{{not json`))
	if err == nil {
		t.Fatal("expected error for unreadable payload")
	}
	if _, ok := err.(*LoadError); !ok {
		t.Errorf("error type = %T, want *LoadError", err)
	}
}

func TestByCategory(t *testing.T) {
	ix := NewIndex(PriceBands{})
	ix.Load([]RawRecord{
		{Id: "A", Name: "A", Category: "Flower", Inventory: 10},
		{Id: "B", Name: "B", Category: "Flower", Inventory: 2},
		{Id: "C", Name: "C", Category: "Edible", Inventory: 10},
	})

	got := ix.ByCategory("flower", 5)
	if len(got) != 1 || got[0].Id != "A" {
		t.Errorf("ByCategory(flower, 5) = %v items, want [A]", ids(got))
	}

	// Every returned id must come from the loaded set.
	for _, it := range ix.ByCategory("flower", 1) {
		if _, ok := ix.Get(it.Id); !ok {
			t.Errorf("returned unknown id %q", it.Id)
		}
	}

	if got := ix.ByCategory("tincture", 1); len(got) != 0 {
		t.Errorf("no-match category should return empty, got %v", ids(got))
	}
}

func TestByEffects(t *testing.T) {
	ix := NewIndex(PriceBands{})
	ix.Load([]RawRecord{
		{Id: "A", Name: "A", Category: "Flower", Inventory: 5, THCMax: 12, Effects: []string{"relaxation"}},
		{Id: "B", Name: "B", Category: "Flower", Inventory: 5, THCMax: 30, Effects: []string{"relaxation", "sleep"}},
		{Id: "C", Name: "C", Category: "Edible", Inventory: 5, Effects: []string{"sleep"}},
		{Id: "D", Name: "D", Category: "Edible", Inventory: 5, THCMax: 10, Effects: []string{"energy"}},
	})

	got := ix.ByEffects([]string{"relaxation", "sleep"}, LevelNovice)

	// A fits the novice band, B is too strong, C has no THC data and passes,
	// D matches no requested effect. Union must be deduplicated.
	want := []string{"A", "C"}
	if len(got) != len(want) {
		t.Fatalf("ByEffects = %v, want %v", ids(got), want)
	}
	for i, id := range want {
		if got[i].Id != id {
			t.Errorf("ByEffects[%d] = %s, want %s", i, got[i].Id, id)
		}
	}
}

func TestSearch(t *testing.T) {
	ix := NewIndex(PriceBands{})
	ix.Load([]RawRecord{
		{Id: "A", Name: "A", Category: "Premium Flower", Strain: "Indica", Inventory: 10, THCMax: 12, Price: 30, UnitGrams: 3.5},
		{Id: "B", Name: "B", Category: "Edible", Inventory: 10, THCMax: 12},
		{Id: "C", Name: "C", Category: "Flower", Strain: "Sativa", Inventory: 10, THCMax: 12},
		{Id: "D", Name: "D", Category: "Flower", Inventory: 0, THCMax: 12},
	})

	tests := []struct {
		name     string
		criteria SearchCriteria
		want     []string
	}{
		{
			name:     "substring category match",
			criteria: SearchCriteria{Category: "flower", ExperienceLevel: LevelNovice},
			want:     []string{"A", "C"},
		},
		{
			name:     "strain filter skips undeclared strains",
			criteria: SearchCriteria{Strain: "indica", ExperienceLevel: LevelNovice},
			want:     []string{"A", "B"},
		},
		{
			name:     "exclusion set",
			criteria: SearchCriteria{Category: "flower", ExperienceLevel: LevelNovice, ExcludeIds: map[string]bool{"A": true}},
			want:     []string{"C"},
		},
		{
			name:     "inventory threshold",
			criteria: SearchCriteria{Category: "flower", ExperienceLevel: LevelNovice, MinInventory: 20},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ix.Search(tt.criteria))
			if len(got) != len(tt.want) {
				t.Fatalf("Search = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Search[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSearchNoviceBandExample(t *testing.T) {
	ix := NewIndex(PriceBands{})
	ix.Load([]RawRecord{
		{Id: "A", Name: "A", Category: "Flower", THCMax: 12, Inventory: 5},
		{Id: "B", Name: "B", Category: "Edible", THCMax: 30, Inventory: 0},
	})

	got := ix.Search(SearchCriteria{Category: "flower", ExperienceLevel: LevelNovice})
	if len(got) != 1 || got[0].Id != "A" {
		t.Errorf("Search = %v, want [A]", ids(got))
	}
}

func TestSearchPriceBands(t *testing.T) {
	ix := NewIndex(PriceBands{})
	ix.Load([]RawRecord{
		{Id: "cheap", Name: "Cheap", Category: "Flower", Inventory: 5, Price: 14, UnitGrams: 2},     // 7/g
		{Id: "mid", Name: "Mid", Category: "Flower", Inventory: 5, Price: 24, UnitGrams: 2},         // 12/g
		{Id: "premium", Name: "Premium", Category: "Flower", Inventory: 5, Price: 40, UnitGrams: 2}, // 20/g
		{Id: "nounit", Name: "NoUnit", Category: "Flower", Inventory: 5, Price: 40},
	})

	low := ids(ix.Search(SearchCriteria{PriceBand: PriceBandLow, ExperienceLevel: LevelIntermediate}))
	if len(low) != 2 || low[0] != "cheap" || low[1] != "nounit" {
		t.Errorf("low band = %v, want [cheap nounit]", low)
	}

	high := ids(ix.Search(SearchCriteria{PriceBand: PriceBandHigh, ExperienceLevel: LevelIntermediate}))
	if len(high) != 2 || high[0] != "premium" || high[1] != "nounit" {
		t.Errorf("high band = %v, want [premium nounit]", high)
	}
}

func TestReloadSwapsAtomically(t *testing.T) {
	ix := NewIndex(PriceBands{})
	ix.Load([]RawRecord{rec("A", "A", "Flower")})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			// A reader must always observe a complete generation: either the
			// old one or the new one, never a partial index.
			n := len(ix.Search(SearchCriteria{ExperienceLevel: LevelIntermediate}))
			if n != 1 && n != 2 {
				t.Errorf("observed partial index with %d items", n)
				return
			}
		}
	}()

	for i := 0; i < 100; i++ {
		ix.Load([]RawRecord{rec("A", "A", "Flower"), rec("B", "B", "Edible")})
	}
	<-done

	if ix.Len() != 2 {
		t.Errorf("Len after reload = %d, want 2", ix.Len())
	}
	stats := ix.Stats()
	if stats.Accepted != 2 || stats.Rejected != 0 {
		t.Errorf("Stats = %+v", stats)
	}
}

func ids(items []*Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Id)
	}
	return out
}
