package catalog

import (
	"encoding/json"
	"log"
	"strings"
	"sync/atomic"
	"time"
)

// SearchCriteria is the structured form of a product request. All set
// filters are ANDed together. ExcludeIds carries the caller's
// already-shown identifiers.
type SearchCriteria struct {
	Category        string          `json:"category,omitempty"`
	Strain          string          `json:"strain,omitempty"`
	Effects         []string        `json:"effects,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
	PriceBand       PriceBand       `json:"price_band,omitempty"`
	MinInventory    int             `json:"min_inventory,omitempty"`
	ExcludeIds      map[string]bool `json:"-"`
}

// Stats describes the currently published index generation.
type Stats struct {
	Items      int       `json:"items"`
	Accepted   int       `json:"accepted"`
	Rejected   int       `json:"rejected"`
	Categories int       `json:"categories"`
	Strains    int       `json:"strains"`
	Effects    int       `json:"effects"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// generation is one fully built, immutable view of the catalog.
// Lookups hold a generation pointer for their whole pass, so a concurrent
// reload can never expose a half-built index.
type generation struct {
	items      map[string]*Item
	order      []*Item // load order, the tie-break for equal scores downstream
	byCategory map[string]map[string]bool
	byStrain   map[string]map[string]bool
	byEffect   map[string]map[string]bool
	accepted   int
	rejected   int
	loadedAt   time.Time
}

func emptyGeneration() *generation {
	return &generation{
		items:      map[string]*Item{},
		byCategory: map[string]map[string]bool{},
		byStrain:   map[string]map[string]bool{},
		byEffect:   map[string]map[string]bool{},
	}
}

// Index is the read-mostly product catalog. Load builds a new generation
// off to the side and publishes it with a single pointer swap; reads need
// no locking.
type Index struct {
	prices  PriceBands
	current atomic.Pointer[generation]
}

func NewIndex(prices PriceBands) *Index {
	if prices.LowMax <= 0 {
		prices.LowMax = DefaultPriceBands.LowMax
	}
	if prices.HighMin <= 0 {
		prices.HighMin = DefaultPriceBands.HighMin
	}
	ix := &Index{prices: prices}
	ix.current.Store(emptyGeneration())
	return ix
}

// ParseRecords decodes a raw catalog payload. A payload that cannot be
// decoded at all is a LoadError; per-record problems are handled later by
// Load.
func ParseRecords(data []byte) ([]RawRecord, error) {
	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &LoadError{Reason: "unreadable catalog payload", Err: err}
	}
	return records, nil
}

// Load validates and indexes the given records, then atomically replaces
// the published generation. Records missing id, name or category are
// skipped and counted; duplicate ids keep the first occurrence.
func (ix *Index) Load(records []RawRecord) (accepted, rejected int) {
	gen := emptyGeneration()
	gen.loadedAt = time.Now()

	for _, rec := range records {
		if rec.Id == "" || rec.Name == "" || rec.Category == "" {
			gen.rejected++
			log.Printf("[WARN] Skipping catalog record (missing id/name/category): id=%q name=%q", rec.Id, rec.Name)
			continue
		}
		if _, dup := gen.items[rec.Id]; dup {
			gen.rejected++
			log.Printf("[WARN] Skipping duplicate catalog record: id=%q", rec.Id)
			continue
		}

		it := newItem(rec, gen.loadedAt)
		gen.items[it.Id] = it
		gen.order = append(gen.order, it)
		gen.accepted++

		addToIndex(gen.byCategory, strings.ToLower(it.Category), it.Id)
		if it.Strain != "" {
			addToIndex(gen.byStrain, strings.ToLower(it.Strain), it.Id)
		}
		for _, effect := range it.Effects {
			addToIndex(gen.byEffect, strings.ToLower(effect), it.Id)
		}
	}

	ix.current.Store(gen)
	return gen.accepted, gen.rejected
}

func addToIndex(index map[string]map[string]bool, key, id string) {
	set, ok := index[key]
	if !ok {
		set = map[string]bool{}
		index[key] = set
	}
	set[id] = true
}

// Get returns the item with the given id, if present and active.
func (ix *Index) Get(id string) (*Item, bool) {
	it, ok := ix.current.Load().items[id]
	if !ok || !it.Active {
		return nil, false
	}
	return it, true
}

// Len returns the number of loaded items.
func (ix *Index) Len() int {
	return len(ix.current.Load().order)
}

// Stats reports counters for the published generation.
func (ix *Index) Stats() Stats {
	gen := ix.current.Load()
	return Stats{
		Items:      len(gen.order),
		Accepted:   gen.accepted,
		Rejected:   gen.rejected,
		Categories: len(gen.byCategory),
		Strains:    len(gen.byStrain),
		Effects:    len(gen.byEffect),
		LoadedAt:   gen.loadedAt,
	}
}

// ByCategory returns active items whose category bucket matches exactly
// and whose inventory meets the threshold. No match is an empty slice,
// not an error.
func (ix *Index) ByCategory(category string, minInventory int) []*Item {
	gen := ix.current.Load()
	if minInventory <= 0 {
		minInventory = 1
	}

	ids := gen.byCategory[strings.ToLower(category)]
	out := []*Item{}
	for _, it := range gen.order {
		if !ids[it.Id] {
			continue
		}
		if !it.Active || it.Inventory < minInventory {
			continue
		}
		out = append(out, it)
	}
	return out
}

// ByEffects returns the deduplicated union of items across the requested
// effect tags, filtered to those whose THC range suits the experience
// level. Items without THC data always pass the band check.
func (ix *Index) ByEffects(effects []string, level ExperienceLevel) []*Item {
	gen := ix.current.Load()

	matched := map[string]bool{}
	for _, effect := range effects {
		for id := range gen.byEffect[strings.ToLower(effect)] {
			matched[id] = true
		}
	}

	band, hasBand := THCRanges[level]
	out := []*Item{}
	for _, it := range gen.order {
		if !matched[it.Id] {
			continue
		}
		if !it.Active || it.Inventory <= 0 {
			continue
		}
		if hasBand && it.THCMax > 0 && (it.THCMax < band.Min || it.THCMax > band.Max) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Search applies all criteria filters conjunctively over the active
// collection minus the exclusion set and returns candidates in load
// order, unranked.
//
// Category and strain matching is case-insensitive substring containment,
// not equality: a query for "flower" matches "Premium Flower". This also
// means a strain name containing another strain's token cross-matches;
// kept for compatibility with existing catalogs.
func (ix *Index) Search(c SearchCriteria) []*Item {
	gen := ix.current.Load()

	minInventory := c.MinInventory
	if minInventory <= 0 {
		minInventory = 1
	}
	category := strings.ToLower(c.Category)
	strain := strings.ToLower(c.Strain)
	band, hasBand := THCRanges[c.ExperienceLevel]

	out := []*Item{}
	for _, it := range gen.order {
		if !it.Active || it.Inventory <= 0 {
			continue
		}
		if c.ExcludeIds[it.Id] {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(it.Category), category) {
			continue
		}
		// Items that declare no strain are not excluded by a strain filter.
		if strain != "" && it.Strain != "" && !strings.Contains(strings.ToLower(it.Strain), strain) {
			continue
		}
		if hasBand && it.THCMax > 0 && (it.THCMax < band.Min || it.THCMax > band.Max) {
			continue
		}
		if it.Inventory < minInventory {
			continue
		}
		// Same leniency as strain: only items that declare effect tags are
		// subject to the effect filter.
		if len(c.Effects) > 0 && len(it.Effects) > 0 && !hasAnyEffect(it, c.Effects) {
			continue
		}
		if it.PricePerGram != nil {
			if c.PriceBand == PriceBandLow && *it.PricePerGram >= ix.prices.LowMax {
				continue
			}
			if c.PriceBand == PriceBandHigh && *it.PricePerGram <= ix.prices.HighMin {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

func hasAnyEffect(it *Item, effects []string) bool {
	for _, effect := range effects {
		if it.HasEffect(effect) {
			return true
		}
	}
	return false
}
