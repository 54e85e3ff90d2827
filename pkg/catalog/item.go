package catalog

import (
	"strconv"
	"strings"
	"time"
)

// Product categories carried by the catalog. Matching against these is
// substring-based, so a record category like "Premium Flower" still lands
// in the flower bucket for queries.
const (
	CategoryFlower      = "flower"
	CategoryPreRoll     = "pre-roll"
	CategoryVape        = "vape"
	CategoryEdible      = "edible"
	CategoryConcentrate = "concentrate"
	CategoryTincture    = "tincture"
)

// ExperienceLevel is the coarse tolerance classification that drives
// THC band filtering and scoring.
type ExperienceLevel string

const (
	LevelNovice       ExperienceLevel = "novice"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelExperienced  ExperienceLevel = "experienced"
)

// ParseExperienceLevel coerces a free-form token to a known level.
// Unknown tokens fall back to intermediate instead of erroring, since
// query extraction is best-effort.
func ParseExperienceLevel(s string) ExperienceLevel {
	switch ExperienceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LevelNovice:
		return LevelNovice
	case LevelExperienced:
		return LevelExperienced
	default:
		return LevelIntermediate
	}
}

// THCRange bounds the acceptable THC percentage for an experience level.
type THCRange struct {
	Min   float64
	Max   float64
	Ideal float64
}

// THCRanges maps each experience level to its THC band.
var THCRanges = map[ExperienceLevel]THCRange{
	LevelNovice:       {Min: 0, Max: 15, Ideal: 10},
	LevelIntermediate: {Min: 15, Max: 25, Ideal: 20},
	LevelExperienced:  {Min: 20, Max: 35, Ideal: 25},
}

// PriceBand is the coarse price constraint extracted from a query.
type PriceBand string

const (
	PriceBandNone   PriceBand = ""
	PriceBandLow    PriceBand = "low"
	PriceBandMedium PriceBand = "medium"
	PriceBandHigh   PriceBand = "high"
)

// ParsePriceBand coerces a token to a known band; unknown tokens mean
// no price constraint.
func ParsePriceBand(s string) PriceBand {
	switch PriceBand(strings.ToLower(strings.TrimSpace(s))) {
	case PriceBandLow:
		return PriceBandLow
	case PriceBandMedium:
		return PriceBandMedium
	case PriceBandHigh:
		return PriceBandHigh
	default:
		return PriceBandNone
	}
}

// PriceBands holds the per-gram cutoffs for the low and high bands.
// The values are business configuration, not derived rules.
type PriceBands struct {
	LowMax  float64
	HighMin float64
}

var DefaultPriceBands = PriceBands{LowMax: 10, HighMin: 15}

// FlexFloat accepts JSON numbers, numeric strings, or null and coerces
// anything unparseable or negative to zero. Catalog feeds are messy and a
// bad number should not reject the whole record.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// RawRecord is the wire schema for one catalog entry. Id, Name and
// Category are required; everything else is optional with defined
// coercion rules (see FlexFloat).
type RawRecord struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Strain      string    `json:"strain,omitempty"`
	Effects     []string  `json:"effects,omitempty"`
	THCMin      FlexFloat `json:"thc_min"`
	THCMax      FlexFloat `json:"thc_max"`
	CBDMin      FlexFloat `json:"cbd_min"`
	CBDMax      FlexFloat `json:"cbd_max"`
	Price       FlexFloat `json:"price"`
	UnitGrams   FlexFloat `json:"unit_grams"`
	Inventory   FlexFloat `json:"inventory"`
	Description string    `json:"description,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
}

// Item is an immutable catalog product. Identity fields never change
// after load; a reload replaces the whole item.
type Item struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Strain       string   `json:"strain,omitempty"`
	Effects      []string `json:"effects,omitempty"`
	THCMin       float64  `json:"thc_min"`
	THCMax       float64  `json:"thc_max"`
	CBDMin       float64  `json:"cbd_min"`
	CBDMax       float64  `json:"cbd_max"`
	Price        float64  `json:"price"`
	UnitGrams    float64  `json:"unit_grams"`
	Inventory    int      `json:"inventory"`
	Description  string   `json:"description,omitempty"`
	PhotoURL     string   `json:"photo_url,omitempty"`
	PricePerGram *float64 `json:"price_per_gram,omitempty"` // nil when unit size unknown
	Active       bool     `json:"active"`

	LoadedAt time.Time `json:"loaded_at"`
}

// HasEffect reports whether the item declares the given effect tag
// (case-insensitive).
func (it *Item) HasEffect(effect string) bool {
	for _, e := range it.Effects {
		if strings.EqualFold(e, effect) {
			return true
		}
	}
	return false
}

func newItem(rec RawRecord, now time.Time) *Item {
	it := &Item{
		Id:          rec.Id,
		Name:        rec.Name,
		Category:    rec.Category,
		Strain:      rec.Strain,
		Effects:     rec.Effects,
		THCMin:      float64(rec.THCMin),
		THCMax:      float64(rec.THCMax),
		CBDMin:      float64(rec.CBDMin),
		CBDMax:      float64(rec.CBDMax),
		Price:       float64(rec.Price),
		UnitGrams:   float64(rec.UnitGrams),
		Inventory:   int(rec.Inventory),
		Description: rec.Description,
		PhotoURL:    rec.PhotoURL,
		Active:      true,
		LoadedAt:    now,
	}

	// Derived once at load. No unit size means no per-gram price.
	if it.Price > 0 && it.UnitGrams > 0 {
		ppg := it.Price / it.UnitGrams
		it.PricePerGram = &ppg
	}

	return it
}
