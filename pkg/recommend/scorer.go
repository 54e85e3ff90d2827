package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"virtual-budtender-be/pkg/catalog"
)

// Config carries the tunable scoring constants. The price cutoffs mirror
// the catalog's band thresholds and the low-stock threshold drives the
// inventory notice in the match details.
type Config struct {
	PriceLowMax       float64
	PriceHighMin      float64
	LowStockThreshold int
}

// DefaultConfig matches the catalog's default price bands with a
// low-stock notice at five units.
var DefaultConfig = Config{
	PriceLowMax:       catalog.DefaultPriceBands.LowMax,
	PriceHighMin:      catalog.DefaultPriceBands.HighMin,
	LowStockThreshold: 5,
}

// ScoredItem is one ranked result: a copy of the catalog item, its
// score, and display-only match explanations. Copies keep concurrent
// scoring of the same item under different criteria alias-free.
type ScoredItem struct {
	Item         catalog.Item `json:"item"`
	Score        float64      `json:"score"`
	MatchDetails []string     `json:"match_details"`
}

// Scorer ranks catalog items against search criteria.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	if cfg.PriceLowMax <= 0 {
		cfg.PriceLowMax = DefaultConfig.PriceLowMax
	}
	if cfg.PriceHighMin <= 0 {
		cfg.PriceHighMin = DefaultConfig.PriceHighMin
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = DefaultConfig.LowStockThreshold
	}
	return &Scorer{cfg: cfg}
}

// Score computes the match quality of one item. Adding a matching effect
// tag never lowers the result; missing THC data simply contributes zero.
func (s *Scorer) Score(it *catalog.Item, c catalog.SearchCriteria) float64 {
	score := 0.0

	score += 5 * float64(len(matchedEffects(it, c.Effects)))

	if band, ok := catalog.THCRanges[c.ExperienceLevel]; ok && it.THCMax > 0 {
		score += math.Max(0, 10-math.Abs(it.THCMax-band.Ideal))
	}

	score += math.Min(float64(it.Inventory)/10, 3)

	if it.PricePerGram != nil {
		if c.PriceBand == catalog.PriceBandLow && *it.PricePerGram < s.cfg.PriceLowMax {
			score += 3
		}
		if c.PriceBand == catalog.PriceBandHigh && *it.PricePerGram > s.cfg.PriceHighMin {
			score += 3
		}
	}

	return score
}

// Rank scores every candidate and sorts descending. The sort is stable:
// equal scores keep the candidates' encounter order.
func (s *Scorer) Rank(items []*catalog.Item, c catalog.SearchCriteria) []ScoredItem {
	out := make([]ScoredItem, 0, len(items))
	for _, it := range items {
		out = append(out, ScoredItem{
			Item:         *it,
			Score:        s.Score(it, c),
			MatchDetails: s.matchDetails(it, c),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// matchDetails builds the human-readable reasons shown with a result.
// Purely cosmetic; ranking never reads these.
func (s *Scorer) matchDetails(it *catalog.Item, c catalog.SearchCriteria) []string {
	details := []string{}

	if _, ok := catalog.THCRanges[c.ExperienceLevel]; ok && it.THCMax > 0 {
		details = append(details, fmt.Sprintf("THC content (%.1f%%) suitable for %s users", it.THCMax, c.ExperienceLevel))
	}

	if matched := matchedEffects(it, c.Effects); len(matched) > 0 {
		details = append(details, "Provides desired effects: "+strings.Join(matched, ", "))
	}

	if it.Inventory <= s.cfg.LowStockThreshold {
		details = append(details, fmt.Sprintf("Limited stock: %d units remaining", it.Inventory))
	}

	return details
}

func matchedEffects(it *catalog.Item, requested []string) []string {
	matched := []string{}
	for _, effect := range requested {
		if it.HasEffect(effect) {
			matched = append(matched, effect)
		}
	}
	return matched
}
