package query

import (
	"regexp"
	"strings"

	"virtual-budtender-be/pkg/catalog"
)

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentProductQuery   Intent = "product_query"
	IntentMoreOptions    Intent = "more_options"
	IntentProductDetails Intent = "product_details"
	IntentConversation   Intent = "conversation"
)

// intentRule pairs an intent with the pattern that triggers it. Rules
// are evaluated top to bottom and the first match wins; a message
// matching several patterns gets the highest-priority intent.
type intentRule struct {
	Intent  Intent
	Pattern *regexp.Regexp
}

var intentRules = []intentRule{
	{IntentProductQuery, regexp.MustCompile(`(?i)product|strain|thc|cbd|indica|sativa|hybrid|flower|pre-roll|vape|cartridge|edible|concentrate|tincture|recommend|relax|sleep|pain|anxiety|energy|mood`)},
	{IntentMoreOptions, regexp.MustCompile(`(?i)more|other|alternative|different|show more|next`)},
	{IntentProductDetails, regexp.MustCompile(`(?i)tell me more|details|about|describe|explain`)},
}

var (
	noviceRe      = regexp.MustCompile(`new|first.?time|beginner|start`)
	experiencedRe = regexp.MustCompile(`experienced|regular|high.?tolerance|daily`)

	priceLowRe    = regexp.MustCompile(`cheap|affordable|budget|deal|low.?price`)
	priceHighRe   = regexp.MustCompile(`premium|luxury|top.?shelf|high.?end|expensive`)
	priceMediumRe = regexp.MustCompile(`mid|medium|moderate|average`)
)

// Analysis is everything extracted from one message in a single pass.
type Analysis struct {
	Intent          Intent
	Categories      []string
	Strains         []string
	Effects         []string
	ExperienceLevel catalog.ExperienceLevel
	PriceBand       catalog.PriceBand
}

// Criteria converts the analysis into search criteria. Only the first
// extracted category and strain constrain the search; the rest inform
// scoring through the effect list.
func (a Analysis) Criteria() catalog.SearchCriteria {
	c := catalog.SearchCriteria{
		Effects:         a.Effects,
		ExperienceLevel: a.ExperienceLevel,
		PriceBand:       a.PriceBand,
	}
	if len(a.Categories) > 0 {
		c.Category = a.Categories[0]
	}
	if len(a.Strains) > 0 {
		c.Strain = a.Strains[0]
	}
	return c
}

// Analyzer performs pattern-based extraction over lower-cased input.
// It is stateless; the caller supplies the session's stored experience
// level as the fallback.
type Analyzer struct {
	tables *Tables
}

func NewAnalyzer(tables *Tables) *Analyzer {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Analyzer{tables: tables}
}

// Analyze classifies the message intent and extracts all search slots.
// The same text with the same fallback always yields the same result.
func (a *Analyzer) Analyze(text string, fallback catalog.ExperienceLevel) Analysis {
	lower := strings.ToLower(text)

	return Analysis{
		Intent:          classifyIntent(text),
		Categories:      extract(a.tables.Categories, lower),
		Strains:         extract(a.tables.Strains, lower),
		Effects:         extract(a.tables.Effects, lower),
		ExperienceLevel: experienceLevel(lower, fallback),
		PriceBand:       priceBand(lower),
	}
}

func classifyIntent(text string) Intent {
	for _, rule := range intentRules {
		if rule.Pattern.MatchString(text) {
			return rule.Intent
		}
	}
	return IntentConversation
}

func extract(rows []SynonymRow, lower string) []string {
	out := []string{}
	for _, row := range rows {
		for _, term := range row.Terms {
			if strings.Contains(lower, term) {
				out = append(out, row.Value)
				break
			}
		}
	}
	return out
}

func experienceLevel(lower string, fallback catalog.ExperienceLevel) catalog.ExperienceLevel {
	switch {
	case noviceRe.MatchString(lower):
		return catalog.LevelNovice
	case experiencedRe.MatchString(lower):
		return catalog.LevelExperienced
	case fallback != "":
		return catalog.ParseExperienceLevel(string(fallback))
	default:
		return catalog.LevelIntermediate
	}
}

func priceBand(lower string) catalog.PriceBand {
	switch {
	case priceLowRe.MatchString(lower):
		return catalog.PriceBandLow
	case priceHighRe.MatchString(lower):
		return catalog.PriceBandHigh
	case priceMediumRe.MatchString(lower):
		return catalog.PriceBandMedium
	default:
		return catalog.PriceBandNone
	}
}
