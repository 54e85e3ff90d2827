package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"virtual-budtender-be/pkg/catalog"
	"virtual-budtender-be/pkg/query"
	"virtual-budtender-be/pkg/recommend"
	"virtual-budtender-be/pkg/session"

	"github.com/fatih/color"
)

// Runs the full recommendation pipeline in-process against a catalog
// file, without the HTTP server. Useful for eyeballing extraction and
// ranking while tuning the vocabulary tables.
func main() {
	catalogPath := "catalog.json"
	if len(os.Args) > 1 {
		catalogPath = os.Args[1]
	}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		log.Fatalf("Failed to read catalog %s: %v", catalogPath, err)
	}
	records, err := catalog.ParseRecords(data)
	if err != nil {
		log.Fatalf("Failed to parse catalog: %v", err)
	}

	index := catalog.NewIndex(catalog.DefaultPriceBands)
	accepted, rejected := index.Load(records)
	fmt.Printf("Catalog loaded: %d accepted, %d rejected\n\n", accepted, rejected)

	analyzer := query.NewAnalyzer(nil)
	scorer := recommend.NewScorer(recommend.DefaultConfig)
	sessions := session.NewStore(time.Hour)

	userBold := color.New(color.FgCyan, color.Bold)
	intentColor := color.New(color.FgYellow)
	productColor := color.New(color.FgGreen)
	detailColor := color.New(color.FgHiBlack)

	queries := []string{
		"I'm new and want something relaxing for sleep",
		"show me more",
		"got any cheap gummies?",
		"daily smoker here, looking for a top-shelf vape cartridge",
		"how late are you open today?",
	}

	const userId = "simulate-user"
	for _, text := range queries {
		userBold.Printf("USER: %s\n", text)

		fallback := catalog.ExperienceLevel(sessions.Preference(userId, "experience_level"))
		analysis := analyzer.Analyze(text, fallback)
		intentColor.Printf("  intent=%s categories=%v strains=%v effects=%v level=%s price=%s\n",
			analysis.Intent, analysis.Categories, analysis.Strains, analysis.Effects,
			analysis.ExperienceLevel, analysis.PriceBand)

		var criteria catalog.SearchCriteria
		switch analysis.Intent {
		case query.IntentProductQuery:
			criteria = analysis.Criteria()
			sessions.SetLastCriteria(userId, criteria)
		case query.IntentMoreOptions:
			var ok bool
			criteria, ok = sessions.LastCriteria(userId)
			if !ok {
				detailColor.Println("  (no previous search to widen)")
				fmt.Println()
				continue
			}
		default:
			detailColor.Println("  (conversational turn, no search)")
			fmt.Println()
			continue
		}

		criteria.ExcludeIds = sessions.ShownIds(userId)
		ranked := scorer.Rank(index.Search(criteria), criteria)
		if len(ranked) > 5 {
			ranked = ranked[:5]
		}

		if len(ranked) == 0 {
			detailColor.Println("  (no matching products in stock)")
		}
		for _, r := range ranked {
			sessions.RecordShown(userId, r.Item.Id)
			productColor.Printf("  %.1f  %s (%s, THC %g-%g%%, $%.2f, stock %d)\n",
				r.Score, r.Item.Name, r.Item.Category, r.Item.THCMin, r.Item.THCMax,
				r.Item.Price, r.Item.Inventory)
			for _, d := range r.MatchDetails {
				detailColor.Printf("      - %s\n", d)
			}
		}
		fmt.Println()
	}
}
