// Package categorizer infers missing ledger categories from the categories
// historically assigned to the same description.
package categorizer

import (
	"sort"
	"strings"

	"fjacquet/ledger-sync/internal/models"
)

// CategoryCount is one category and the number of ledger rows carrying it
// for a given description.
type CategoryCount struct {
	Category string
	Count    int
}

type categoryTally struct {
	counts    map[string]int
	firstSeen map[string]int
	order     []string
}

// FrequencyModel maps descriptions to the categories they were historically
// assigned. It is built once and never updated afterwards, so rows added
// during a run cannot influence inference for other rows of the same run.
type FrequencyModel struct {
	caseSensitive bool
	tallies       map[string]*categoryTally
}

// BuildFrequencyModel counts (description, category) pairs over ledger rows.
// Rows with an empty category are skipped. When caseSensitive is false,
// descriptions are trimmed and lowercased before counting and lookup.
func BuildFrequencyModel(ledger []models.Transaction, caseSensitive bool) *FrequencyModel {
	m := &FrequencyModel{
		caseSensitive: caseSensitive,
		tallies:       make(map[string]*categoryTally),
	}

	for i, tx := range ledger {
		if !tx.HasCategory() {
			continue
		}
		key := m.key(tx.Description)
		tally, ok := m.tallies[key]
		if !ok {
			tally = &categoryTally{counts: map[string]int{}, firstSeen: map[string]int{}}
			m.tallies[key] = tally
		}
		category := strings.TrimSpace(tx.Category)
		if _, seen := tally.firstSeen[category]; !seen {
			tally.firstSeen[category] = i
			tally.order = append(tally.order, category)
		}
		tally.counts[category]++
	}

	return m
}

func (m *FrequencyModel) key(description string) string {
	if m.caseSensitive {
		return description
	}
	return strings.ToLower(strings.TrimSpace(description))
}

// Len returns the number of distinct descriptions in the model.
func (m *FrequencyModel) Len() int {
	if m == nil {
		return 0
	}
	return len(m.tallies)
}

// Ranking returns the categories recorded for description, most frequent
// first. Equal counts keep ledger order: the category seen first wins.
func (m *FrequencyModel) Ranking(description string) []CategoryCount {
	if m == nil {
		return nil
	}
	tally, ok := m.tallies[m.key(description)]
	if !ok {
		return nil
	}

	ranking := make([]CategoryCount, 0, len(tally.order))
	for _, category := range tally.order {
		ranking = append(ranking, CategoryCount{Category: category, Count: tally.counts[category]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	return ranking
}

// Top returns the top-ranked category for description. ok is false when the
// description was never categorized in the ledger.
func (m *FrequencyModel) Top(description string) (category string, ok bool) {
	ranking := m.Ranking(description)
	if len(ranking) == 0 {
		return "", false
	}
	return ranking[0].Category, true
}
