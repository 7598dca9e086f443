package categorizer

import (
	"context"
	"fmt"

	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
)

// InferenceStats summarizes one inference pass.
type InferenceStats struct {
	Examined   int
	Inferred   int
	Unresolved int
	AlreadySet int
	ByStrategy map[string]int
}

// Applier fills missing categories by asking its strategies in order; the
// first strategy that finds a category wins.
type Applier struct {
	strategies []CategorizationStrategy
	logger     logging.Logger
}

// NewApplier creates an Applier running strategies in the given order.
func NewApplier(logger logging.Logger, strategies ...CategorizationStrategy) *Applier {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Applier{strategies: strategies, logger: logger}
}

// Categorize runs the strategy chain for a single transaction.
func (a *Applier) Categorize(ctx context.Context, tx models.Transaction) (category, strategy string, found bool, err error) {
	for _, s := range a.strategies {
		category, found, err := s.Categorize(ctx, tx)
		if err != nil {
			return "", "", false, fmt.Errorf("%s strategy: %w", s.Name(), err)
		}
		if found {
			return category, s.Name(), true, nil
		}
	}
	return "", "", false, nil
}

// Apply fills the category of every row in txs that has none. Rows that
// already carry a category are never changed. A row no strategy can
// categorize keeps an empty category; that is not an error.
func (a *Applier) Apply(ctx context.Context, txs []models.Transaction) (InferenceStats, error) {
	stats := InferenceStats{ByStrategy: map[string]int{}}

	for i := range txs {
		stats.Examined++
		if txs[i].HasCategory() {
			stats.AlreadySet++
			continue
		}

		category, strategy, found, err := a.Categorize(ctx, txs[i])
		if err != nil {
			return stats, fmt.Errorf("categorizing transaction %s: %w", txs[i].TransactionID, err)
		}
		if !found {
			stats.Unresolved++
			continue
		}

		txs[i].Category = category
		stats.Inferred++
		stats.ByStrategy[strategy]++
	}

	a.logger.Info("Category inference complete",
		logging.F("examined", stats.Examined),
		logging.F("inferred", stats.Inferred),
		logging.F("unresolved", stats.Unresolved))
	return stats, nil
}
