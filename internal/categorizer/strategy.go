package categorizer

import (
	"context"

	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
)

// CategorizationStrategy proposes a category for a transaction.
type CategorizationStrategy interface {
	// Categorize returns the proposed category and whether one was found.
	// Not finding a category is not an error.
	Categorize(ctx context.Context, tx models.Transaction) (string, bool, error)

	// Name identifies the strategy in logs.
	Name() string
}

// FrequencyStrategy categorizes a transaction with the most frequent
// historical category for its description.
type FrequencyStrategy struct {
	model  *FrequencyModel
	logger logging.Logger
}

// NewFrequencyStrategy creates a FrequencyStrategy backed by model.
func NewFrequencyStrategy(model *FrequencyModel, logger logging.Logger) *FrequencyStrategy {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &FrequencyStrategy{model: model, logger: logger}
}

// Name returns the strategy name.
func (s *FrequencyStrategy) Name() string {
	return "Frequency"
}

// Categorize looks the description up in the frequency model. An empty
// description is a key like any other.
func (s *FrequencyStrategy) Categorize(ctx context.Context, tx models.Transaction) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	category, ok := s.model.Top(tx.Description)
	if ok {
		s.logger.Debug("Transaction categorized from history",
			logging.F("strategy", s.Name()),
			logging.F(logging.FieldDescription, tx.Description),
			logging.F(logging.FieldCategory, category))
	}
	return category, ok, nil
}
