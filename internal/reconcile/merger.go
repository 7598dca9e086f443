// Package reconcile merges freshly fetched provider transactions into the
// existing ledger.
package reconcile

import (
	"strings"

	"fjacquet/ledger-sync/internal/currencyutils"
	"fjacquet/ledger-sync/internal/dateutils"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
	"fjacquet/ledger-sync/internal/reconerror"
)

// MergeStats counts what happened to fetched transactions during a merge.
type MergeStats struct {
	Existing           int
	Fetched            int
	Appended           int
	Duplicates         int
	Excluded           int
	PotentialDuplicate int
}

// MergeResult is the merged ledger: every existing row in original order
// followed by accepted new rows in fetch order.
type MergeResult struct {
	Transactions []models.Transaction
	Stats        MergeStats
}

// NewRows returns the rows appended after the existing ledger.
func (r *MergeResult) NewRows() []models.Transaction {
	return r.Transactions[r.Stats.Existing:]
}

// Merger combines ledger rows with provider transactions.
type Merger struct {
	excludedMasks map[string]struct{}
	logger        logging.Logger
}

// NewMerger creates a Merger that drops transactions on accounts whose mask
// is in excludedMasks.
func NewMerger(excludedMasks []string, logger logging.Logger) *Merger {
	excluded := make(map[string]struct{}, len(excludedMasks))
	for _, mask := range excludedMasks {
		mask = strings.TrimSpace(mask)
		if mask != "" {
			excluded[mask] = struct{}{}
		}
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Merger{excludedMasks: excluded, logger: logger}
}

// IsExcluded reports whether mask is configured for exclusion.
func (m *Merger) IsExcluded(mask string) bool {
	_, ok := m.excludedMasks[mask]
	return ok
}

// Merge appends accepted fetched transactions to existing. A fetched
// transaction is skipped when its id is already known (from the ledger or
// earlier in the same batch), or when its account mask is excluded. A
// transaction whose account is missing from dir fails the whole merge.
// existing is never modified.
func (m *Merger) Merge(existing []models.Transaction, fetched []models.ProviderTransaction, dir models.AccountDirectory) (*MergeResult, error) {
	out := make([]models.Transaction, len(existing), len(existing)+len(fetched))
	copy(out, existing)

	stats := MergeStats{Existing: len(existing), Fetched: len(fetched)}

	seen := make(map[string]struct{}, len(existing)+len(fetched))
	fingerprints := make(map[string]string, len(existing))
	for _, tx := range existing {
		if tx.TransactionID != "" {
			seen[tx.TransactionID] = struct{}{}
		}
		fingerprints[fingerprint(tx)] = tx.TransactionID
	}

	for _, ptx := range fetched {
		if _, dup := seen[ptx.TransactionID]; dup {
			stats.Duplicates++
			m.logger.Debug("Skipping already ingested transaction",
				logging.F(logging.FieldTransactionID, ptx.TransactionID))
			continue
		}

		meta, ok := dir.Lookup(ptx.AccountID)
		if !ok {
			return nil, &reconerror.UnresolvedAccountError{
				TransactionID: ptx.TransactionID,
				AccountID:     ptx.AccountID,
			}
		}

		if m.IsExcluded(meta.Mask) {
			stats.Excluded++
			m.logger.Debug("Skipping transaction on excluded account",
				logging.F(logging.FieldTransactionID, ptx.TransactionID),
				logging.F(logging.FieldMask, meta.Mask))
			continue
		}

		tx := normalize(ptx, meta)
		if prior, clash := fingerprints[fingerprint(tx)]; clash {
			stats.PotentialDuplicate++
			m.logger.Warn("Potential duplicate transaction with a new id",
				logging.F(logging.FieldTransactionID, tx.TransactionID),
				logging.F("existing_transaction_id", prior),
				logging.F(logging.FieldDescription, tx.Description),
				logging.F("date", dateutils.ToISODate(tx.Date)),
				logging.F("amount", tx.Amount.String()))
		}

		seen[ptx.TransactionID] = struct{}{}
		out = append(out, tx)
		stats.Appended++
	}

	m.logger.Info("Merged provider transactions into ledger",
		logging.F("existing", stats.Existing),
		logging.F("fetched", stats.Fetched),
		logging.F("appended", stats.Appended),
		logging.F("duplicates", stats.Duplicates),
		logging.F("excluded", stats.Excluded))

	return &MergeResult{Transactions: out, Stats: stats}, nil
}

// normalize builds the ledger row for a provider transaction. Category is
// left empty for inference.
func normalize(ptx models.ProviderTransaction, meta models.AccountMetadata) models.Transaction {
	tx := models.Transaction{
		Date:            dateutils.TruncateDay(ptx.Date),
		Description:     ptx.Name,
		Amount:          ptx.Amount,
		PlaidCategory:   strings.Join(ptx.Category, ", "),
		TransactionType: ptx.TransactionType,
		Pending:         ptx.Pending,
		TransactionID:   ptx.TransactionID,
	}
	meta.Apply(&tx)

	if loc := ptx.Location; loc != nil {
		tx.Address = loc.Address
		tx.City = loc.City
		tx.State = loc.State
		tx.Zip = loc.Zip
		tx.Country = loc.Country
	}
	return tx
}

// fingerprint identifies rows that look like the same purchase.
func fingerprint(tx models.Transaction) string {
	return strings.Join([]string{
		tx.BankAccountNumber,
		dateutils.ToISODate(tx.Date),
		currencyutils.FormatAmount(tx.Amount),
		tx.Description,
	}, "|")
}
