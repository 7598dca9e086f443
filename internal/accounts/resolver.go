// Package accounts resolves provider account identifiers to the account
// metadata written on every ledger row.
package accounts

import (
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
)

// Resolver turns the provider's account list into an AccountDirectory using a
// static mask -> display name table.
type Resolver struct {
	names  map[string]string
	logger logging.Logger
}

// NewResolver creates a Resolver. names is copied.
func NewResolver(names map[string]string, logger logging.Logger) *Resolver {
	copied := make(map[string]string, len(names))
	for mask, name := range names {
		copied[mask] = name
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Resolver{names: copied, logger: logger}
}

// DisplayName returns the configured name for mask and whether one exists.
func (r *Resolver) DisplayName(mask string) (string, bool) {
	name, ok := r.names[mask]
	return name, ok
}

// Resolve builds the directory for accounts. A mask without a configured
// name resolves with an empty name; that is a configuration gap, not an
// error. Institution type mirrors the provider's account type.
func (r *Resolver) Resolve(accounts []models.ProviderAccount) models.AccountDirectory {
	dir := make(models.AccountDirectory, len(accounts))
	for _, acct := range accounts {
		name, ok := r.names[acct.Mask]
		if !ok {
			r.logger.Warn("No display name configured for account mask",
				logging.F(logging.FieldAccountID, acct.AccountID),
				logging.F(logging.FieldMask, acct.Mask))
		}
		dir[acct.AccountID] = models.AccountMetadata{
			AccountID:       acct.AccountID,
			Name:            name,
			Mask:            acct.Mask,
			InstitutionType: acct.Type,
			Type:            acct.Type,
			Subtype:         acct.Subtype,
		}
	}

	r.logger.Debug("Resolved provider accounts", logging.F(logging.FieldCount, len(dir)))
	return dir
}

// Unmapped returns the masks in accounts that have no configured name, in
// input order and without repeats.
func (r *Resolver) Unmapped(accounts []models.ProviderAccount) []string {
	seen := map[string]bool{}
	var out []string
	for _, acct := range accounts {
		if _, ok := r.names[acct.Mask]; ok || seen[acct.Mask] {
			continue
		}
		seen[acct.Mask] = true
		out = append(out, acct.Mask)
	}
	return out
}
