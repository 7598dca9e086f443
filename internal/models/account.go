package models

// AccountMetadata describes a provider account as it appears on ledger rows.
// Name is empty when the mask has no configured display name.
type AccountMetadata struct {
	AccountID       string
	Name            string
	Mask            string
	InstitutionType string
	Type            string
	Subtype         string
}

// AccountDirectory maps provider account ids to their metadata.
type AccountDirectory map[string]AccountMetadata

// Lookup returns the metadata for accountID.
func (d AccountDirectory) Lookup(accountID string) (AccountMetadata, bool) {
	meta, ok := d[accountID]
	return meta, ok
}

// Apply copies the account fields onto tx.
func (m AccountMetadata) Apply(tx *Transaction) {
	tx.BankAccountNumber = m.Mask
	tx.AccountName = m.Name
	tx.InstitutionType = m.InstitutionType
	tx.AccountType = m.Type
	tx.AccountSubtype = m.Subtype
}
