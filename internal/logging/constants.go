package logging

// Standard field names used across ledger-sync log output.
const (
	FieldRunID         = "run_id"
	FieldTransactionID = "transaction_id"
	FieldAccountID     = "account_id"
	FieldMask          = "mask"
	FieldDescription   = "description"
	FieldCategory      = "category"
	FieldSource        = "source"
	FieldProvider      = "provider"
	FieldFile          = "file_path"
	FieldCount         = "count"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldDelimiter     = "delimiter"
)
