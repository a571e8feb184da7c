package constants

// WarningKind classifies a non-fatal diagnostic. Stable values, stored as-is.
type WarningKind string

const (
	WarningNameOnlyMatch        WarningKind = "NAME_ONLY_MATCH"
	WarningMissingContact       WarningKind = "MISSING_CONTACT"
	WarningMalformedBlock       WarningKind = "MALFORMED_BLOCK"
	WarningEmptyDocument        WarningKind = "EMPTY_DOCUMENT"
	WarningUnitCountMismatch    WarningKind = "UNIT_COUNT_MISMATCH"
	WarningMissingPaymentStatus WarningKind = "MISSING_PAYMENT_STATUS"
	WarningIncompleteLineItem   WarningKind = "INCOMPLETE_LINE_ITEM"
	WarningContactConflict      WarningKind = "CONTACT_CONFLICT" // contact already indexed to another customer
)
