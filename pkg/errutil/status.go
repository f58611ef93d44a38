package errutil

// CoreStatus classifies engine errors for logging and cycle accounting.
type CoreStatus string

const (
	// StatusDataIntegrity marks records that violate the engine's invariants:
	// orphaned configs, anchors without a scheduled start, missing rule fields.
	// The record is left untouched so a later data fix gets picked up.
	StatusDataIntegrity CoreStatus = "DATA_INTEGRITY"
	// StatusRuleEvaluation marks recurrence rules the evaluator cannot
	// interpret, such as an unknown unit value.
	StatusRuleEvaluation CoreStatus = "RULE_EVALUATION"
	// StatusPersistence marks store read/write failures; the next cycle
	// retries them naturally.
	StatusPersistence CoreStatus = "PERSISTENCE"
	// StatusNotFound marks lookups that returned no record.
	StatusNotFound CoreStatus = "NOT_FOUND"
	// StatusUnknown is the fallback classification.
	StatusUnknown CoreStatus = "UNKNOWN"
)
