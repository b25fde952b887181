// backend/src/models/summary.go
package models

// SummaryData holds the aggregates shown above the results table.
// It is derived from the active record set and never stored.
type SummaryData struct {
	AgentTotal        float64 `json:"agent_total"` // excludes admin charges
	CounterpartyTotal float64 `json:"counterparty_total"`
	TotalDifference   float64 `json:"total_difference"` // agent - counterparty
	AdminTotal        float64 `json:"admin_total"`

	AgentIncome        float64 `json:"agent_income"`
	CounterpartyIncome float64 `json:"counterparty_income"`
	IncomeDifference   float64 `json:"income_difference"`

	AgentOutcome        float64 `json:"agent_outcome"`
	CounterpartyOutcome float64 `json:"counterparty_outcome"`
	OutcomeDifference   float64 `json:"outcome_difference"`

	// Counted over the filtered set before ignores are applied, admin charges excluded.
	PairedCount      int `json:"paired_count"`
	DiscrepancyCount int `json:"discrepancy_count"`
}
