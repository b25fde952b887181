// backend/src/models/paired.go
package models

import "time"

// Status is the reconciliation outcome of a PairedRecord.
type Status string

const (
	StatusOK                  Status = "OK"
	StatusMissingCounterparty Status = "MISSING_COUNTERPARTY"
	StatusMissingAgent        Status = "MISSING_AGENT"

	// StatusAdminCharge is never assigned by the engine; exporters use it in place of
	// StatusOK for administrative charges.
	StatusAdminCharge Status = "ADMIN_CHARGE"
)

// PairedRecord is the unit of reconciled output: a matched pair, an admin charge,
// or a one-sided discrepancy. At least one side is always set.
type PairedRecord struct {
	ID           string              `json:"id"`
	Agent        *AgentRecord        `json:"agent"`
	Counterparty *CounterpartyRecord `json:"counterparty"`
	Status       Status              `json:"status"`
	Movement     Movement            `json:"movement"`
}

// Valid reports whether the record has at least one side.
func (p PairedRecord) Valid() bool {
	return p.Agent != nil || p.Counterparty != nil
}

// IsAdminCharge reports whether the agent side is an administrative charge.
func (p PairedRecord) IsAdminCharge() bool {
	return p.Agent != nil && p.Agent.IsAdminCharge
}

// EffectiveTime returns the agent timestamp if present, else the counterparty one.
func (p PairedRecord) EffectiveTime() *time.Time {
	if p.Agent != nil && p.Agent.Timestamp != nil {
		return p.Agent.Timestamp
	}
	if p.Counterparty != nil && p.Counterparty.Timestamp != nil {
		return p.Counterparty.Timestamp
	}
	return nil
}

// ShiftLabel returns the agent shift if set, else the counterparty shift.
func (p PairedRecord) ShiftLabel() Shift {
	if p.Agent != nil && p.Agent.Shift != ShiftNone {
		return p.Agent.Shift
	}
	if p.Counterparty != nil {
		return p.Counterparty.Shift
	}
	return ShiftNone
}

// ExportStatus is the status written to export artifacts.
func (p PairedRecord) ExportStatus() Status {
	if p.IsAdminCharge() {
		return StatusAdminCharge
	}
	return p.Status
}

// DateKey formats the local calendar day of the effective time as YYYY-MM-DD,
// or "" when neither side has a timestamp.
func (p PairedRecord) DateKey() string {
	ts := p.EffectiveTime()
	if ts == nil {
		return ""
	}
	return ts.Format("2006-01-02")
}
