// backend/src/models/record.go
package models

import "time"

// Origin tags which ledger a record was read from.
type Origin string

const (
	OriginAgent        Origin = "AGENT"
	OriginCounterparty Origin = "COUNTERPARTY"
)

// Shift is one of the three 8-hour local-time windows used for filtering and reporting.
type Shift string

const (
	ShiftMorning   Shift = "TM" // 06:00 - 13:59
	ShiftAfternoon Shift = "TT" // 14:00 - 21:59
	ShiftNight     Shift = "TN" // 22:00 - 05:59, wraps midnight
	ShiftNone      Shift = ""
)

// Movement says whether money came in or went out.
type Movement string

const (
	MovementIncome  Movement = "INGRESO"
	MovementOutcome Movement = "EGRESO"
)

// ShiftFor derives the shift label from the hour of day of ts, in ts's own location.
// A nil timestamp yields ShiftNone.
func ShiftFor(ts *time.Time) Shift {
	if ts == nil || ts.IsZero() {
		return ShiftNone
	}
	h := ts.Hour()
	switch {
	case h >= 6 && h < 14:
		return ShiftMorning
	case h >= 14 && h < 22:
		return ShiftAfternoon
	default:
		return ShiftNight
	}
}

// MovementFor classifies an amount by sign. Zero counts as income.
func MovementFor(amount float64) Movement {
	if amount < 0 {
		return MovementOutcome
	}
	return MovementIncome
}

// Record holds the fields shared by both ledgers.
type Record struct {
	Origin    Origin     `json:"origin"`
	RawDate   string     `json:"raw_date"`
	Timestamp *time.Time `json:"timestamp"` // nil when the date text could not be parsed
	Amount    float64    `json:"amount"`
	Username  string     `json:"username"` // lower-cased, trimmed
	Shift     Shift      `json:"shift"`
	Movement  Movement   `json:"movement"`
}

// AgentRecord is one row of an agent ledger export.
type AgentRecord struct {
	Record
	Agent         string `json:"agent"`           // source ledger name, derived from the file name
	IsAdminCharge bool   `json:"is_admin_charge"` // credited by an administrator; never matched
}

// CounterpartyRecord is one line of the pasted counterparty log.
type CounterpartyRecord struct {
	Record
	Operator string `json:"operator"` // lower-cased, trimmed
	Wallet   string `json:"wallet"`   // upper-cased, "X - " prefix removed
}

// NewRecord fills the derived fields (shift, movement) from the parsed values.
func NewRecord(origin Origin, rawDate string, ts *time.Time, amount float64, username string) Record {
	return Record{
		Origin:    origin,
		RawDate:   rawDate,
		Timestamp: ts,
		Amount:    amount,
		Username:  username,
		Shift:     ShiftFor(ts),
		Movement:  MovementFor(amount),
	}
}
