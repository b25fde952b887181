// backend/src/models/filters.go
package models

import (
	"errors"
	"fmt"
)

// FilterAll is the sentinel meaning "no restriction" for any filter field.
const FilterAll = "__ALL"

// ErrInvalidFilter is returned by Filters.Validate.
var ErrInvalidFilter = errors.New("invalid filter value")

// Filters is the current selection of the results view.
type Filters struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Agent    string `json:"agent"`
	Operator string `json:"operator"`
	Wallet   string `json:"wallet"`
	Shift    string `json:"turn"`
	Status   string `json:"status"`
	Movement string `json:"movement"`
}

// DefaultFilters selects everything.
func DefaultFilters() Filters {
	return Filters{
		Date:     FilterAll,
		Agent:    FilterAll,
		Operator: FilterAll,
		Wallet:   FilterAll,
		Shift:    FilterAll,
		Status:   FilterAll,
		Movement: FilterAll,
	}
}

// Validate checks the enumerated fields. Free-text fields (date, agent, operator,
// wallet) only need to be non-empty; an empty value is not a selection.
func (f Filters) Validate() error {
	for name, v := range map[string]string{"date": f.Date, "agent": f.Agent, "operator": f.Operator, "wallet": f.Wallet} {
		if v == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidFilter, name)
		}
	}
	switch Shift(f.Shift) {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
	default:
		if f.Shift != FilterAll {
			return fmt.Errorf("%w: turn %q", ErrInvalidFilter, f.Shift)
		}
	}
	switch Status(f.Status) {
	case StatusOK, StatusMissingCounterparty, StatusMissingAgent:
	default:
		if f.Status != FilterAll {
			return fmt.Errorf("%w: status %q", ErrInvalidFilter, f.Status)
		}
	}
	switch Movement(f.Movement) {
	case MovementIncome, MovementOutcome:
	default:
		if f.Movement != FilterAll {
			return fmt.Errorf("%w: movement %q", ErrInvalidFilter, f.Movement)
		}
	}
	return nil
}

// AvailableFilters lists the distinct values the free-text filters can take.
type AvailableFilters struct {
	Dates     []string `json:"dates"`
	Agents    []string `json:"agents"`
	Operators []string `json:"operators"`
	Wallets   []string `json:"wallets"`
}
