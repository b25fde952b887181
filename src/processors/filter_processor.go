// backend/src/processors/filter_processor.go
package processors

import (
	"sort"

	"github.com/username/chindiferencia/backend/src/models"
)

// AvailableFiltersFor collects the distinct, non-empty, sorted values for the
// free-text filters. Dates are the local calendar days of the effective times.
func AvailableFiltersFor(records []models.PairedRecord) models.AvailableFilters {
	dates := map[string]struct{}{}
	agents := map[string]struct{}{}
	operators := map[string]struct{}{}
	wallets := map[string]struct{}{}

	add := func(set map[string]struct{}, v string) {
		if v != "" {
			set[v] = struct{}{}
		}
	}

	for _, p := range records {
		add(dates, p.DateKey())
		if p.Agent != nil {
			add(agents, p.Agent.Agent)
		}
		if p.Counterparty != nil {
			add(operators, p.Counterparty.Operator)
			add(wallets, p.Counterparty.Wallet)
		}
	}

	return models.AvailableFilters{
		Dates:     sortedKeys(dates),
		Agents:    sortedKeys(agents),
		Operators: sortedKeys(operators),
		Wallets:   sortedKeys(wallets),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ApplyFilters keeps the records matching every selected filter, preserving order.
func ApplyFilters(records []models.PairedRecord, f models.Filters) []models.PairedRecord {
	out := make([]models.PairedRecord, 0, len(records))
	for _, p := range records {
		if MatchesFilters(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// MatchesFilters reports whether one record passes the selection. A filter on an
// agent-side field rejects records without an agent side, and likewise for the
// counterparty side. Admin charges pass a status filter only when it selects OK.
func MatchesFilters(p models.PairedRecord, f models.Filters) bool {
	a, c := p.Agent, p.Counterparty

	if f.Date != models.FilterAll && p.DateKey() != f.Date {
		return false
	}
	if f.Agent != models.FilterAll && (a == nil || a.Agent != f.Agent) {
		return false
	}
	if f.Operator != models.FilterAll && (c == nil || c.Operator != f.Operator) {
		return false
	}
	if f.Wallet != models.FilterAll && (c == nil || c.Wallet != f.Wallet) {
		return false
	}
	if f.Shift != models.FilterAll && string(p.ShiftLabel()) != f.Shift {
		return false
	}
	if f.Status != models.FilterAll {
		if p.IsAdminCharge() {
			if f.Status != string(models.StatusOK) {
				return false
			}
		} else if string(p.Status) != f.Status {
			return false
		}
	}
	if f.Movement != models.FilterAll && string(p.Movement) != f.Movement {
		return false
	}
	return true
}

// ActiveRecords drops the ignored records from an already filtered list.
func ActiveRecords(filtered []models.PairedRecord, ignored models.IgnoreSet) []models.PairedRecord {
	out := make([]models.PairedRecord, 0, len(filtered))
	for _, p := range filtered {
		if !ignored.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}
