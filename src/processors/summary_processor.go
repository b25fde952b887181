// backend/src/processors/summary_processor.go
package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/chindiferencia/backend/src/models"
)

// SummaryProcessor derives the aggregate figures for a filtered result set.
type SummaryProcessor interface {
	Summarize(filtered []models.PairedRecord, ignored models.IgnoreSet) models.SummaryData
}

type summaryProcessorImpl struct{}

func NewSummaryProcessor() SummaryProcessor {
	return &summaryProcessorImpl{}
}

// splitTotal accumulates a signed total and its income/outcome parts in decimal,
// so totals reconcile to the cent with external ledgers.
type splitTotal struct {
	total, income, outcome decimal.Decimal
}

func (s *splitTotal) add(amount float64) {
	d := decimal.NewFromFloat(amount)
	s.total = s.total.Add(d)
	if amount >= 0 {
		s.income = s.income.Add(d)
	} else {
		s.outcome = s.outcome.Add(d)
	}
}

// Summarize computes the money totals over the active records (filtered minus
// ignored) and the paired/discrepancy counts over the filtered records.
// Admin charges are summed apart from the agent total and never counted.
// AdminTotal follows the filters like every other total, as the web client does.
func (p *summaryProcessorImpl) Summarize(filtered []models.PairedRecord, ignored models.IgnoreSet) models.SummaryData {
	var agent, counterparty splitTotal
	adminTotal := decimal.Zero

	for _, rec := range ActiveRecords(filtered, ignored) {
		if a := rec.Agent; a != nil {
			if a.IsAdminCharge {
				adminTotal = adminTotal.Add(decimal.NewFromFloat(a.Amount))
			} else {
				agent.add(a.Amount)
			}
		}
		if c := rec.Counterparty; c != nil {
			counterparty.add(c.Amount)
		}
	}

	var paired, discrepancies int
	for _, rec := range filtered {
		if rec.IsAdminCharge() {
			continue
		}
		if rec.Status == models.StatusOK {
			paired++
		} else {
			discrepancies++
		}
	}

	return models.SummaryData{
		AgentTotal:        agent.total.InexactFloat64(),
		CounterpartyTotal: counterparty.total.InexactFloat64(),
		TotalDifference:   agent.total.Sub(counterparty.total).InexactFloat64(),
		AdminTotal:        adminTotal.InexactFloat64(),

		AgentIncome:        agent.income.InexactFloat64(),
		CounterpartyIncome: counterparty.income.InexactFloat64(),
		IncomeDifference:   agent.income.Sub(counterparty.income).InexactFloat64(),

		AgentOutcome:        agent.outcome.InexactFloat64(),
		CounterpartyOutcome: counterparty.outcome.InexactFloat64(),
		OutcomeDifference:   agent.outcome.Sub(counterparty.outcome).InexactFloat64(),

		PairedCount:      paired,
		DiscrepancyCount: discrepancies,
	}
}
