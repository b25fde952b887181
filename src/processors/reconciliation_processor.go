// backend/src/processors/reconciliation_processor.go
package processors

import (
	"fmt"
	"math"
	"sort"

	"github.com/username/chindiferencia/backend/src/logger"
	"github.com/username/chindiferencia/backend/src/models"
)

// MatchTolerance is the largest absolute amount difference still treated as equal.
const MatchTolerance = 0.01

// Identity prefixes, one per emission category.
const (
	idPrefixAdmin            = "admin"
	idPrefixMatch            = "match"
	idPrefixAgentMissing     = "agent-miss"
	idPrefixCounterpartyMiss = "counterparty-miss"
)

// ReconciliationProcessor pairs agent records with counterparty records.
type ReconciliationProcessor struct{}

func NewReconciliationProcessor() *ReconciliationProcessor { return &ReconciliationProcessor{} }

// counterpartyPool hands out counterparty records in ledger order. A record,
// once claimed, is never offered again.
type counterpartyPool struct {
	records []models.CounterpartyRecord
	claimed []bool
}

func newCounterpartyPool(records []models.CounterpartyRecord) *counterpartyPool {
	return &counterpartyPool{records: records, claimed: make([]bool, len(records))}
}

// claimFirst claims the first unclaimed record accepted by match.
func (p *counterpartyPool) claimFirst(match func(*models.CounterpartyRecord) bool) (*models.CounterpartyRecord, bool) {
	for i := range p.records {
		if p.claimed[i] || !match(&p.records[i]) {
			continue
		}
		p.claimed[i] = true
		return &p.records[i], true
	}
	return nil, false
}

// unclaimed returns the records nobody claimed, in ledger order.
func (p *counterpartyPool) unclaimed() []*models.CounterpartyRecord {
	var out []*models.CounterpartyRecord
	for i := range p.records {
		if !p.claimed[i] {
			out = append(out, &p.records[i])
		}
	}
	return out
}

// Matches reports whether an agent and a counterparty record describe the same
// transaction: same non-empty username and amounts within MatchTolerance.
func Matches(a *models.AgentRecord, c *models.CounterpartyRecord) bool {
	if a.Username == "" || c.Username == "" || a.Username != c.Username {
		return false
	}
	return math.Abs(a.Amount-c.Amount) < MatchTolerance
}

// Process reconciles both ledgers. Input order matters: agent records are
// matched in the order given, each against the first unclaimed counterparty
// record that fits (first fit, not best fit). Admin charges are emitted as OK
// and never claim a counterparty record. The result is sorted by effective
// time; records without any timestamp sort as the Unix epoch.
//
// The input slices are copied; the returned records do not alias them.
func (p *ReconciliationProcessor) Process(agents []models.AgentRecord, counterparties []models.CounterpartyRecord) []models.PairedRecord {
	agentRows := append([]models.AgentRecord(nil), agents...)
	pool := newCounterpartyPool(append([]models.CounterpartyRecord(nil), counterparties...))

	paired := make([]models.PairedRecord, 0, len(agentRows)+len(counterparties))
	seq := 0
	nextID := func(prefix string) string {
		id := fmt.Sprintf("%s-%d", prefix, seq)
		seq++
		return id
	}

	for i := range agentRows {
		a := &agentRows[i]
		if a.IsAdminCharge {
			paired = append(paired, models.PairedRecord{
				ID: nextID(idPrefixAdmin), Agent: a, Status: models.StatusOK, Movement: a.Movement,
			})
			continue
		}

		c, ok := pool.claimFirst(func(c *models.CounterpartyRecord) bool { return Matches(a, c) })
		if ok {
			paired = append(paired, models.PairedRecord{
				ID: nextID(idPrefixMatch), Agent: a, Counterparty: c, Status: models.StatusOK, Movement: a.Movement,
			})
			continue
		}
		paired = append(paired, models.PairedRecord{
			ID: nextID(idPrefixAgentMissing), Agent: a, Status: models.StatusMissingCounterparty, Movement: a.Movement,
		})
	}

	for _, c := range pool.unclaimed() {
		paired = append(paired, models.PairedRecord{
			ID: nextID(idPrefixCounterpartyMiss), Counterparty: c, Status: models.StatusMissingAgent, Movement: c.Movement,
		})
	}

	sort.SliceStable(paired, func(i, j int) bool {
		return sortKey(paired[i]) < sortKey(paired[j])
	})

	logger.L.Debug("Reconciliation finished", "agentRecords", len(agents), "counterpartyRecords", len(counterparties), "paired", len(paired))
	return paired
}

func sortKey(p models.PairedRecord) int64 {
	if ts := p.EffectiveTime(); ts != nil {
		return ts.UnixMilli()
	}
	return 0
}
