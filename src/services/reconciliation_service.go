// backend/src/services/reconciliation_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/chindiferencia/backend/src/logger"
	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/parsers"
	"github.com/username/chindiferencia/backend/src/parsers/agent"
	"github.com/username/chindiferencia/backend/src/parsers/counterparty"
	"github.com/username/chindiferencia/backend/src/processors"
	"github.com/username/chindiferencia/backend/src/security/validation"
)

var (
	ErrNoInputProvided = errors.New("cargá al menos un archivo de agente o pegá el texto de Chunior")
	ErrReadFailed      = errors.New("could not read ledger file")
)

// Result is the outcome of one reconciliation run.
type Result struct {
	Records          []models.PairedRecord   `json:"records"`
	AvailableFilters models.AvailableFilters `json:"available_filters"`
	Warnings         []models.ParseWarning   `json:"warnings"`

	AgentRecordCount        int `json:"agent_record_count"`
	CounterpartyRecordCount int `json:"counterparty_record_count"`
}

// ReconciliationService runs the parse and match pipeline over raw inputs.
type ReconciliationService interface {
	Run(ctx context.Context, files []LedgerFile, pastedText string) (*Result, error)
}

type reconciliationServiceImpl struct {
	agentParser        *agent.Parser
	counterpartyParser *counterparty.Parser
	processor          *processors.ReconciliationProcessor
}

func NewReconciliationService(
	agentParser *agent.Parser,
	counterpartyParser *counterparty.Parser,
	processor *processors.ReconciliationProcessor,
) ReconciliationService {
	return &reconciliationServiceImpl{
		agentParser:        agentParser,
		counterpartyParser: counterpartyParser,
		processor:          processor,
	}
}

// Run parses every agent file in order, then the pasted counterparty text, and
// reconciles the two. Unrecognized files and malformed lines become warnings.
// The context is checked between files; a cancelled run returns no result.
func (s *reconciliationServiceImpl) Run(ctx context.Context, files []LedgerFile, pastedText string) (*Result, error) {
	log := logger.FromContext(ctx)

	if len(files) == 0 && strings.TrimSpace(pastedText) == "" {
		return nil, ErrNoInputProvided
	}

	var (
		agentRows []models.AgentRecord
		warnings  []models.ParseWarning
	)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, warning, err := s.parseAgentFile(f)
		if err != nil {
			return nil, err
		}
		if warning != nil {
			log.Warn("Skipping agent ledger", "file", f.Name(), "reason", warning.Message)
			warnings = append(warnings, *warning)
			continue
		}
		log.Debug("Agent ledger parsed", "file", f.Name(), "records", len(rows))
		agentRows = append(agentRows, rows...)
	}

	var counterpartyRows []models.CounterpartyRecord
	if strings.TrimSpace(pastedText) != "" {
		text := validation.CleanPastedText(parsers.DecodeText([]byte(pastedText)))
		rows, lineWarnings := s.counterpartyParser.Parse(parsers.SplitLines(text))
		counterpartyRows = rows
		warnings = append(warnings, lineWarnings...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paired := s.processor.Process(agentRows, counterpartyRows)
	log.Info("Reconciliation run finished",
		"files", len(files),
		"agentRecords", len(agentRows),
		"counterpartyRecords", len(counterpartyRows),
		"paired", len(paired),
		"warnings", len(warnings))

	return &Result{
		Records:                 paired,
		AvailableFilters:        processors.AvailableFiltersFor(paired),
		Warnings:                warnings,
		AgentRecordCount:        len(agentRows),
		CounterpartyRecordCount: len(counterpartyRows),
	}, nil
}

// parseAgentFile returns either the records of f or a warning explaining why the
// file was skipped. An empty file yields no records and no warning. Only I/O
// failures are returned as errors.
func (s *reconciliationServiceImpl) parseAgentFile(f LedgerFile) ([]models.AgentRecord, *models.ParseWarning, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("%w %s: %v", ErrReadFailed, f.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w %s: %v", ErrReadFailed, f.Name(), err)
	}

	skip := func(reason error) *models.ParseWarning {
		return &models.ParseWarning{
			Kind:    models.WarningUnrecognizedFormat,
			Source:  f.Name(),
			Message: reason.Error(),
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, nil
	}
	if err := validation.ValidateLedgerContent(data); err != nil {
		return nil, skip(err), nil
	}

	lines := parsers.SplitLines(parsers.DecodeText(data))
	label := validation.SanitizeText(agent.AgentNameFromFile(f.Name()))
	rows, err := s.agentParser.Parse(lines, label)
	if err != nil {
		return nil, skip(err), nil
	}
	return rows, nil, nil
}
