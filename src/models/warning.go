package models

// WarningKind classifies a recoverable parse problem.
type WarningKind string

const (
	WarningUnrecognizedFormat WarningKind = "UNRECOGNIZED_LEDGER_FORMAT"
	WarningMalformedLine      WarningKind = "MALFORMED_LINE"
)

// ParseWarning is surfaced to the caller alongside the results. A warning never
// aborts a run; the file or line it names was skipped.
type ParseWarning struct {
	Kind    WarningKind `json:"kind"`
	Source  string      `json:"source"`         // file name, or "counterparty" for pasted text
	Line    int         `json:"line,omitempty"` // 1-based position among non-empty lines
	Message string      `json:"message"`
}

// IgnoreSet holds the record ids a user excluded from the totals.
// It belongs to the caller; the record list itself is never modified.
type IgnoreSet map[string]struct{}

// Has reports whether id is ignored. Safe on a nil set.
func (s IgnoreSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips the ignored state of id and returns the new state.
func (s IgnoreSet) Toggle(id string) bool {
	if _, ok := s[id]; ok {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// IDs returns the ignored ids in no particular order.
func (s IgnoreSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
