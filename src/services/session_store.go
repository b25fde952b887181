// backend/src/services/session_store.go
package services

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/chindiferencia/backend/src/logger"
	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/processors"
)

const (
	DefaultSessionTTL      = 2 * time.Hour
	SessionCleanupInterval = 30 * time.Minute
)

var (
	ErrSessionNotFound = errors.New("session not found or expired")
	ErrRecordNotFound  = errors.New("record not found in session")
)

// SessionStore keeps reconciliation results in memory between requests. Entries
// expire after the TTL unless they are read again.
type SessionStore struct {
	cache   *cache.Cache
	ttl     time.Duration
	summary processors.SummaryProcessor
}

func NewSessionStore(ttl, cleanupInterval time.Duration, summary processors.SummaryProcessor) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = SessionCleanupInterval
	}
	return &SessionStore{
		cache:   cache.New(ttl, cleanupInterval),
		ttl:     ttl,
		summary: summary,
	}
}

// CreateSession stores res under a new id. Each run gets its own session, so
// ignore overrides from earlier runs never carry over.
func (s *SessionStore) CreateSession(res *Result) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		result:    res,
		ignored:   models.IgnoreSet{},
		summary:   s.summary,
	}
	s.cache.Set(sess.ID, sess, s.ttl)
	logger.L.Debug("Session created", "sessionID", sess.ID, "records", len(res.Records))
	return sess
}

// GetSession returns the session and extends its lifetime.
func (s *SessionStore) GetSession(id string) (*Session, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	sess := v.(*Session)
	s.cache.Set(id, sess, s.ttl)
	return sess, nil
}

// DeleteSession drops a session. It reports whether the session existed.
func (s *SessionStore) DeleteSession(id string) bool {
	_, found := s.cache.Get(id)
	s.cache.Delete(id)
	return found
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}

// Session is one reconciliation result plus the user's ignore overrides.
// The record list is never modified after creation.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	result  *Result
	ignored models.IgnoreSet
	summary processors.SummaryProcessor
}

// View is what the results screen shows for one filter selection.
type View struct {
	SessionID        string                  `json:"session_id"`
	Records          []models.PairedRecord   `json:"records"`
	Ignored          []string                `json:"ignored"`
	Summary          models.SummaryData      `json:"summary"`
	AppliedFilters   models.Filters          `json:"applied_filters"`
	AvailableFilters models.AvailableFilters `json:"available_filters"`
	Warnings         []models.ParseWarning   `json:"warnings"`
	TotalRecords     int                     `json:"total_records"`
}

// Result returns the stored reconciliation result.
func (s *Session) Result() *Result {
	return s.result
}

// View applies f to the stored records and summarizes the active subset.
func (s *Session) View(f models.Filters) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := processors.ApplyFilters(s.result.Records, f)
	ignored := s.ignored.IDs()
	sort.Strings(ignored)

	return View{
		SessionID:        s.ID,
		Records:          filtered,
		Ignored:          ignored,
		Summary:          s.summary.Summarize(filtered, s.ignored),
		AppliedFilters:   f,
		AvailableFilters: s.result.AvailableFilters,
		Warnings:         s.result.Warnings,
		TotalRecords:     len(s.result.Records),
	}
}

// ToggleIgnore flips the ignored state of a record and returns the new state.
func (s *Session) ToggleIgnore(recordID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.result.Records {
		if p.ID == recordID {
			return s.ignored.Toggle(recordID), nil
		}
	}
	return false, ErrRecordNotFound
}

// ActiveRecords returns the filtered records that are not ignored, as exported.
func (s *Session) ActiveRecords(f models.Filters) []models.PairedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return processors.ActiveRecords(processors.ApplyFilters(s.result.Records, f), s.ignored)
}
