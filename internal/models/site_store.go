package models

import (
	"sync"
	"time"
)

// SiteStore holds exactly one snapshot of the full record set plus the
// fingerprint token of the last-loaded set. Every refresh replaces the
// whole set atomically; there is no partial merge of upstream updates.
type SiteStore struct {
	mu          sync.RWMutex
	records     []SiteRecord
	token       string
	lastUpdated string
	source      string
	replacedAt  time.Time
}

func NewSiteStore() *SiteStore {
	return &SiteStore{}
}

// Replace swaps in a new record set and its fingerprint token.
func (s *SiteStore) Replace(records []SiteRecord, token, lastUpdated, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.token = token
	s.lastUpdated = lastUpdated
	s.source = source
	s.replacedAt = time.Now()
}

// Records returns a copy of the current set. Callers may not observe a
// set that mutates under them mid-reconciliation.
func (s *SiteStore) Records() []SiteRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SiteRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// Get looks up a record by its upstream ID.
func (s *SiteStore) Get(id string) (SiteRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return SiteRecord{}, false
}

func (s *SiteStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SiteStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *SiteStore) LastUpdated() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

func (s *SiteStore) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// ReplacedAt reports when the set was last swapped; zero when the store
// has never been populated.
func (s *SiteStore) ReplacedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replacedAt
}
