package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/sleepscope/internal"
	"github.com/yourname/sleepscope/internal/analysis"
)

// Store keeps one Holder per visitor in memory. Holders idle for longer than
// the TTL are dropped by a background sweep.
type Store struct {
	holders      map[string]*Holder
	mu           sync.RWMutex
	analyzer     analysis.Analyzer
	ttl          time.Duration
	sweepDelay   time.Duration
	shutdownChan chan struct{}
	closeOnce    sync.Once
	logger       internal.Logger
}

func NewStore(analyzer analysis.Analyzer, ttl time.Duration, logger internal.Logger) *Store {
	s := &Store{
		holders:      make(map[string]*Holder),
		analyzer:     analyzer,
		ttl:          ttl,
		sweepDelay:   sweepInterval(ttl),
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}
	go s.sweepWorker()
	return s
}

func sweepInterval(ttl time.Duration) time.Duration {
	d := ttl / 4
	if d < time.Second {
		d = time.Second
	}
	return d
}

// Lookup returns the stored holder for id, if any.
func (s *Store) Lookup(id string) (*Holder, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holders[id]
	return h, ok
}

// Create stores a fresh holder under a new id.
func (s *Store) Create() (string, *Holder) {
	h := NewHolder(s.analyzer, s.logger)
	id := uuid.NewString()
	s.mu.Lock()
	s.holders[id] = h
	s.mu.Unlock()
	s.logger.Debugf("session: created %s", id)
	return id, h
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.holders)
}

// Sweep drops holders idle since before now-ttl, skipping any with a
// submission still in flight. It returns the number removed.
func (s *Store) Sweep(now time.Time) int {
	cutoff := now.Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, h := range s.holders {
		h.mu.Lock()
		idle := !h.loading && h.lastActive.Before(cutoff)
		h.mu.Unlock()
		if idle {
			delete(s.holders, id)
			removed++
		}
	}
	return removed
}

func (s *Store) sweepWorker() {
	ticker := time.NewTicker(s.sweepDelay)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				s.logger.Debugf("session: evicted %d idle sessions", n)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

// Close stops the sweep worker. It is safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() { close(s.shutdownChan) })
	return nil
}
