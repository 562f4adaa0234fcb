package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/sleepscope/internal"
)

func TestStore_CreateIssuesDistinctIDs(t *testing.T) {
	s := NewStore(&fakeAnalyzer{}, time.Hour, internal.NewNopLogger())
	defer s.Close()

	id, h := s.Create()
	assert.NotEmpty(t, id)
	assert.NotNil(t, h)

	id2, h2 := s.Create()
	assert.NotEqual(t, id, id2)
	assert.NotSame(t, h, h2)
	assert.Equal(t, 2, s.Len())
}

func TestStore_SweepEvictsIdle(t *testing.T) {
	s := NewStore(&fakeAnalyzer{}, time.Minute, internal.NewNopLogger())
	defer s.Close()

	idleID, _ := s.Create()
	_, busy := s.Create()
	busy.mu.Lock()
	busy.loading = true
	busy.mu.Unlock()

	removed := s.Sweep(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())

	_, ok := s.Lookup(idleID)
	assert.False(t, ok)
}

func TestStore_CloseTwice(t *testing.T) {
	s := NewStore(&fakeAnalyzer{}, time.Minute, internal.NewNopLogger())
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestStore_LookupDoesNotCreate(t *testing.T) {
	s := NewStore(&fakeAnalyzer{}, time.Hour, internal.NewNopLogger())
	defer s.Close()

	_, ok := s.Lookup("")
	assert.False(t, ok)
	_, ok = s.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	id, h := s.Create()
	got, ok := s.Lookup(id)
	assert.True(t, ok)
	assert.Same(t, h, got)
}

func TestStore_ReadingKeepsSessionAlive(t *testing.T) {
	s := NewStore(&fakeAnalyzer{}, time.Minute, internal.NewNopLogger())
	defer s.Close()

	id, h := s.Create()
	h.mu.Lock()
	h.lastActive = time.Now().Add(-2 * time.Minute)
	h.mu.Unlock()

	h.Snapshot()
	assert.Equal(t, 0, s.Sweep(time.Now()))
	_, ok := s.Lookup(id)
	assert.True(t, ok)
}
