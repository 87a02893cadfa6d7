package memory

import (
	"context"
	"sync"

	"actionforge/internal/app/ports"
	"actionforge/internal/domain/equipment"
	"actionforge/internal/domain/queue"
)

type Store struct {
	mu          sync.RWMutex
	sessions    map[string]queue.PlayerSession
	execution   map[string]ports.ActionExecutionRecord
	events      map[string][]queue.DomainEvent
	credentials map[string]ports.PlayerCredentialRecord
	boosts      map[string][]queue.BoostWindow
	words       []publishedWord
	balances    map[string]equipment.Balances
	deltas      []ports.ItemDelta
}

type publishedWord struct {
	at   int64
	word queue.Word
}

func NewStore() *Store {
	return &Store{
		sessions:    make(map[string]queue.PlayerSession),
		execution:   make(map[string]ports.ActionExecutionRecord),
		events:      make(map[string][]queue.DomainEvent),
		credentials: make(map[string]ports.PlayerCredentialRecord),
		boosts:      make(map[string][]queue.BoostWindow),
		balances:    make(map[string]equipment.Balances),
	}
}

func execKey(playerID, key string) string {
	return playerID + "::" + key
}

func (s *Store) SeedSession(session queue.PlayerSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.PlayerID] = session.Clone()
}

type txKeyType struct{}

var txKey = txKeyType{}

// read runs fn under the read lock unless ctx already holds the store lock
// through TxManager.
func (s *Store) read(ctx context.Context, fn func()) {
	if held, _ := ctx.Value(txKey).(bool); held {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if held, _ := ctx.Value(txKey).(bool); held {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// storeState is a copy of everything a transaction may write.
type storeState struct {
	sessions    map[string]queue.PlayerSession
	execution   map[string]ports.ActionExecutionRecord
	events      map[string][]queue.DomainEvent
	credentials map[string]ports.PlayerCredentialRecord
	balances    map[string]equipment.Balances
	deltas      []ports.ItemDelta
}

// capture must be called with s.mu held. Stored sessions are never mutated in
// place and event slices only grow, so copying the maps is enough for them.
func (s *Store) capture() storeState {
	st := storeState{
		sessions:    make(map[string]queue.PlayerSession, len(s.sessions)),
		execution:   make(map[string]ports.ActionExecutionRecord, len(s.execution)),
		events:      make(map[string][]queue.DomainEvent, len(s.events)),
		credentials: make(map[string]ports.PlayerCredentialRecord, len(s.credentials)),
		balances:    make(map[string]equipment.Balances, len(s.balances)),
		deltas:      s.deltas[:len(s.deltas):len(s.deltas)],
	}
	for k, v := range s.sessions {
		st.sessions[k] = v
	}
	for k, v := range s.execution {
		st.execution[k] = v
	}
	for k, v := range s.events {
		st.events[k] = v[:len(v):len(v)]
	}
	for k, v := range s.credentials {
		st.credentials[k] = v
	}
	for k, v := range s.balances {
		st.balances[k] = v.Clone()
	}
	return st
}

func (s *Store) restore(st storeState) {
	s.sessions = st.sessions
	s.execution = st.execution
	s.events = st.events
	s.credentials = st.credentials
	s.balances = st.balances
	s.deltas = st.deltas
}
