package memory

import (
	"context"
	"fmt"

	"actionforge/internal/app/ports"
	"actionforge/internal/domain/equipment"
)

// Ledger is an in-process item ledger. It answers balance reads and applies
// published deltas immediately, which the Postgres outbox leaves to the
// external ledger.
type Ledger struct {
	store *Store
}

func NewLedger(store *Store) Ledger {
	return Ledger{store: store}
}

func (s *Store) SetBalance(playerID string, item equipment.ItemID, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bal := s.balances[playerID]
	if bal == nil {
		bal = equipment.Balances{}
		s.balances[playerID] = bal
	}
	bal[item] = amount
}

// PublishedDeltas returns every delta the ledger has applied, oldest first.
func (s *Store) PublishedDeltas() []ports.ItemDelta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.ItemDelta(nil), s.deltas...)
}

func (l Ledger) BalancesOf(ctx context.Context, playerID string, items []equipment.ItemID) (equipment.Balances, error) {
	out := make(equipment.Balances, len(items))
	l.store.read(ctx, func() {
		bal := l.store.balances[playerID]
		for _, id := range items {
			if n := bal.Of(id); n > 0 {
				out[id] = n
			}
		}
	})
	return out, nil
}

// Publish applies every delta or none of them.
func (l Ledger) Publish(ctx context.Context, deltas []ports.ItemDelta) error {
	return l.store.write(ctx, func() error {
		next := map[string]equipment.Balances{}
		for _, d := range deltas {
			bal, ok := next[d.PlayerID]
			if !ok {
				bal = l.store.balances[d.PlayerID].Clone()
				next[d.PlayerID] = bal
			}
			switch d.Kind {
			case ports.DeltaProduced:
				bal[d.ItemID] += d.Amount
			case ports.DeltaConsumed:
				if bal[d.ItemID] < d.Amount {
					return fmt.Errorf("consume item %d for %s: have %d, need %d", d.ItemID, d.PlayerID, bal[d.ItemID], d.Amount)
				}
				bal[d.ItemID] -= d.Amount
			default:
				return fmt.Errorf("unknown delta kind %q", d.Kind)
			}
		}
		for playerID, bal := range next {
			l.store.balances[playerID] = bal
		}
		l.store.deltas = append(l.store.deltas, deltas...)
		return nil
	})
}
