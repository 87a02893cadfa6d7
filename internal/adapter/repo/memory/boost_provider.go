package memory

import (
	"context"

	"actionforge/internal/domain/queue"
)

type BoostProvider struct {
	store *Store
}

func NewBoostProvider(store *Store) BoostProvider {
	return BoostProvider{store: store}
}

func (s *Store) GrantBoost(playerID string, b queue.BoostWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boosts[playerID] = append(s.boosts[playerID], b)
}

// ActiveBoosts returns the windows of playerID that overlap [from, to].
func (p BoostProvider) ActiveBoosts(ctx context.Context, playerID string, from, to int64) ([]queue.BoostWindow, error) {
	var out []queue.BoostWindow
	p.store.read(ctx, func() {
		for _, b := range p.store.boosts[playerID] {
			if b.Start < to && b.Start+int64(b.Duration) > from {
				out = append(out, b)
			}
		}
	})
	return out, nil
}
