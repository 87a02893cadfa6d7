package memory

import (
	"context"

	"actionforge/internal/domain/queue"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, playerID string, events []queue.DomainEvent) error {
	return r.store.write(ctx, func() error {
		r.store.events[playerID] = append(r.store.events[playerID], events...)
		return nil
	})
}

// ListByPlayerID returns the newest events first.
func (r EventRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]queue.DomainEvent, error) {
	var out []queue.DomainEvent
	r.store.read(ctx, func() {
		all := r.store.events[playerID]
		if limit <= 0 || limit > len(all) {
			limit = len(all)
		}
		out = make([]queue.DomainEvent, 0, limit)
		for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
			out = append(out, all[i])
		}
	})
	return out, nil
}
