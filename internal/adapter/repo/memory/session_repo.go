package memory

import (
	"context"

	"actionforge/internal/app/ports"
	"actionforge/internal/domain/queue"
)

type PlayerSessionRepo struct {
	store *Store
}

func NewPlayerSessionRepo(store *Store) PlayerSessionRepo {
	return PlayerSessionRepo{store: store}
}

func (r PlayerSessionRepo) GetByPlayerID(ctx context.Context, playerID string) (queue.PlayerSession, error) {
	var (
		session queue.PlayerSession
		ok      bool
	)
	r.store.read(ctx, func() {
		session, ok = r.store.sessions[playerID]
	})
	if !ok {
		return queue.PlayerSession{}, ports.ErrNotFound
	}
	return session.Clone(), nil
}

func (r PlayerSessionRepo) SaveWithVersion(ctx context.Context, session queue.PlayerSession, expectedVersion int64) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.sessions[session.PlayerID]
		if !ok {
			if expectedVersion != 0 {
				return ports.ErrConflict
			}
		} else if current.Version != expectedVersion {
			return ports.ErrConflict
		}
		r.store.sessions[session.PlayerID] = session.Clone()
		return nil
	})
}
