package memory

import (
	"context"

	"actionforge/internal/app/ports"
)

type PlayerCredentialRepo struct {
	store *Store
}

func NewPlayerCredentialRepo(store *Store) PlayerCredentialRepo {
	return PlayerCredentialRepo{store: store}
}

func (r PlayerCredentialRepo) Create(ctx context.Context, credential ports.PlayerCredentialRecord) error {
	return r.store.write(ctx, func() error {
		if _, exists := r.store.credentials[credential.PlayerID]; exists {
			return ports.ErrConflict
		}
		r.store.credentials[credential.PlayerID] = credential
		return nil
	})
}

func (r PlayerCredentialRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.PlayerCredentialRecord, error) {
	var (
		rec ports.PlayerCredentialRecord
		ok  bool
	)
	r.store.read(ctx, func() {
		rec, ok = r.store.credentials[playerID]
	})
	if !ok {
		return ports.PlayerCredentialRecord{}, ports.ErrNotFound
	}
	return rec, nil
}
