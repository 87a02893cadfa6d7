package memory

import (
	"context"

	"actionforge/internal/app/ports"
)

type ActionExecutionRepo struct {
	store *Store
}

func NewActionExecutionRepo(store *Store) ActionExecutionRepo {
	return ActionExecutionRepo{store: store}
}

func (r ActionExecutionRepo) GetByIdempotencyKey(ctx context.Context, playerID, key string) (*ports.ActionExecutionRecord, error) {
	var (
		rec ports.ActionExecutionRecord
		ok  bool
	)
	r.store.read(ctx, func() {
		rec, ok = r.store.execution[execKey(playerID, key)]
	})
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &rec, nil
}

func (r ActionExecutionRepo) SaveExecution(ctx context.Context, execution ports.ActionExecutionRecord) error {
	return r.store.write(ctx, func() error {
		k := execKey(execution.PlayerID, execution.IdempotencyKey)
		if _, exists := r.store.execution[k]; exists {
			return ports.ErrConflict
		}
		r.store.execution[k] = execution
		return nil
	})
}
