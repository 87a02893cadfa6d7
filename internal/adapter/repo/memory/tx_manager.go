package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx holds the store lock for the whole of fn and puts every map back
// the way it was when fn fails or panics.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if held, _ := ctx.Value(txKey).(bool); held {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	saved := t.store.capture()
	committed := false
	defer func() {
		if !committed {
			t.store.restore(saved)
		}
	}()
	if err := fn(context.WithValue(ctx, txKey, true)); err != nil {
		return err
	}
	committed = true
	return nil
}
