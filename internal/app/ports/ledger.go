package ports

import (
	"context"
	"time"

	"actionforge/internal/domain/equipment"
	"actionforge/internal/domain/queue"
)

// ActionCatalog resolves action, choice and attire-bonus definitions.
type ActionCatalog interface {
	queue.Catalog
}

// BalanceQuery reads a player's current item amounts. Every call must be one
// consistent read; amounts of items the ledger does not know are zero.
type BalanceQuery interface {
	BalancesOf(ctx context.Context, playerID string, items []equipment.ItemID) (equipment.Balances, error)
}

type DeltaKind string

const (
	DeltaProduced DeltaKind = "produced"
	DeltaConsumed DeltaKind = "consumed"
)

// ItemDelta is one balance change the engine asks the item ledger to apply.
type ItemDelta struct {
	PlayerID   string
	ItemID     equipment.ItemID
	Amount     uint64
	Kind       DeltaKind
	Reason     string
	OccurredAt time.Time
}

// RewardSink hands item deltas over to the ledger that owns balances.
type RewardSink interface {
	Publish(ctx context.Context, deltas []ItemDelta) error
}
