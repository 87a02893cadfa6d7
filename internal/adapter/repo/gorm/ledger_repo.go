package gormrepo

import (
	"context"
	"fmt"

	"actionforge/internal/adapter/repo/gorm/model"
	"actionforge/internal/app/ports"
	"actionforge/internal/domain/equipment"

	"gorm.io/gorm"
)

// LedgerRepo reads balances from the ledger's item_balances table and queues
// deltas into item_delta_outbox for the ledger to apply. It never writes
// balances itself. The ledger marks a row consumed_at in the same transaction
// that applies it to item_balances, so settled balances plus unconsumed rows
// is always the balance the player will end up with.
type LedgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepo {
	return LedgerRepo{db: db}
}

func (r LedgerRepo) BalancesOf(ctx context.Context, playerID string, items []equipment.ItemID) (equipment.Balances, error) {
	out := equipment.Balances{}
	if len(items) == 0 {
		return out, nil
	}
	ids := make([]int64, 0, len(items))
	for _, id := range items {
		ids = append(ids, int64(id))
	}
	var rows []model.ItemBalance
	err := getDBFromCtx(ctx, r.db).
		Where("player_id = ? AND item_id IN ?", playerID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query item balances: %w", err)
	}
	var pending []pendingDelta
	err = getDBFromCtx(ctx, r.db).
		Model(&model.ItemDeltaOutbox{}).
		Select("item_id, SUM(CASE WHEN kind = ? THEN amount ELSE -amount END) AS net", string(ports.DeltaProduced)).
		Where("player_id = ? AND item_id IN ? AND consumed_at IS NULL", playerID, ids).
		Group("item_id").
		Scan(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("query pending item deltas: %w", err)
	}

	net := make(map[int64]int64, len(rows)+len(pending))
	for _, row := range rows {
		net[row.ItemID] += row.Amount
	}
	for _, p := range pending {
		net[p.ItemID] += p.Net
	}
	for id, amount := range net {
		if amount > 0 {
			out[equipment.ItemID(id)] = uint64(amount)
		}
	}
	return out, nil
}

type pendingDelta struct {
	ItemID int64
	Net    int64
}

func (r LedgerRepo) Publish(ctx context.Context, deltas []ports.ItemDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	rows := make([]model.ItemDeltaOutbox, 0, len(deltas))
	for _, d := range deltas {
		rows = append(rows, model.ItemDeltaOutbox{
			PlayerID:   d.PlayerID,
			ItemID:     int64(d.ItemID),
			Amount:     int64(d.Amount),
			Kind:       string(d.Kind),
			Reason:     d.Reason,
			OccurredAt: d.OccurredAt,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}
