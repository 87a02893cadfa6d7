package gormrepo

import (
	"context"

	"actionforge/internal/adapter/repo/gorm/model"
	"actionforge/internal/domain/queue"

	"gorm.io/gorm"
)

type BoostRepo struct {
	db *gorm.DB
}

func NewBoostRepo(db *gorm.DB) BoostRepo {
	return BoostRepo{db: db}
}

func (r BoostRepo) ActiveBoosts(ctx context.Context, playerID string, from, to int64) ([]queue.BoostWindow, error) {
	var rows []model.PlayerBoost
	err := getDBFromCtx(ctx, r.db).
		Where("player_id = ? AND start_at < ? AND start_at + duration_seconds > ?", playerID, to, from).
		Order("start_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]queue.BoostWindow, 0, len(rows))
	for _, row := range rows {
		out = append(out, queue.BoostWindow{
			Kind:     queue.BoostKind(row.Kind),
			Start:    row.StartAt,
			Duration: uint32(row.DurationSeconds),
			Percent:  uint32(row.Percent),
		})
	}
	return out, nil
}
