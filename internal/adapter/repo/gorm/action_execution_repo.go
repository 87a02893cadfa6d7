package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"actionforge/internal/adapter/repo/gorm/model"
	"actionforge/internal/app/ports"

	"gorm.io/gorm"
)

type ActionExecutionRepo struct {
	db *gorm.DB
}

func NewActionExecutionRepo(db *gorm.DB) ActionExecutionRepo {
	return ActionExecutionRepo{db: db}
}

func (r ActionExecutionRepo) GetByIdempotencyKey(ctx context.Context, playerID, key string) (*ports.ActionExecutionRecord, error) {
	var m model.ActionExecution
	err := getDBFromCtx(ctx, r.db).
		Where(&model.ActionExecution{PlayerID: playerID, IdempotencyKey: key}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var result ports.StartResult
	if err := json.Unmarshal(m.Result, &result); err != nil {
		return nil, fmt.Errorf("decode execution result: %w", err)
	}
	return &ports.ActionExecutionRecord{
		PlayerID:       m.PlayerID,
		IdempotencyKey: m.IdempotencyKey,
		Strategy:       m.Strategy,
		ActionCount:    int(m.ActionCount),
		Result:         result,
		AppliedAt:      m.AppliedAt,
	}, nil
}

func (r ActionExecutionRepo) SaveExecution(ctx context.Context, execution ports.ActionExecutionRecord) error {
	resultJSON, err := json.Marshal(execution.Result)
	if err != nil {
		return fmt.Errorf("encode execution result: %w", err)
	}
	m := model.ActionExecution{
		PlayerID:       execution.PlayerID,
		IdempotencyKey: execution.IdempotencyKey,
		Strategy:       execution.Strategy,
		ActionCount:    int32(execution.ActionCount),
		Result:         resultJSON,
		AppliedAt:      execution.AppliedAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}
