package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"actionforge/internal/adapter/repo/gorm/model"
	"actionforge/internal/app/ports"
	"actionforge/internal/domain/queue"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlayerSessionRepo struct {
	db *gorm.DB
}

func NewPlayerSessionRepo(db *gorm.DB) PlayerSessionRepo {
	return PlayerSessionRepo{db: db}
}

// GetByPlayerID locks the row when called inside a transaction so that two
// processing passes of the same player serialize.
func (r PlayerSessionRepo) GetByPlayerID(ctx context.Context, playerID string) (queue.PlayerSession, error) {
	db := getDBFromCtx(ctx, r.db)
	if inTx(ctx) {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m model.PlayerSession
	if err := db.Where("player_id = ?", playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return queue.PlayerSession{}, ports.ErrNotFound
		}
		return queue.PlayerSession{}, err
	}
	return decodeSession(m)
}

func (r PlayerSessionRepo) SaveWithVersion(ctx context.Context, session queue.PlayerSession, expectedVersion int64) error {
	m, err := encodeSession(session)
	if err != nil {
		return err
	}
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.PlayerSession{}).
		Where("player_id = ? AND version = ?", session.PlayerID, expectedVersion).
		Updates(map[string]any{
			"checkpoint":     m.Checkpoint,
			"cursor_seconds": m.CursorSeconds,
			"queue":          m.Queue,
			"ring":           m.Ring,
			"tallies":        m.Tallies,
			"pending_random": m.PendingRandom,
			"version":        m.Version,
			"updated_at":     m.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func encodeSession(s queue.PlayerSession) (model.PlayerSession, error) {
	queueJSON, err := json.Marshal(s.Queue)
	if err != nil {
		return model.PlayerSession{}, fmt.Errorf("encode queue: %w", err)
	}
	ringJSON, err := json.Marshal(s.Ring)
	if err != nil {
		return model.PlayerSession{}, fmt.Errorf("encode ring: %w", err)
	}
	talliesJSON, err := json.Marshal(s.Tallies)
	if err != nil {
		return model.PlayerSession{}, fmt.Errorf("encode tallies: %w", err)
	}
	pending := s.PendingRandom
	if pending == nil {
		pending = []queue.PendingRandomReward{}
	}
	pendingJSON, err := json.Marshal(pending)
	if err != nil {
		return model.PlayerSession{}, fmt.Errorf("encode pending random: %w", err)
	}
	return model.PlayerSession{
		PlayerID:      s.PlayerID,
		Checkpoint:    s.Queue.Checkpoint,
		CursorSeconds: int32(s.Queue.Cursor),
		Queue:         queueJSON,
		Ring:          ringJSON,
		Tallies:       talliesJSON,
		PendingRandom: pendingJSON,
		Version:       s.Version,
		UpdatedAt:     s.UpdatedAt,
	}, nil
}

func decodeSession(m model.PlayerSession) (queue.PlayerSession, error) {
	s := queue.NewSession(m.PlayerID)
	if err := json.Unmarshal(m.Queue, &s.Queue); err != nil {
		return queue.PlayerSession{}, fmt.Errorf("decode queue: %w", err)
	}
	if err := json.Unmarshal(m.Ring, &s.Ring); err != nil {
		return queue.PlayerSession{}, fmt.Errorf("decode ring: %w", err)
	}
	if err := json.Unmarshal(m.Tallies, &s.Tallies); err != nil {
		return queue.PlayerSession{}, fmt.Errorf("decode tallies: %w", err)
	}
	if len(m.PendingRandom) > 0 {
		if err := json.Unmarshal(m.PendingRandom, &s.PendingRandom); err != nil {
			return queue.PlayerSession{}, fmt.Errorf("decode pending random: %w", err)
		}
	}
	if s.Tallies.XP == nil {
		s.Tallies.XP = map[queue.Skill]uint64{}
	}
	s.Version = m.Version
	s.UpdatedAt = m.UpdatedAt
	return s, nil
}
