package status

import (
	"context"
	"errors"
	"strings"
	"time"

	"actionforge/internal/app/ports"
	"actionforge/internal/domain/queue"
)

var ErrInvalidRequest = errors.New("invalid status request")

// UseCase answers read-only questions about a player's queue. It never
// processes or persists anything.
type UseCase struct {
	SessionRepo ports.PlayerSessionRepository
	Now         func() time.Time
}

func (u UseCase) ActivePlayerInfo(ctx context.Context, req Request) (ActivePlayerInfo, error) {
	s, now, err := u.load(ctx, req)
	if err != nil {
		return ActivePlayerInfo{}, err
	}
	q := s.Queue
	spans := make([]uint32, queue.MaxQueueLength)
	copy(spans, q.Timespans())
	ids := make([]string, 0, q.Len())
	for _, a := range q.Actions {
		ids = append(ids, a.QueueID)
	}
	current, ok := q.CurrentIndex(now)
	if !ok {
		current = -1
	}
	xp := s.Tallies.XP
	if xp == nil {
		xp = map[queue.Skill]uint64{}
	}
	return ActivePlayerInfo{
		Checkpoint:     q.Checkpoint,
		Cursor:         q.Cursor,
		Timespan:       spans[0],
		Timespan1:      spans[1],
		Timespan2:      spans[2],
		QueueIDs:       ids,
		HeadState:      q.HeadStateAt(now),
		CurrentIndex:   current,
		EndTime:        q.EndTime(),
		XP:             xp,
		ActivityPoints: s.Tallies.ActivityPoints,
		PendingRandom:  len(s.PendingRandom),
		Version:        s.Version,
	}, nil
}

func (u UseCase) CheckpointEquipments(ctx context.Context, req Request) (CheckpointEquipmentsResponse, error) {
	s, now, err := u.load(ctx, req)
	if err != nil {
		return CheckpointEquipmentsResponse{}, err
	}
	out := CheckpointEquipmentsResponse{At: now}
	for _, snap := range queue.CheckpointEquipments(s.Queue, s.Ring, now) {
		out.Snapshots = append(out.Snapshots, snapshotView(snap))
	}
	return out, nil
}

func (u UseCase) load(ctx context.Context, req Request) (queue.PlayerSession, int64, error) {
	playerID := strings.TrimSpace(req.PlayerID)
	if playerID == "" || u.SessionRepo == nil {
		return queue.PlayerSession{}, 0, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	s, err := u.SessionRepo.GetByPlayerID(ctx, playerID)
	if errors.Is(err, ports.ErrNotFound) {
		return queue.NewSession(playerID), nowFn().Unix(), nil
	}
	if err != nil {
		return queue.PlayerSession{}, 0, err
	}
	return s, nowFn().Unix(), nil
}
