package action

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"actionforge/internal/app/ports"
	"actionforge/internal/app/shared/engineenv"
	"actionforge/internal/domain/queue"
)

// ProcessUseCase credits the time elapsed since the last pass. A pass that
// changes nothing is not persisted.
type ProcessUseCase struct {
	TxManager   ports.TxManager
	SessionRepo ports.PlayerSessionRepository
	EventRepo   ports.EventRepository
	Rewards     ports.RewardSink
	Env         engineenv.Loader
	Metrics     ports.ActionMetrics
	Logger      *slog.Logger
	Now         func() time.Time
}

func (u ProcessUseCase) Execute(ctx context.Context, req ProcessRequest) (ProcessResponse, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" || u.TxManager == nil || u.SessionRepo == nil || u.EventRepo == nil {
		return ProcessResponse{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var out ProcessResponse
	invalidated := 0
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		now := nowFn().UTC()
		session, err := loadSession(txCtx, u.SessionRepo, req.PlayerID)
		if err != nil {
			return err
		}
		env, err := u.Env.Load(txCtx, session, now.Unix())
		if err != nil {
			return err
		}

		res := queue.Process(session, now.Unix(), env)
		next := res.Session
		if res.Changed() {
			next, err = saveSession(txCtx, u.SessionRepo, res.Session, session.Version, now)
			if err != nil {
				return err
			}
			events := tagEvents(req.PlayerID, res.Events)
			if err := u.EventRepo.Append(txCtx, req.PlayerID, events); err != nil {
				return err
			}
			if u.Rewards != nil {
				if deltas := itemDeltas(req.PlayerID, res.Produced, res.Consumed, now); len(deltas) > 0 {
					if err := u.Rewards.Publish(txCtx, deltas); err != nil {
						return err
					}
				}
			}
		}

		invalidated = countInvalidated(res.Outcomes)
		out = ProcessResponse{
			Checkpoint:     next.Queue.Checkpoint,
			Cursor:         next.Queue.Cursor,
			XP:             res.XP,
			ActivityPoints: res.ActivityPoints,
			Produced:       res.Produced,
			Consumed:       res.Consumed,
			Outcomes:       res.Outcomes,
			Events:         res.Events,
			Version:        next.Version,
		}
		return nil
	})
	recordOutcome(u.Metrics, "process", invalidated, err)
	if err != nil {
		logger(u.Logger).WarnContext(ctx, "process actions failed", "player_id", req.PlayerID, "error", err)
		return ProcessResponse{}, err
	}
	if len(out.Outcomes) > 0 {
		logger(u.Logger).DebugContext(ctx, "actions processed", "player_id", req.PlayerID, "outcomes", len(out.Outcomes), "invalidated", invalidated)
	}
	return out, nil
}
