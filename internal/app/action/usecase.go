package action

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"actionforge/internal/app/ports"
	"actionforge/internal/app/shared/engineenv"
	"actionforge/internal/domain/queue"
)

// StartUseCase settles elapsed time and then merges new actions into the
// player's queue, all in one transaction.
type StartUseCase struct {
	TxManager   ports.TxManager
	SessionRepo ports.PlayerSessionRepository
	ActionRepo  ports.ActionExecutionRepository
	EventRepo   ports.EventRepository
	Rewards     ports.RewardSink
	Env         engineenv.Loader
	Metrics     ports.ActionMetrics
	Logger      *slog.Logger
	NewID       func() string
	Now         func() time.Time
}

func (u StartUseCase) Execute(ctx context.Context, req StartRequest) (StartResponse, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	req.Strategy = queue.Strategy(strings.TrimSpace(string(req.Strategy)))
	if req.PlayerID == "" || req.IdempotencyKey == "" || len(req.Actions) == 0 {
		return StartResponse{}, ErrInvalidRequest
	}
	if !req.Strategy.Valid() {
		return StartResponse{}, queue.ErrInvalidStrategy
	}
	if u.TxManager == nil || u.SessionRepo == nil || u.ActionRepo == nil || u.EventRepo == nil {
		return StartResponse{}, ErrInvalidRequest
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	log := logger(u.Logger)

	var (
		out         ports.StartResult
		invalidated int
		replayed    bool
	)
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		exec, err := u.ActionRepo.GetByIdempotencyKey(txCtx, req.PlayerID, req.IdempotencyKey)
		if err == nil && exec != nil {
			out = exec.Result
			replayed = true
			return nil
		}
		if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return err
		}

		now := nowFn().UTC()
		session, err := loadSession(txCtx, u.SessionRepo, req.PlayerID)
		if err != nil {
			return err
		}
		env, err := u.Env.Load(txCtx, session, now.Unix(), req.Actions...)
		if err != nil {
			return err
		}

		processed := queue.Process(session, now.Unix(), env)
		started, err := queue.Start(processed.Session, queue.StartInput{
			Actions:  req.Actions,
			Strategy: req.Strategy,
			Now:      now.Unix(),
			Balances: afterPass(env.Balances, processed),
			Catalog:  env.Catalog,
			NewID:    u.NewID,
		})
		if err != nil {
			return err
		}

		saved, err := saveSession(txCtx, u.SessionRepo, started.Session, session.Version, now)
		if err != nil {
			return err
		}

		events := tagEvents(req.PlayerID, append(processed.Events, started.Events...))
		if err := u.EventRepo.Append(txCtx, req.PlayerID, events); err != nil {
			return err
		}
		if u.Rewards != nil {
			if deltas := itemDeltas(req.PlayerID, processed.Produced, processed.Consumed, now); len(deltas) > 0 {
				if err := u.Rewards.Publish(txCtx, deltas); err != nil {
					return err
				}
			}
		}

		out = ports.StartResult{
			Session:   saved,
			QueueIDs:  queueIDs(started.Queued),
			Discarded: queueIDs(started.Discarded),
			Events:    events,
			Processed: processed.Outcomes,
		}
		invalidated = countInvalidated(processed.Outcomes)
		return u.ActionRepo.SaveExecution(txCtx, ports.ActionExecutionRecord{
			PlayerID:       req.PlayerID,
			IdempotencyKey: req.IdempotencyKey,
			Strategy:       string(req.Strategy),
			ActionCount:    len(req.Actions),
			Result:         out,
			AppliedAt:      now,
		})
	})
	recordOutcome(u.Metrics, "start", invalidated, err)
	if err != nil {
		log.WarnContext(ctx, "start actions failed", "player_id", req.PlayerID, "strategy", string(req.Strategy), "error", err)
		return StartResponse{}, err
	}
	log.InfoContext(ctx, "actions started",
		"player_id", req.PlayerID,
		"strategy", string(req.Strategy),
		"queue_ids", out.QueueIDs,
		"replayed", replayed,
	)
	return startResponse(out), nil
}

func queueIDs(actions []queue.QueuedAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.QueueID)
	}
	return out
}
