package action

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"actionforge/internal/app/ports"
	"actionforge/internal/domain/equipment"
	"actionforge/internal/domain/queue"
)

var ErrInvalidRequest = errors.New("invalid action request")

func loadSession(ctx context.Context, repo ports.PlayerSessionRepository, playerID string) (queue.PlayerSession, error) {
	s, err := repo.GetByPlayerID(ctx, playerID)
	if errors.Is(err, ports.ErrNotFound) {
		return queue.NewSession(playerID), nil
	}
	if err != nil {
		return queue.PlayerSession{}, err
	}
	if s.Tallies.XP == nil {
		s.Tallies.XP = map[queue.Skill]uint64{}
	}
	return s, nil
}

func saveSession(ctx context.Context, repo ports.PlayerSessionRepository, next queue.PlayerSession, prevVersion int64, now time.Time) (queue.PlayerSession, error) {
	next.Version = prevVersion + 1
	next.UpdatedAt = now
	if err := repo.SaveWithVersion(ctx, next, prevVersion); err != nil {
		return queue.PlayerSession{}, err
	}
	return next, nil
}

func tagEvents(playerID string, events []queue.DomainEvent) []queue.DomainEvent {
	for i := range events {
		if events[i].Payload == nil {
			events[i].Payload = map[string]any{}
		}
		events[i].Payload["player_id"] = playerID
	}
	return events
}

// itemDeltas nets what a pass produced and consumed per item. A recipe may
// burn items an earlier action made in the same pass, and the ledger only
// ever sees the net change.
func itemDeltas(playerID string, produced, consumed []queue.ItemAmount, at time.Time) []ports.ItemDelta {
	net := map[equipment.ItemID]int64{}
	for _, it := range produced {
		net[it.ItemID] += int64(it.Amount)
	}
	for _, it := range consumed {
		net[it.ItemID] -= int64(it.Amount)
	}
	ids := make([]equipment.ItemID, 0, len(net))
	for id, d := range net {
		if d != 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		// Credits first so that a consume never runs ahead of its producer.
		if (net[ids[i]] > 0) != (net[ids[j]] > 0) {
			return net[ids[i]] > 0
		}
		return ids[i] < ids[j]
	})
	out := make([]ports.ItemDelta, 0, len(ids))
	for _, id := range ids {
		d := ports.ItemDelta{PlayerID: playerID, ItemID: id, Kind: ports.DeltaProduced, Reason: "action_output", OccurredAt: at}
		if n := net[id]; n > 0 {
			d.Amount = uint64(n)
		} else {
			d.Amount = uint64(-n)
			d.Kind = ports.DeltaConsumed
			d.Reason = "action_input"
		}
		out = append(out, d)
	}
	return out
}

// afterPass is what the balances will be once the ledger applied the pass.
func afterPass(live equipment.BalanceReader, res queue.Result) equipment.Balances {
	out := equipment.Balances{}
	if b, ok := live.(equipment.Balances); ok {
		out = b.Clone()
	}
	for _, it := range res.Produced {
		out[it.ItemID] += it.Amount
	}
	for _, it := range res.Consumed {
		if out[it.ItemID] < it.Amount {
			out[it.ItemID] = 0
			continue
		}
		out[it.ItemID] -= it.Amount
	}
	return out
}

func countInvalidated(outcomes []queue.ActionOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Invalidated {
			n++
		}
	}
	return n
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

func recordOutcome(m ports.ActionMetrics, operation string, invalidated int, err error) {
	if m == nil {
		return
	}
	switch {
	case err == nil:
		m.RecordSuccess(operation)
		if invalidated > 0 {
			m.RecordInvalidated(invalidated)
		}
	case errors.Is(err, ports.ErrConflict):
		m.RecordConflict()
	default:
		m.RecordFailure()
	}
}
