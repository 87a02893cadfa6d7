package replay

import (
	"context"
	"errors"
	"strings"

	"actionforge/internal/app/ports"
	"actionforge/internal/domain/queue"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const defaultLimit = 200

type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" || u.Events == nil {
		return Response{}, ErrInvalidRequest
	}
	if req.OccurredFrom > 0 && req.OccurredTo > 0 && req.OccurredFrom > req.OccurredTo {
		return Response{}, ErrInvalidRequest
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	events, err := u.Events.ListByPlayerID(ctx, req.PlayerID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	events = filterByType(events, req.Types)
	return Response{Events: events, Summary: summarize(events)}, nil
}

func filterByTimeWindow(events []queue.DomainEvent, from, to int64) []queue.DomainEvent {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]queue.DomainEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func filterByType(events []queue.DomainEvent, types []string) []queue.DomainEvent {
	if len(types) == 0 {
		return events
	}
	keep := map[string]bool{}
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			keep[t] = true
		}
	}
	if len(keep) == 0 {
		return events
	}
	out := make([]queue.DomainEvent, 0, len(events))
	for _, evt := range events {
		if keep[evt.Type] {
			out = append(out, evt)
		}
	}
	return out
}

func summarize(events []queue.DomainEvent) Summary {
	s := Summary{XP: map[string]uint64{}, CountByType: map[string]int{}}
	for _, evt := range events {
		s.CountByType[evt.Type]++
		if ts := evt.OccurredAt.Unix(); ts > s.LastOccurredAt {
			s.LastOccurredAt = ts
		}
		switch evt.Type {
		case "action_processed":
			addXP(s.XP, evt.Payload["xp"])
		case "action_completed":
			s.Completed++
		case "equipment_invalidated":
			s.Invalidated++
		case "random_reward_pending":
			s.RandomPending++
		case "random_reward_resolved":
			s.RandomResolved++
		}
	}
	return s
}

// addXP accepts the payload as built in memory or as decoded from JSON.
func addXP(into map[string]uint64, v any) {
	switch m := v.(type) {
	case map[string]uint64:
		for k, n := range m {
			into[k] += n
		}
	case map[string]any:
		for k, n := range m {
			into[k] += uint64(num(n))
		}
	}
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case uint32:
		return float64(n)
	default:
		return 0
	}
}
