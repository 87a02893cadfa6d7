package replay

import (
	"context"
	"errors"
	"testing"
	"time"

	"actionforge/internal/domain/queue"
)

type fakeRepo struct {
	events    []queue.DomainEvent
	lastLimit int
}

func (r *fakeRepo) Append(_ context.Context, _ string, _ []queue.DomainEvent) error {
	return nil
}

func (r *fakeRepo) ListByPlayerID(_ context.Context, _ string, limit int) ([]queue.DomainEvent, error) {
	r.lastLimit = limit
	return r.events, nil
}

func sampleEvents() []queue.DomainEvent {
	return []queue.DomainEvent{
		{Type: "actions_started", OccurredAt: time.Unix(100, 0)},
		{Type: "action_processed", OccurredAt: time.Unix(200, 0), Payload: map[string]any{"xp": map[string]uint64{"woodcutting": 100}}},
		{Type: "equipment_invalidated", OccurredAt: time.Unix(300, 0)},
		{Type: "action_processed", OccurredAt: time.Unix(400, 0), Payload: map[string]any{"xp": map[string]any{"woodcutting": 50.0, "health": 10.0}}},
		{Type: "action_completed", OccurredAt: time.Unix(400, 0)},
	}
}

func TestUseCase_SummarizesEvents(t *testing.T) {
	repo := &fakeRepo{events: sampleEvents()}
	out, err := UseCase{Events: repo}.Execute(context.Background(), Request{PlayerID: "p-1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Events) != 5 || repo.lastLimit != defaultLimit {
		t.Fatalf("unexpected events=%d limit=%d", len(out.Events), repo.lastLimit)
	}
	if out.Summary.XP["woodcutting"] != 150 || out.Summary.XP["health"] != 10 {
		t.Fatalf("unexpected xp: %+v", out.Summary.XP)
	}
	if out.Summary.Completed != 1 || out.Summary.Invalidated != 1 || out.Summary.LastOccurredAt != 400 {
		t.Fatalf("unexpected summary: %+v", out.Summary)
	}
}

func TestUseCase_FiltersByTimeAndType(t *testing.T) {
	repo := &fakeRepo{events: sampleEvents()}
	out, err := UseCase{Events: repo}.Execute(context.Background(), Request{PlayerID: "p-1", OccurredFrom: 150, OccurredTo: 350})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Events) != 2 {
		t.Fatalf("expected 2 events in window, got %d", len(out.Events))
	}

	out, err = UseCase{Events: repo}.Execute(context.Background(), Request{PlayerID: "p-1", Types: []string{"action_processed"}})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Events) != 2 || out.Summary.CountByType["action_processed"] != 2 {
		t.Fatalf("expected only processed events: %+v", out.Summary)
	}
}

func TestUseCase_InvalidRequest(t *testing.T) {
	uc := UseCase{Events: &fakeRepo{}}
	if _, err := uc.Execute(context.Background(), Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), Request{PlayerID: "p", OccurredFrom: 10, OccurredTo: 5}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid window, got %v", err)
	}
}
