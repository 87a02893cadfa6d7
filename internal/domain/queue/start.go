package queue

import (
	"fmt"

	"actionforge/internal/domain/equipment"

	"github.com/google/uuid"
)

type StartInput struct {
	Actions  []QueuedAction
	Strategy Strategy
	Now      int64
	Balances equipment.BalanceReader
	Catalog  Catalog
	NewID    func() string
}

type StartResult struct {
	Session   PlayerSession
	Queued    []QueuedAction
	Discarded []QueuedAction
	Events    []DomainEvent
}

// Start merges new actions into the player's queue according to the strategy
// and rebuilds the checkpoint ring. Nothing is changed when an error is returned.
func Start(s PlayerSession, in StartInput) (StartResult, error) {
	if !in.Strategy.Valid() {
		return StartResult{}, ErrInvalidStrategy
	}
	if len(in.Actions) == 0 {
		return StartResult{}, &ValidationError{Index: 0, Reason: "no actions", Err: ErrInvalidAction}
	}
	for i, a := range in.Actions {
		if err := ValidateAction(i, a, in.Catalog, in.Balances); err != nil {
			return StartResult{}, err
		}
	}
	newID := in.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	prev := s.Queue
	next := ActionQueue{Checkpoint: prev.Checkpoint}
	var discarded []QueuedAction
	switch in.Strategy {
	case StrategyOverwrite:
		discarded = append(discarded, prev.Actions...)
	case StrategyAppend:
		next = prev.clone()
	case StrategyKeepLastInProgress:
		if head, ok := prev.Head(); ok {
			next = prev.clone()
			next.Actions = []QueuedAction{head}
			discarded = append(discarded, prev.Actions[1:]...)
		}
	}
	if in.Strategy == StrategyOverwrite || next.Len() == 0 {
		next = ActionQueue{Checkpoint: in.Now}
	}

	if total := next.Len() + len(in.Actions); total > MaxQueueLength {
		return StartResult{}, &CapacityError{Requested: total, Limit: MaxQueueLength, Err: ErrQueueCapacityExceeded}
	}

	limit := in.Now + MaxQueueTime
	end := next.EndTime()
	queued := make([]QueuedAction, 0, len(in.Actions))
	for i, a := range in.Actions {
		available := limit - end
		if available <= 0 {
			return StartResult{}, &ValidationError{Index: i, Reason: "no queue time left", Err: ErrQueueTimeExceeded}
		}
		if int64(a.Timespan) > available {
			a.Timespan = uint32(available)
		}
		a.QueueID = newID()
		end += int64(a.Timespan)
		queued = append(queued, a)
	}
	next.Actions = append(next.Actions, queued...)

	out := s.Clone()
	out.Queue = next
	out.Ring = Rebuild(prev, s.Ring, next, in.Balances, in.Now)

	events := []DomainEvent{{
		Type:       "actions_started",
		OccurredAt: unixTime(in.Now),
		Payload: map[string]any{
			"strategy":   string(in.Strategy),
			"queue_ids":  queueIDs(queued),
			"checkpoint": next.Checkpoint,
			"queue_len":  next.Len(),
		},
	}}
	if len(discarded) > 0 {
		events = append(events, DomainEvent{
			Type:       "actions_discarded",
			OccurredAt: unixTime(in.Now),
			Payload: map[string]any{
				"strategy":  string(in.Strategy),
				"queue_ids": queueIDs(discarded),
			},
		})
	}

	return StartResult{Session: out, Queued: queued, Discarded: discarded, Events: events}, nil
}

// ValidateAction rejects malformed input before anything is queued.
func ValidateAction(index int, a QueuedAction, catalog Catalog, live equipment.BalanceReader) error {
	fail := func(err error, format string, args ...any) error {
		return &ValidationError{Index: index, Reason: fmt.Sprintf(format, args...), Err: err}
	}
	if a.Timespan == 0 || a.Timespan > MaxQueueTime {
		return fail(ErrInvalidAction, "timespan %d out of range", a.Timespan)
	}
	if catalog == nil {
		return fail(ErrUnknownAction, "no catalog")
	}
	def, ok := catalog.Action(a.ActionID)
	if !ok {
		return fail(ErrUnknownAction, "action %d", a.ActionID)
	}

	switch {
	case len(def.Choices) == 0 && a.ChoiceID != 0:
		return fail(ErrUnknownChoice, "action %d takes no choice", a.ActionID)
	case len(def.Choices) > 0 && !def.HasChoice(a.ChoiceID):
		return fail(ErrUnknownChoice, "choice %d not offered by action %d", a.ChoiceID, a.ActionID)
	}
	if a.ChoiceID != 0 {
		if _, ok := catalog.Choice(a.ChoiceID); !ok {
			return fail(ErrUnknownChoice, "choice %d", a.ChoiceID)
		}
	}

	if def.IsCombat {
		if _, ok := a.CombatStyle.Skill(); !ok {
			return fail(ErrInvalidAction, "combat style %q", a.CombatStyle)
		}
	} else if a.CombatStyle != CombatStyleNone {
		return fail(ErrInvalidAction, "combat style on non-combat action")
	}

	if def.RequiresRightHand() && !containsItem(def.RightHandItems, a.RightHand) {
		return fail(ErrInvalidAction, "right hand item %d not accepted", a.RightHand)
	}
	if def.RequiresLeftHand() && !containsItem(def.LeftHandItems, a.LeftHand) {
		return fail(ErrInvalidAction, "left hand item %d not accepted", a.LeftHand)
	}
	for _, hand := range []equipment.ItemID{a.RightHand, a.LeftHand} {
		if hand == equipment.NoItem {
			continue
		}
		if live == nil || live.Of(hand) == 0 {
			return fail(ErrEquipmentNotHeld, "item %d", hand)
		}
	}
	return nil
}

func queueIDs(actions []QueuedAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.QueueID)
	}
	return out
}
