package httpadapter

import (
	"actionforge/internal/domain/equipment"
	"actionforge/internal/domain/queue"

	"github.com/go-playground/validator/v10"
)

var requestValidate = validator.New()

type startRequest struct {
	IdempotencyKey string            `json:"idempotency_key" validate:"required,max=128"`
	Strategy       string            `json:"strategy" validate:"required,oneof=overwrite append keep_last_in_progress"`
	Actions        []queuedActionDTO `json:"actions" validate:"required,min=1,dive"`
}

type queuedActionDTO struct {
	ActionID    queue.ActionID   `json:"action_id" validate:"required"`
	ChoiceID    queue.ChoiceID   `json:"choice_id,omitempty"`
	RightHand   equipment.ItemID `json:"right_hand,omitempty"`
	LeftHand    equipment.ItemID `json:"left_hand,omitempty"`
	Attire      queue.Attire     `json:"attire"`
	CombatStyle string           `json:"combat_style,omitempty" validate:"omitempty,oneof=attack defence ranged magic"`
	Timespan    uint32           `json:"timespan"`
}

func (r startRequest) queuedActions() []queue.QueuedAction {
	out := make([]queue.QueuedAction, 0, len(r.Actions))
	for _, a := range r.Actions {
		out = append(out, queue.QueuedAction{
			ActionID:    a.ActionID,
			ChoiceID:    a.ChoiceID,
			RightHand:   a.RightHand,
			LeftHand:    a.LeftHand,
			Attire:      a.Attire,
			CombatStyle: queue.CombatStyle(a.CombatStyle),
			Timespan:    a.Timespan,
		})
	}
	return out
}

type replayQuery struct {
	Limit        int   `validate:"gte=0,lte=1000"`
	OccurredFrom int64 `validate:"gte=0"`
	OccurredTo   int64 `validate:"gte=0"`
}
