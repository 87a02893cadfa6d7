package pending

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"actionforge/internal/app/ports"
	"actionforge/internal/app/shared/engineenv"
	"actionforge/internal/domain/equipment"
	"actionforge/internal/domain/queue"
)

var ErrInvalidRequest = errors.New("invalid pending request")

type Request struct {
	PlayerID string
}

type ItemDelta struct {
	ItemID equipment.ItemID `json:"item_id"`
	Delta  int64            `json:"delta"`
}

type EquipmentState struct {
	QueueID     string            `json:"queue_id"`
	ActionID    queue.ActionID    `json:"action_id"`
	State       queue.HeadState   `json:"state"`
	Invalidated bool              `json:"invalidated"`
	Slots       map[string]string `json:"slots"`
}

// Response is what processing now would credit. Nothing is persisted.
type Response struct {
	At               int64                       `json:"at"`
	ExperienceDeltas map[queue.Skill]uint64      `json:"experience_deltas"`
	ActivityPoints   uint64                      `json:"activity_points"`
	ItemDeltas       []ItemDelta                 `json:"item_deltas"`
	EquipmentStates  []EquipmentState            `json:"equipment_states"`
	PendingRandom    []queue.PendingRandomReward `json:"pending_random"`
}

type UseCase struct {
	SessionRepo ports.PlayerSessionRepository
	Env         engineenv.Loader
	Now         func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	playerID := strings.TrimSpace(req.PlayerID)
	if playerID == "" || u.SessionRepo == nil {
		return Response{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().Unix()

	s, err := u.SessionRepo.GetByPlayerID(ctx, playerID)
	if errors.Is(err, ports.ErrNotFound) {
		s = queue.NewSession(playerID)
	} else if err != nil {
		return Response{}, err
	}
	env, err := u.Env.Load(ctx, s, now)
	if err != nil {
		return Response{}, err
	}
	res := queue.Process(s, now, env)

	out := Response{
		At:               now,
		ExperienceDeltas: res.XP,
		ActivityPoints:   res.ActivityPoints,
		ItemDeltas:       netDeltas(res.Produced, res.Consumed),
		EquipmentStates:  make([]EquipmentState, 0, len(res.Outcomes)),
		PendingRandom:    res.Session.PendingRandom,
	}
	for _, o := range res.Outcomes {
		st := EquipmentState{
			QueueID:     o.QueueID,
			ActionID:    o.ActionID,
			State:       o.State,
			Invalidated: o.Invalidated,
			Slots:       map[string]string{},
		}
		for i, v := range o.Equipment {
			if v != equipment.SlotUnused {
				st.Slots[equipment.Slot(i).String()] = v.String()
			}
		}
		out.EquipmentStates = append(out.EquipmentStates, st)
	}
	if out.PendingRandom == nil {
		out.PendingRandom = []queue.PendingRandomReward{}
	}
	return out, nil
}

func netDeltas(produced, consumed []queue.ItemAmount) []ItemDelta {
	net := map[equipment.ItemID]int64{}
	for _, it := range produced {
		net[it.ItemID] += int64(it.Amount)
	}
	for _, it := range consumed {
		net[it.ItemID] -= int64(it.Amount)
	}
	out := make([]ItemDelta, 0, len(net))
	for id, d := range net {
		if d != 0 {
			out = append(out, ItemDelta{ItemID: id, Delta: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}
