package queue

import "actionforge/internal/domain/equipment"

type Attire struct {
	Head equipment.ItemID `json:"head,omitempty"`
	Neck equipment.ItemID `json:"neck,omitempty"`
	Body equipment.ItemID `json:"body,omitempty"`
	Arms equipment.ItemID `json:"arms,omitempty"`
	Legs equipment.ItemID `json:"legs,omitempty"`
	Feet equipment.ItemID `json:"feet,omitempty"`
	Ring equipment.ItemID `json:"ring,omitempty"`
}

// QueuedAction is one unit of queued work. QueueID is assigned when the
// action enters a queue and identifies it for as long as it stays there.
type QueuedAction struct {
	QueueID     string           `json:"queue_id"`
	ActionID    ActionID         `json:"action_id"`
	ChoiceID    ChoiceID         `json:"choice_id,omitempty"`
	RightHand   equipment.ItemID `json:"right_hand,omitempty"`
	LeftHand    equipment.ItemID `json:"left_hand,omitempty"`
	Attire      Attire           `json:"attire"`
	CombatStyle CombatStyle      `json:"combat_style,omitempty"`
	Timespan    uint32           `json:"timespan"`
}

func (a QueuedAction) Loadout() equipment.Loadout {
	var l equipment.Loadout
	l[equipment.SlotRightHand] = a.RightHand
	l[equipment.SlotLeftHand] = a.LeftHand
	l[equipment.SlotHead] = a.Attire.Head
	l[equipment.SlotNeck] = a.Attire.Neck
	l[equipment.SlotBody] = a.Attire.Body
	l[equipment.SlotArms] = a.Attire.Arms
	l[equipment.SlotLegs] = a.Attire.Legs
	l[equipment.SlotFeet] = a.Attire.Feet
	l[equipment.SlotRing] = a.Attire.Ring
	return l
}

// ActionQueue is the ordered list of a player's queued actions.
//
// Checkpoint is the wall-clock second at which the head's window began and
// Cursor is how many of the head's seconds have been credited, so the head's
// unprocessed window is [Checkpoint+Cursor, Checkpoint+Timespan].
// HeadValidSeconds counts the credited seconds that were equipment-valid and
// lets rates be floored over the whole action instead of per processing call.
// HeadAccrual does the same for the bonus terms.
type ActionQueue struct {
	Actions          []QueuedAction `json:"actions"`
	Checkpoint       int64          `json:"checkpoint"`
	Cursor           uint32         `json:"cursor"`
	HeadValidSeconds uint32         `json:"head_valid_seconds"`
	HeadInvalidated  bool           `json:"head_invalidated"`
	HeadAccrual      Accrual        `json:"head_accrual"`
}

// Accrual holds the head's running bonus numerators. Each pass adds its share
// and credits only the whole units the sum newly crossed, so the totals do not
// depend on how often the queue is processed.
type Accrual struct {
	BoostXP     uint64 `json:"boost_xp,omitempty"`
	BoostOutput uint64 `json:"boost_output,omitempty"`
	AttireXP    uint64 `json:"attire_xp,omitempty"`
	AttireMade  uint64 `json:"attire_made,omitempty"`
	HealthXP    uint64 `json:"health_xp,omitempty"`
}

// accrue adds num to the running numerator and returns the whole units of
// num/denom that the addition completed.
func accrue(total *uint64, num, denom uint64) uint64 {
	before := *total / denom
	*total += num
	return *total/denom - before
}

func (q ActionQueue) Len() int {
	return len(q.Actions)
}

func (q ActionQueue) Head() (QueuedAction, bool) {
	if len(q.Actions) == 0 {
		return QueuedAction{}, false
	}
	return q.Actions[0], true
}

// ProcessedThrough is the first second that has not been credited yet.
func (q ActionQueue) ProcessedThrough() int64 {
	return q.Checkpoint + int64(q.Cursor)
}

// StartOf returns when the i-th action's window begins.
func (q ActionQueue) StartOf(i int) int64 {
	start := q.Checkpoint
	for j := 0; j < i && j < len(q.Actions); j++ {
		start += int64(q.Actions[j].Timespan)
	}
	return start
}

func (q ActionQueue) EndOf(i int) int64 {
	if i < 0 || i >= len(q.Actions) {
		return q.Checkpoint
	}
	return q.StartOf(i) + int64(q.Actions[i].Timespan)
}

// EndTime is when the last queued action finishes.
func (q ActionQueue) EndTime() int64 {
	return q.StartOf(len(q.Actions))
}

// CurrentIndex returns the first action whose window has not closed at now.
func (q ActionQueue) CurrentIndex(now int64) (int, bool) {
	for i := range q.Actions {
		if q.EndOf(i) > now {
			return i, true
		}
	}
	return 0, false
}

func (q ActionQueue) Timespans() []uint32 {
	out := make([]uint32, len(q.Actions))
	for i, a := range q.Actions {
		out[i] = a.Timespan
	}
	return out
}

func (q ActionQueue) clone() ActionQueue {
	out := q
	out.Actions = append([]QueuedAction(nil), q.Actions...)
	return out
}

func (q *ActionQueue) popHead() {
	q.Checkpoint += int64(q.Actions[0].Timespan)
	q.Actions = append([]QueuedAction(nil), q.Actions[1:]...)
	q.Cursor = 0
	q.HeadValidSeconds = 0
	q.HeadInvalidated = false
	q.HeadAccrual = Accrual{}
}

type HeadState string

const (
	HeadIdle        HeadState = "idle"
	HeadInProgress  HeadState = "in_progress"
	HeadCompleted   HeadState = "completed"
	HeadInvalidated HeadState = "invalidated"
)

// HeadStateAt reports the state of the head slot as seen at now without
// evaluating anything.
func (q ActionQueue) HeadStateAt(now int64) HeadState {
	head, ok := q.Head()
	if !ok || now < q.Checkpoint {
		return HeadIdle
	}
	if now >= q.Checkpoint+int64(head.Timespan) {
		return HeadCompleted
	}
	if q.HeadInvalidated {
		return HeadInvalidated
	}
	return HeadInProgress
}
