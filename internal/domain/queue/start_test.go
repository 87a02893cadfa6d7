package queue

import (
	"errors"
	"testing"

	"actionforge/internal/domain/equipment"
)

func TestStartOverwriteOnEmptySession(t *testing.T) {
	bal := equipment.Balances{itemAxe: 1}
	out, err := Start(NewSession("p-1"), StartInput{
		Actions:  []QueuedAction{woodcut(3600)},
		Strategy: StrategyOverwrite,
		Now:      t0,
		Balances: bal,
		Catalog:  testCatalog(),
		NewID:    sequentialIDs(),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	s := out.Session
	if s.Queue.Len() != 1 || s.Ring.Len() != 1 {
		t.Fatalf("expected one queued action and one snapshot, got %d/%d", s.Queue.Len(), s.Ring.Len())
	}
	if s.Queue.Checkpoint != t0 || s.Queue.Cursor != 0 {
		t.Fatalf("unexpected checkpoint/cursor: %d/%d", s.Queue.Checkpoint, s.Queue.Cursor)
	}
	if s.Queue.Actions[0].QueueID != "q-1" || s.Ring.Entries[0].QueueID != "q-1" {
		t.Fatalf("unexpected queue ids: %+v", s.Ring.Entries)
	}
	if s.Ring.Entries[0].Snapshot.Entries[equipment.SlotRightHand].Balance != 1 {
		t.Fatalf("unexpected snapshot: %+v", s.Ring.Entries[0].Snapshot)
	}
	if len(out.Events) != 1 || out.Events[0].Type != "actions_started" {
		t.Fatalf("unexpected events: %+v", out.Events)
	}
}

func TestStartAppendKeepsCheckpointAndReusesSnapshots(t *testing.T) {
	ids := sequentialIDs()
	bal := equipment.Balances{itemAxe: 1}
	s := mustStart(t, NewSession("p-1"), StrategyOverwrite, t0, bal, ids, woodcut(3600))
	s = mustStart(t, s, StrategyAppend, t0+100, equipment.Balances{itemAxe: 4}, ids, woodcut(3600))

	if s.Queue.Len() != 2 || s.Ring.Len() != 2 {
		t.Fatalf("ring must track queue: %d/%d", s.Queue.Len(), s.Ring.Len())
	}
	if s.Queue.Checkpoint != t0 {
		t.Fatalf("append must keep checkpoint, got %d", s.Queue.Checkpoint)
	}
	if s.Ring.Entries[0].TakenAt != t0 || s.Ring.Entries[0].Snapshot.Entries[equipment.SlotRightHand].Balance != 1 {
		t.Fatalf("expected head snapshot to be reused: %+v", s.Ring.Entries[0])
	}
	if s.Ring.Entries[1].TakenAt != t0+100 || s.Ring.Entries[1].Snapshot.Entries[equipment.SlotRightHand].Balance != 4 {
		t.Fatalf("expected fresh snapshot for new action: %+v", s.Ring.Entries[1])
	}
	if s.Queue.EndTime() != t0+7200 {
		t.Fatalf("unexpected end time %d", s.Queue.EndTime())
	}
}

func TestStartAppendOnEmptyQueueResetsCheckpoint(t *testing.T) {
	s := NewSession("p-1")
	s.Queue.Checkpoint = t0 - 5000
	s = mustStart(t, s, StrategyAppend, t0, equipment.Balances{itemAxe: 1}, sequentialIDs(), woodcut(60))
	if s.Queue.Checkpoint != t0 {
		t.Fatalf("expected checkpoint reset to now, got %d", s.Queue.Checkpoint)
	}
}

func TestStartKeepLastInProgressKeepsHeadAndCursor(t *testing.T) {
	ids := sequentialIDs()
	bal := equipment.Balances{itemAxe: 1}
	s := mustStart(t, NewSession("p-1"), StrategyOverwrite, t0, bal, ids, woodcut(3600), woodcut(3600))
	s.Queue.Cursor = 100
	s.Queue.HeadValidSeconds = 100

	out, err := Start(s, StartInput{
		Actions:  []QueuedAction{woodcut(600)},
		Strategy: StrategyKeepLastInProgress,
		Now:      t0 + 200,
		Balances: bal,
		Catalog:  testCatalog(),
		NewID:    ids,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	q := out.Session.Queue
	if q.Len() != 2 || q.Actions[0].QueueID != "q-1" || q.Actions[1].QueueID != "q-3" {
		t.Fatalf("unexpected queue: %+v", q.Actions)
	}
	if q.Cursor != 100 || q.HeadValidSeconds != 100 || q.Checkpoint != t0 {
		t.Fatalf("expected head progress kept, got cursor=%d valid=%d checkpoint=%d", q.Cursor, q.HeadValidSeconds, q.Checkpoint)
	}
	if len(out.Discarded) != 1 || out.Discarded[0].QueueID != "q-2" {
		t.Fatalf("unexpected discarded: %+v", out.Discarded)
	}
	if out.Session.Ring.Len() != 2 || out.Session.Ring.Entries[0].TakenAt != t0 {
		t.Fatalf("expected head snapshot reuse: %+v", out.Session.Ring.Entries)
	}
	if len(out.Events) != 2 || out.Events[1].Type != "actions_discarded" {
		t.Fatalf("expected discard event: %+v", out.Events)
	}
}

func TestStartOverwriteDiscardsEverything(t *testing.T) {
	ids := sequentialIDs()
	bal := equipment.Balances{itemAxe: 1}
	s := mustStart(t, NewSession("p-1"), StrategyOverwrite, t0, bal, ids, woodcut(3600), woodcut(3600))
	s.Queue.Cursor = 50

	out, err := Start(s, StartInput{
		Actions:  []QueuedAction{woodcut(60)},
		Strategy: StrategyOverwrite,
		Now:      t0 + 50,
		Balances: bal,
		Catalog:  testCatalog(),
		NewID:    ids,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	q := out.Session.Queue
	if q.Len() != 1 || q.Checkpoint != t0+50 || q.Cursor != 0 {
		t.Fatalf("unexpected queue after overwrite: %+v", q)
	}
	if len(out.Discarded) != 2 {
		t.Fatalf("expected 2 discarded, got %d", len(out.Discarded))
	}
	if out.Session.Ring.Entries[0].QueueID != "q-3" {
		t.Fatalf("unexpected ring: %+v", out.Session.Ring.Entries)
	}
}

func TestStartRejectsOverCapacity(t *testing.T) {
	ids := sequentialIDs()
	bal := equipment.Balances{itemAxe: 1}
	s := mustStart(t, NewSession("p-1"), StrategyOverwrite, t0, bal, ids, woodcut(60), woodcut(60), woodcut(60))

	_, err := Start(s, StartInput{
		Actions:  []QueuedAction{woodcut(60)},
		Strategy: StrategyAppend,
		Now:      t0,
		Balances: bal,
		Catalog:  testCatalog(),
		NewID:    ids,
	})
	var capErr *CapacityError
	if !errors.As(err, &capErr) || !errors.Is(err, ErrQueueCapacityExceeded) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if capErr.Requested != 4 || capErr.Limit != MaxQueueLength {
		t.Fatalf("unexpected capacity error: %+v", capErr)
	}
}

func TestStartTruncatesToQueueTime(t *testing.T) {
	out, err := Start(NewSession("p-1"), StartInput{
		Actions:  []QueuedAction{woodcut(80000), woodcut(10000)},
		Strategy: StrategyOverwrite,
		Now:      t0,
		Balances: equipment.Balances{itemAxe: 1},
		Catalog:  testCatalog(),
		NewID:    sequentialIDs(),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	spans := out.Session.Queue.Timespans()
	if spans[0] != 80000 || spans[1] != MaxQueueTime-80000 {
		t.Fatalf("unexpected timespans: %v", spans)
	}

	_, err = Start(out.Session, StartInput{
		Actions:  []QueuedAction{woodcut(10)},
		Strategy: StrategyAppend,
		Now:      t0,
		Balances: equipment.Balances{itemAxe: 1},
		Catalog:  testCatalog(),
		NewID:    sequentialIDs(),
	})
	if !errors.Is(err, ErrQueueTimeExceeded) {
		t.Fatalf("expected queue time error, got %v", err)
	}
}

func TestStartValidation(t *testing.T) {
	bal := equipment.Balances{itemAxe: 1, itemTinderbox: 1, itemSword: 1, itemShield: 1}
	cases := []struct {
		name   string
		action QueuedAction
		want   error
	}{
		{"zero timespan", QueuedAction{ActionID: actionWoodcut, RightHand: itemAxe}, ErrInvalidAction},
		{"too long", QueuedAction{ActionID: actionWoodcut, RightHand: itemAxe, Timespan: MaxQueueTime + 1}, ErrInvalidAction},
		{"unknown action", QueuedAction{ActionID: 99, Timespan: 60}, ErrUnknownAction},
		{"missing choice", QueuedAction{ActionID: actionFiremake, RightHand: itemTinderbox, Timespan: 60}, ErrUnknownChoice},
		{"unexpected choice", QueuedAction{ActionID: actionWoodcut, ChoiceID: choiceBurnLog, RightHand: itemAxe, Timespan: 60}, ErrUnknownChoice},
		{"combat without style", QueuedAction{ActionID: actionCombat, RightHand: itemSword, LeftHand: itemShield, Timespan: 60}, ErrInvalidAction},
		{"style on skilling", QueuedAction{ActionID: actionWoodcut, RightHand: itemAxe, CombatStyle: CombatStyleAttack, Timespan: 60}, ErrInvalidAction},
		{"wrong tool", QueuedAction{ActionID: actionWoodcut, RightHand: itemSword, Timespan: 60}, ErrInvalidAction},
		{"tool not held", QueuedAction{ActionID: actionFish, RightHand: itemRod, Timespan: 60}, ErrEquipmentNotHeld},
	}
	for _, tc := range cases {
		_, err := Start(NewSession("p-1"), StartInput{
			Actions:  []QueuedAction{tc.action},
			Strategy: StrategyAppend,
			Now:      t0,
			Balances: bal,
			Catalog:  testCatalog(),
		})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Index != 0 {
			t.Fatalf("%s: expected validation error at index 0, got %v", tc.name, err)
		}
	}

	_, err := Start(NewSession("p-1"), StartInput{Actions: []QueuedAction{woodcut(60)}, Strategy: "shuffle", Catalog: testCatalog()})
	if !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("expected invalid strategy, got %v", err)
	}
	_, err = Start(NewSession("p-1"), StartInput{Strategy: StrategyAppend, Catalog: testCatalog()})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected empty action list to be rejected, got %v", err)
	}
}

func TestStartAssignsUUIDsByDefault(t *testing.T) {
	out, err := Start(NewSession("p-1"), StartInput{
		Actions:  []QueuedAction{woodcut(60), woodcut(60)},
		Strategy: StrategyAppend,
		Now:      t0,
		Balances: equipment.Balances{itemAxe: 1},
		Catalog:  testCatalog(),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	a, b := out.Queued[0].QueueID, out.Queued[1].QueueID
	if a == "" || b == "" || a == b {
		t.Fatalf("expected distinct queue ids, got %q %q", a, b)
	}
}

func TestRebuildRetakesSnapshotWhenHeadStatusChanges(t *testing.T) {
	prev := ActionQueue{Checkpoint: t0, Actions: []QueuedAction{
		{QueueID: "a", ActionID: actionWoodcut, RightHand: itemAxe, Timespan: 60},
		{QueueID: "b", ActionID: actionWoodcut, RightHand: itemAxe, Timespan: 60},
	}}
	prevRing := Rebuild(ActionQueue{}, CheckpointRing{}, prev, equipment.Balances{itemAxe: 1}, t0)

	next := ActionQueue{Checkpoint: t0 + 60, Actions: []QueuedAction{prev.Actions[1]}}
	ring := Rebuild(prev, prevRing, next, equipment.Balances{itemAxe: 9}, t0+60)

	if ring.Len() != 1 || ring.Entries[0].QueueID != "b" {
		t.Fatalf("unexpected ring: %+v", ring.Entries)
	}
	if ring.Entries[0].TakenAt != t0+60 || ring.Entries[0].Snapshot.Entries[equipment.SlotRightHand].Balance != 9 {
		t.Fatalf("expected new head to be re-snapshotted: %+v", ring.Entries[0])
	}
}

func TestCheckpointEquipmentsSkipsClosedWindows(t *testing.T) {
	bal := equipment.Balances{itemAxe: 1, itemRod: 1}
	s := mustStart(t, NewSession("p-1"), StrategyOverwrite, t0, bal, sequentialIDs(),
		woodcut(100),
		QueuedAction{ActionID: actionFish, RightHand: itemRod, Timespan: 100},
		woodcut(100),
	)

	view := CheckpointEquipments(s.Queue, s.Ring, t0+150)
	if len(view) != MaxQueueLength {
		t.Fatalf("expected padded view, got %d", len(view))
	}
	if view[0].Item(equipment.SlotRightHand) != itemRod || view[1].Item(equipment.SlotRightHand) != itemAxe || !view[2].Empty() {
		t.Fatalf("unexpected view: %+v", view)
	}

	all := CheckpointEquipments(s.Queue, s.Ring, t0)
	if all[0].Item(equipment.SlotRightHand) != itemAxe || all[2].Empty() {
		t.Fatalf("unexpected view at start: %+v", all)
	}
	for _, snap := range CheckpointEquipments(s.Queue, s.Ring, t0+300) {
		if !snap.Empty() {
			t.Fatal("expected empty view after every window closed")
		}
	}
}

func TestHeadStateAt(t *testing.T) {
	q := ActionQueue{Checkpoint: t0, Actions: []QueuedAction{{Timespan: 100}}}
	if q.HeadStateAt(t0-1) != HeadIdle || q.HeadStateAt(t0+50) != HeadInProgress || q.HeadStateAt(t0+100) != HeadCompleted {
		t.Fatal("unexpected head states")
	}
	q.HeadInvalidated = true
	if q.HeadStateAt(t0+50) != HeadInvalidated {
		t.Fatal("expected invalidated head")
	}
	if (ActionQueue{}).HeadStateAt(t0) != HeadIdle {
		t.Fatal("expected idle empty queue")
	}
}
