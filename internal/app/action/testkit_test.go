package action

import (
	"context"
	"fmt"

	"actionforge/internal/app/ports"
	"actionforge/internal/app/shared/engineenv"
	"actionforge/internal/domain/equipment"
	"actionforge/internal/domain/queue"
)

const (
	itemAxe       equipment.ItemID = 10
	itemTinderbox equipment.ItemID = 11
	itemRod       equipment.ItemID = 13
	itemLog       equipment.ItemID = 20
	itemFish      equipment.ItemID = 21
	itemPearl     equipment.ItemID = 22
	actionChop    queue.ActionID   = 1
	actionFire    queue.ActionID   = 2
	actionFish    queue.ActionID   = 4
	choiceBurnLog queue.ChoiceID   = 100
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubSessionRepo struct {
	byPlayer map[string]queue.PlayerSession
	saves    int
}

func (r *stubSessionRepo) GetByPlayerID(_ context.Context, playerID string) (queue.PlayerSession, error) {
	s, ok := r.byPlayer[playerID]
	if !ok {
		return queue.PlayerSession{}, ports.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *stubSessionRepo) SaveWithVersion(_ context.Context, s queue.PlayerSession, expectedVersion int64) error {
	current, ok := r.byPlayer[s.PlayerID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
	} else if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byPlayer[s.PlayerID] = s.Clone()
	r.saves++
	return nil
}

type conflictSessionRepo struct {
	stubSessionRepo
}

func (r *conflictSessionRepo) SaveWithVersion(_ context.Context, _ queue.PlayerSession, _ int64) error {
	return ports.ErrConflict
}

type stubActionRepo struct {
	byKey map[string]ports.ActionExecutionRecord
}

func (r *stubActionRepo) GetByIdempotencyKey(_ context.Context, playerID, key string) (*ports.ActionExecutionRecord, error) {
	record, ok := r.byKey[playerID+"|"+key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := record
	return &copy, nil
}

func (r *stubActionRepo) SaveExecution(_ context.Context, execution ports.ActionExecutionRecord) error {
	r.byKey[execution.PlayerID+"|"+execution.IdempotencyKey] = execution
	return nil
}

type stubEventRepo struct {
	events []queue.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ string, events []queue.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByPlayerID(_ context.Context, _ string, limit int) ([]queue.DomainEvent, error) {
	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}
	out := make([]queue.DomainEvent, limit)
	copy(out, r.events[:limit])
	return out, nil
}

func (r *stubEventRepo) count(typ string) int {
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

type stubLedger struct {
	balances  equipment.Balances
	published []ports.ItemDelta
	reads     int
}

func (l *stubLedger) BalancesOf(_ context.Context, _ string, items []equipment.ItemID) (equipment.Balances, error) {
	l.reads++
	out := equipment.Balances{}
	for _, id := range items {
		if v, ok := l.balances[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (l *stubLedger) Publish(_ context.Context, deltas []ports.ItemDelta) error {
	l.published = append(l.published, deltas...)
	for _, d := range deltas {
		if d.Kind == ports.DeltaProduced {
			l.balances[d.ItemID] += d.Amount
			continue
		}
		if l.balances[d.ItemID] < d.Amount {
			return fmt.Errorf("consume item %d: have %d, need %d", d.ItemID, l.balances[d.ItemID], d.Amount)
		}
		l.balances[d.ItemID] -= d.Amount
	}
	return nil
}

func (l *stubLedger) total(kind ports.DeltaKind, id equipment.ItemID) uint64 {
	var n uint64
	for _, d := range l.published {
		if d.Kind == kind && d.ItemID == id {
			n += d.Amount
		}
	}
	return n
}

type stubCatalog struct{}

func (stubCatalog) Action(id queue.ActionID) (queue.ActionDefinition, bool) {
	switch id {
	case actionChop:
		return queue.ActionDefinition{
			ActionID:       actionChop,
			Skill:          queue.SkillWoodcutting,
			XPPerHour:      3600,
			RatePerHour:    50,
			OutputItem:     itemLog,
			RightHandItems: []equipment.ItemID{itemAxe},
		}, true
	case actionFire:
		return queue.ActionDefinition{
			ActionID:       actionFire,
			Skill:          queue.SkillFiremaking,
			RightHandItems: []equipment.ItemID{itemTinderbox},
			Choices:        []queue.ChoiceID{choiceBurnLog},
		}, true
	case actionFish:
		return queue.ActionDefinition{
			ActionID:       actionFish,
			Skill:          queue.SkillFishing,
			XPPerHour:      1800,
			RatePerHour:    30,
			OutputItem:     itemFish,
			RightHandItems: []equipment.ItemID{itemRod},
			RandomRewards:  []queue.RandomReward{{ItemID: itemPearl, Chance: queue.ChanceDenominator, Amount: 1}},
		}, true
	}
	return queue.ActionDefinition{}, false
}

func (stubCatalog) Choice(id queue.ChoiceID) (queue.ChoiceDefinition, bool) {
	if id != choiceBurnLog {
		return queue.ChoiceDefinition{}, false
	}
	return queue.ChoiceDefinition{
		ChoiceID:    choiceBurnLog,
		XPPerHour:   3600,
		RatePerHour: 60,
		Inputs:      []queue.ItemAmount{{ItemID: itemLog, Amount: 1}},
	}, true
}

func (stubCatalog) AttireBonus(queue.Skill) (queue.AttireBonus, bool) {
	return queue.AttireBonus{}, false
}

type stubRandomness struct {
	words map[int64]queue.Word
}

func (r stubRandomness) WordFor(_ context.Context, ts int64) (queue.Word, bool, error) {
	w, ok := r.words[ts]
	return w, ok, nil
}

type stubActionMetrics struct {
	successCalls     int
	conflictCalls    int
	failureCalls     int
	invalidatedCalls int
	lastOperation    string
}

func (m *stubActionMetrics) RecordSuccess(operation string) {
	m.successCalls++
	m.lastOperation = operation
}

func (m *stubActionMetrics) RecordInvalidated(int) {
	m.invalidatedCalls++
}

func (m *stubActionMetrics) RecordConflict() {
	m.conflictCalls++
}

func (m *stubActionMetrics) RecordFailure() {
	m.failureCalls++
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("q-%d", n)
	}
}

type fixture struct {
	sessions *stubSessionRepo
	actions  *stubActionRepo
	events   *stubEventRepo
	ledger   *stubLedger
	metrics  *stubActionMetrics
	env      engineenv.Loader
}

func newFixture(balances equipment.Balances) *fixture {
	ledger := &stubLedger{balances: balances}
	return &fixture{
		sessions: &stubSessionRepo{byPlayer: map[string]queue.PlayerSession{}},
		actions:  &stubActionRepo{byKey: map[string]ports.ActionExecutionRecord{}},
		events:   &stubEventRepo{},
		ledger:   ledger,
		metrics:  &stubActionMetrics{},
		env:      engineenv.Loader{Balances: ledger, Catalog: stubCatalog{}},
	}
}

func chop(timespan uint32) queue.QueuedAction {
	return queue.QueuedAction{ActionID: actionChop, RightHand: itemAxe, Timespan: timespan}
}
