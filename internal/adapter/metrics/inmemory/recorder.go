package inmemory

import (
	"sync"
)

type Snapshot struct {
	ActionTotal       uint64            `json:"action_total"`
	ActionSuccess     uint64            `json:"action_success"`
	ActionConflict    uint64            `json:"action_conflict"`
	ActionFailure     uint64            `json:"action_failure"`
	EquipmentInvalids uint64            `json:"equipment_invalidations"`
	ByOperation       map[string]uint64 `json:"by_operation"`
}

type Recorder struct {
	mu          sync.Mutex
	success     uint64
	conflict    uint64
	failure     uint64
	invalidated uint64
	byOperation map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byOperation: map[string]uint64{},
	}
}

func (r *Recorder) RecordSuccess(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byOperation[operation]++
}

func (r *Recorder) RecordInvalidated(count int) {
	if count <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated += uint64(count)
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ActionSuccess:     r.success,
		ActionConflict:    r.conflict,
		ActionFailure:     r.failure,
		ActionTotal:       r.success + r.conflict + r.failure,
		EquipmentInvalids: r.invalidated,
		ByOperation:       make(map[string]uint64, len(r.byOperation)),
	}
	for k, v := range r.byOperation {
		out.ByOperation[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
