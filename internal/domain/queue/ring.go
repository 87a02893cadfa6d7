package queue

import "actionforge/internal/domain/equipment"

type CheckpointEntry struct {
	QueueID  string             `json:"queue_id"`
	Snapshot equipment.Snapshot `json:"snapshot"`
	TakenAt  int64              `json:"taken_at"`
}

// CheckpointRing holds one equipment snapshot per queued action, in queue order.
type CheckpointRing struct {
	Entries []CheckpointEntry `json:"entries"`
}

func (r CheckpointRing) Len() int {
	return len(r.Entries)
}

func (r CheckpointRing) At(i int) (CheckpointEntry, bool) {
	if i < 0 || i >= len(r.Entries) {
		return CheckpointEntry{}, false
	}
	return r.Entries[i], true
}

func (r CheckpointRing) clone() CheckpointRing {
	return CheckpointRing{Entries: append([]CheckpointEntry(nil), r.Entries...)}
}

func (r *CheckpointRing) popHead() {
	if len(r.Entries) == 0 {
		return
	}
	r.Entries = append([]CheckpointEntry(nil), r.Entries[1:]...)
}

// Rebuild derives the ring for next from the ring of prev. A snapshot is
// carried over only when the same QueueID was already queued and its head
// status did not change; anything else gets a fresh snapshot from live.
func Rebuild(prev ActionQueue, prevRing CheckpointRing, next ActionQueue, live equipment.BalanceReader, now int64) CheckpointRing {
	prevHead := ""
	if head, ok := prev.Head(); ok {
		prevHead = head.QueueID
	}
	byID := make(map[string]CheckpointEntry, len(prevRing.Entries))
	for _, e := range prevRing.Entries {
		byID[e.QueueID] = e
	}

	out := CheckpointRing{Entries: make([]CheckpointEntry, 0, len(next.Actions))}
	for i, a := range next.Actions {
		if e, ok := byID[a.QueueID]; ok && a.QueueID != "" && (i == 0) == (a.QueueID == prevHead) {
			out.Entries = append(out.Entries, e)
			continue
		}
		out.Entries = append(out.Entries, CheckpointEntry{
			QueueID:  a.QueueID,
			Snapshot: equipment.Take(a.Loadout(), live),
			TakenAt:  now,
		})
	}
	return out
}

// CheckpointEquipments is the lazy view of the ring at now: actions whose
// window already closed are skipped even if they were not processed, and the
// result is padded with empty snapshots to MaxQueueLength.
func CheckpointEquipments(q ActionQueue, r CheckpointRing, now int64) []equipment.Snapshot {
	out := make([]equipment.Snapshot, 0, MaxQueueLength)
	if idx, ok := q.CurrentIndex(now); ok {
		for i := idx; i < len(r.Entries); i++ {
			out = append(out, r.Entries[i].Snapshot)
		}
	}
	for len(out) < MaxQueueLength {
		out = append(out, equipment.Snapshot{})
	}
	return out
}
