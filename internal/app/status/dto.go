package status

import (
	"actionforge/internal/domain/equipment"
	"actionforge/internal/domain/queue"
)

type Request struct {
	PlayerID string
}

// ActivePlayerInfo is the stored cursor view of a player's queue. Timespan,
// Timespan1 and Timespan2 are the timespans of queue positions 0 to 2, zero
// when the position is empty.
type ActivePlayerInfo struct {
	Checkpoint     int64                  `json:"checkpoint"`
	Cursor         uint32                 `json:"cursor"`
	Timespan       uint32                 `json:"timespan"`
	Timespan1      uint32                 `json:"timespan1"`
	Timespan2      uint32                 `json:"timespan2"`
	QueueIDs       []string               `json:"queue_ids"`
	HeadState      queue.HeadState        `json:"head_state"`
	CurrentIndex   int                    `json:"current_index"`
	EndTime        int64                  `json:"end_time"`
	XP             map[queue.Skill]uint64 `json:"xp"`
	ActivityPoints uint64                 `json:"activity_points"`
	PendingRandom  int                    `json:"pending_random"`
	Version        int64                  `json:"version"`
}

type SlotView struct {
	Slot    string           `json:"slot"`
	ItemID  equipment.ItemID `json:"item_id"`
	Balance uint16           `json:"balance"`
}

type SnapshotView struct {
	Empty bool       `json:"empty"`
	Slots []SlotView `json:"slots"`
}

type CheckpointEquipmentsResponse struct {
	At        int64          `json:"at"`
	Snapshots []SnapshotView `json:"snapshots"`
}

func snapshotView(s equipment.Snapshot) SnapshotView {
	out := SnapshotView{Empty: s.Empty(), Slots: []SlotView{}}
	for i, e := range s.Entries {
		if e.ItemID == equipment.NoItem {
			continue
		}
		out.Slots = append(out.Slots, SlotView{Slot: equipment.Slot(i).String(), ItemID: e.ItemID, Balance: uint16(e.Balance)})
	}
	return out
}
