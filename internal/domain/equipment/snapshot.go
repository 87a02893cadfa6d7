package equipment

type Entry struct {
	ItemID  ItemID  `json:"item_id"`
	Balance Balance `json:"balance"`
}

// Snapshot records the balance of every slot of one queued action at the
// moment it was queued. It is never edited, only replaced.
type Snapshot struct {
	Entries [MaxSlots]Entry `json:"entries"`
}

// Take reads the live balance of every referenced slot. Unused slots keep the
// NoItem sentinel.
func Take(loadout Loadout, live BalanceReader) Snapshot {
	var s Snapshot
	for i, id := range loadout {
		if id == NoItem {
			continue
		}
		s.Entries[i] = Entry{ItemID: id, Balance: ClampBalance(live.Of(id))}
	}
	return s
}

func (s Snapshot) Empty() bool {
	for _, e := range s.Entries {
		if e.ItemID != NoItem {
			return false
		}
	}
	return true
}

func (s Snapshot) Item(slot Slot) ItemID {
	return s.Entries[slot].ItemID
}

func (s Snapshot) Loadout() Loadout {
	var l Loadout
	for i, e := range s.Entries {
		l[i] = e.ItemID
	}
	return l
}
