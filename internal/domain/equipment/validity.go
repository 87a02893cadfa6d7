package equipment

type SlotState int

const (
	SlotUnused SlotState = iota
	SlotValid
	// SlotMissing: held when the snapshot was taken, zero now.
	SlotMissing
	// SlotNeverHeld: already zero when the snapshot was taken and still zero.
	SlotNeverHeld
)

func (s SlotState) String() string {
	switch s {
	case SlotUnused:
		return "unused"
	case SlotValid:
		return "valid"
	case SlotMissing:
		return "missing"
	case SlotNeverHeld:
		return "never_held"
	default:
		return "unknown"
	}
}

func (s SlotState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Validity is the per-slot outcome of comparing a snapshot with live balances.
type Validity [MaxSlots]SlotState

// Evaluate compares a snapshot with the balances observed at evaluation time.
// Only the current balance matters: an item drained and restored before the
// evaluation counts as valid.
func Evaluate(s Snapshot, live BalanceReader) Validity {
	var v Validity
	for i, e := range s.Entries {
		if e.ItemID == NoItem {
			continue
		}
		switch {
		case live.Of(e.ItemID) > 0:
			v[i] = SlotValid
		case e.Balance.IsZero():
			v[i] = SlotNeverHeld
		default:
			v[i] = SlotMissing
		}
	}
	return v
}

// Usable reports whether every given slot is unused or currently held.
func (v Validity) Usable(slots ...Slot) bool {
	for _, s := range slots {
		if v[s] != SlotUnused && v[s] != SlotValid {
			return false
		}
	}
	return true
}

// Held reports whether every given slot references an item that is currently held.
func (v Validity) Held(slots ...Slot) bool {
	for _, s := range slots {
		if v[s] != SlotValid {
			return false
		}
	}
	return true
}

// Missing lists the slots that lost their item since the snapshot.
func (v Validity) Missing() []Slot {
	var out []Slot
	for i, st := range v {
		if st == SlotMissing || st == SlotNeverHeld {
			out = append(out, Slot(i))
		}
	}
	return out
}
