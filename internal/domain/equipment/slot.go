package equipment

import "strings"

type ItemID uint32

const NoItem ItemID = 0

type Slot int

const (
	SlotRightHand Slot = iota
	SlotLeftHand
	SlotHead
	SlotNeck
	SlotBody
	SlotArms
	SlotLegs
	SlotFeet
	SlotRing
	SlotReserved
)

// MaxSlots is the number of slots captured per snapshot.
const MaxSlots = 10

// AttireSlots are the five slots a full attire set bonus is declared over.
var AttireSlots = []Slot{SlotHead, SlotBody, SlotArms, SlotLegs, SlotFeet}

// HandSlots are required for an action to earn anything.
var HandSlots = []Slot{SlotRightHand, SlotLeftHand}

var slotNames = [MaxSlots]string{
	SlotRightHand: "right_hand",
	SlotLeftHand:  "left_hand",
	SlotHead:      "head",
	SlotNeck:      "neck",
	SlotBody:      "body",
	SlotArms:      "arms",
	SlotLegs:      "legs",
	SlotFeet:      "feet",
	SlotRing:      "ring",
	SlotReserved:  "reserved",
}

func (s Slot) String() string {
	if s < 0 || int(s) >= MaxSlots {
		return "unknown"
	}
	return slotNames[s]
}

func ParseSlot(name string) (Slot, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}

// Loadout is the item referenced by each slot of one queued action.
type Loadout [MaxSlots]ItemID

// Items returns the distinct non-empty items of the loadout.
func (l Loadout) Items() []ItemID {
	out := make([]ItemID, 0, MaxSlots)
	seen := map[ItemID]bool{}
	for _, id := range l {
		if id == NoItem || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
