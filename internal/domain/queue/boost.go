package queue

type BoostKind string

const (
	BoostXP          BoostKind = "xp"
	BoostCombatXP    BoostKind = "combat_xp"
	BoostNonCombatXP BoostKind = "non_combat_xp"
	BoostGathering   BoostKind = "gathering"
)

// BoostWindow is a time-limited multiplier owned outside the engine.
type BoostWindow struct {
	Kind     BoostKind `json:"kind"`
	Start    int64     `json:"start"`
	Duration uint32    `json:"duration"`
	Percent  uint32    `json:"percent"`
}

func (b BoostWindow) appliesToXP(combat bool) bool {
	switch b.Kind {
	case BoostXP:
		return true
	case BoostCombatXP:
		return combat
	case BoostNonCombatXP:
		return !combat
	default:
		return false
	}
}

// Overlap returns how many seconds the closed windows
// [actionStart, actionStart+actionDuration] and [boostStart, boostStart+boostDuration]
// have in common.
func Overlap(actionStart int64, actionDuration uint32, boostStart int64, boostDuration uint32) uint32 {
	end := min(actionStart+int64(actionDuration), boostStart+int64(boostDuration))
	start := max(actionStart, boostStart)
	if end <= start {
		return 0
	}
	return uint32(end - start)
}
