package queue

import (
	"time"

	"actionforge/internal/domain/equipment"
)

type ActionID uint32

type ChoiceID uint32

type Skill string

const (
	SkillNone        Skill = ""
	SkillWoodcutting Skill = "woodcutting"
	SkillFiremaking  Skill = "firemaking"
	SkillFishing     Skill = "fishing"
	SkillCooking     Skill = "cooking"
	SkillMining      Skill = "mining"
	SkillSmithing    Skill = "smithing"
	SkillCrafting    Skill = "crafting"
	SkillCombat      Skill = "combat"
	SkillAttack      Skill = "attack"
	SkillDefence     Skill = "defence"
	SkillRanged      Skill = "ranged"
	SkillMagic       Skill = "magic"
	SkillHealth      Skill = "health"
)

type CombatStyle string

const (
	CombatStyleNone    CombatStyle = ""
	CombatStyleAttack  CombatStyle = "attack"
	CombatStyleDefence CombatStyle = "defence"
	CombatStyleRanged  CombatStyle = "ranged"
	CombatStyleMagic   CombatStyle = "magic"
)

func (c CombatStyle) Skill() (Skill, bool) {
	switch c {
	case CombatStyleAttack:
		return SkillAttack, true
	case CombatStyleDefence:
		return SkillDefence, true
	case CombatStyleRanged:
		return SkillRanged, true
	case CombatStyleMagic:
		return SkillMagic, true
	default:
		return SkillNone, false
	}
}

type Strategy string

const (
	StrategyOverwrite          Strategy = "overwrite"
	StrategyAppend             Strategy = "append"
	StrategyKeepLastInProgress Strategy = "keep_last_in_progress"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyOverwrite, StrategyAppend, StrategyKeepLastInProgress:
		return true
	default:
		return false
	}
}

const (
	MaxQueueLength = 3
	// MaxQueueTime bounds how far past "now" the whole queue may reach.
	MaxQueueTime = 24 * 60 * 60

	SecondsPerHour = 3600

	// ChanceDenominator is the fixed denominator of random reward chances.
	ChanceDenominator = 65536

	ActivityPointsPerHour = 10
)

type ItemAmount struct {
	ItemID equipment.ItemID `json:"item_id" yaml:"item_id"`
	Amount uint64           `json:"amount" yaml:"amount"`
}

type DomainEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

func unixTime(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}
