package queue

import "actionforge/internal/domain/equipment"

type RandomReward struct {
	ItemID equipment.ItemID `json:"item_id" yaml:"item_id"`
	// Chance out of ChanceDenominator.
	Chance uint32 `json:"chance" yaml:"chance"`
	Amount uint64 `json:"amount" yaml:"amount"`
}

type ActionDefinition struct {
	ActionID       ActionID           `json:"action_id" yaml:"action_id"`
	Name           string             `json:"name" yaml:"name"`
	Skill          Skill              `json:"skill" yaml:"skill"`
	XPPerHour      uint32             `json:"xp_per_hour" yaml:"xp_per_hour"`
	RatePerHour    uint32             `json:"rate_per_hour" yaml:"rate_per_hour"`
	OutputItem     equipment.ItemID   `json:"output_item,omitempty" yaml:"output_item"`
	RightHandItems []equipment.ItemID `json:"right_hand_items,omitempty" yaml:"right_hand_items"`
	LeftHandItems  []equipment.ItemID `json:"left_hand_items,omitempty" yaml:"left_hand_items"`
	IsCombat       bool               `json:"is_combat" yaml:"is_combat"`
	Choices        []ChoiceID         `json:"choices,omitempty" yaml:"choices"`
	RandomRewards  []RandomReward     `json:"random_rewards,omitempty" yaml:"random_rewards"`
}

func (d ActionDefinition) RequiresRightHand() bool {
	return len(d.RightHandItems) > 0
}

func (d ActionDefinition) RequiresLeftHand() bool {
	return len(d.LeftHandItems) > 0
}

func (d ActionDefinition) HasChoice(id ChoiceID) bool {
	for _, c := range d.Choices {
		if c == id {
			return true
		}
	}
	return false
}

// ChoiceDefinition is a recipe selected for an action. It overrides the
// action's rates and output, and consumes inputs per unit produced.
type ChoiceDefinition struct {
	ChoiceID    ChoiceID         `json:"choice_id" yaml:"choice_id"`
	Skill       Skill            `json:"skill,omitempty" yaml:"skill"`
	XPPerHour   uint32           `json:"xp_per_hour" yaml:"xp_per_hour"`
	RatePerHour uint32           `json:"rate_per_hour" yaml:"rate_per_hour"`
	OutputItem  equipment.ItemID `json:"output_item,omitempty" yaml:"output_item"`
	Inputs      []ItemAmount     `json:"inputs,omitempty" yaml:"inputs"`
}

type AttireBonus struct {
	Skill Skill `json:"skill" yaml:"skill"`
	// Items is ordered like equipment.AttireSlots.
	Items               [5]equipment.ItemID `json:"items" yaml:"items"`
	BonusXPPercent      uint32              `json:"bonus_xp_percent" yaml:"bonus_xp_percent"`
	BonusRewardsPercent uint32              `json:"bonus_rewards_percent" yaml:"bonus_rewards_percent"`
}

// Catalog is the read-only action definition lookup.
type Catalog interface {
	Action(id ActionID) (ActionDefinition, bool)
	Choice(id ChoiceID) (ChoiceDefinition, bool)
	AttireBonus(skill Skill) (AttireBonus, bool)
}

func containsItem(items []equipment.ItemID, id equipment.ItemID) bool {
	for _, it := range items {
		if it == id {
			return true
		}
	}
	return false
}
