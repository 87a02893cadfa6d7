package queue

import (
	"fmt"

	"actionforge/internal/domain/equipment"
)

const (
	itemAxe        equipment.ItemID = 10
	itemTinderbox  equipment.ItemID = 11
	itemSword      equipment.ItemID = 12
	itemRod        equipment.ItemID = 13
	itemShield     equipment.ItemID = 14
	itemLog        equipment.ItemID = 20
	itemFish       equipment.ItemID = 21
	itemPearl      equipment.ItemID = 22
	itemHelm       equipment.ItemID = 51
	itemChest      equipment.ItemID = 52
	itemBracers    equipment.ItemID = 53
	itemTrousers   equipment.ItemID = 54
	itemBoots      equipment.ItemID = 55
	itemOtherBoots equipment.ItemID = 56

	actionWoodcut  ActionID = 1
	actionFiremake ActionID = 2
	actionCombat   ActionID = 3
	actionFish     ActionID = 4
	actionSlowWood ActionID = 5

	choiceBurnLog   ChoiceID = 100
	choiceRoastFish ChoiceID = 101

	t0 int64 = 1_700_000_000
)

type fakeCatalog struct {
	actions map[ActionID]ActionDefinition
	choices map[ChoiceID]ChoiceDefinition
	bonuses map[Skill]AttireBonus
}

func (c fakeCatalog) Action(id ActionID) (ActionDefinition, bool) {
	d, ok := c.actions[id]
	return d, ok
}

func (c fakeCatalog) Choice(id ChoiceID) (ChoiceDefinition, bool) {
	d, ok := c.choices[id]
	return d, ok
}

func (c fakeCatalog) AttireBonus(skill Skill) (AttireBonus, bool) {
	b, ok := c.bonuses[skill]
	return b, ok
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		actions: map[ActionID]ActionDefinition{
			actionWoodcut: {
				ActionID:       actionWoodcut,
				Skill:          SkillWoodcutting,
				XPPerHour:      3600,
				RatePerHour:    50,
				OutputItem:     itemLog,
				RightHandItems: []equipment.ItemID{itemAxe},
			},
			actionFiremake: {
				ActionID:       actionFiremake,
				Skill:          SkillFiremaking,
				RightHandItems: []equipment.ItemID{itemTinderbox},
				Choices:        []ChoiceID{choiceBurnLog, choiceRoastFish},
			},
			actionCombat: {
				ActionID:       actionCombat,
				Skill:          SkillCombat,
				XPPerHour:      3600,
				IsCombat:       true,
				RightHandItems: []equipment.ItemID{itemSword},
				LeftHandItems:  []equipment.ItemID{itemShield},
			},
			actionFish: {
				ActionID:       actionFish,
				Skill:          SkillFishing,
				XPPerHour:      1800,
				RatePerHour:    30,
				OutputItem:     itemFish,
				RightHandItems: []equipment.ItemID{itemRod},
				RandomRewards:  []RandomReward{{ItemID: itemPearl, Chance: ChanceDenominator, Amount: 2}},
			},
			actionSlowWood: {
				ActionID:       actionSlowWood,
				Skill:          SkillWoodcutting,
				XPPerHour:      3600,
				RatePerHour:    7,
				OutputItem:     itemLog,
				RightHandItems: []equipment.ItemID{itemAxe},
			},
		},
		choices: map[ChoiceID]ChoiceDefinition{
			choiceBurnLog: {
				ChoiceID:    choiceBurnLog,
				XPPerHour:   3600,
				RatePerHour: 60,
				Inputs:      []ItemAmount{{ItemID: itemLog, Amount: 1}},
			},
			choiceRoastFish: {
				ChoiceID:  choiceRoastFish,
				Skill:     SkillCooking,
				XPPerHour: 3600,
			},
		},
		bonuses: map[Skill]AttireBonus{
			SkillWoodcutting: {
				Skill:               SkillWoodcutting,
				Items:               [5]equipment.ItemID{itemHelm, itemChest, itemBracers, itemTrousers, itemBoots},
				BonusXPPercent:      3,
				BonusRewardsPercent: 10,
			},
			SkillCooking: {
				Skill:          SkillCooking,
				Items:          [5]equipment.ItemID{itemHelm, itemChest, itemBracers, itemTrousers, itemBoots},
				BonusXPPercent: 10,
			},
		},
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("q-%d", n)
	}
}

func woodcut(timespan uint32) QueuedAction {
	return QueuedAction{ActionID: actionWoodcut, RightHand: itemAxe, Timespan: timespan}
}

func fullTestAttire() Attire {
	return Attire{Head: itemHelm, Body: itemChest, Arms: itemBracers, Legs: itemTrousers, Feet: itemBoots}
}

func mustStart(t testingT, s PlayerSession, strategy Strategy, now int64, balances equipment.Balances, ids func() string, actions ...QueuedAction) PlayerSession {
	t.Helper()
	out, err := Start(s, StartInput{
		Actions:  actions,
		Strategy: strategy,
		Now:      now,
		Balances: balances,
		Catalog:  testCatalog(),
		NewID:    ids,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return out.Session
}

type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

func env(balances equipment.Balances) Env {
	return Env{Balances: balances, Catalog: testCatalog()}
}
