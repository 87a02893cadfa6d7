package queue

import (
	"sort"

	"actionforge/internal/domain/equipment"
)

// Env is everything Process reads besides the session. Balances must be one
// consistent read taken at call time.
type Env struct {
	Balances equipment.BalanceReader
	Catalog  Catalog
	Boosts   []BoostWindow
	Words    Words
}

type ActionOutcome struct {
	QueueID        string             `json:"queue_id"`
	ActionID       ActionID           `json:"action_id"`
	Skill          Skill              `json:"skill"`
	From           int64              `json:"from"`
	To             int64              `json:"to"`
	ElapsedSeconds uint32             `json:"elapsed_seconds"`
	ValidSeconds   uint32             `json:"valid_seconds"`
	State          HeadState          `json:"state"`
	Invalidated    bool               `json:"invalidated"`
	XP             map[Skill]uint64   `json:"xp"`
	BoostXP        uint64             `json:"boost_xp"`
	AttireBonus    bool               `json:"attire_bonus"`
	Produced       []ItemAmount       `json:"produced,omitempty"`
	Consumed       []ItemAmount       `json:"consumed,omitempty"`
	RandomRewards  []ItemAmount       `json:"random_rewards,omitempty"`
	RandomPending  bool               `json:"random_pending"`
	Equipment      equipment.Validity `json:"equipment"`
}

type Result struct {
	Session        PlayerSession
	XP             map[Skill]uint64
	ActivityPoints uint64
	Produced       []ItemAmount
	Consumed       []ItemAmount
	Outcomes       []ActionOutcome
	Events         []DomainEvent
}

// Changed reports whether the pass credited or retired anything.
func (r Result) Changed() bool {
	return len(r.Outcomes) > 0 || len(r.Events) > 0
}

// Process walks the queue from the head and credits every second that has
// elapsed up to now. Completed actions are retired from both the queue and
// the ring and the walk carries on with the next head. Missing equipment
// never fails the pass, it only zeroes what the affected seconds earn.
func Process(s PlayerSession, now int64, env Env) Result {
	next := s.Clone()
	if next.Tallies.XP == nil {
		next.Tallies.XP = map[Skill]uint64{}
	}
	p := pass{
		playerID: next.PlayerID,
		env:      env,
		view:     newLedgerView(env.Balances),
		xp:       map[Skill]uint64{},
		produced: itemTally{},
		consumed: itemTally{},
	}

	next.PendingRandom = p.resolvePending(next.PendingRandom, now)

	for {
		head, ok := next.Queue.Head()
		if !ok {
			break
		}
		from := next.Queue.ProcessedThrough()
		end := next.Queue.Checkpoint + int64(head.Timespan)
		to := min(now, end)
		if to <= from {
			break
		}
		entry, _ := next.Ring.At(0)
		out := p.credit(head, entry, next.Queue.HeadValidSeconds, &next.Queue.HeadAccrual, from, to)

		next.Queue.Cursor += out.ElapsedSeconds
		next.Queue.HeadValidSeconds += out.ValidSeconds
		next.Queue.HeadInvalidated = out.Invalidated

		if to < end {
			out.State = HeadInProgress
			if out.Invalidated {
				out.State = HeadInvalidated
			}
			p.record(out, to)
			break
		}

		out.State = HeadCompleted
		if next.Queue.HeadValidSeconds > 0 {
			rewards, pending := p.draw(head, end)
			out.RandomRewards = rewards
			if pending {
				out.RandomPending = true
				next.PendingRandom = append(next.PendingRandom, PendingRandomReward{
					QueueID:  head.QueueID,
					ActionID: head.ActionID,
					WordAt:   end,
				})
			}
		}
		p.record(out, to)
		p.events = append(p.events, DomainEvent{
			Type:       "action_completed",
			OccurredAt: unixTime(end),
			Payload: map[string]any{
				"queue_id":      head.QueueID,
				"action_id":     uint32(head.ActionID),
				"valid_seconds": next.Queue.HeadValidSeconds,
				"timespan":      head.Timespan,
			},
		})
		next.Queue.popHead()
		next.Ring.popHead()
	}

	for skill, v := range p.xp {
		next.Tallies.XP[skill] += v
	}
	next.Tallies.ActivityPoints += p.activity

	return Result{
		Session:        next,
		XP:             p.xp,
		ActivityPoints: p.activity,
		Produced:       p.produced.list(),
		Consumed:       p.consumed.list(),
		Outcomes:       p.outcomes,
		Events:         p.events,
	}
}

type pass struct {
	playerID string
	env      Env
	view     *ledgerView
	xp       map[Skill]uint64
	activity uint64
	produced itemTally
	consumed itemTally
	outcomes []ActionOutcome
	events   []DomainEvent
}

type rates struct {
	skill       Skill
	xpPerHour   uint64
	ratePerHour uint64
	output      equipment.ItemID
	inputs      []ItemAmount
}

func (p *pass) ratesFor(a QueuedAction, def ActionDefinition) rates {
	r := rates{
		skill:       def.Skill,
		xpPerHour:   uint64(def.XPPerHour),
		ratePerHour: uint64(def.RatePerHour),
		output:      def.OutputItem,
	}
	if a.ChoiceID == 0 || p.env.Catalog == nil {
		return r
	}
	if c, ok := p.env.Catalog.Choice(a.ChoiceID); ok {
		if c.Skill != SkillNone {
			r.skill = c.Skill
		}
		r.xpPerHour = uint64(c.XPPerHour)
		r.ratePerHour = uint64(c.RatePerHour)
		r.output = c.OutputItem
		r.inputs = c.Inputs
	}
	return r
}

// credit evaluates the span [from, to) of the head. prevValid is how many
// valid seconds of this action were credited by earlier passes and acc holds
// its bonus numerators so far.
func (p *pass) credit(a QueuedAction, entry CheckpointEntry, prevValid uint32, acc *Accrual, from, to int64) ActionOutcome {
	elapsed := uint32(to - from)
	out := ActionOutcome{
		QueueID:        a.QueueID,
		ActionID:       a.ActionID,
		From:           from,
		To:             to,
		ElapsedSeconds: elapsed,
		XP:             map[Skill]uint64{},
	}

	var def ActionDefinition
	known := false
	if p.env.Catalog != nil {
		def, known = p.env.Catalog.Action(a.ActionID)
	}
	out.Skill = def.Skill
	out.Equipment = equipment.Evaluate(entry.Snapshot, p.view)
	if !known || !out.Equipment.Usable(equipment.HandSlots...) {
		out.Invalidated = true
		p.invalidated(a, out, known)
		return out
	}
	out.ValidSeconds = elapsed

	r := p.ratesFor(a, def)
	out.Skill = r.skill
	xp := cumulative(prevValid, elapsed, r.xpPerHour)
	made := cumulative(prevValid, elapsed, r.ratePerHour)
	full := made

	// Recipes cannot make more than the inputs on hand allow; xp follows.
	if len(r.inputs) > 0 && made > 0 {
		limit := made
		for _, in := range r.inputs {
			if in.Amount == 0 {
				continue
			}
			limit = min(limit, p.view.Of(in.ItemID)/in.Amount)
		}
		if limit < made {
			xp = xp * limit / made
			made = limit
		}
	}

	var boostXPNum, boostOutNum uint64
	for _, b := range p.env.Boosts {
		ov := uint64(Overlap(from, elapsed, b.Start, b.Duration))
		if ov == 0 {
			continue
		}
		if b.appliesToXP(def.IsCombat) {
			boostXPNum += ov * r.xpPerHour * uint64(b.Percent)
		}
		if b.Kind == BoostGathering && !def.IsCombat && len(r.inputs) == 0 && r.output != equipment.NoItem {
			boostOutNum += ov * r.ratePerHour * uint64(b.Percent)
		}
	}
	if made < full {
		boostXPNum = boostXPNum * made / full
	}
	boostXP := accrue(&acc.BoostXP, boostXPNum, SecondsPerHour*100)
	boostOut := accrue(&acc.BoostOutput, boostOutNum, SecondsPerHour*100)

	var bonusXP, bonusOut uint64
	if p.env.Catalog != nil {
		if bonus, ok := p.env.Catalog.AttireBonus(r.skill); ok && fullAttire(entry.Snapshot, bonus) && out.Equipment.Held(equipment.AttireSlots...) {
			out.AttireBonus = true
			bonusXP = accrue(&acc.AttireXP, xp*uint64(bonus.BonusXPPercent), 100)
			if r.output != equipment.NoItem {
				bonusOut = accrue(&acc.AttireMade, made*uint64(bonus.BonusRewardsPercent), 100)
			}
		}
	}

	total := xp + boostXP + bonusXP
	out.BoostXP = boostXP
	if def.IsCombat {
		if style, ok := a.CombatStyle.Skill(); ok {
			out.XP[style] = total
			out.XP[SkillHealth] = accrue(&acc.HealthXP, total, 3)
		}
	} else if r.skill != SkillNone {
		out.XP[r.skill] = total
	}

	if made > 0 {
		for _, in := range r.inputs {
			if in.Amount == 0 {
				continue
			}
			used := ItemAmount{ItemID: in.ItemID, Amount: made * in.Amount}
			out.Consumed = append(out.Consumed, used)
			p.view.take(used)
		}
	}
	if gained := made + boostOut + bonusOut; gained > 0 && r.output != equipment.NoItem {
		got := ItemAmount{ItemID: r.output, Amount: gained}
		out.Produced = append(out.Produced, got)
		p.view.give(got)
	}

	p.activity += cumulative(prevValid, elapsed, ActivityPointsPerHour)
	return out
}

func (p *pass) invalidated(a QueuedAction, out ActionOutcome, known bool) {
	missing := make([]string, 0, 2)
	for _, s := range out.Equipment.Missing() {
		missing = append(missing, s.String())
	}
	reason := "equipment_missing"
	if !known {
		reason = "unknown_action"
	}
	p.events = append(p.events, DomainEvent{
		Type:       "equipment_invalidated",
		OccurredAt: unixTime(out.To),
		Payload: map[string]any{
			"queue_id":        a.QueueID,
			"action_id":       uint32(a.ActionID),
			"reason":          reason,
			"missing_slots":   missing,
			"from":            out.From,
			"to":              out.To,
			"elapsed_seconds": out.ElapsedSeconds,
		},
	})
}

func (p *pass) record(out ActionOutcome, at int64) {
	for skill, v := range out.XP {
		if v > 0 {
			p.xp[skill] += v
		}
	}
	for _, it := range out.Produced {
		p.produced.add(it)
	}
	for _, it := range out.Consumed {
		p.consumed.add(it)
	}
	for _, it := range out.RandomRewards {
		p.produced.add(it)
	}
	p.outcomes = append(p.outcomes, out)
	p.events = append(p.events, DomainEvent{
		Type:       "action_processed",
		OccurredAt: unixTime(at),
		Payload: map[string]any{
			"queue_id":        out.QueueID,
			"action_id":       uint32(out.ActionID),
			"from":            out.From,
			"to":              out.To,
			"elapsed_seconds": out.ElapsedSeconds,
			"valid_seconds":   out.ValidSeconds,
			"state":           string(out.State),
			"xp":              skillMap(out.XP),
		},
	})
}

// draw rolls the random rewards of a completed action, or reports that the
// word for its end time is not revealed yet.
func (p *pass) draw(a QueuedAction, end int64) ([]ItemAmount, bool) {
	if p.env.Catalog == nil {
		return nil, false
	}
	def, ok := p.env.Catalog.Action(a.ActionID)
	if !ok || len(def.RandomRewards) == 0 {
		return nil, false
	}
	word, ok := p.env.Words.At(end)
	if !ok {
		p.events = append(p.events, DomainEvent{
			Type:       "random_reward_pending",
			OccurredAt: unixTime(end),
			Payload:    map[string]any{"queue_id": a.QueueID, "word_at": end},
		})
		return nil, true
	}
	rewards := rollRewards(word, p.playerID, a.QueueID, def.RandomRewards)
	for _, r := range rewards {
		p.view.give(r)
	}
	return rewards, false
}

func (p *pass) resolvePending(pending []PendingRandomReward, now int64) []PendingRandomReward {
	var keep []PendingRandomReward
	for _, pr := range pending {
		word, ok := p.env.Words.At(pr.WordAt)
		if !ok {
			keep = append(keep, pr)
			continue
		}
		var rewards []ItemAmount
		if p.env.Catalog != nil {
			if def, ok := p.env.Catalog.Action(pr.ActionID); ok {
				rewards = rollRewards(word, p.playerID, pr.QueueID, def.RandomRewards)
			}
		}
		for _, r := range rewards {
			p.produced.add(r)
			p.view.give(r)
		}
		p.events = append(p.events, DomainEvent{
			Type:       "random_reward_resolved",
			OccurredAt: unixTime(now),
			Payload: map[string]any{
				"queue_id": pr.QueueID,
				"word_at":  pr.WordAt,
				"rewards":  len(rewards),
			},
		})
	}
	return keep
}

// cumulative floors the rate over the whole action so that splitting it into
// several passes never loses fractional units.
func cumulative(prev, add uint32, perHour uint64) uint64 {
	before := uint64(prev) * perHour / SecondsPerHour
	after := (uint64(prev) + uint64(add)) * perHour / SecondsPerHour
	return after - before
}

func fullAttire(s equipment.Snapshot, bonus AttireBonus) bool {
	for i, slot := range equipment.AttireSlots {
		if bonus.Items[i] == equipment.NoItem || s.Item(slot) != bonus.Items[i] {
			return false
		}
	}
	return true
}

func skillMap(in map[Skill]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}

type itemTally map[equipment.ItemID]uint64

func (t itemTally) add(it ItemAmount) {
	if it.Amount == 0 {
		return
	}
	t[it.ItemID] += it.Amount
}

func (t itemTally) list() []ItemAmount {
	out := make([]ItemAmount, 0, len(t))
	for id, amount := range t {
		out = append(out, ItemAmount{ItemID: id, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// ledgerView overlays what this pass produced and consumed on top of the
// balances read at call time.
type ledgerView struct {
	live  equipment.BalanceReader
	delta map[equipment.ItemID]int64
}

func newLedgerView(live equipment.BalanceReader) *ledgerView {
	if live == nil {
		live = equipment.Balances(nil)
	}
	return &ledgerView{live: live, delta: map[equipment.ItemID]int64{}}
}

func (v *ledgerView) Of(id equipment.ItemID) uint64 {
	b := int64(v.live.Of(id)) + v.delta[id]
	if b < 0 {
		return 0
	}
	return uint64(b)
}

func (v *ledgerView) give(it ItemAmount) {
	v.delta[it.ItemID] += int64(it.Amount)
}

func (v *ledgerView) take(it ItemAmount) {
	v.delta[it.ItemID] -= int64(it.Amount)
}
