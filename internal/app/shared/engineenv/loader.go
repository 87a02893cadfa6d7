package engineenv

import (
	"context"
	"fmt"
	"sort"

	"actionforge/internal/app/ports"
	"actionforge/internal/domain/equipment"
	"actionforge/internal/domain/queue"
)

// Loader gathers everything queue.Process reads besides the session, in one
// read per port.
type Loader struct {
	Balances   ports.BalanceQuery
	Catalog    ports.ActionCatalog
	Randomness ports.RandomnessSource
	Boosts     ports.BoostProvider
}

// Load builds the processing environment of s at now. Extra actions are
// about to be queued and have their hand items read as well.
func (l Loader) Load(ctx context.Context, s queue.PlayerSession, now int64, extra ...queue.QueuedAction) (queue.Env, error) {
	env := queue.Env{Catalog: l.Catalog, Balances: equipment.Balances{}}

	items := l.ItemsFor(s, extra...)
	if l.Balances != nil && len(items) > 0 {
		bal, err := l.Balances.BalancesOf(ctx, s.PlayerID, items)
		if err != nil {
			return queue.Env{}, fmt.Errorf("read balances: %w", err)
		}
		if bal != nil {
			env.Balances = bal
		}
	}

	if l.Randomness != nil {
		words, err := l.words(ctx, s, now)
		if err != nil {
			return queue.Env{}, err
		}
		env.Words = words
	}

	if l.Boosts != nil && s.Queue.Len() > 0 {
		from := s.Queue.ProcessedThrough()
		if from < now {
			boosts, err := l.Boosts.ActiveBoosts(ctx, s.PlayerID, from, now)
			if err != nil {
				return queue.Env{}, fmt.Errorf("read boosts: %w", err)
			}
			env.Boosts = boosts
		}
	}
	return env, nil
}

// ItemsFor lists every item whose balance processing s may look at: the
// loadouts of queued and snapshotted actions, recipe inputs and outputs.
func (l Loader) ItemsFor(s queue.PlayerSession, extra ...queue.QueuedAction) []equipment.ItemID {
	seen := map[equipment.ItemID]bool{}
	add := func(ids ...equipment.ItemID) {
		for _, id := range ids {
			if id != equipment.NoItem {
				seen[id] = true
			}
		}
	}

	actions := append(append([]queue.QueuedAction(nil), s.Queue.Actions...), extra...)
	for _, a := range actions {
		add(a.Loadout().Items()...)
		if l.Catalog == nil {
			continue
		}
		if def, ok := l.Catalog.Action(a.ActionID); ok {
			add(def.OutputItem)
		}
		if a.ChoiceID == 0 {
			continue
		}
		if c, ok := l.Catalog.Choice(a.ChoiceID); ok {
			add(c.OutputItem)
			for _, in := range c.Inputs {
				add(in.ItemID)
			}
		}
	}
	for _, e := range s.Ring.Entries {
		add(e.Snapshot.Loadout().Items()...)
	}

	out := make([]equipment.ItemID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (l Loader) words(ctx context.Context, s queue.PlayerSession, now int64) (queue.Words, error) {
	var ends []int64
	for _, p := range s.PendingRandom {
		ends = append(ends, p.WordAt)
	}
	for i, a := range s.Queue.Actions {
		end := s.Queue.EndOf(i)
		if end > now {
			break
		}
		if l.Catalog == nil {
			continue
		}
		if def, ok := l.Catalog.Action(a.ActionID); ok && len(def.RandomRewards) > 0 {
			ends = append(ends, end)
		}
	}

	words := queue.Words{}
	for _, ts := range ends {
		if _, done := words[ts]; done {
			continue
		}
		w, ok, err := l.Randomness.WordFor(ctx, ts)
		if err != nil {
			return nil, fmt.Errorf("read random word at %d: %w", ts, err)
		}
		if ok {
			words[ts] = w
		}
	}
	return words, nil
}
