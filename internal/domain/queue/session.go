package queue

import "time"

type Tallies struct {
	XP             map[Skill]uint64 `json:"xp"`
	ActivityPoints uint64           `json:"activity_points"`
}

func (t Tallies) clone() Tallies {
	out := Tallies{XP: make(map[Skill]uint64, len(t.XP)), ActivityPoints: t.ActivityPoints}
	for k, v := range t.XP {
		out.XP[k] = v
	}
	return out
}

// PendingRandomReward is a completed action whose random draw is waiting for
// a word revealed after WordAt.
type PendingRandomReward struct {
	QueueID  string   `json:"queue_id"`
	ActionID ActionID `json:"action_id"`
	WordAt   int64    `json:"word_at"`
}

// PlayerSession is everything the engine keeps for one player.
type PlayerSession struct {
	PlayerID      string                `json:"player_id"`
	Queue         ActionQueue           `json:"queue"`
	Ring          CheckpointRing        `json:"ring"`
	Tallies       Tallies               `json:"tallies"`
	PendingRandom []PendingRandomReward `json:"pending_random,omitempty"`
	Version       int64                 `json:"version"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func NewSession(playerID string) PlayerSession {
	return PlayerSession{
		PlayerID: playerID,
		Tallies:  Tallies{XP: map[Skill]uint64{}},
	}
}

func (s PlayerSession) Clone() PlayerSession {
	out := s
	out.Queue = s.Queue.clone()
	out.Ring = s.Ring.clone()
	out.Tallies = s.Tallies.clone()
	out.PendingRandom = append([]PendingRandomReward(nil), s.PendingRandom...)
	return out
}
