package action

import (
	"actionforge/internal/app/ports"
	"actionforge/internal/domain/queue"
)

type StartRequest struct {
	PlayerID       string
	IdempotencyKey string
	Strategy       queue.Strategy
	Actions        []queue.QueuedAction
}

type StartResponse struct {
	QueueIDs   []string              `json:"queue_ids"`
	Discarded  []string              `json:"discarded"`
	Checkpoint int64                 `json:"checkpoint"`
	Queue      []queue.QueuedAction  `json:"queue"`
	Processed  []queue.ActionOutcome `json:"processed"`
	Events     []queue.DomainEvent   `json:"events"`
	Version    int64                 `json:"version"`
}

func startResponse(r ports.StartResult) StartResponse {
	return StartResponse{
		QueueIDs:   r.QueueIDs,
		Discarded:  r.Discarded,
		Checkpoint: r.Session.Queue.Checkpoint,
		Queue:      r.Session.Queue.Actions,
		Processed:  r.Processed,
		Events:     r.Events,
		Version:    r.Session.Version,
	}
}

type ProcessRequest struct {
	PlayerID string
}

type ProcessResponse struct {
	Checkpoint     int64                  `json:"checkpoint"`
	Cursor         uint32                 `json:"cursor"`
	XP             map[queue.Skill]uint64 `json:"xp"`
	ActivityPoints uint64                 `json:"activity_points"`
	Produced       []queue.ItemAmount     `json:"produced"`
	Consumed       []queue.ItemAmount     `json:"consumed"`
	Outcomes       []queue.ActionOutcome  `json:"outcomes"`
	Events         []queue.DomainEvent    `json:"events"`
	Version        int64                  `json:"version"`
}
