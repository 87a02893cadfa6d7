package ports

import (
	"context"
	"time"

	"actionforge/internal/domain/queue"
)

// StartResult is what a start request answered with. It is stored next to
// the idempotency key so a retried request gets the same answer.
type StartResult struct {
	Session   queue.PlayerSession   `json:"session"`
	QueueIDs  []string              `json:"queue_ids"`
	Discarded []string              `json:"discarded"`
	Events    []queue.DomainEvent   `json:"events"`
	Processed []queue.ActionOutcome `json:"processed"`
}

type ActionExecutionRecord struct {
	PlayerID       string
	IdempotencyKey string
	Strategy       string
	ActionCount    int
	Result         StartResult
	AppliedAt      time.Time
}

type PlayerSessionRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (queue.PlayerSession, error)
	// SaveWithVersion stores the session only if the stored version still
	// equals expectedVersion; expectedVersion 0 creates it.
	SaveWithVersion(ctx context.Context, session queue.PlayerSession, expectedVersion int64) error
}

type ActionExecutionRepository interface {
	GetByIdempotencyKey(ctx context.Context, playerID, key string) (*ActionExecutionRecord, error)
	SaveExecution(ctx context.Context, execution ActionExecutionRecord) error
}

type EventRepository interface {
	Append(ctx context.Context, playerID string, events []queue.DomainEvent) error
	ListByPlayerID(ctx context.Context, playerID string, limit int) ([]queue.DomainEvent, error)
}

type PlayerCredentialRecord struct {
	PlayerID  string
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

type PlayerCredentialRepository interface {
	Create(ctx context.Context, credential PlayerCredentialRecord) error
	GetByPlayerID(ctx context.Context, playerID string) (PlayerCredentialRecord, error)
}
