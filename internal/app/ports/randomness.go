package ports

import (
	"context"

	"actionforge/internal/domain/queue"
)

// RandomnessSource returns the first word revealed strictly after ts, or
// false when no such word is known yet.
type RandomnessSource interface {
	WordFor(ctx context.Context, ts int64) (queue.Word, bool, error)
}

type BoostProvider interface {
	ActiveBoosts(ctx context.Context, playerID string, from, to int64) ([]queue.BoostWindow, error)
}
