package replay

import "actionforge/internal/domain/queue"

type Request struct {
	PlayerID     string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
	Types        []string
}

// Summary folds the replayed events back into the totals they credited.
type Summary struct {
	XP             map[string]uint64 `json:"xp"`
	Completed      int               `json:"completed"`
	Invalidated    int               `json:"invalidated"`
	RandomPending  int               `json:"random_pending"`
	RandomResolved int               `json:"random_resolved"`
	CountByType    map[string]int    `json:"count_by_type"`
	LastOccurredAt int64             `json:"last_occurred_at"`
}

type Response struct {
	Events  []queue.DomainEvent `json:"events"`
	Summary Summary             `json:"summary"`
}
