package eventlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"actionforge/internal/app/ports"
	"actionforge/internal/domain/queue"
)

type Record struct {
	PlayerID   string         `json:"player_id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// ArchivingEventRepo copies every appended event into a compressed JSONL
// archive after the wrapped repository accepted it. Archive failures are
// logged and never fail the append.
type ArchivingEventRepo struct {
	Next    ports.EventRepository
	Archive *JSONLZstdWriter
	Logger  *slog.Logger
}

func (r ArchivingEventRepo) Append(ctx context.Context, playerID string, events []queue.DomainEvent) error {
	if err := r.Next.Append(ctx, playerID, events); err != nil {
		return err
	}
	if r.Archive == nil {
		return nil
	}
	for _, e := range events {
		rec := Record{PlayerID: playerID, Type: e.Type, OccurredAt: e.OccurredAt, Payload: e.Payload}
		if err := r.Archive.Write(rec); err != nil {
			r.logger().Warn("event archive write failed", "player_id", playerID, "type", e.Type, "error", err)
			return nil
		}
	}
	return nil
}

func (r ArchivingEventRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]queue.DomainEvent, error) {
	return r.Next.ListByPlayerID(ctx, playerID, limit)
}

func (r ArchivingEventRepo) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// ReadRecords decodes one archive file.
func ReadRecords(path string) ([]Record, error) {
	var out []Record
	err := ReadFile(path, func(line []byte) error {
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}
