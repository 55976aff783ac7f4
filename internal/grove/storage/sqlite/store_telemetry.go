package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/den-labs/dengrow/internal/grove/storage"
)

// Telemetry methods. Metadata is stored as a JSON object per event.

// AppendEvent records a domain signal.
func (s *Store) AppendEvent(ctx context.Context, evt storage.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metadata := evt.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx, `
INSERT INTO telemetry_events (id, type, subject, height, metadata, recorded_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.Type, evt.Subject, evt.Height, string(encoded), evt.Timestamp.UTC().UnixMilli())
	return err
}

// ListEvents returns up to limit signals, oldest first. An empty subject
// matches all subjects.
func (s *Store) ListEvents(ctx context.Context, subject string, limit int) ([]storage.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
SELECT id, type, subject, height, metadata, recorded_at
FROM telemetry_events WHERE (? = '' OR subject = ?)
ORDER BY seq LIMIT ?`
	rows, err := s.q.QueryContext(ctx, query, subject, subject, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []storage.Event
	for rows.Next() {
		var (
			evt        storage.Event
			metadata   string
			recordedAt int64
		)
		if err := rows.Scan(&evt.ID, &evt.Type, &evt.Subject, &evt.Height, &metadata, &recordedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metadata), &evt.Metadata); err != nil {
			return nil, err
		}
		evt.Timestamp = time.UnixMilli(recordedAt).UTC()
		events = append(events, evt)
	}
	return events, rows.Err()
}
