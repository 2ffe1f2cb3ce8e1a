package store

import (
	"context"
	"fmt"
	"time"
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

func now() time.Time {
	return time.Now().UTC()
}

func (s *Store) schema() []string {
	eventID := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == Postgres {
		eventID = "BIGSERIAL PRIMARY KEY"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS courses (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL DEFAULT '',
			approved    BOOLEAN NOT NULL DEFAULT FALSE,
			approver    TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS lessons (
			id           TEXT PRIMARY KEY,
			course_id    TEXT NOT NULL REFERENCES courses(id),
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			lesson_order INTEGER NOT NULL,
			approved     BOOLEAN NOT NULL DEFAULT FALSE,
			approver     TEXT,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS lessons_course_order ON lessons (course_id, lesson_order)`,
		`CREATE TABLE IF NOT EXISTS slides (
			id          TEXT PRIMARY KEY,
			lesson_id   TEXT NOT NULL REFERENCES lessons(id),
			type        TEXT NOT NULL,
			question    TEXT NOT NULL,
			slide_order INTEGER NOT NULL,
			content     TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS slides_lesson_order ON slides (lesson_id, slide_order)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS llm_requests (
			id            %s,
			timestamp     TEXT NOT NULL,
			provider      TEXT NOT NULL,
			model         TEXT NOT NULL,
			purpose       TEXT NOT NULL,
			input_tokens  INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms    BIGINT NOT NULL DEFAULT 0,
			success       BOOLEAN NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body  TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`, eventID),
	}
}

// migrate creates every table that does not exist yet.
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range s.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
