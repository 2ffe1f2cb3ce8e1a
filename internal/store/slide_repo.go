package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aeriel/clai/internal/slide"
)

type slideRepo struct {
	s *Store
}

const slideColumns = "id, lesson_id, type, question, slide_order, content"

func (r *slideRepo) CreateSlide(ctx context.Context, sl slide.Slide, lessonID string) (slide.Slide, error) {
	ok, err := r.s.exists(ctx, r.s.db, "lessons", lessonID)
	if err != nil {
		return slide.Slide{}, fmt.Errorf("create slide: %w", err)
	}
	if !ok {
		return slide.Slide{}, fmt.Errorf("create slide: lesson %s: %w", lessonID, ErrNotFound)
	}
	out, err := r.insert(ctx, r.s.db, sl, lessonID)
	if err != nil {
		return slide.Slide{}, fmt.Errorf("create slide: %w", err)
	}
	return out, nil
}

func (r *slideRepo) CreateSlides(ctx context.Context, lessonID string, slides []slide.Slide) ([]slide.Slide, error) {
	out := make([]slide.Slide, 0, len(slides))
	err := r.s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := r.s.exists(ctx, tx, "lessons", lessonID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("lesson %s: %w", lessonID, ErrNotFound)
		}
		for i, sl := range slides {
			created, err := r.insert(ctx, tx, sl, lessonID)
			if err != nil {
				return fmt.Errorf("slide %d: %w", i, err)
			}
			out = append(out, created)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create slides: %w", err)
	}
	return out, nil
}

func (r *slideRepo) insert(ctx context.Context, q queryer, sl slide.Slide, lessonID string) (slide.Slide, error) {
	if sl.Content == nil {
		return slide.Slide{}, fmt.Errorf("slide has no content")
	}
	content, err := json.Marshal(sl.Content)
	if err != nil {
		return slide.Slide{}, fmt.Errorf("encode content: %w", err)
	}
	if sl.ID == "" {
		sl.ID = uuid.NewString()
	}
	sl.LessonID = lessonID
	ts := formatTime(now())
	_, err = q.ExecContext(ctx, r.s.rebind(
		`INSERT INTO slides (`+slideColumns+`, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		sl.ID, lessonID, string(sl.Kind()), sl.Question, sl.Order, string(content), ts, ts,
	)
	if err != nil {
		return slide.Slide{}, err
	}
	return sl, nil
}

func (r *slideRepo) ListSlides(ctx context.Context, lessonID string) ([]slide.Slide, error) {
	rows, err := r.s.db.QueryContext(ctx, r.s.rebind(
		`SELECT `+slideColumns+` FROM slides WHERE lesson_id = ? ORDER BY slide_order, created_at`), lessonID)
	if err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	defer rows.Close()

	var out []slide.Slide
	for rows.Next() {
		sl, err := scanSlide(rows)
		if err != nil {
			return nil, fmt.Errorf("list slides: %w", err)
		}
		out = append(out, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	return out, nil
}

func (r *slideRepo) GetSlide(ctx context.Context, id string) (slide.Slide, error) {
	sl, err := scanSlide(r.s.db.QueryRowContext(ctx, r.s.rebind(
		`SELECT `+slideColumns+` FROM slides WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return slide.Slide{}, fmt.Errorf("get slide %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return slide.Slide{}, fmt.Errorf("get slide: %w", err)
	}
	return sl, nil
}

func (r *slideRepo) UpdateSlide(ctx context.Context, sl slide.Slide) error {
	if sl.Content == nil {
		return fmt.Errorf("update slide: no content")
	}
	content, err := json.Marshal(sl.Content)
	if err != nil {
		return fmt.Errorf("update slide: encode content: %w", err)
	}
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(
		`UPDATE slides SET question = ?, content = ?, updated_at = ? WHERE id = ? AND type = ?`),
		sl.Question, string(content), formatTime(now()), sl.ID, string(sl.Kind()),
	)
	if err != nil {
		return fmt.Errorf("update slide: %w", err)
	}
	if err := expectRow(res); err != nil {
		ok, existsErr := r.s.exists(ctx, r.s.db, "slides", sl.ID)
		if existsErr == nil && ok {
			return fmt.Errorf("update slide %s: %w", sl.ID, ErrKindChanged)
		}
		return fmt.Errorf("update slide %s: %w", sl.ID, err)
	}
	return nil
}

func (r *slideRepo) ReorderSlides(ctx context.Context, lessonID string, slides []slide.Slide) error {
	err := r.s.withTx(ctx, func(tx *sql.Tx) error {
		for _, sl := range slides {
			res, err := tx.ExecContext(ctx, r.s.rebind(
				`UPDATE slides SET slide_order = ?, updated_at = ? WHERE id = ? AND lesson_id = ?`),
				sl.Order, formatTime(now()), sl.ID, lessonID,
			)
			if err != nil {
				return err
			}
			if err := expectRow(res); err != nil {
				return fmt.Errorf("slide %s: %w", sl.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reorder slides: %w", err)
	}
	return nil
}

func scanSlide(sc rowScanner) (slide.Slide, error) {
	var (
		sl            slide.Slide
		kind, content string
	)
	if err := sc.Scan(&sl.ID, &sl.LessonID, &kind, &sl.Question, &sl.Order, &content); err != nil {
		return slide.Slide{}, err
	}
	c, err := slide.DecodeContent(slide.Kind(kind), []byte(content))
	if err != nil {
		return slide.Slide{}, fmt.Errorf("decode slide %s: %w", sl.ID, err)
	}
	sl.Content = c
	return sl, nil
}
