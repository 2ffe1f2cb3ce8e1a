package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aeriel/clai/internal/course"
)

type lessonRepo struct {
	s *Store
}

const lessonColumns = "id, course_id, title, description, lesson_order, approved, approver, created_at, updated_at"

func (r *lessonRepo) CreateLesson(ctx context.Context, f LessonFields, courseID string) (course.Lesson, error) {
	ok, err := r.s.exists(ctx, r.s.db, "courses", courseID)
	if err != nil {
		return course.Lesson{}, fmt.Errorf("create lesson: %w", err)
	}
	if !ok {
		return course.Lesson{}, fmt.Errorf("create lesson: course %s: %w", courseID, ErrNotFound)
	}

	l := course.Lesson{
		CourseID:    courseID,
		Title:       f.Title,
		Description: f.Description,
		Order:       f.Order,
		Approved:    f.Approved,
		Approver:    f.Approver,
	}
	l, err = r.insert(ctx, r.s.db, l)
	if err != nil {
		return course.Lesson{}, fmt.Errorf("create lesson: %w", err)
	}
	return l, nil
}

func (r *lessonRepo) insert(ctx context.Context, q queryer, l course.Lesson) (course.Lesson, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	ts := now()
	l.CreatedAt, l.UpdatedAt = ts, ts
	_, err := q.ExecContext(ctx, r.s.rebind(
		`INSERT INTO lessons (`+lessonColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		l.ID, l.CourseID, l.Title, l.Description, l.Order, l.Approved, nullString(l.Approver),
		formatTime(ts), formatTime(ts),
	)
	return l, err
}

func (r *lessonRepo) ListLessons(ctx context.Context, courseID string) ([]course.Lesson, error) {
	rows, err := r.s.db.QueryContext(ctx, r.s.rebind(
		`SELECT `+lessonColumns+` FROM lessons WHERE course_id = ? ORDER BY lesson_order, created_at`), courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var out []course.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("list lessons: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return out, nil
}

func (r *lessonRepo) GetLesson(ctx context.Context, id string) (course.Lesson, error) {
	l, err := scanLesson(r.s.db.QueryRowContext(ctx, r.s.rebind(
		`SELECT `+lessonColumns+` FROM lessons WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return course.Lesson{}, fmt.Errorf("get lesson %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return course.Lesson{}, fmt.Errorf("get lesson: %w", err)
	}
	return l, nil
}

func (r *lessonRepo) UpdateLesson(ctx context.Context, id string, f LessonFields) (course.Lesson, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(
		`UPDATE lessons SET title = ?, description = ?, lesson_order = ?, approved = ?, approver = ?, updated_at = ?
		 WHERE id = ?`),
		f.Title, f.Description, f.Order, f.Approved, nullString(f.Approver), formatTime(now()), id,
	)
	if err != nil {
		return course.Lesson{}, fmt.Errorf("update lesson: %w", err)
	}
	if err := expectRow(res); err != nil {
		return course.Lesson{}, fmt.Errorf("update lesson %s: %w", id, err)
	}
	return r.GetLesson(ctx, id)
}

func (r *lessonRepo) BulkUpsertLessons(ctx context.Context, courseID string, lessons []course.Lesson) ([]course.Lesson, error) {
	out := make([]course.Lesson, len(lessons))
	err := r.s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := r.s.exists(ctx, tx, "courses", courseID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("course %s: %w", courseID, ErrNotFound)
		}

		for i, l := range lessons {
			l.CourseID = courseID
			if l.ID != "" {
				res, err := tx.ExecContext(ctx, r.s.rebind(
					`UPDATE lessons SET title = ?, description = ?, lesson_order = ?, approved = ?, approver = ?, updated_at = ?
					 WHERE id = ? AND course_id = ?`),
					l.Title, l.Description, l.Order, l.Approved, nullString(l.Approver), formatTime(now()),
					l.ID, courseID,
				)
				if err != nil {
					return fmt.Errorf("lesson %d: %w", i, err)
				}
				if n, err := res.RowsAffected(); err != nil {
					return fmt.Errorf("lesson %d: %w", i, err)
				} else if n > 0 {
					l.UpdatedAt = now()
					out[i] = l
					continue
				}
			}
			created, err := r.insert(ctx, tx, l)
			if err != nil {
				return fmt.Errorf("lesson %d: %w", i, err)
			}
			out[i] = created
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk upsert lessons: %w", err)
	}
	return out, nil
}

func scanLesson(sc rowScanner) (course.Lesson, error) {
	var (
		l                course.Lesson
		approver         sql.NullString
		created, updated string
	)
	if err := sc.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.Order, &l.Approved, &approver, &created, &updated); err != nil {
		return course.Lesson{}, err
	}
	l.Approver = approver.String
	l.CreatedAt = parseTime(created)
	l.UpdatedAt = parseTime(updated)
	return l, nil
}
