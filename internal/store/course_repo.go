package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aeriel/clai/internal/course"
)

type courseRepo struct {
	s *Store
}

const courseColumns = "id, title, description, category, approved, approver, created_at, updated_at"

func (r *courseRepo) CreateCourse(ctx context.Context, f CourseFields) (course.Course, error) {
	ts := now()
	c := course.Course{
		ID:          uuid.NewString(),
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Approved:    f.Approved,
		Approver:    f.Approver,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	_, err := r.s.db.ExecContext(ctx, r.s.rebind(
		`INSERT INTO courses (`+courseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.Title, c.Description, c.Category, c.Approved, nullString(c.Approver),
		formatTime(ts), formatTime(ts),
	)
	if err != nil {
		return course.Course{}, fmt.Errorf("create course: %w", err)
	}
	return c, nil
}

func (r *courseRepo) ListCourses(ctx context.Context) ([]course.Course, error) {
	rows, err := r.s.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC, title`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (r *courseRepo) GetCourse(ctx context.Context, id string) (course.Course, error) {
	row := r.s.db.QueryRowContext(ctx, r.s.rebind(
		`SELECT `+courseColumns+` FROM courses WHERE id = ?`), id)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return course.Course{}, fmt.Errorf("get course %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return course.Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

func (r *courseRepo) UpdateCourse(ctx context.Context, id string, f CourseFields) (course.Course, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(
		`UPDATE courses SET title = ?, description = ?, category = ?, approved = ?, approver = ?, updated_at = ?
		 WHERE id = ?`),
		f.Title, f.Description, f.Category, f.Approved, nullString(f.Approver), formatTime(now()), id,
	)
	if err != nil {
		return course.Course{}, fmt.Errorf("update course: %w", err)
	}
	if err := expectRow(res); err != nil {
		return course.Course{}, fmt.Errorf("update course %s: %w", id, err)
	}
	return r.GetCourse(ctx, id)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(sc rowScanner) (course.Course, error) {
	var (
		c                course.Course
		approver         sql.NullString
		created, updated string
	)
	if err := sc.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Approved, &approver, &created, &updated); err != nil {
		return course.Course{}, err
	}
	c.Approver = approver.String
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTime(updated)
	return c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// expectRow maps an update that touched nothing to ErrNotFound.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
