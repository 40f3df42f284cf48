package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/existflow/planify/internal/gateway"
	"github.com/google/uuid"
)

const taskColumns = `id, title, description, priority, due_date, assigned_user, status, project_id, created_at`

func scanTask(row interface{ Scan(...any) error }) (gateway.TaskRow, error) {
	var t gateway.TaskRow
	var due, assignee sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &due, &assignee,
		&t.Status, &t.ProjectID, &t.CreatedAt)
	t.DueDate = nullable(due)
	t.AssignedUser = nullable(assignee)
	return t, err
}

// ListTaskRows returns tasks newest first, optionally scoped to one project
func (db *DB) ListTaskRows(ctx context.Context, projectID string) ([]gateway.TaskRow, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []gateway.TaskRow{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTaskRow returns one task or gateway.ErrNotFound
func (db *DB) GetTaskRow(ctx context.Context, id string) (gateway.TaskRow, error) {
	t, err := scanTask(db.queryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return gateway.TaskRow{}, gateway.ErrNotFound
	}
	return t, err
}

// InsertTask stores a new task and returns the row as written
func (db *DB) InsertTask(ctx context.Context, in gateway.TaskInsert) (gateway.TaskRow, error) {
	id := uuid.New().String()
	created := gateway.FormatTimestamp(db.now())

	if _, err := db.exec(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Title, in.Description, in.Priority, in.DueDate, in.AssignedUser,
		in.Status, in.ProjectID, created,
	); err != nil {
		return gateway.TaskRow{}, fmt.Errorf("insert task: %w", err)
	}

	return db.GetTaskRow(ctx, id)
}

// UpdateTaskRow writes only the supplied columns and returns the full row
func (db *DB) UpdateTaskRow(ctx context.Context, id string, u gateway.TaskUpdate) (gateway.TaskRow, error) {
	var sets []string
	var args []any
	set := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	set("title", u.Title)
	set("description", u.Description)
	set("priority", u.Priority)
	set("due_date", u.DueDate)
	set("assigned_user", u.AssignedUser)
	set("status", u.Status)

	if len(sets) > 0 {
		args = append(args, id)
		res, err := db.exec(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return gateway.TaskRow{}, fmt.Errorf("update task: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return gateway.TaskRow{}, gateway.ErrNotFound
		}
	}

	return db.GetTaskRow(ctx, id)
}

// DeleteTaskRow removes a task
func (db *DB) DeleteTaskRow(ctx context.Context, id string) error {
	res, err := db.exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
