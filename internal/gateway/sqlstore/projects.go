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

const projectColumns = `id, name, description, owner_id, created_at`

func scanProject(row interface{ Scan(...any) error }) (gateway.ProjectRow, error) {
	var p gateway.ProjectRow
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	return p, err
}

// ListProjectRows returns every project, newest first
func (db *DB) ListProjectRows(ctx context.Context) ([]gateway.ProjectRow, error) {
	rows, err := db.query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []gateway.ProjectRow{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProjectRow returns one project or gateway.ErrNotFound
func (db *DB) GetProjectRow(ctx context.Context, id string) (gateway.ProjectRow, error) {
	p, err := scanProject(db.queryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return gateway.ProjectRow{}, gateway.ErrNotFound
	}
	return p, err
}

// InsertProject stores a new project and returns the row as written
func (db *DB) InsertProject(ctx context.Context, in gateway.ProjectInsert) (gateway.ProjectRow, error) {
	row := gateway.ProjectRow{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     in.OwnerID,
		CreatedAt:   gateway.FormatTimestamp(db.now()),
	}

	if _, err := db.exec(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?)`,
		row.ID, row.Name, row.Description, row.OwnerID, row.CreatedAt,
	); err != nil {
		return gateway.ProjectRow{}, fmt.Errorf("insert project: %w", err)
	}

	return db.GetProjectRow(ctx, row.ID)
}

// UpdateProjectRow writes the supplied columns and returns the full row
func (db *DB) UpdateProjectRow(ctx context.Context, id string, u gateway.ProjectUpdate) (gateway.ProjectRow, error) {
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}

	if len(sets) > 0 {
		args = append(args, id)
		res, err := db.exec(ctx, `UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return gateway.ProjectRow{}, fmt.Errorf("update project: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return gateway.ProjectRow{}, gateway.ErrNotFound
		}
	}

	return db.GetProjectRow(ctx, id)
}

// DeleteProjectRow removes a project. Its tasks are left in place.
func (db *DB) DeleteProjectRow(ctx context.Context, id string) error {
	res, err := db.exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
