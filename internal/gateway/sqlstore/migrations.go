package sqlstore

import "fmt"

// migrate runs all database migrations. The statements are portable between
// sqlite and postgres: ids and timestamps are TEXT assigned by this package.
func (db *DB) migrate() error {
	migrations := []string{
		migrationCreateUsers,
		migrationCreateSessions,
		migrationCreateProjects,
		migrationCreateTasks,
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateUsers = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'viewer',
    created_at TEXT NOT NULL
);
`

const migrationCreateSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

const migrationCreateProjects = `
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    owner_id TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_created ON projects(created_at);
`

// tasks.project_id carries no foreign key: deleting a project does not touch
// its tasks on this side.
const migrationCreateTasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT 'Medium',
    due_date TEXT,
    assigned_user TEXT,
    status TEXT NOT NULL DEFAULT 'To Do',
    project_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at);
`

const seedLocalUser = `
INSERT INTO users (id, username, email, password_hash, role, created_at)
VALUES (?, ?, '', '', ?, ?)
ON CONFLICT (id) DO NOTHING;
`
