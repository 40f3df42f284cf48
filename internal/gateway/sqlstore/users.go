package sqlstore

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/model"
	"github.com/google/uuid"
)

// LocalUserID is the single identity of a local, serverless workspace
const LocalUserID = "local"

// ErrDuplicateUser is returned when the username is taken
var ErrDuplicateUser = errors.New("username already exists")

const userColumns = `id, username, email, password_hash, role, created_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &created); err != nil {
		return model.User{}, err
	}
	t, err := gateway.ParseTimestamp(created)
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}

// EnsureLocalUser seeds the local workspace identity with the given role
func (db *DB) EnsureLocalUser(ctx context.Context, role string) error {
	_, err := db.exec(ctx, seedLocalUser, LocalUserID, LocalUserID, role, gateway.FormatTimestamp(db.now()))
	return err
}

// CreateUser inserts an account
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash, role string) (model.User, error) {
	return db.RegisterUser(ctx, username, email, passwordHash, role, role)
}

// RegisterUser inserts an account that gets firstRole when the users table is
// empty and role otherwise. The emptiness check and the insert run in one
// transaction holding the users table, so only one registration can be first.
func (db *DB) RegisterUser(ctx context.Context, username, email, passwordHash, firstRole, role string) (model.User, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("begin register: %w", err)
	}
	defer tx.Rollback()

	if db.driver == DriverPostgres {
		if _, err := tx.ExecContext(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return model.User{}, fmt.Errorf("lock users: %w", err)
		}
	}

	var taken int
	if err := tx.QueryRowContext(ctx, db.rebind(`SELECT COUNT(*) FROM users WHERE username = ?`), username).Scan(&taken); err != nil {
		return model.User{}, fmt.Errorf("check username: %w", err)
	}
	if taken > 0 {
		return model.User{}, ErrDuplicateUser
	}

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, db.rebind(
		`INSERT INTO users (`+userColumns+`)
		 SELECT ?, ?, ?, ?, CASE WHEN EXISTS (SELECT 1 FROM users) THEN ? ELSE ? END, ?`),
		id, username, email, passwordHash, role, firstRole, gateway.FormatTimestamp(db.now()),
	); err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, fmt.Errorf("commit register: %w", err)
	}
	return db.GetUser(ctx, id)
}

// GetUser returns an account by id or gateway.ErrNotFound
func (db *DB) GetUser(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, gateway.ErrNotFound
	}
	return u, err
}

// GetUserByUsername returns an account by username or gateway.ErrNotFound
func (db *DB) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, gateway.ErrNotFound
	}
	return u, err
}

// SetUserRole changes an account's role
func (db *DB) SetUserRole(ctx context.Context, id, role string) error {
	res, err := db.exec(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// CreateSession issues a random bearer token valid for ttl
func (db *DB) CreateSession(ctx context.Context, userID string, ttl time.Duration) (model.Session, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return model.Session{}, err
	}

	now := db.now()
	s := model.Session{
		Token:     hex.EncodeToString(tokenBytes),
		UserID:    userID,
		ExpiresAt: now.Add(ttl).UTC(),
		CreatedAt: now.UTC(),
	}

	_, err := db.exec(ctx,
		`INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		s.Token, s.UserID, gateway.FormatTimestamp(s.ExpiresAt), gateway.FormatTimestamp(s.CreatedAt),
	)
	return s, err
}

// GetSession looks up a token or returns gateway.ErrNotFound
func (db *DB) GetSession(ctx context.Context, token string) (model.Session, error) {
	var s model.Session
	var expires, created string
	err := db.queryRow(ctx,
		`SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`, token,
	).Scan(&s.Token, &s.UserID, &expires, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, gateway.ErrNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	if s.ExpiresAt, err = gateway.ParseTimestamp(expires); err != nil {
		return model.Session{}, err
	}
	if s.CreatedAt, err = gateway.ParseTimestamp(created); err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// DeleteSession revokes a token
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.exec(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// Now returns the store clock's current time
func (db *DB) Now() time.Time {
	return db.now()
}
