package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"
)

const sessionsTableName = "sessions"

// Session is a row of the sessions table. Times are unix milliseconds.
type Session struct {
	ID        string `db:"id"`
	Token     string `db:"token"`
	UserJSON  string `db:"user_json"`
	ExpiresAt int64  `db:"expires_at"`
	UpdatedAt int64  `db:"updated_at"`
}

// ISessionTable defines the session storage operations.
type ISessionTable interface {
	Find(ctx context.Context, id string) (*Session, error)
	Replace(ctx context.Context, row *Session) error
	Delete(ctx context.Context, id string) error
}

// SessionsTable provides access to the sessions table.
type SessionsTable struct {
	db bob.DB
}

// Ensure SessionsTable implements ISessionTable at compile time.
var _ ISessionTable = (*SessionsTable)(nil)

// NewSessionsTable creates a SessionsTable for the given database.
func NewSessionsTable(db *sql.DB) *SessionsTable {
	return &SessionsTable{db: bob.NewDB(db)}
}

// Find returns the row with the given id, or nil when there is none.
func (t *SessionsTable) Find(ctx context.Context, id string) (*Session, error) {
	query := sqlite.Select(
		sm.Columns("id", "token", "user_json", "expires_at", "updated_at"),
		sm.From(sessionsTableName),
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	row, err := bob.One(ctx, t.db, query, scan.StructMapper[Session]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Replace writes row, overwriting any existing row with the same id.
func (t *SessionsTable) Replace(ctx context.Context, row *Session) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	deleteQuery := sqlite.Delete(
		dm.From(sessionsTableName),
		dm.Where(sqlite.Quote("id").EQ(sqlite.Arg(row.ID))),
	)
	if _, err := bob.Exec(ctx, tx, deleteQuery); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	insertQuery := sqlite.Insert(
		im.Into(sessionsTableName, "id", "token", "user_json", "expires_at", "updated_at"),
		im.Values(sqlite.Arg(row.ID, row.Token, row.UserJSON, row.ExpiresAt, row.UpdatedAt)),
	)
	if _, err := bob.Exec(ctx, tx, insertQuery); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the row with the given id. Deleting a missing row is not an error.
func (t *SessionsTable) Delete(ctx context.Context, id string) error {
	query := sqlite.Delete(
		dm.From(sessionsTableName),
		dm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	_, err := bob.Exec(ctx, t.db, query)
	return err
}
