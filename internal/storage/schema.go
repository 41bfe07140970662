package storage

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strconv"

	"github.com/amanthanvi/userdb/internal/user"
)

const (
	UsersTable        = "users"
	bioConstraintName = "users_bio_length"
)

// UserColumns is the exact column set of the users table, in order.
var UserColumns = []string{
	user.FieldID,
	user.FieldName,
	user.FieldEmail,
	user.FieldBio,
	user.FieldAvatarURL,
	user.FieldCreatedAt,
	user.FieldUpdatedAt,
}

var maxBio = strconv.Itoa(user.MaxBioLength)

// SQLite length() stops at the first NUL, so a bio holding one could pass the
// length check with any number of characters after it. PostgreSQL text cannot
// hold NUL at all.
const sqliteNoNUL = `instr(CAST(bio AS BLOB), x'00') = 0`

const sqliteNow = `(strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))`

var sqliteUsersDDL = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	bio TEXT CONSTRAINT ` + bioConstraintName + ` CHECK (bio IS NULL OR (length(bio) <= ` + maxBio + ` AND ` + sqliteNoNUL + `)),
	avatar_url TEXT,
	created_at TEXT NOT NULL DEFAULT ` + sqliteNow + `,
	updated_at TEXT NOT NULL DEFAULT ` + sqliteNow + `
)`

const postgresNow = `to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.MS"Z"')`

var postgresUsersDDL = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	bio TEXT CONSTRAINT ` + bioConstraintName + ` CHECK (bio IS NULL OR char_length(bio) <= ` + maxBio + `),
	avatar_url TEXT,
	created_at TEXT NOT NULL DEFAULT ` + postgresNow + `,
	updated_at TEXT NOT NULL DEFAULT ` + postgresNow + `
)`

// SchemaStatements returns the DDL batch for the dialect of kind.
func SchemaStatements(kind Kind) []string {
	if kind == KindPostgres {
		return []string{postgresUsersDDL}
	}
	return []string{sqliteUsersDDL}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ApplySchema runs statements in a single transaction and then checks that the
// users table has exactly UserColumns. Nothing is committed on failure.
func ApplySchema(ctx context.Context, db *sql.DB, kind Kind, statements []string) error {
	if db == nil {
		return fmt.Errorf("%w: db is nil", ErrSchemaApply)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrSchemaApply, err)
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: %w", ErrSchemaApply, err)
		}
	}

	columns, err := tableColumns(ctx, tx, kind, UsersTable)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %w", ErrSchemaApply, err)
	}
	if !slices.Equal(columns, UserColumns) {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s columns %v, want %v", ErrSchemaApply, UsersTable, columns, UserColumns)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrSchemaApply, err)
	}
	return nil
}

// TableColumns lists the columns of table in declaration order. A missing
// table yields an empty list.
func TableColumns(ctx context.Context, db *sql.DB, kind Kind, table string) ([]string, error) {
	return tableColumns(ctx, db, kind, table)
}

func tableColumns(ctx context.Context, q queryer, kind Kind, table string) ([]string, error) {
	if kind == KindPostgres {
		return postgresColumns(ctx, q, table)
	}
	return sqliteColumns(ctx, q, table)
}

func sqliteColumns(ctx context.Context, q queryer, table string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `PRAGMA table_info(`+table+`)`)
	if err != nil {
		return nil, fmt.Errorf("query table info %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns := []string{}
	for rows.Next() {
		var (
			cid     int
			name    string
			typeStr string
			notNull int
			dfltVal sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typeStr, &notNull, &dfltVal, &pk); err != nil {
			return nil, fmt.Errorf("scan table info %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info %s: %w", table, err)
	}
	return columns, nil
}

func postgresColumns(ctx context.Context, q queryer, table string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("query columns %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan columns %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns %s: %w", table, err)
	}
	return columns, nil
}
