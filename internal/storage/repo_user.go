package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/amanthanvi/userdb/internal/user"
)

type userRepository struct {
	db   *sql.DB
	kind Kind
}

// NewUserRepository writes to a store that Initialize has already prepared.
// It does not validate records; the bio CHECK constraint still applies.
func NewUserRepository(db *sql.DB, kind Kind) UserRepository {
	return &userRepository{db: db, kind: kind}
}

func (r *userRepository) Create(ctx context.Context, rec *user.Record) error {
	if rec == nil {
		return fmt.Errorf("create user: record is nil")
	}

	columns := []string{user.FieldName, user.FieldEmail, user.FieldBio, user.FieldAvatarURL}
	args := []any{rec.Name, rec.Email, nullString(rec.Bio), nullString(rec.AvatarURL)}
	// Empty timestamps fall through to the column default.
	if rec.CreatedAt != "" {
		columns = append(columns, user.FieldCreatedAt)
		args = append(args, rec.CreatedAt)
	}
	if rec.UpdatedAt != "" {
		columns = append(columns, user.FieldUpdatedAt)
		args = append(args, rec.UpdatedAt)
	}

	query := `INSERT INTO users(` + strings.Join(columns, ", ") + `) VALUES(` + r.placeholders(len(columns)) + `)
		RETURNING id, created_at, updated_at`

	var (
		id      int64
		created string
		updated string
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id, &created, &updated); err != nil {
		if IsConstraintViolation(err) {
			return fmt.Errorf("create user: %w: %w", ErrConstraintViolation, err)
		}
		return fmt.Errorf("create user: %w", err)
	}

	rec.ID = &id
	rec.CreatedAt = created
	rec.UpdatedAt = updated
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*user.Record, error) {
	var (
		rec       user.Record
		storedID  int64
		bio       sql.NullString
		avatarURL sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, bio, avatar_url, created_at, updated_at
		FROM users
		WHERE id = `+r.placeholders(1), id).
		Scan(&storedID, &rec.Name, &rec.Email, &bio, &avatarURL, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	rec.ID = &storedID
	rec.Bio = stringPtr(bio)
	rec.AvatarURL = stringPtr(avatarURL)
	return &rec, nil
}

func (r *userRepository) placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		if r.kind == KindPostgres {
			marks[i] = "$" + strconv.Itoa(i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
