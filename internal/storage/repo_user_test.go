package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amanthanvi/userdb/internal/user"
	"github.com/stretchr/testify/require"
)

var repoClock = user.ClockFunc(func() time.Time {
	return time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
})

func TestUserRepositoryCreateAssignsID(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(initMemory(t), KindMemory)
	ctx := context.Background()

	bio := "Developer"
	rec := user.NewWithClock(user.Options{Name: "John Doe", Email: "john@example.com", Bio: &bio}, repoClock)
	require.NoError(t, repo.Create(ctx, rec))
	require.NotNil(t, rec.ID)

	loaded, err := repo.Get(ctx, *rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.ToPlainRecord(), loaded.ToPlainRecord())
	require.Equal(t, "2026-01-02T03:04:05.000Z", loaded.CreatedAt)
}

func TestUserRepositoryCreateSequentialIDs(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(initMemory(t), KindMemory)
	ctx := context.Background()

	a := user.NewWithClock(user.Options{Name: "a", Email: "a@b.c"}, repoClock)
	b := user.NewWithClock(user.Options{Name: "b", Email: "b@b.c"}, repoClock)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	require.Less(t, *a.ID, *b.ID)
}

func TestUserRepositoryCreateUsesColumnDefaultsForMissingTimestamps(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(initMemory(t), KindMemory)
	rec := &user.Record{Name: "raw", Email: "raw@example.com"}
	require.NoError(t, repo.Create(context.Background(), rec))

	_, err := time.Parse(user.TimestampLayout, rec.CreatedAt)
	require.NoError(t, err)
	_, err = time.Parse(user.TimestampLayout, rec.UpdatedAt)
	require.NoError(t, err)
}

func TestUserRepositoryCreateOverLengthBioIsConstraintViolation(t *testing.T) {
	t.Parallel()

	db := initMemory(t)
	repo := NewUserRepository(db, KindMemory)

	bio := strings.Repeat("a", 501)
	rec := user.NewWithClock(user.Options{Name: "John Doe", Email: "john@example.com", Bio: &bio}, repoClock)
	require.False(t, rec.Validate().IsValid)

	err := repo.Create(context.Background(), rec)
	require.ErrorIs(t, err, ErrConstraintViolation)
	require.True(t, IsConstraintViolation(err))
	require.Nil(t, rec.ID)
	require.Equal(t, 0, countUsers(t, db))
}

func TestUserRepositoryCreateNilRecord(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(initMemory(t), KindMemory)
	require.Error(t, repo.Create(context.Background(), nil))
}

func TestUserRepositoryGetNotFound(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(initMemory(t), KindMemory)
	_, err := repo.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryOnDurableStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	target := Target{Kind: KindFile, Location: filepath.Join(t.TempDir(), "users.db")}
	_, err := Initialize(ctx, target, nil)
	require.NoError(t, err)

	db, err := Open(ctx, target)
	require.NoError(t, err)
	defer closeNoErr(t, db)

	repo := NewUserRepository(db, target.Kind)
	avatar := "https://example.com/a.png"
	rec := user.NewWithClock(user.Options{Name: "Jane", Email: "jane@example.com", AvatarURL: &avatar}, repoClock)
	require.NoError(t, repo.Create(ctx, rec))

	loaded, err := repo.Get(ctx, *rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.AvatarURL)
	require.Equal(t, avatar, *loaded.AvatarURL)
	require.Nil(t, loaded.Bio)
}

func TestPostgresInitializeAndConstraint(t *testing.T) {
	dsn := os.Getenv("USERDB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("USERDB_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	target, err := ParseTarget(dsn)
	require.NoError(t, err)
	require.Equal(t, KindPostgres, target.Kind)

	res, err := Initialize(ctx, target, nil)
	require.NoError(t, err)
	require.Nil(t, res.DB)

	db, err := Open(ctx, target)
	require.NoError(t, err)
	t.Cleanup(func() { closeNoErr(t, db) })

	columns, err := TableColumns(ctx, db, KindPostgres, UsersTable)
	require.NoError(t, err)
	require.Equal(t, UserColumns, columns)

	repo := NewUserRepository(db, KindPostgres)
	ok := strings.Repeat("a", 500)
	rec := user.NewWithClock(user.Options{Name: "pg", Email: "pg@example.com", Bio: &ok}, repoClock)
	require.NoError(t, repo.Create(ctx, rec))
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM users WHERE id = $1`, *rec.ID) })

	tooLong := ok + "a"
	bad := user.NewWithClock(user.Options{Name: "pg", Email: "pg@example.com", Bio: &tooLong}, repoClock)
	require.ErrorIs(t, repo.Create(ctx, bad), ErrConstraintViolation)
}
