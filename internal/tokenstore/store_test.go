package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip exercises the Store contract shared by every backend.
func roundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save(ctx, "abc123"))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)

	require.NoError(t, s.Save(ctx, "def456"))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "def456", tok)

	require.NoError(t, s.Clear(ctx))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	// clearing twice is fine
	require.NoError(t, s.Clear(ctx))
}

func TestMemoryStore(t *testing.T) {
	roundTrip(t, NewMemoryStore(""))

	seeded := NewMemoryStore("seed")
	tok, _ := seeded.Load(context.Background())
	assert.Equal(t, "seed", tok)
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewFileStore(dir, "authToken")
	roundTrip(t, s)

	require.NoError(t, s.Save(context.Background(), "abc"))
	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, "authToken", filepath.Base(s.Path()))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStore(client, "authToken")
	roundTrip(t, s)

	require.NoError(t, s.Save(context.Background(), "xyz"))
	got, err := mr.Get("frontend:authToken")
	require.NoError(t, err)
	assert.Equal(t, "xyz", got)
	assert.Zero(t, mr.TTL("frontend:authToken"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisStore(client, "authToken").Load(context.Background())
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db, "authToken")
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM frontend_tokens WHERE name = \\$1").
		WithArgs("authToken").
		WillReturnError(sql.ErrNoRows)
	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	mock.ExpectExec("INSERT INTO frontend_tokens").
		WithArgs("authToken", "abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Save(ctx, "abc"))

	mock.ExpectQuery("SELECT value FROM frontend_tokens").
		WithArgs("authToken").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("abc"))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	mock.ExpectExec("DELETE FROM frontend_tokens WHERE name = \\$1").
		WithArgs("authToken").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Clear(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value").WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresStore(db, "authToken").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
