package pgstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/storage"
)

type mockDB struct {
	mock.Mock
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	called := m.Called(sql, args)
	return called.Get(0).(pgx.Row)
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	called := m.Called(sql, args)
	return pgconn.NewCommandTag(called.String(0)), called.Error(1)
}

type row struct {
	value []byte
	err   error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.value
	return nil
}

func TestGet(t *testing.T) {
	db := new(mockDB)
	s := newStore(db)

	db.On("QueryRow", "SELECT value FROM kv_store WHERE key = $1", []any{"dashboard_stats"}).
		Return(row{value: []byte(`{"activeUsers":1400}`)}).Once()

	got, err := s.Get(context.Background(), "dashboard_stats")
	require.NoError(t, err)
	assert.Equal(t, `{"activeUsers":1400}`, string(got))
	db.AssertExpectations(t)
}

func TestGetMissing(t *testing.T) {
	db := new(mockDB)
	s := newStore(db)

	db.On("QueryRow", mock.Anything, mock.Anything).Return(row{err: pgx.ErrNoRows}).Once()
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	db.On("QueryRow", mock.Anything, mock.Anything).Return(row{err: errors.New("conn reset")}).Once()
	_, err = s.Get(context.Background(), "nope")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestSetUpserts(t *testing.T) {
	db := new(mockDB)
	s := newStore(db)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	expected := "INSERT INTO kv_store (key,value,updated_at) VALUES ($1,$2,$3) " +
		"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at"
	db.On("Exec", expected, []any{"dashboard_stats", []byte("{}"), at}).Return("INSERT 0 1", nil).Once()

	require.NoError(t, s.Set(context.Background(), "dashboard_stats", []byte("{}")))
	db.AssertExpectations(t)
}

func TestSetWrapsErrors(t *testing.T) {
	db := new(mockDB)
	s := newStore(db)

	db.On("Exec", mock.Anything, mock.Anything).Return("", errors.New("read-only")).Once()
	err := s.Set(context.Background(), "k", []byte("v"))
	assert.ErrorContains(t, err, "failed to set k")
}

func TestMigrate(t *testing.T) {
	db := new(mockDB)
	s := newStore(db)

	db.On("Exec", createTable, []any(nil)).Return("CREATE TABLE", nil).Once()
	require.NoError(t, s.Migrate(context.Background()))
	db.AssertExpectations(t)
}

// Runs against a live database when ROGUE_RUNNER_TEST_POSTGRES is set.
func TestPostgresIntegration(t *testing.T) {
	dsn := os.Getenv("ROGUE_RUNNER_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("ROGUE_RUNNER_TEST_POSTGRES not set")
	}

	ctx := context.Background()
	s, err := Connect(ctx, dsn, 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "integration_key", []byte("one")))
	require.NoError(t, s.Set(ctx, "integration_key", []byte("two")))
	got, err := s.Get(ctx, "integration_key")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}
