package comments

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openPostgresTx returns a store bound to a transaction that is rolled back
// when the test ends. Tests are skipped unless POSTGRES_HOST is set.
func openPostgresTx(t *testing.T) *GormStore {
	t.Helper()
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set")
	}

	store, err := OpenPostgres(PostgresConfig{
		Host:     os.Getenv("POSTGRES_HOST"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Database: os.Getenv("POSTGRES_DATABASE"),
		Port:     os.Getenv("POSTGRES_PORT"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Ping(context.Background()))

	tx := store.DB.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })
	require.NoError(t, tx.Exec("DELETE FROM gallery_comments").Error)
	return &GormStore{DB: tx}
}

func TestGormStore(t *testing.T) {
	ctx := context.Background()
	s := openPostgresTx(t)

	list, err := s.List(ctx, "O1")
	require.NoError(t, err)
	assert.Empty(t, list)

	id1, err := s.Add(ctx, "O1", "Ada", "first")
	require.NoError(t, err)
	id2, err := s.Add(ctx, "O1", "Grace", "second")
	require.NoError(t, err)
	_, err = s.Add(ctx, "O2", "Ada", "elsewhere")
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	list, err = s.List(ctx, "O1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ada", list[0].Name)
	assert.Equal(t, "second", list[1].Comment)
	assert.False(t, list[0].CreatedAt.IsZero())
}

func TestGormStoreStats(t *testing.T) {
	ctx := context.Background()
	s := openPostgresTx(t)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Comments)
	assert.NotNil(t, stats.Top)
	assert.Empty(t, stats.Top)

	for _, oid := range []string{"O2", "O1", "O2", "O3", "O2", "O1"} {
		_, err := s.Add(ctx, oid, "Ada", "note")
		require.NoError(t, err)
	}

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Comments)
	assert.Equal(t, 3, stats.Objects)
	assert.Equal(t, []ObjectCount{{"O2", 3}, {"O1", 2}, {"O3", 1}}, stats.Top)
}
