package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenames-live/go-server/internal/game"
)

func sampleGame(id string) game.Game {
	g := game.New(id, "alice", time.UnixMilli(1700000000000))
	g = game.AddPlayer(g, "bob")
	g = game.JoinTeam(g, "alice", game.TeamRed)
	return g
}

// storeUnderTest runs the same contract against every GameStore
// implementation.
func storeUnderTest(t *testing.T, s GameStore) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.GetGameByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("insert and get", func(t *testing.T) {
		g := sampleGame("g1")
		require.NoError(t, s.InsertGame(ctx, g))

		got, err := s.GetGameByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, g, got)
	})

	t.Run("update", func(t *testing.T) {
		g, err := s.GetGameByID(ctx, "g1")
		require.NoError(t, err)
		g = game.JoinTeam(g, "bob", game.TeamBlue)
		require.NoError(t, s.UpdateGame(ctx, g))

		got, err := s.GetGameByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, game.TeamBlue, got.TeamOf("bob"))
	})

	t.Run("update missing", func(t *testing.T) {
		err := s.UpdateGame(ctx, sampleGame("never-inserted"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	g := sampleGame("g1")
	require.NoError(t, s.InsertGame(ctx, g))

	// mutating what the caller holds must not leak into the store
	g.Players[0].Team = game.TeamBlue
	got, err := s.GetGameByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, game.TeamRed, got.TeamOf("alice"))

	// and mutating what the store handed out must not leak back
	got.Players[0].Team = game.TeamBlue
	again, err := s.GetGameByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, game.TeamRed, again.TeamOf("alice"))
}

func TestSQLiteStore(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE games (
        id TEXT PRIMARY KEY,
        version INTEGER NOT NULL DEFAULT 1,
        doc TEXT NOT NULL,
        updated_at TEXT NOT NULL
    )`)
	require.NoError(t, err)

	s := NewSQLiteStore(db)
	storeUnderTest(t, s)

	t.Run("version bumps on update", func(t *testing.T) {
		ctx := context.Background()
		g, err := s.GetGameByID(ctx, "g1")
		require.NoError(t, err)
		require.NoError(t, s.UpdateGame(ctx, g))

		var version int
		require.NoError(t, db.QueryRow(`SELECT version FROM games WHERE id='g1'`).Scan(&version))
		assert.Greater(t, version, 1)
	})
}
