// internal/store/sqlite.go
//
// SQLite-backed GameStore. Games are stored as JSON documents in a single
// table keyed by game id, with a version column bumped on every update.
// The version is not consulted by the per-game-mutex serialization used in
// process today, but it lets a multi-process deployment move to optimistic
// retry without a schema change.
//
// Schema lives in sql/001_init.sql and is applied by the migration runner
// at startup.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codenames-live/go-server/internal/game"
)

// sqliteStore implements GameStore on top of *sql.DB (sqlite3 driver).
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an opened database handle. The caller owns the
// handle and is responsible for migrations and Close.
func NewSQLiteStore(db *sql.DB) GameStore {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) GetGameByID(ctx context.Context, id string) (game.Game, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM games WHERE id=?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return game.Game{}, ErrNotFound
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("get game %s: %w", id, err)
	}
	var g game.Game
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		return game.Game{}, fmt.Errorf("decode game %s: %w", id, err)
	}
	return g, nil
}

func (s *sqliteStore) InsertGame(ctx context.Context, g game.Game) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO games (id, version, doc, updated_at)
        VALUES (?, 1, ?, ?)`,
		g.ID, string(doc), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", g.ID, err)
	}
	return nil
}

func (s *sqliteStore) UpdateGame(ctx context.Context, g game.Game) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	res, err := s.db.ExecContext(ctx, `
        UPDATE games SET version = version + 1, doc = ?, updated_at = ?
        WHERE id = ?`,
		string(doc), time.Now().UTC().Format(time.RFC3339), g.ID,
	)
	if err != nil {
		return fmt.Errorf("update game %s: %w", g.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game %s: %w", g.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
