// internal/store/store.go
//
// Persistence interfaces consumed by the session layer. Implementations may
// be backed by memory (memory.go), SQLite (sqlite.go), or anything else
// providing load/insert/update by game id.

package store

import (
	"context"
	"errors"

	"github.com/codenames-live/go-server/internal/game"
)

// ErrNotFound is returned for unknown game ids and unknown languages.
var ErrNotFound = errors.New("not found")

// GameStore persists game entities keyed by game id.
// Implementations must return defensive copies: a Game handed out is never
// mutated by a later Update.
type GameStore interface {
	// GetGameByID retrieves a game. Returns ErrNotFound if absent.
	GetGameByID(ctx context.Context, id string) (game.Game, error)

	// InsertGame stores a new game.
	InsertGame(ctx context.Context, g game.Game) error

	// UpdateGame replaces the stored game. Returns ErrNotFound if the id
	// was never inserted.
	UpdateGame(ctx context.Context, g game.Game) error
}

// WordStore supplies board word pools per language.
type WordStore interface {
	// GetWordsByLanguage returns the word list for a language.
	// Returns ErrNotFound for unknown languages.
	GetWordsByLanguage(ctx context.Context, language string) ([]string, error)
}
