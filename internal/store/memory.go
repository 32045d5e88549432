// internal/store/memory.go
//
// In-memory implementation of GameStore. This is a lightweight persistence
// layer for ephemeral sessions and tests; state is lost when the process
// restarts.
//
// Characteristics:
//   - Stores game values keyed by id in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are cloned on the way in and out, so callers never share state
//     with the store.

package store

import (
	"context"
	"sync"

	"github.com/codenames-live/go-server/internal/game"
)

// memory is an in-memory map-based GameStore implementation.
type memory struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

// NewMemoryStore constructs a new in-memory GameStore.
func NewMemoryStore() GameStore {
	return &memory{games: make(map[string]game.Game)}
}

func (m *memory) GetGameByID(ctx context.Context, id string) (game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return game.Game{}, ErrNotFound
	}
	return g.Clone(), nil
}

func (m *memory) InsertGame(ctx context.Context, g game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g.Clone()
	return nil
}

func (m *memory) UpdateGame(ctx context.Context, g game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[g.ID]; !ok {
		return ErrNotFound
	}
	m.games[g.ID] = g.Clone()
	return nil
}
