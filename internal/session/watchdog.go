// internal/session/watchdog.go
//
// Per-game response-timeout enforcement. A timer is armed whenever the game
// has a responseTimeoutSec configured and a turn begins or a hint lands.
// The timer carries the turn token it was armed for: the turn color plus
// hintWordStartedTime. A fire re-loads the game under the game lock and
// applies the timeout only when the token still matches, so a timer racing
// a human changeTurn can never force a change onto a newer turn.

package session

import (
	"context"
	"time"

	"github.com/codenames-live/go-server/internal/game"
	"github.com/codenames-live/go-server/internal/protocol"
)

// turnToken identifies one turn of one game. hintStartedAt is zero for the
// hint-pending phase of the turn.
type turnToken struct {
	turn          game.Team
	hintStartedAt int64
}

func tokenOf(g game.Game) turnToken {
	return turnToken{turn: g.Turn, hintStartedAt: g.HintStartedAt}
}

type turnTimer struct {
	token turnToken
	timer *time.Timer
}

// armWatchdog replaces the game's timer with one for the current turn.
// Games without a response timeout, or no longer running, get no timer.
func (s *Service) armWatchdog(g game.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[g.ID]; ok {
		t.timer.Stop()
		delete(s.timers, g.ID)
	}
	if g.State != game.StateRunning || g.Config.ResponseTimeoutSec <= 0 {
		return
	}
	tok := tokenOf(g)
	d := time.Duration(g.Config.ResponseTimeoutSec) * time.Second
	s.timers[g.ID] = &turnTimer{
		token: tok,
		timer: time.AfterFunc(d, func() {
			s.fireTimeout(context.Background(), g.ID, tok)
		}),
	}
}

// cancelWatchdog drops the game's timer, if any.
func (s *Service) cancelWatchdog(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[gameID]; ok {
		t.timer.Stop()
		delete(s.timers, gameID)
	}
}

// fireTimeout runs when an armed timer expires. Stale fires (the turn moved
// on, the game ended or vanished) are dropped silently.
func (s *Service) fireTimeout(ctx context.Context, gameID string, tok turnToken) {
	defer s.lockGame(gameID)()
	g, err := s.games.GetGameByID(ctx, gameID)
	if err != nil {
		s.cancelWatchdog(gameID)
		return
	}
	if g.State != game.StateRunning || tokenOf(g) != tok {
		return
	}
	s.applyTimeout(ctx, g)
}

// CheckTurnTimeout handles a client-initiated timeout probe: the timeout is
// applied only when the configured window has really elapsed for the
// currently active hint. Probes that are early, or arrive with no hint in
// play, are ignored.
func (s *Service) CheckTurnTimeout(ctx context.Context, connID, gameID, userID string) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	if g.State != game.StateRunning || g.Config.ResponseTimeoutSec <= 0 || !g.HintActive() {
		return nil
	}
	deadline := g.HintStartedAt + int64(g.Config.ResponseTimeoutSec)*1000
	if s.now().UnixMilli() < deadline {
		return nil
	}
	s.applyTimeout(ctx, g)
	return nil
}

// applyTimeout performs the turn change, persists, notifies the room and
// re-arms for the next turn. Callers hold the game lock.
func (s *Service) applyTimeout(ctx context.Context, g game.Game) {
	next := game.TurnTimeout(g)
	if err := s.games.UpdateGame(ctx, next); err != nil {
		s.logger.Error().Err(err).Str("gameId", g.ID).Msg("persist turn timeout")
		return
	}
	s.logger.Info().Str("gameId", g.ID).Str("turn", string(next.Turn)).Msg("turn timed out")
	s.bc.BroadcastToRoom(g.ID, protocol.Message{
		Type: protocol.TypeTurnTimeout,
		Data: protocol.TurnTimeout{Game: next},
	})
	s.armWatchdog(next)
}
