// internal/session/service.go
//
// The per-request use case layer. Every player-initiated request follows the
// same sequence: lock the game id → load the entity → run the matching rule
// guard → apply the pure action → persist → notify the room (or the
// requester alone on failure). Persistence success is a precondition for
// any broadcast; a failed save emits nothing.
//
// Mutations on one game are serialized by a keyed mutex, so concurrent
// requests can never interleave their read-modify-write cycles. Requests
// for different games run in parallel.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codenames-live/go-server/internal/game"
	"github.com/codenames-live/go-server/internal/protocol"
	"github.com/codenames-live/go-server/internal/rules"
	"github.com/codenames-live/go-server/internal/store"
)

// Error messages carried in gameError frames beside rule violations.
const (
	msgGameNotFound    = "gameNotFound"
	msgUnknownLanguage = "unknownLanguage"
	msgNotEnoughWords  = "notEnoughWords"
	msgBadRequest      = "badRequest"
	msgInternal        = "internalError"
)

// Broadcaster delivers protocol messages to connections. Implemented by the
// hub; faked in tests.
type Broadcaster interface {
	Emit(connID string, msg protocol.Message)
	BroadcastToRoom(roomID string, msg protocol.Message)
}

// Registry maintains connection↔user↔room links. Implemented by the hub.
type Registry interface {
	BindUser(connID, userID string)
	JoinRoom(connID, roomID string)
}

// Config wires the service's collaborators.
type Config struct {
	Games       store.GameStore
	Words       store.WordStore
	Broadcaster Broadcaster
	Registry    Registry
	Logger      zerolog.Logger

	BoardWidth  int
	BoardHeight int

	// Now and NewID default to the wall clock and random UUIDs; tests
	// override them.
	Now   func() time.Time
	NewID func() string
}

// Service orchestrates all game mutations.
type Service struct {
	games  store.GameStore
	words  store.WordStore
	bc     Broadcaster
	reg    Registry
	logger zerolog.Logger

	boardWidth  int
	boardHeight int
	now         func() time.Time
	newID       func() string

	mu     sync.Mutex
	locks  map[string]*gameLock
	timers map[string]*turnTimer
}

// New constructs the service. Board defaults to 5×5 when unset.
func New(c Config) *Service {
	s := &Service{
		games:       c.Games,
		words:       c.Words,
		bc:          c.Broadcaster,
		reg:         c.Registry,
		logger:      c.Logger,
		boardWidth:  c.BoardWidth,
		boardHeight: c.BoardHeight,
		now:         c.Now,
		newID:       c.NewID,
		locks:       make(map[string]*gameLock),
		timers:      make(map[string]*turnTimer),
	}
	if s.boardWidth <= 0 {
		s.boardWidth = 5
	}
	if s.boardHeight <= 0 {
		s.boardHeight = 5
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// gameLock is a reference-counted per-game mutex; the entry leaves the map
// when the last holder releases it, so the map stays bounded by the number
// of in-flight operations rather than by every game id ever seen.
type gameLock struct {
	mu   sync.Mutex
	refs int
}

// lockGame serializes access to one game id. The returned func releases the
// lock.
func (s *Service) lockGame(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &gameLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// fail reports a request failure to the requesting connection only.
func (s *Service) fail(connID, message string) {
	if connID == "" {
		return
	}
	s.bc.Emit(connID, protocol.Message{
		Type: protocol.TypeGameError,
		Data: protocol.GameError{Message: message},
	})
}

// reject reports a rule violation to the requesting connection only.
func (s *Service) reject(connID, gameID string, v rules.Violation) {
	s.logger.Debug().Str("gameId", gameID).Str("violation", v.String()).Msg("request rejected")
	s.fail(connID, v.String())
}

// loadGame fetches the entity, emitting gameNotFound on an unknown id.
func (s *Service) loadGame(ctx context.Context, connID, gameID string) (game.Game, error) {
	g, err := s.games.GetGameByID(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(connID, msgGameNotFound)
		return game.Game{}, err
	}
	if err != nil {
		s.fail(connID, msgInternal)
		return game.Game{}, fmt.Errorf("load game %s: %w", gameID, err)
	}
	return g, nil
}

// persist updates the stored entity; nothing is broadcast when it fails.
func (s *Service) persist(ctx context.Context, connID string, g game.Game) error {
	if err := s.games.UpdateGame(ctx, g); err != nil {
		s.logger.Error().Err(err).Str("gameId", g.ID).Msg("persist game")
		s.fail(connID, msgInternal)
		return fmt.Errorf("persist game %s: %w", g.ID, err)
	}
	return nil
}

// CreateGame starts a brand-new Idle session owned by userID. There are no
// preconditions. The acknowledgement is unicast to the creating connection,
// which also joins the game's room.
func (s *Service) CreateGame(ctx context.Context, connID, userID string) (game.Game, error) {
	g := game.New(s.newID(), userID, s.now())
	if err := s.games.InsertGame(ctx, g); err != nil {
		s.fail(connID, msgInternal)
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}
	s.logger.Info().Str("gameId", g.ID).Str("userId", userID).Msg("game created")
	if connID != "" {
		s.reg.JoinRoom(connID, g.ID)
		s.bc.Emit(connID, protocol.Message{
			Type: protocol.TypeGameCreated,
			Data: protocol.GameCreated{Game: g},
		})
	}
	return g, nil
}

// JoinGame adds userID to the game (idempotently) and announces it to the
// room. There is no rule guard for joining.
func (s *Service) JoinGame(ctx context.Context, connID, gameID, userID string) (game.Game, error) {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return game.Game{}, err
	}
	next := game.AddPlayer(g, userID)
	if err := s.persist(ctx, connID, next); err != nil {
		return game.Game{}, err
	}
	if connID != "" {
		s.reg.JoinRoom(connID, gameID)
	}
	s.bc.BroadcastToRoom(gameID, protocol.Message{
		Type: protocol.TypeJoinedGame,
		Data: protocol.JoinedGame{Game: next, UserID: userID},
	})
	return next, nil
}

// JoinTeam puts the player on a team.
func (s *Service) JoinTeam(ctx context.Context, connID, gameID, userID string, team game.Team) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	if v := rules.CanJoinTeam(g); v != rules.OK {
		s.reject(connID, gameID, v)
		return nil
	}
	next := game.JoinTeam(g, userID, team)
	if err := s.persist(ctx, connID, next); err != nil {
		return err
	}
	s.broadcastUpdate(next)
	return nil
}

// SetSpyMaster assigns the team's spymaster slot.
func (s *Service) SetSpyMaster(ctx context.Context, connID, gameID, userID string, team game.Team) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	if v := rules.CanSetSpyMaster(team)(g); v != rules.OK {
		s.reject(connID, gameID, v)
		return nil
	}
	next := game.SetSpyMaster(g, userID, team)
	if err := s.persist(ctx, connID, next); err != nil {
		return err
	}
	s.broadcastUpdate(next)
	return nil
}

// RandomizeTeams reshuffles the roster onto balanced teams.
func (s *Service) RandomizeTeams(ctx context.Context, connID, gameID string) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	if v := rules.CanRandomizeTeams(g); v != rules.OK {
		s.reject(connID, gameID, v)
		return nil
	}
	next := game.RandomizeTeams(g)
	if err := s.persist(ctx, connID, next); err != nil {
		return err
	}
	s.broadcastUpdate(next)
	return nil
}

// StartGame builds the board for the configured language and moves the game
// to Running.
func (s *Service) StartGame(ctx context.Context, connID, gameID, userID string, cfg game.Config) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	if v := rules.CanStartGame(cfg)(g); v != rules.OK {
		s.reject(connID, gameID, v)
		return nil
	}
	pool, err := s.words.GetWordsByLanguage(ctx, cfg.Language)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(connID, msgUnknownLanguage)
		return err
	}
	if err != nil {
		s.fail(connID, msgInternal)
		return fmt.Errorf("load words %q: %w", cfg.Language, err)
	}
	board, err := game.BuildBoard(s.boardWidth, s.boardHeight, pool)
	if err != nil {
		s.fail(connID, msgNotEnoughWords)
		return fmt.Errorf("build board: %w", err)
	}
	next := game.Start(g, cfg, s.now(), board)
	if err := s.persist(ctx, connID, next); err != nil {
		return err
	}
	s.logger.Info().Str("gameId", gameID).Str("language", cfg.Language).Msg("game started")
	s.bc.BroadcastToRoom(gameID, protocol.Message{
		Type: protocol.TypeGameStarted,
		Data: protocol.GameStarted{Game: next},
	})
	s.armWatchdog(next)
	return nil
}

// SendHint records the spymaster's hint for the current turn.
func (s *Service) SendHint(ctx context.Context, connID, gameID, userID, word string, count int) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	if v := rules.CanSendHint(userID)(g); v != rules.OK {
		s.reject(connID, gameID, v)
		return nil
	}
	next := game.SendHint(g, word, count, s.now())
	if err := s.persist(ctx, connID, next); err != nil {
		return err
	}
	s.bc.BroadcastToRoom(gameID, protocol.Message{
		Type: protocol.TypeHintSent,
		Data: protocol.HintSent{Game: next, HintWord: word, HintWordCount: count},
	})
	s.armWatchdog(next)
	return nil
}

// RevealWord flips a cell and applies the outcome policy. The turn watchdog
// is re-armed when the reveal hands the turn over and cancelled when the
// game ends.
func (s *Service) RevealWord(ctx context.Context, connID, gameID, userID string, row, col int) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	if v := rules.CanRevealWord(userID, row, col)(g); v != rules.OK {
		s.reject(connID, gameID, v)
		return nil
	}
	next := game.Reveal(g, userID, row, col)
	if err := s.persist(ctx, connID, next); err != nil {
		return err
	}
	s.bc.BroadcastToRoom(gameID, protocol.Message{
		Type: protocol.TypeWordRevealed,
		Data: protocol.WordRevealed{Game: next, Row: row, Col: col},
	})
	switch {
	case next.State == game.StateEnded:
		s.cancelWatchdog(gameID)
	case next.Turn != g.Turn:
		s.armWatchdog(next)
	}
	return nil
}

// ChangeTurn lets the guessing team pass after at least one guess.
func (s *Service) ChangeTurn(ctx context.Context, connID, gameID, userID string) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	if v := rules.CanChangeTurn(userID)(g); v != rules.OK {
		s.reject(connID, gameID, v)
		return nil
	}
	next := game.ChangeTurn(g)
	if err := s.persist(ctx, connID, next); err != nil {
		return err
	}
	s.bc.BroadcastToRoom(gameID, protocol.Message{
		Type: protocol.TypeTurnChanged,
		Data: protocol.TurnChanged{Game: next},
	})
	s.armWatchdog(next)
	return nil
}

// RestartGame replaces the session with a fresh Idle game, keeping the id
// and roster.
func (s *Service) RestartGame(ctx context.Context, connID, gameID, userID string) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	next := game.Restart(g, s.now())
	if err := s.persist(ctx, connID, next); err != nil {
		return err
	}
	s.cancelWatchdog(gameID)
	s.logger.Info().Str("gameId", gameID).Msg("game restarted")
	s.bc.BroadcastToRoom(gameID, protocol.Message{
		Type: protocol.TypeGameRestarted,
		Data: protocol.GameRestarted{Game: next},
	})
	return nil
}

// RemovePlayer drops a player from the roster and tells the room.
func (s *Service) RemovePlayer(ctx context.Context, connID, gameID, userID string) error {
	defer s.lockGame(gameID)()
	g, err := s.loadGame(ctx, connID, gameID)
	if err != nil {
		return err
	}
	next := game.RemovePlayer(g, userID)
	if err := s.persist(ctx, connID, next); err != nil {
		return err
	}
	s.broadcastUpdate(next)
	return nil
}

// broadcastUpdate pushes the whole entity to the room.
func (s *Service) broadcastUpdate(g game.Game) {
	s.bc.BroadcastToRoom(g.ID, protocol.Message{
		Type: protocol.TypeUpdateGame,
		Data: protocol.UpdateGame{Game: g},
	})
}
