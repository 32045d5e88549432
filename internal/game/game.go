// internal/game/game.go
//
// Core type definitions for the Codenames game engine.
// Defines:
//   - Team / State / CardType / Outcome: closed string enums used on the wire.
//   - Cell, Board: the word grid, row-major, board[row][col].
//   - Player, TeamInfo, Config, Game: the canonical serializable game entity.
//
// The Game entity is treated as a value: every mutation in actions.go starts
// from Clone() and returns a new Game, so callers always keep the pre-action
// snapshot they loaded.

package game

// Team is a side in the game. The zero value means "no team yet".
type Team string

const (
	TeamNone Team = ""
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Opponent returns the other team, or TeamNone for TeamNone.
func (t Team) Opponent() Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	}
	return TeamNone
}

// State is the lifecycle phase of a game.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateEnded   State = "ended"
)

// CardType is the hidden affiliation of a board cell.
type CardType string

const (
	CardRed      CardType = "red"
	CardBlue     CardType = "blue"
	CardInnocent CardType = "innocent"
	CardAssassin CardType = "assassin"
)

// Outcome describes the effect of the most recent reveal (a UI hint).
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeSuccess  Outcome = "success"
	OutcomeFailure  Outcome = "failure"
	OutcomeAssassin Outcome = "assassin"
)

// Cell is a single board card.
type Cell struct {
	Word     string   `json:"word"`
	Type     CardType `json:"type"`
	Revealed bool     `json:"revealed"`
}

// Board is a height×width grid of cells, indexed board[row][col].
type Board [][]Cell

// InBounds reports whether (row, col) addresses a cell of the board.
func (b Board) InBounds(row, col int) bool {
	return row >= 0 && row < len(b) && col >= 0 && col < len(b[row])
}

// Player is one participant in a game, unique by UserID.
type Player struct {
	UserID string `json:"userId"`
	Team   Team   `json:"team,omitempty"`
}

// TeamInfo holds the per-team spymaster assignment and remaining score.
// Score counts the team's unrevealed cards while the game is running;
// it reaches zero when the team has found all its words.
type TeamInfo struct {
	SpyMaster string `json:"spyMaster,omitempty"`
	Score     int    `json:"score"`
}

// Config is the per-game settings chosen at start time.
type Config struct {
	Language           string `json:"language"`
	ResponseTimeoutSec int    `json:"responseTimeoutSec,omitempty"`
}

// Game is the canonical state of one session. Timestamps are unix epoch
// milliseconds; zero means unset.
type Game struct {
	ID                 string   `json:"gameId"`
	CreatorUserID      string   `json:"creatorUserId"`
	CreatedAt          int64    `json:"createdAt"`
	Players            []Player `json:"players"`
	RedTeam            TeamInfo `json:"redTeam"`
	BlueTeam           TeamInfo `json:"blueTeam"`
	State              State    `json:"state"`
	Turn               Team     `json:"turn,omitempty"`
	HintWord           string   `json:"hintWord,omitempty"`
	HintWordCount      int      `json:"hintWordCount"`
	HintStartedAt      int64    `json:"hintWordStartedTime,omitempty"`
	WordsRevealedCount int      `json:"wordsRevealedCount"`
	TurnOutcome        Outcome  `json:"turnOutcome,omitempty"`
	Board              Board    `json:"board,omitempty"`
	Config             Config   `json:"config"`
	Winner             Team     `json:"winner,omitempty"`
}

// Clone returns a deep copy of the game. Players and Board never alias the
// receiver's slices.
func (g Game) Clone() Game {
	out := g
	out.Players = make([]Player, len(g.Players))
	copy(out.Players, g.Players)
	if g.Board != nil {
		out.Board = make(Board, len(g.Board))
		for i, row := range g.Board {
			out.Board[i] = make([]Cell, len(row))
			copy(out.Board[i], row)
		}
	}
	return out
}

// PlayerByID returns the player with the given user id, if present.
func (g Game) PlayerByID(userID string) (Player, bool) {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p, true
		}
	}
	return Player{}, false
}

// TeamOf returns the team of the given user, or TeamNone if the user is not
// in the game or has not joined a team.
func (g Game) TeamOf(userID string) Team {
	p, ok := g.PlayerByID(userID)
	if !ok {
		return TeamNone
	}
	return p.Team
}

// IsSpyMaster reports whether the given user is either team's spymaster.
func (g Game) IsSpyMaster(userID string) bool {
	return userID != "" && (g.RedTeam.SpyMaster == userID || g.BlueTeam.SpyMaster == userID)
}

// TeamInfoFor returns the TeamInfo for a team color.
// The second result is false for TeamNone.
func (g Game) TeamInfoFor(t Team) (TeamInfo, bool) {
	switch t {
	case TeamRed:
		return g.RedTeam, true
	case TeamBlue:
		return g.BlueTeam, true
	}
	return TeamInfo{}, false
}

// HintActive reports whether a hint is currently in play for this turn.
func (g Game) HintActive() bool {
	return g.HintWord != ""
}

// teamSize counts players assigned to a team.
func (g Game) teamSize(t Team) int {
	n := 0
	for _, p := range g.Players {
		if p.Team == t {
			n++
		}
	}
	return n
}

// cardType reads the type of the cell at (row, col).
// Callers must bounds-check first.
func (g Game) cardType(row, col int) CardType {
	return g.Board[row][col].Type
}
