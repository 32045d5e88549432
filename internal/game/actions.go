// internal/game/actions.go
//
// Pure state transitions for the game entity. Every action is
// (Game, input) -> Game: it clones the snapshot it is given, mutates the
// clone, and returns it. No I/O, no clocks, no randomness beyond
// RandomizeTeams; timestamps and boards are supplied by the caller.
//
// Actions do not enforce preconditions. The rules package guards every
// transition before it is applied; an action invoked on a state its guard
// would reject simply produces a best-effort result (typically a no-op).

package game

import (
	"math/rand/v2"
	"time"
)

// New creates a fresh Idle game whose only player is the creator.
func New(id, creatorUserID string, now time.Time) Game {
	return Game{
		ID:            id,
		CreatorUserID: creatorUserID,
		CreatedAt:     now.UnixMilli(),
		Players:       []Player{{UserID: creatorUserID}},
		State:         StateIdle,
	}
}

// AddPlayer inserts a player without a team. Adding an existing player is a
// no-op, which is what makes reconnect-then-join idempotent.
func AddPlayer(g Game, userID string) Game {
	if _, ok := g.PlayerByID(userID); ok {
		return g.Clone()
	}
	out := g.Clone()
	out.Players = append(out.Players, Player{UserID: userID})
	return out
}

// RemovePlayer deletes a player; unknown ids are a no-op. A spymaster slot
// referencing the removed player is cleared.
func RemovePlayer(g Game, userID string) Game {
	out := g.Clone()
	kept := out.Players[:0]
	for _, p := range out.Players {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	out.Players = kept
	if out.RedTeam.SpyMaster == userID {
		out.RedTeam.SpyMaster = ""
	}
	if out.BlueTeam.SpyMaster == userID {
		out.BlueTeam.SpyMaster = ""
	}
	return out
}

// JoinTeam assigns the player to a team; unknown players are a no-op.
// If the player was the spymaster of the team they are leaving, that slot
// is cleared so a spymaster always belongs to its own team.
func JoinTeam(g Game, userID string, t Team) Game {
	out := g.Clone()
	for i := range out.Players {
		if out.Players[i].UserID != userID {
			continue
		}
		out.Players[i].Team = t
		if t != TeamRed && out.RedTeam.SpyMaster == userID {
			out.RedTeam.SpyMaster = ""
		}
		if t != TeamBlue && out.BlueTeam.SpyMaster == userID {
			out.BlueTeam.SpyMaster = ""
		}
		break
	}
	return out
}

// SetSpyMaster makes userID the spymaster of team t, but only when the
// player already belongs to that team.
func SetSpyMaster(g Game, userID string, t Team) Game {
	out := g.Clone()
	if out.TeamOf(userID) != t {
		return out
	}
	switch t {
	case TeamRed:
		out.RedTeam.SpyMaster = userID
	case TeamBlue:
		out.BlueTeam.SpyMaster = userID
	}
	return out
}

// RandomizeTeams shuffles every player onto a team, balanced within one.
// Spymaster slots whose player landed on the other team are cleared.
func RandomizeTeams(g Game) Game {
	out := g.Clone()
	order := rand.Perm(len(out.Players))
	for i, idx := range order {
		if i < len(order)/2 {
			out.Players[idx].Team = TeamRed
		} else {
			out.Players[idx].Team = TeamBlue
		}
	}
	if out.TeamOf(out.RedTeam.SpyMaster) != TeamRed {
		out.RedTeam.SpyMaster = ""
	}
	if out.TeamOf(out.BlueTeam.SpyMaster) != TeamBlue {
		out.BlueTeam.SpyMaster = ""
	}
	return out
}

// Start moves the game to Running with the supplied board. Red moves first.
// Each team's score starts at its card count on the board.
func Start(g Game, cfg Config, now time.Time, board Board) Game {
	out := g.Clone()
	out.Config = cfg
	out.Board = board
	out.State = StateRunning
	out.Turn = TeamRed
	out.RedTeam.Score = board.countCards(CardRed)
	out.BlueTeam.Score = board.countCards(CardBlue)
	out.HintWord = ""
	out.HintWordCount = 0
	out.HintStartedAt = 0
	out.WordsRevealedCount = 0
	out.TurnOutcome = OutcomeNone
	out.Winner = TeamNone
	return out
}

// SendHint records the current turn's hint and resets the guess counter.
func SendHint(g Game, word string, count int, now time.Time) Game {
	out := g.Clone()
	out.HintWord = word
	out.HintWordCount = count
	out.HintStartedAt = now.UnixMilli()
	out.WordsRevealedCount = 0
	return out
}

// Reveal flips the cell at (row, col) for the calling player and applies the
// outcome policy:
//   - own team's card: success; the turn continues until the hint allowance
//     (hintWordCount+1) is used up, then the turn changes.
//   - opposing card or innocent: failure; the turn changes immediately.
//   - assassin: the revealer's team loses on the spot.
//
// Revealing a Red/Blue card decrements that color's remaining score; a team
// reaching zero has found all its words and wins.
func Reveal(g Game, userID string, row, col int) Game {
	out := g.Clone()
	cell := &out.Board[row][col]
	cell.Revealed = true
	callerTeam := out.TeamOf(userID)

	switch cell.Type {
	case CardAssassin:
		out.TurnOutcome = OutcomeAssassin
		return endGame(out, callerTeam.Opponent())
	case CardRed:
		out.RedTeam.Score--
	case CardBlue:
		out.BlueTeam.Score--
	}

	if ownCard(cell.Type, callerTeam) {
		out.TurnOutcome = OutcomeSuccess
	} else {
		out.TurnOutcome = OutcomeFailure
	}
	out.WordsRevealedCount++

	if winner := scoredOut(out); winner != TeamNone {
		return endGame(out, winner)
	}

	if out.TurnOutcome == OutcomeFailure || out.WordsRevealedCount >= out.HintWordCount+1 {
		out = ChangeTurn(out)
	}
	return out
}

// ChangeTurn hands the turn to the other team and clears the hint state.
// The last reveal's outcome is kept for display.
func ChangeTurn(g Game) Game {
	out := g.Clone()
	out.Turn = out.Turn.Opponent()
	out.HintWord = ""
	out.HintWordCount = 0
	out.HintStartedAt = 0
	out.WordsRevealedCount = 0
	return out
}

// TurnTimeout is the watchdog's turn change; its effect on the entity is
// identical to ChangeTurn.
func TurnTimeout(g Game) Game {
	return ChangeTurn(g)
}

// Restart replaces the session with a fresh Idle game under the same id,
// keeping the roster and creator but clearing board, teams' scores,
// spymasters, turn and hint state.
func Restart(g Game, now time.Time) Game {
	out := New(g.ID, g.CreatorUserID, now)
	out.Players = make([]Player, len(g.Players))
	copy(out.Players, g.Players)
	return out
}

// endGame stops play and records the winner, clearing turn and hint state.
func endGame(g Game, winner Team) Game {
	g.State = StateEnded
	g.Winner = winner
	g.Turn = TeamNone
	g.HintWord = ""
	g.HintWordCount = 0
	g.HintStartedAt = 0
	g.WordsRevealedCount = 0
	return g
}

// ownCard reports whether a card belongs to the given team.
func ownCard(c CardType, t Team) bool {
	return (c == CardRed && t == TeamRed) || (c == CardBlue && t == TeamBlue)
}

// scoredOut returns the team that has revealed all of its cards, if any.
func scoredOut(g Game) Team {
	if g.RedTeam.Score <= 0 {
		return TeamRed
	}
	if g.BlueTeam.Score <= 0 {
		return TeamBlue
	}
	return TeamNone
}
