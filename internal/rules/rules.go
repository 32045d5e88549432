// internal/rules/rules.go
//
// Precondition guards for every mutating game action. A guard inspects the
// pre-action snapshot and returns a Violation, or OK when the action may
// proceed. Guards are composed from small predicate Checks:
//   - And: evaluate in order, return the first failing code.
//   - Or:  first branch whose whole chain passes wins; if every branch
//     fails, the last branch's code is returned (the most specific one,
//     since branches are ordered general → specific).
//
// Validation always runs before mutation; a failing guard aborts the
// request before any state change.

package rules

import "github.com/codenames-live/go-server/internal/game"

// Violation is a closed enumeration of rule failures. OK means the guard
// passed.
type Violation int

const (
	OK Violation = iota
	AlreadyHasHint
	AlreadyRevealed
	CantBeSpyMaster
	CellOutOfBounds
	GameIsAlreadyRunning
	GameIsNotRunning
	MissingLanguage
	MustBeSpyMaster
	MustGuessOnce
	MustHaveSpyMasters
	MustHaveTwoPlayers
	NoHint
	NotPlayersTurn
	PlayerMustHaveTeam
	SpyMasterAlreadySet
	TooMuchGuesses
)

// String returns the wire code for the violation, as sent in gameError
// messages.
func (v Violation) String() string {
	switch v {
	case OK:
		return "valid"
	case AlreadyHasHint:
		return "alreadyHasHint"
	case AlreadyRevealed:
		return "alreadyRevealed"
	case CantBeSpyMaster:
		return "cantBeSpyMaster"
	case CellOutOfBounds:
		return "cellOutOfBounds"
	case GameIsAlreadyRunning:
		return "gameIsAlreadyRunning"
	case GameIsNotRunning:
		return "gameIsNotRunning"
	case MissingLanguage:
		return "missingLanguage"
	case MustBeSpyMaster:
		return "mustBeSpyMaster"
	case MustGuessOnce:
		return "mustGuessOnce"
	case MustHaveSpyMasters:
		return "mustHaveSpyMasters"
	case MustHaveTwoPlayers:
		return "mustHaveTwoPlayers"
	case NoHint:
		return "noHint"
	case NotPlayersTurn:
		return "notPlayersTurn"
	case PlayerMustHaveTeam:
		return "playerMustHaveTeam"
	case SpyMasterAlreadySet:
		return "spyMasterAlreadySet"
	case TooMuchGuesses:
		return "tooMuchGuesses"
	}
	return "unknownViolation"
}

// Check is a single precondition over the pre-action snapshot.
type Check func(game.Game) Violation

// And evaluates checks in order and returns the first failure.
func And(checks ...Check) Check {
	return func(g game.Game) Violation {
		for _, c := range checks {
			if v := c(g); v != OK {
				return v
			}
		}
		return OK
	}
}

// Or is valid when any branch fully passes. When none does, the last
// branch's failure is reported.
func Or(branches ...Check) Check {
	return func(g game.Game) Violation {
		last := OK
		for _, b := range branches {
			last = b(g)
			if last == OK {
				return OK
			}
		}
		return last
	}
}

// ---------------------------- predicates -----------------------------------

func isIdle(g game.Game) Violation {
	if g.State != game.StateIdle {
		return GameIsAlreadyRunning
	}
	return OK
}

func isRunning(g game.Game) Violation {
	if g.State != game.StateRunning {
		return GameIsNotRunning
	}
	return OK
}

// isPlayersTurn requires the caller to have a team and that team to hold
// the turn.
func isPlayersTurn(userID string) Check {
	return func(g game.Game) Violation {
		t := g.TeamOf(userID)
		if t == game.TeamNone {
			return PlayerMustHaveTeam
		}
		if g.Turn != t {
			return NotPlayersTurn
		}
		return OK
	}
}

func isSpyMaster(userID string) Check {
	return func(g game.Game) Violation {
		if !g.IsSpyMaster(userID) {
			return MustBeSpyMaster
		}
		return OK
	}
}

func isNotSpyMaster(userID string) Check {
	return func(g game.Game) Violation {
		if g.IsSpyMaster(userID) {
			return CantBeSpyMaster
		}
		return OK
	}
}

func hintActive(g game.Game) Violation {
	if !g.HintActive() {
		return NoHint
	}
	return OK
}

func noActiveHint(g game.Game) Violation {
	if g.HintActive() {
		return AlreadyHasHint
	}
	return OK
}

func spyMasterUnset(t game.Team) Check {
	return func(g game.Game) Violation {
		info, ok := g.TeamInfoFor(t)
		if ok && info.SpyMaster != "" {
			return SpyMasterAlreadySet
		}
		return OK
	}
}

func languageSet(cfg game.Config) Check {
	return func(game.Game) Violation {
		if cfg.Language == "" {
			return MissingLanguage
		}
		return OK
	}
}

func spyMastersSet(g game.Game) Violation {
	if g.RedTeam.SpyMaster == "" || g.BlueTeam.SpyMaster == "" {
		return MustHaveSpyMasters
	}
	return OK
}

func twoPlayersPerTeam(g game.Game) Violation {
	for _, t := range []game.Team{game.TeamRed, game.TeamBlue} {
		n := 0
		for _, p := range g.Players {
			if p.Team == t {
				n++
			}
		}
		if n < 2 {
			return MustHaveTwoPlayers
		}
	}
	return OK
}

func guessedAtLeastOnce(g game.Game) Violation {
	if g.WordsRevealedCount < 1 {
		return MustGuessOnce
	}
	return OK
}

func withinGuessAllowance(g game.Game) Violation {
	if g.WordsRevealedCount >= g.HintWordCount+1 {
		return TooMuchGuesses
	}
	return OK
}

func cellInBounds(row, col int) Check {
	return func(g game.Game) Violation {
		if !g.Board.InBounds(row, col) {
			return CellOutOfBounds
		}
		return OK
	}
}

func cellNotRevealed(row, col int) Check {
	return func(g game.Game) Violation {
		if g.Board[row][col].Revealed {
			return AlreadyRevealed
		}
		return OK
	}
}

// ----------------------------- per-action guards ---------------------------

// CanJoinTeam: joining a team is always allowed.
func CanJoinTeam(g game.Game) Violation {
	return OK
}

// CanSetSpyMaster: on an Idle game always; on a Running game only while the
// team's slot is still empty.
func CanSetSpyMaster(t game.Team) Check {
	return Or(
		And(isIdle),
		And(isRunning, spyMasterUnset(t)),
	)
}

// CanRandomizeTeams: only before the game starts.
func CanRandomizeTeams(g game.Game) Violation {
	return isIdle(g)
}

// CanStartGame: Idle, a language chosen, both spymasters set, and at least
// two players on each team.
func CanStartGame(cfg game.Config) Check {
	return And(isIdle, languageSet(cfg), spyMastersSet, twoPlayersPerTeam)
}

// CanSendHint: running, the caller's team's turn, no hint in play, and the
// caller must be a spymaster.
func CanSendHint(userID string) Check {
	return And(isRunning, isPlayersTurn(userID), noActiveHint, isSpyMaster(userID))
}

// CanChangeTurn: running, a hint in play, the caller's team's turn, caller
// is not a spymaster, and at least one word guessed this turn.
func CanChangeTurn(userID string) Check {
	return And(isRunning, hintActive, isPlayersTurn(userID), isNotSpyMaster(userID), guessedAtLeastOnce)
}

// CanRevealWord: running, the caller's team's turn, caller is not a
// spymaster, a hint in play, guesses left on the allowance, and the target
// cell in bounds and still face-down.
func CanRevealWord(userID string, row, col int) Check {
	return And(
		isRunning,
		isPlayersTurn(userID),
		isNotSpyMaster(userID),
		hintActive,
		withinGuessAllowance,
		cellInBounds(row, col),
		cellNotRevealed(row, col),
	)
}
