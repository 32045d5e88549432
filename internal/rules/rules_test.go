package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codenames-live/go-server/internal/game"
)

var t0 = time.UnixMilli(1700000000000)

// lobbyGame is an Idle game with full teams and spymasters, ready to start.
func lobbyGame() game.Game {
	g := game.New("g1", "alice", t0)
	for _, u := range []string{"bob", "carol", "dave"} {
		g = game.AddPlayer(g, u)
	}
	g = game.JoinTeam(g, "alice", game.TeamRed)
	g = game.JoinTeam(g, "bob", game.TeamRed)
	g = game.JoinTeam(g, "carol", game.TeamBlue)
	g = game.JoinTeam(g, "dave", game.TeamBlue)
	g = game.SetSpyMaster(g, "alice", game.TeamRed)
	g = game.SetSpyMaster(g, "carol", game.TeamBlue)
	return g
}

func startedGame() game.Game {
	board := game.Board{
		{{Word: "apple", Type: game.CardRed}, {Word: "berry", Type: game.CardRed}},
		{{Word: "cherry", Type: game.CardBlue}, {Word: "dagger", Type: game.CardAssassin}},
	}
	return game.Start(lobbyGame(), game.Config{Language: "english"}, t0, board)
}

func TestCombinators(t *testing.T) {
	fail1 := func(game.Game) Violation { return NoHint }
	fail2 := func(game.Game) Violation { return MustGuessOnce }
	pass := func(game.Game) Violation { return OK }

	t.Run("and returns first failure", func(t *testing.T) {
		assert.Equal(t, NoHint, And(pass, fail1, fail2)(game.Game{}))
		assert.Equal(t, OK, And(pass, pass)(game.Game{}))
		assert.Equal(t, OK, And()(game.Game{}))
	})

	t.Run("or passes on first valid branch", func(t *testing.T) {
		assert.Equal(t, OK, Or(fail1, pass)(game.Game{}))
		assert.Equal(t, OK, Or(pass, fail2)(game.Game{}))
	})

	t.Run("or reports last branch failure", func(t *testing.T) {
		assert.Equal(t, MustGuessOnce, Or(fail1, fail2)(game.Game{}))
	})
}

func TestCanJoinTeamAlwaysValid(t *testing.T) {
	assert.Equal(t, OK, CanJoinTeam(game.Game{}))
	assert.Equal(t, OK, CanJoinTeam(startedGame()))
}

func TestCanSetSpyMaster(t *testing.T) {
	t.Run("idle always succeeds even when set", func(t *testing.T) {
		g := lobbyGame()
		assert.Equal(t, OK, CanSetSpyMaster(game.TeamRed)(g))
	})

	t.Run("running with empty slot succeeds", func(t *testing.T) {
		g := startedGame()
		g.RedTeam.SpyMaster = ""
		assert.Equal(t, OK, CanSetSpyMaster(game.TeamRed)(g))
	})

	t.Run("running with occupied slot is rejected", func(t *testing.T) {
		g := startedGame()
		assert.Equal(t, SpyMasterAlreadySet, CanSetSpyMaster(game.TeamRed)(g))
	})
}

func TestCanRandomizeTeams(t *testing.T) {
	assert.Equal(t, OK, CanRandomizeTeams(lobbyGame()))
	assert.Equal(t, GameIsAlreadyRunning, CanRandomizeTeams(startedGame()))
}

func TestCanStartGame(t *testing.T) {
	cfg := game.Config{Language: "english"}

	t.Run("ready lobby passes", func(t *testing.T) {
		assert.Equal(t, OK, CanStartGame(cfg)(lobbyGame()))
	})

	t.Run("already running", func(t *testing.T) {
		assert.Equal(t, GameIsAlreadyRunning, CanStartGame(cfg)(startedGame()))
	})

	t.Run("missing language", func(t *testing.T) {
		assert.Equal(t, MissingLanguage, CanStartGame(game.Config{})(lobbyGame()))
	})

	t.Run("missing spymaster", func(t *testing.T) {
		g := lobbyGame()
		g.BlueTeam.SpyMaster = ""
		assert.Equal(t, MustHaveSpyMasters, CanStartGame(cfg)(g))
	})

	t.Run("short team", func(t *testing.T) {
		g := lobbyGame()
		g = game.RemovePlayer(g, "dave")
		// removing dave also breaks nothing else: carol still spymaster
		assert.Equal(t, MustHaveTwoPlayers, CanStartGame(cfg)(g))
	})
}

func TestCanSendHint(t *testing.T) {
	t.Run("spymaster on turn", func(t *testing.T) {
		assert.Equal(t, OK, CanSendHint("alice")(startedGame()))
	})

	t.Run("not running", func(t *testing.T) {
		assert.Equal(t, GameIsNotRunning, CanSendHint("alice")(lobbyGame()))
	})

	t.Run("wrong turn", func(t *testing.T) {
		assert.Equal(t, NotPlayersTurn, CanSendHint("carol")(startedGame()))
	})

	t.Run("no team", func(t *testing.T) {
		g := game.AddPlayer(startedGame(), "eve")
		assert.Equal(t, PlayerMustHaveTeam, CanSendHint("eve")(g))
	})

	t.Run("hint already active", func(t *testing.T) {
		g := game.SendHint(startedGame(), "fruit", 2, t0)
		assert.Equal(t, AlreadyHasHint, CanSendHint("alice")(g))
	})

	t.Run("operative cannot hint", func(t *testing.T) {
		assert.Equal(t, MustBeSpyMaster, CanSendHint("bob")(startedGame()))
	})
}

func TestCanChangeTurn(t *testing.T) {
	hinted := game.SendHint(startedGame(), "fruit", 2, t0)

	t.Run("operative after one guess", func(t *testing.T) {
		g := hinted.Clone()
		g.WordsRevealedCount = 1
		assert.Equal(t, OK, CanChangeTurn("bob")(g))
	})

	t.Run("no hint yet", func(t *testing.T) {
		assert.Equal(t, NoHint, CanChangeTurn("bob")(startedGame()))
	})

	t.Run("spymaster cannot pass", func(t *testing.T) {
		g := hinted.Clone()
		g.WordsRevealedCount = 1
		assert.Equal(t, CantBeSpyMaster, CanChangeTurn("alice")(g))
	})

	t.Run("must guess once", func(t *testing.T) {
		assert.Equal(t, MustGuessOnce, CanChangeTurn("bob")(hinted))
	})

	t.Run("wrong turn", func(t *testing.T) {
		assert.Equal(t, NotPlayersTurn, CanChangeTurn("dave")(hinted))
	})
}

func TestCanRevealWord(t *testing.T) {
	hinted := game.SendHint(startedGame(), "fruit", 1, t0)

	t.Run("operative on turn", func(t *testing.T) {
		assert.Equal(t, OK, CanRevealWord("bob", 0, 0)(hinted))
	})

	t.Run("not running", func(t *testing.T) {
		assert.Equal(t, GameIsNotRunning, CanRevealWord("bob", 0, 0)(lobbyGame()))
	})

	t.Run("spymaster cannot reveal", func(t *testing.T) {
		assert.Equal(t, CantBeSpyMaster, CanRevealWord("alice", 0, 0)(hinted))
	})

	t.Run("needs a hint", func(t *testing.T) {
		assert.Equal(t, NoHint, CanRevealWord("bob", 0, 0)(startedGame()))
	})

	t.Run("allowance exhausted", func(t *testing.T) {
		g := hinted.Clone()
		g.WordsRevealedCount = 2 // hintWordCount+1
		assert.Equal(t, TooMuchGuesses, CanRevealWord("bob", 0, 0)(g))
	})

	t.Run("out of bounds", func(t *testing.T) {
		assert.Equal(t, CellOutOfBounds, CanRevealWord("bob", 2, 0)(hinted))
		assert.Equal(t, CellOutOfBounds, CanRevealWord("bob", 0, -1)(hinted))
	})

	t.Run("already revealed", func(t *testing.T) {
		g := hinted.Clone()
		g.Board[0][0].Revealed = true
		assert.Equal(t, AlreadyRevealed, CanRevealWord("bob", 0, 0)(g))
	})
}

func TestViolationWireCodes(t *testing.T) {
	codes := map[Violation]string{
		OK:                   "valid",
		AlreadyHasHint:       "alreadyHasHint",
		AlreadyRevealed:      "alreadyRevealed",
		CantBeSpyMaster:      "cantBeSpyMaster",
		CellOutOfBounds:      "cellOutOfBounds",
		GameIsAlreadyRunning: "gameIsAlreadyRunning",
		GameIsNotRunning:     "gameIsNotRunning",
		MissingLanguage:      "missingLanguage",
		MustBeSpyMaster:      "mustBeSpyMaster",
		MustGuessOnce:        "mustGuessOnce",
		MustHaveSpyMasters:   "mustHaveSpyMasters",
		MustHaveTwoPlayers:   "mustHaveTwoPlayers",
		NoHint:               "noHint",
		NotPlayersTurn:       "notPlayersTurn",
		PlayerMustHaveTeam:   "playerMustHaveTeam",
		SpyMasterAlreadySet:  "spyMasterAlreadySet",
		TooMuchGuesses:       "tooMuchGuesses",
	}
	for v, want := range codes {
		assert.Equal(t, want, v.String())
	}
}
