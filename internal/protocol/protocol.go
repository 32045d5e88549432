// internal/protocol/protocol.go
//
// The message catalog exchanged between the session layer and connected
// clients. Every frame on the wire is a {type, data} envelope; request
// payloads carry the ids needed to route and authorize, notification
// payloads carry the full updated game so clients never derive state
// locally.

package protocol

import (
	"encoding/json"

	"github.com/codenames-live/go-server/internal/game"
)

// Message is an outbound frame.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Envelope is an inbound frame; Data is decoded per Type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Request types.
const (
	TypeCreateGame         = "createGame"
	TypeJoinGame           = "joinGame"
	TypeJoinTeam           = "joinTeam"
	TypeSetSpyMaster       = "setSpyMaster"
	TypeRandomizeTeam      = "randomizeTeam"
	TypeStartGame          = "startGame"
	TypeSendHint           = "sendHint"
	TypeRevealWord         = "revealWord"
	TypeChangeTurn         = "changeTurn"
	TypeCheckTurnTimeout   = "checkTurnTimeout"
	TypeRestartGame        = "restartGame"
	TypeRemovePlayer       = "removePlayer"
	TypeRegisterUserSocket = "registerUserSocket"
)

// Notification types.
const (
	TypeGameCreated   = "gameCreated"
	TypeJoinedGame    = "joinedGame"
	TypeUpdateGame    = "updateGame"
	TypeGameStarted   = "gameStarted"
	TypeHintSent      = "hintSent"
	TypeWordRevealed  = "revealWord"
	TypeTurnChanged   = "turnChanged"
	TypeTurnTimeout   = "turnTimeout"
	TypeGameError     = "gameError"
	TypeGameRestarted = "gameRestarted"
)

// ------------------------------- requests ----------------------------------

type CreateGameRequest struct {
	UserID string `json:"userId"`
}

type JoinGameRequest struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
}

type JoinTeamRequest struct {
	GameID string    `json:"gameId"`
	UserID string    `json:"userId"`
	Team   game.Team `json:"team"`
}

type SetSpyMasterRequest struct {
	GameID string    `json:"gameId"`
	UserID string    `json:"userId"`
	Team   game.Team `json:"team"`
}

type RandomizeTeamRequest struct {
	GameID string `json:"gameId"`
}

type StartGameRequest struct {
	GameID string      `json:"gameId"`
	UserID string      `json:"userId"`
	Config game.Config `json:"config"`
}

type SendHintRequest struct {
	GameID        string `json:"gameId"`
	UserID        string `json:"userId"`
	HintWord      string `json:"hintWord"`
	HintWordCount int    `json:"hintWordCount"`
}

type RevealWordRequest struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

type ChangeTurnRequest struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
}

type CheckTurnTimeoutRequest struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
}

type RestartGameRequest struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
}

type RemovePlayerRequest struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
}

type RegisterUserSocketRequest struct {
	UserID string `json:"userId"`
}

// ----------------------------- notifications -------------------------------

type GameCreated struct {
	Game game.Game `json:"game"`
}

type JoinedGame struct {
	Game   game.Game `json:"game"`
	UserID string    `json:"userId"`
}

type UpdateGame struct {
	Game game.Game `json:"game"`
}

type GameStarted struct {
	Game game.Game `json:"game"`
}

type HintSent struct {
	Game          game.Game `json:"game"`
	HintWord      string    `json:"hintWord"`
	HintWordCount int       `json:"hintWordCount"`
}

type WordRevealed struct {
	Game game.Game `json:"game"`
	Row  int       `json:"row"`
	Col  int       `json:"col"`
}

type TurnChanged struct {
	Game game.Game `json:"game"`
}

type TurnTimeout struct {
	Game game.Game `json:"game"`
}

type GameError struct {
	Message string `json:"message"`
}

type GameRestarted struct {
	Game game.Game `json:"game"`
}
