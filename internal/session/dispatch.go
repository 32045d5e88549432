// internal/session/dispatch.go
//
// Inbound frame routing: decodes each request envelope into its payload and
// invokes the matching use case. Installed as the hub's request handler.

package session

import (
	"context"
	"encoding/json"

	"github.com/codenames-live/go-server/internal/protocol"
)

// HandleMessage routes one decoded envelope from a connection. Malformed
// payloads earn the requester a gameError and nothing else.
func (s *Service) HandleMessage(connID string, env protocol.Envelope) {
	ctx := context.Background()

	decode := func(v any) bool {
		if err := json.Unmarshal(env.Data, v); err != nil {
			s.logger.Warn().Str("type", env.Type).Err(err).Msg("bad payload")
			s.fail(connID, msgBadRequest)
			return false
		}
		return true
	}

	var err error
	switch env.Type {
	case protocol.TypeRegisterUserSocket:
		var req protocol.RegisterUserSocketRequest
		if decode(&req) {
			s.reg.BindUser(connID, req.UserID)
		}
	case protocol.TypeCreateGame:
		var req protocol.CreateGameRequest
		if decode(&req) {
			s.reg.BindUser(connID, req.UserID)
			_, err = s.CreateGame(ctx, connID, req.UserID)
		}
	case protocol.TypeJoinGame:
		var req protocol.JoinGameRequest
		if decode(&req) {
			s.reg.BindUser(connID, req.UserID)
			_, err = s.JoinGame(ctx, connID, req.GameID, req.UserID)
		}
	case protocol.TypeJoinTeam:
		var req protocol.JoinTeamRequest
		if decode(&req) {
			err = s.JoinTeam(ctx, connID, req.GameID, req.UserID, req.Team)
		}
	case protocol.TypeSetSpyMaster:
		var req protocol.SetSpyMasterRequest
		if decode(&req) {
			err = s.SetSpyMaster(ctx, connID, req.GameID, req.UserID, req.Team)
		}
	case protocol.TypeRandomizeTeam:
		var req protocol.RandomizeTeamRequest
		if decode(&req) {
			err = s.RandomizeTeams(ctx, connID, req.GameID)
		}
	case protocol.TypeStartGame:
		var req protocol.StartGameRequest
		if decode(&req) {
			err = s.StartGame(ctx, connID, req.GameID, req.UserID, req.Config)
		}
	case protocol.TypeSendHint:
		var req protocol.SendHintRequest
		if decode(&req) {
			err = s.SendHint(ctx, connID, req.GameID, req.UserID, req.HintWord, req.HintWordCount)
		}
	case protocol.TypeRevealWord:
		var req protocol.RevealWordRequest
		if decode(&req) {
			err = s.RevealWord(ctx, connID, req.GameID, req.UserID, req.Row, req.Col)
		}
	case protocol.TypeChangeTurn:
		var req protocol.ChangeTurnRequest
		if decode(&req) {
			err = s.ChangeTurn(ctx, connID, req.GameID, req.UserID)
		}
	case protocol.TypeCheckTurnTimeout:
		var req protocol.CheckTurnTimeoutRequest
		if decode(&req) {
			err = s.CheckTurnTimeout(ctx, connID, req.GameID, req.UserID)
		}
	case protocol.TypeRestartGame:
		var req protocol.RestartGameRequest
		if decode(&req) {
			err = s.RestartGame(ctx, connID, req.GameID, req.UserID)
		}
	case protocol.TypeRemovePlayer:
		var req protocol.RemovePlayerRequest
		if decode(&req) {
			err = s.RemovePlayer(ctx, connID, req.GameID, req.UserID)
		}
	default:
		s.logger.Warn().Str("type", env.Type).Msg("unknown request type")
		s.fail(connID, msgBadRequest)
	}

	if err != nil {
		// The requester was already notified; this is for the operator.
		s.logger.Error().Err(err).Str("type", env.Type).Str("connId", connID).Msg("request failed")
	}
}
