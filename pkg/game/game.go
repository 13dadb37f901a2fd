package game

import (
	"github.com/courtside/games-backend/pkg/comms"
)

// GameRequest is a message a game asks the lobby to deliver to some of its
// players.
type GameRequest struct {
	Players []string
	Message comms.Message
}

type newStateFunc func(players []string) (state interface{}, err error)
type handleRequestFunc func(
	gameChan chan GameRequest, state interface{},
	player, messageType string, contents interface{}) interface{}

// GameService is the hook a game exposes to the lobby: NewState builds the
// initial game state for a player list, and HandleRequest applies a player's
// message to that state, pushing broadcasts onto gameChan and returning typed
// error contents to reply with, or nil.
type GameService struct {
	NewState      newStateFunc
	HandleRequest handleRequestFunc
}
