package tennis

import (
	"fmt"

	"github.com/courtside/games-backend/pkg/comms"
	"github.com/courtside/games-backend/pkg/game"
	"github.com/mitchellh/mapstructure"
)

const NUM_PLAYERS = 2

// State is the lobby-facing game state: the player list in side order
// {PlayerOne, PlayerTwo} and the score of the game between them.
type State struct {
	Players []string
	Game    *Game
}

func NewState(players []string) (interface{}, error) {
	if len(players) != NUM_PLAYERS {
		return nil, fmt.Errorf("invalid number of players, should be %d", NUM_PLAYERS)
	}

	return &State{
		Players: players,
		Game:    NewGame(players[0], players[1]),
	}, nil
}

func HandleRequest(
	gameChan chan game.GameRequest,
	stateInterface interface{},
	player,
	messageType string,
	messageContents interface{},
) interface{} {
	state := stateInterface.(*State)

	switch messageType {
	case "StartGameRequest":
		// Tell players which side they are on and the opening score
		gameChan <- game.GameRequest{
			Players: state.Players,
			Message: comms.ToMessage(PlayerSidesBroadcast{
				PlayerOne: state.Players[0],
				PlayerTwo: state.Players[1],
			}),
		}
		score, err := state.Game.Score()
		if err != nil {
			return comms.ErrorResponse{Reason: err.Error()}
		}
		gameChan <- game.GameRequest{
			Players: state.Players,
			Message: comms.ToMessage(ScoreBroadcast{Score: score}),
		}

	case "ScorePointRequest":
		// A point is awarded to one of the players
		var contents ScorePointRequest
		err := mapstructure.Decode(messageContents, &contents)
		if err != nil {
			return comms.ErrorDecodingMessageResponse{}
		}

		if err := state.Game.RecordPoint(contents.PlayerID); err != nil {
			return ScorePointResponse{Status: false, Reason: err.Error()}
		}
		score, err := state.Game.Score()
		if err != nil {
			return comms.ErrorResponse{Reason: err.Error()}
		}

		gameChan <- game.GameRequest{
			Players: []string{player},
			Message: comms.ToMessage(ScorePointResponse{Status: true}),
		}
		gameChan <- game.GameRequest{
			Players: state.Players,
			Message: comms.ToMessage(PointScoredBroadcast{PlayerID: contents.PlayerID}),
		}
		gameChan <- game.GameRequest{
			Players: state.Players,
			Message: comms.ToMessage(ScoreBroadcast{Score: score}),
		}

		if winner, ok := state.Game.winner(); ok {
			gameChan <- game.GameRequest{
				Players: state.Players,
				Message: comms.ToMessage(GameWonBroadcast{PlayerID: winner}),
			}
		}
	}

	return nil
}

// Service exposes tennis to the lobby game catalog.
func Service() game.GameService {
	return game.GameService{
		NewState:      NewState,
		HandleRequest: HandleRequest,
	}
}
