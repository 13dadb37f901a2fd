package tennis

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every error this package returns.
var ErrInvalidArgument = errors.New("invalid argument")

// Point tiers of a tennis game.
const (
	LOVE    = 0
	FIFTEEN = 1
	THIRTY  = 2
	FORTY   = 3
)

var pointNames = map[int]string{
	LOVE:    "Love",
	FIFTEEN: "Fifteen",
	THIRTY:  "Thirty",
	FORTY:   "Forty",
}

// Game tracks the points of a single game of tennis between two players.
// It is not safe for concurrent use; the caller serialises access.
type Game struct {
	player1Name string
	player2Name string

	player1Score int
	player2Score int
}

// NewGame starts a game between two players at Love-All.
func NewGame(player1Name, player2Name string) *Game {
	return &Game{
		player1Name: player1Name,
		player2Name: player2Name,
	}
}

// RecordPoint awards a point to the named player. The name must exactly match
// one of the two players; otherwise the game is left untouched and an
// ErrInvalidArgument is returned.
func (g *Game) RecordPoint(playerName string) error {
	switch playerName {
	case g.player1Name:
		g.player1Score++
	case g.player2Name:
		g.player2Score++
	default:
		return fmt.Errorf(
			"%w: Player with the name %q does not play in this match.",
			ErrInvalidArgument, playerName)
	}
	return nil
}

// Score renders the current score in tennis vocabulary. Equal scores render as
// "<name>-All" or "Deuce"; once either player has four or more points the game
// is in its endgame and renders as "Advantage <player>" or "Win for <player>";
// anything else renders the two point names separated by a dash.
func (g *Game) Score() (string, error) {
	if g.player1Score == g.player2Score {
		return g.equalScore(), nil
	}
	if g.player1Score >= 4 || g.player2Score >= 4 {
		return g.endgameScore(), nil
	}

	player1, err := pointName(g.player1Score)
	if err != nil {
		return "", err
	}
	player2, err := pointName(g.player2Score)
	if err != nil {
		return "", err
	}
	return player1 + "-" + player2, nil
}

func (g *Game) equalScore() string {
	if g.player1Score >= 3 {
		return "Deuce"
	}
	return pointNames[g.player1Score] + "-All"
}

func (g *Game) endgameScore() string {
	switch diff := g.player1Score - g.player2Score; {
	case diff == 1:
		return "Advantage " + g.player1Name
	case diff == -1:
		return "Advantage " + g.player2Name
	case diff >= 2:
		return "Win for " + g.player1Name
	default:
		return "Win for " + g.player2Name
	}
}

// winner returns the leading player's name once the game has been won.
func (g *Game) winner() (string, bool) {
	if g.player1Score < 4 && g.player2Score < 4 {
		return "", false
	}
	switch diff := g.player1Score - g.player2Score; {
	case diff >= 2:
		return g.player1Name, true
	case diff <= -2:
		return g.player2Name, true
	}
	return "", false
}

// pointName maps a point count to its tennis name. Counts outside Love..Forty
// only show up if the state has been corrupted from outside.
func pointName(score int) (string, error) {
	name, ok := pointNames[score]
	if !ok {
		return "", fmt.Errorf("%w: %d is not a valid score", ErrInvalidArgument, score)
	}
	return name, nil
}
