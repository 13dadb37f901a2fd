package lobby

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/courtside/games-backend/pkg/comms"
	"github.com/courtside/games-backend/pkg/config"
	"github.com/courtside/games-backend/pkg/game"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"go.uber.org/zap"
)

// IsValidPlayerID reports whether a client-supplied player ID is a UUID.
func IsValidPlayerID(playerID string) bool {
	_, err := uuid.Parse(playerID)
	return err == nil
}

// NewLobbyCode returns a short lobby code hashed from a random value.
func NewLobbyCode() string {
	num := rand.Int()
	h := fnv.New32()
	h.Write([]byte(strconv.Itoa(num)))
	return strconv.Itoa(int(h.Sum32()))
}

type Lobby struct {
	Log     *zap.Logger
	LobbyID string
	// Host is the host's player ID
	Host string

	// State of the current game
	GameName        string
	GameState       interface{}
	GameRequestChan chan game.GameRequest

	// players maps player IDs to their connection write channels. The game
	// request handler goroutine reads it concurrently, hence the mutex.
	playersMu sync.Mutex
	players   map[string]chan comms.Message

	// RequestChannel stores a channel of incoming Requests
	RequestChannel chan comms.Request

	// Done is closed when the lobby shuts down. Senders to RequestChannel
	// must select on it, since the request handler stops consuming.
	Done chan struct{}
}

func NewLobby(log *zap.Logger, host string) *Lobby {
	return &Lobby{
		Log:            log,
		LobbyID:        NewLobbyCode(),
		Host:           host,
		players:        make(map[string]chan comms.Message),
		RequestChannel: make(chan comms.Request, 32),
		Done:           make(chan struct{}),
	}
}

// RemovePlayer detaches a player's write channel so no further broadcasts
// reach it. Connection teardown calls this before closing the channel; it
// must not wait on the request handler.
func (l *Lobby) RemovePlayer(playerID string) {
	l.playersMu.Lock()
	delete(l.players, playerID)
	l.playersMu.Unlock()
}

// LobbyRequestHandler owns all lobby state. It consumes requests until the
// lobby closes: when the host leaves or the last player disconnects.
func (l *Lobby) LobbyRequestHandler(conf *config.Config) {
	for req := range l.RequestChannel {
		switch req.Message.Type {

		case "PlayerJoinedEvent":
			// New player joins the lobby
			l.playersMu.Lock()
			l.players[req.PlayerID] = req.ConnChannel
			l.playersMu.Unlock()
			l.broadcastPlayerList()

		case "PlayerLeftEvent":
			l.playersMu.Lock()
			delete(l.players, req.PlayerID)
			remaining := len(l.players)
			l.playersMu.Unlock()
			if req.PlayerID == l.Host || remaining == 0 {
				l.close()
				return
			}
			l.broadcastPlayerList()

		case "LobbyStartGameRequest":
			// Host starts a Game
			var contents LobbyStartGameRequest
			err := mapstructure.Decode(req.Message.Contents, &contents)
			if err != nil {
				req.Error("Unable to parse LobbyStartGameRequest", err)
				continue
			}

			if req.PlayerID != l.Host {
				req.Error(fmt.Sprintf(
					"Only the host can start a game (player %s, host %s)",
					req.PlayerID,
					l.Host,
				), nil)
				continue
			}

			if l.GameState != nil {
				req.Error(fmt.Sprintf(
					"A game of %s is already running in this lobby", l.GameName), nil)
				continue
			}

			gameService, ok := conf.Games[contents.Game]
			if !ok {
				req.Error("Invalid game name", nil)
				continue
			}

			state, err := gameService.NewState(l.getPlayersList())
			if err != nil {
				req.ConnChannel <- comms.ToMessage(LobbyStartGameResponse{
					Status: false,
					Reason: err.Error(),
				})
				continue
			}

			// Save game state to Lobby
			l.GameName = contents.Game
			l.GameState = state
			l.GameRequestChan = make(chan game.GameRequest)

			// Run a handler to handle requests from the GameService
			go l.GameRequestHandler()

			// Tell players that the game has started
			req.ConnChannel <- comms.ToMessage(LobbyStartGameResponse{
				Status: true,
			})
			l.broadcastMessageToLobby(LobbyStartGameBroadcast{Game: l.GameName})
			l.Log.Info("Started new game",
				zap.String("game", l.GameName), zap.String("lobbyID", l.LobbyID))

		default:
			// Route non-lobby-related messages
			typeComponents := strings.Split(req.Message.Type, "/")

			switch typeComponents[0] {
			case "Game":
				if len(typeComponents) != 2 {
					req.Error(fmt.Sprintf(
						"%s is an invalid Game message type, it should be of the format "+
							"'Game/<game-message-type>'",
						req.Message.Type,
					), nil)
				} else if l.GameState == nil {
					req.Error("Must set LobbyStartGameRequest first", nil)
				} else {
					errMessage := conf.Games[l.GameName].HandleRequest(
						l.GameRequestChan, l.GameState, req.PlayerID,
						typeComponents[1], req.Message.Contents)
					if errMessage != nil {
						req.ConnChannel <- comms.ToMessage(errMessage)
					}
				}

			default:
				req.Error(
					fmt.Sprintf("%s is an invalid message type", req.Message.Type), nil)
			}
		}
	}
}

func (l *Lobby) close() {
	l.broadcastMessageToLobby(LobbyClosedBroadcast{})
	if l.GameRequestChan != nil {
		close(l.GameRequestChan)
	}
	close(l.Done)
	l.Log.Info("Lobby closed", zap.String("lobbyID", l.LobbyID))
}

func (l *Lobby) broadcastMessageToLobby(contents interface{}) {
	l.playersMu.Lock()
	defer l.playersMu.Unlock()
	for _, connChannel := range l.players {
		connChannel <- comms.ToMessage(contents)
	}
}

func (l *Lobby) broadcastMessageToPlayers(message comms.Message, players []string) {
	l.playersMu.Lock()
	defer l.playersMu.Unlock()
	for _, player := range players {
		if connChannel, ok := l.players[player]; ok {
			connChannel <- message
		}
	}
}

func (l *Lobby) broadcastPlayerList() {
	players := l.getPlayersList()
	sort.Strings(players)
	l.broadcastMessageToLobby(LobbyPlayerListBroadcast{PlayerIDs: players})
}

func (l *Lobby) getPlayersList() []string {
	l.playersMu.Lock()
	defer l.playersMu.Unlock()
	players := make([]string, 0, len(l.players))
	for player := range l.players {
		players = append(players, player)
	}
	return players
}

// GameRequestHandler reads in requests from games and sends them to players.
func (l *Lobby) GameRequestHandler() {
	for req := range l.GameRequestChan {
		l.broadcastMessageToPlayers(
			comms.Message{
				Type:     "Game/" + req.Message.Type,
				Contents: req.Message.Contents,
			},
			req.Players,
		)
	}
}

// LobbyStore stores Lobby IDs mapped to Lobby structs
type LobbyStore struct {
	// We're using a sync.Map which is optimised for few writes but lots of reads
	store sync.Map
}

func (s *LobbyStore) Put(key string, value *Lobby) {
	s.store.Store(key, value)
}

func (s *LobbyStore) Get(key string) (*Lobby, bool) {
	if value, ok := s.store.Load(key); ok {
		return value.(*Lobby), true
	}
	return nil, false
}

func (s *LobbyStore) Delete(key string) {
	s.store.Delete(key)
}
