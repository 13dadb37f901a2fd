package lobby

import (
	"testing"
	"time"

	"github.com/courtside/games-backend/pkg/comms"
	"github.com/courtside/games-backend/pkg/config"
	"github.com/courtside/games-backend/pkg/game"
	"github.com/courtside/games-backend/pkg/game/tennis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{Games: map[string]game.GameService{
		"tennis": tennis.Service(),
	}}
}

func startTestLobby(t *testing.T, host string) *Lobby {
	t.Helper()
	l := NewLobby(zap.NewNop(), host)
	go l.LobbyRequestHandler(testConfig())
	return l
}

// joinPlayer registers a player with the lobby, returning their connection
// write channel.
func joinPlayer(t *testing.T, l *Lobby, playerID string) chan comms.Message {
	t.Helper()
	connChannel := make(chan comms.Message, 16)
	l.RequestChannel <- comms.Request{
		ConnChannel: connChannel,
		PlayerID:    playerID,
		Message:     comms.Message{Type: "PlayerJoinedEvent"},
	}
	return connChannel
}

func receive(t *testing.T, connChannel chan comms.Message) comms.Message {
	t.Helper()
	select {
	case message := <-connChannel:
		return message
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
		return comms.Message{}
	}
}

func send(l *Lobby, connChannel chan comms.Message, playerID string, message comms.Message) {
	l.RequestChannel <- comms.Request{
		ConnChannel: connChannel,
		PlayerID:    playerID,
		Message:     message,
	}
}

func TestPlayerJoinsBroadcastThePlayerList(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")

	message := receive(t, hostChannel)
	assert.Equal(t, "LobbyPlayerListBroadcast", message.Type)
	assert.Equal(t, LobbyPlayerListBroadcast{PlayerIDs: []string{"host"}}, message.Contents)

	guestChannel := joinPlayer(t, l, "guest")
	both := LobbyPlayerListBroadcast{PlayerIDs: []string{"guest", "host"}}
	assert.Equal(t, both, receive(t, hostChannel).Contents)
	assert.Equal(t, both, receive(t, guestChannel).Contents)
}

func TestHostStartsAGame(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	guestChannel := joinPlayer(t, l, "guest")
	receive(t, hostChannel) // player lists
	receive(t, hostChannel)
	receive(t, guestChannel)

	send(l, hostChannel, "host", comms.Message{
		Type:     "LobbyStartGameRequest",
		Contents: map[string]interface{}{"game": "tennis"},
	})

	response := receive(t, hostChannel)
	assert.Equal(t, LobbyStartGameResponse{Status: true}, response.Contents)

	broadcast := LobbyStartGameBroadcast{Game: "tennis"}
	assert.Equal(t, broadcast, receive(t, hostChannel).Contents)
	assert.Equal(t, broadcast, receive(t, guestChannel).Contents)
}

func TestOnlyTheHostCanStartAGame(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	guestChannel := joinPlayer(t, l, "guest")
	receive(t, hostChannel)
	receive(t, hostChannel)
	receive(t, guestChannel)

	send(l, guestChannel, "guest", comms.Message{
		Type:     "LobbyStartGameRequest",
		Contents: map[string]interface{}{"game": "tennis"},
	})

	response := receive(t, guestChannel)
	errorResponse, ok := response.Contents.(comms.ErrorResponse)
	require.True(t, ok)
	assert.Contains(t, errorResponse.Reason, "Only the host")
}

func TestStartingAGameNeedsTwoPlayers(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	receive(t, hostChannel)

	send(l, hostChannel, "host", comms.Message{
		Type:     "LobbyStartGameRequest",
		Contents: map[string]interface{}{"game": "tennis"},
	})

	response := receive(t, hostChannel)
	startResponse, ok := response.Contents.(LobbyStartGameResponse)
	require.True(t, ok)
	assert.False(t, startResponse.Status)
	assert.NotEmpty(t, startResponse.Reason)
}

func TestUnknownGameName(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	receive(t, hostChannel)

	send(l, hostChannel, "host", comms.Message{
		Type:     "LobbyStartGameRequest",
		Contents: map[string]interface{}{"game": "cricket"},
	})

	response := receive(t, hostChannel)
	errorResponse, ok := response.Contents.(comms.ErrorResponse)
	require.True(t, ok)
	assert.Contains(t, errorResponse.Reason, "Invalid game name")
}

func TestGameMessagesNeedARunningGame(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	receive(t, hostChannel)

	send(l, hostChannel, "host", comms.Message{Type: "Game/ScorePointRequest"})

	response := receive(t, hostChannel)
	errorResponse, ok := response.Contents.(comms.ErrorResponse)
	require.True(t, ok)
	assert.Contains(t, errorResponse.Reason, "LobbyStartGameRequest")
}

func TestInvalidMessageTypes(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	receive(t, hostChannel)

	send(l, hostChannel, "host", comms.Message{Type: "MakeTeaRequest"})
	response := receive(t, hostChannel)
	errorResponse, ok := response.Contents.(comms.ErrorResponse)
	require.True(t, ok)
	assert.Contains(t, errorResponse.Reason, "invalid message type")

	send(l, hostChannel, "host", comms.Message{Type: "Game/Score/Extra"})
	response = receive(t, hostChannel)
	errorResponse, ok = response.Contents.(comms.ErrorResponse)
	require.True(t, ok)
	assert.Contains(t, errorResponse.Reason, "invalid Game message type")
}

// startTennisGame brings a lobby to the point where a tennis game is running
// between the host and a guest, with both broadcast channels drained.
func startTennisGame(t *testing.T, l *Lobby, hostChannel, guestChannel chan comms.Message) {
	t.Helper()
	send(l, hostChannel, "host", comms.Message{
		Type:     "LobbyStartGameRequest",
		Contents: map[string]interface{}{"game": "tennis"},
	})
	receive(t, hostChannel) // LobbyStartGameResponse
	receive(t, hostChannel) // LobbyStartGameBroadcast
	receive(t, guestChannel)
}

func TestGameMessageRouting(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	guestChannel := joinPlayer(t, l, "guest")
	receive(t, hostChannel)
	receive(t, hostChannel)
	receive(t, guestChannel)
	startTennisGame(t, l, hostChannel, guestChannel)

	send(l, hostChannel, "host", comms.Message{Type: "Game/StartGameRequest"})

	sides := receive(t, hostChannel)
	assert.Equal(t, "Game/PlayerSidesBroadcast", sides.Type)
	assert.Equal(t, sides, receive(t, guestChannel))

	opening := receive(t, hostChannel)
	assert.Equal(t, "Game/ScoreBroadcast", opening.Type)
	assert.Equal(t, tennis.ScoreBroadcast{Score: "Love-All"}, opening.Contents)
	assert.Equal(t, opening, receive(t, guestChannel))
}

func TestScoringAPointThroughTheLobby(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	guestChannel := joinPlayer(t, l, "guest")
	receive(t, hostChannel)
	receive(t, hostChannel)
	receive(t, guestChannel)
	startTennisGame(t, l, hostChannel, guestChannel)

	send(l, guestChannel, "guest", comms.Message{
		Type:     "Game/ScorePointRequest",
		Contents: map[string]interface{}{"playerID": "guest"},
	})

	response := receive(t, guestChannel)
	assert.Equal(t, "Game/ScorePointResponse", response.Type)
	assert.Equal(t, tennis.ScorePointResponse{Status: true}, response.Contents)

	point := receive(t, hostChannel)
	assert.Equal(t, "Game/PointScoredBroadcast", point.Type)
	assert.Equal(t, point, receive(t, guestChannel))

	score := receive(t, hostChannel)
	assert.Equal(t, "Game/ScoreBroadcast", score.Type)
	assert.Equal(t, score, receive(t, guestChannel))
}

func TestBroadcastsSkipDetachedPlayers(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	guestChannel := joinPlayer(t, l, "guest")
	receive(t, hostChannel)
	receive(t, hostChannel)
	receive(t, guestChannel)

	// A disconnecting client detaches before its write channel closes;
	// broadcasts from then on must not reach the closed channel
	l.RemovePlayer("guest")
	close(guestChannel)

	latecomerChannel := joinPlayer(t, l, "latecomer")

	message := receive(t, hostChannel)
	list, ok := message.Contents.(LobbyPlayerListBroadcast)
	require.True(t, ok)
	assert.NotContains(t, list.PlayerIDs, "guest")
	assert.Contains(t, list.PlayerIDs, "latecomer")
	receive(t, latecomerChannel)
}

func TestLobbyShutdownSignalsSenders(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	receive(t, hostChannel)

	send(l, hostChannel, "host", comms.Message{Type: "PlayerLeftEvent"})

	select {
	case <-l.Done:
	case <-time.After(time.Second):
		t.Fatal("lobby shutdown did not close Done")
	}

	// A sender guarding on Done no longer blocks once the handler is gone
	for i := 0; i < cap(l.RequestChannel)+1; i++ {
		select {
		case l.RequestChannel <- comms.Request{
			ConnChannel: hostChannel,
			PlayerID:    "host",
			Message:     comms.Message{Type: "MakeTeaRequest"},
		}:
		case <-l.Done:
			return
		}
	}
	t.Fatal("sends into a closed lobby were not signalled to stop")
}

func TestSecondStartGameRequestIsRejected(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	guestChannel := joinPlayer(t, l, "guest")
	receive(t, hostChannel)
	receive(t, hostChannel)
	receive(t, guestChannel)
	startTennisGame(t, l, hostChannel, guestChannel)

	send(l, hostChannel, "host", comms.Message{
		Type:     "LobbyStartGameRequest",
		Contents: map[string]interface{}{"game": "tennis"},
	})

	response := receive(t, hostChannel)
	errorResponse, ok := response.Contents.(comms.ErrorResponse)
	require.True(t, ok)
	assert.Contains(t, errorResponse.Reason, "already running")
}

func TestHostLeavingClosesTheLobby(t *testing.T) {
	l := startTestLobby(t, "host")
	hostChannel := joinPlayer(t, l, "host")
	guestChannel := joinPlayer(t, l, "guest")
	receive(t, hostChannel)
	receive(t, hostChannel)
	receive(t, guestChannel)

	send(l, hostChannel, "host", comms.Message{Type: "PlayerLeftEvent"})

	message := receive(t, guestChannel)
	assert.Equal(t, "LobbyClosedBroadcast", message.Type)
}

func TestIsValidPlayerID(t *testing.T) {
	assert.True(t, IsValidPlayerID(uuid.NewString()))
	assert.False(t, IsValidPlayerID("not-a-uuid"))
	assert.False(t, IsValidPlayerID(""))
}

func TestNewLobbyCode(t *testing.T) {
	code := NewLobbyCode()
	assert.NotEmpty(t, code)
}
