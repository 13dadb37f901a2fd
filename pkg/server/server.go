package server

import (
	"fmt"
	"net/http"

	"github.com/courtside/games-backend/pkg/comms"
	"github.com/courtside/games-backend/pkg/config"
	"github.com/courtside/games-backend/pkg/lobby"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"

	"go.uber.org/zap"
)

// Server stores all connection dependencies for the websocket server.
type Server struct {
	Log *zap.Logger

	config         *config.Config
	lobbies        *lobby.LobbyStore
	socketUpgrader websocket.Upgrader
	workers        chan struct{}
}

// NewServer constructs a new Server instance.
func NewServer(
	log *zap.Logger,
	conf *config.Config,
	checkOriginFunc func(r *http.Request) bool,
) *Server {
	return &Server{
		Log:            log,
		config:         conf,
		lobbies:        &lobby.LobbyStore{},
		socketUpgrader: websocket.Upgrader{CheckOrigin: checkOriginFunc},
	}
}

// Start starts up the websocket server, serving at most maxWorkers concurrent
// client connections.
func (s *Server) Start(port string, maxWorkers int) error {
	s.workers = make(chan struct{}, maxWorkers)
	http.HandleFunc("/", s.connectionHandler)

	s.Log.Info("Started server", zap.String("port", port))
	return http.ListenAndServe(":"+port, nil)
}

// connectionHandler upgrades new HTTP requests from clients to websockets,
// reading in further messages from those clients.
func (s *Server) connectionHandler(w http.ResponseWriter, r *http.Request) {
	socket, err := s.socketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Error("Unable to upgrade connection", zap.Error(err))
		return
	}

	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	conn := comms.NewConnectionWrapper(socket)
	go conn.WritePump()
	defer conn.Close()

	s.serveConnection(conn)
}

// serveConnection performs the lobby handshake for a new client and then
// forwards its messages into the lobby until it disconnects.
func (s *Server) serveConnection(conn *comms.ConnectionWrapper) {
	message, err := conn.ReadMessage()
	if err != nil {
		return
	}

	var l *lobby.Lobby
	switch message.Type {

	case "LobbyCreateRequest":
		var contents lobby.LobbyCreateRequest
		if err := mapstructure.Decode(message.Contents, &contents); err != nil {
			conn.WriteChannel <- comms.ToMessage(comms.ErrorDecodingMessageResponse{})
			return
		}
		if !lobby.IsValidPlayerID(contents.PlayerID) {
			conn.WriteChannel <- comms.ToMessage(lobby.InvalidPlayerIDResponse{})
			return
		}

		conn.PlayerID = contents.PlayerID
		l = lobby.NewLobby(s.Log, contents.PlayerID)
		s.lobbies.Put(l.LobbyID, l)
		go l.LobbyRequestHandler(s.config)
		conn.WriteChannel <- comms.ToMessage(lobby.LobbyCreateResponse{LobbyID: l.LobbyID})

	case "LobbyJoinRequest":
		var contents lobby.LobbyJoinRequest
		if err := mapstructure.Decode(message.Contents, &contents); err != nil {
			conn.WriteChannel <- comms.ToMessage(comms.ErrorDecodingMessageResponse{})
			return
		}
		if !lobby.IsValidPlayerID(contents.PlayerID) {
			conn.WriteChannel <- comms.ToMessage(lobby.InvalidPlayerIDResponse{})
			return
		}

		var ok bool
		if l, ok = s.lobbies.Get(contents.LobbyID); !ok {
			conn.WriteChannel <- comms.ToMessage(lobby.LobbyDoesNotExistResponse{})
			return
		}
		conn.PlayerID = contents.PlayerID

	default:
		conn.WriteChannel <- comms.ToMessage(comms.ErrorResponse{
			Reason: fmt.Sprintf(
				"%s is an invalid handshake message type, expected a "+
					"LobbyCreateRequest or LobbyJoinRequest", message.Type),
		})
		return
	}

	select {
	case l.RequestChannel <- comms.Request{
		ConnChannel: conn.WriteChannel,
		PlayerID:    conn.PlayerID,
		Message:     comms.Message{Type: "PlayerJoinedEvent"},
	}:
	case <-l.Done:
		conn.WriteChannel <- comms.ToMessage(lobby.LobbyDoesNotExistResponse{})
		return
	}
	defer s.leaveLobby(conn, l)

	// Forever handle messages from this client
	for {
		message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err) {
				s.Log.Info("Client errored or disconnected", zap.Error(err))
			}
			return
		}
		select {
		case l.RequestChannel <- comms.Request{
			ConnChannel: conn.WriteChannel,
			PlayerID:    conn.PlayerID,
			Message:     message,
		}:
		case <-l.Done:
			// The lobby shut down underneath this client
			return
		}
	}
}

// leaveLobby notifies the lobby that a client has disconnected. A lobby whose
// host leaves shuts down and is removed from the store.
func (s *Server) leaveLobby(conn *comms.ConnectionWrapper, l *lobby.Lobby) {
	// Detach the write channel before the connection closes it, so lobby
	// broadcasts can no longer reach a closed channel
	l.RemovePlayer(conn.PlayerID)

	select {
	case l.RequestChannel <- comms.Request{
		ConnChannel: conn.WriteChannel,
		PlayerID:    conn.PlayerID,
		Message:     comms.Message{Type: "PlayerLeftEvent"},
	}:
	case <-l.Done:
	}

	if conn.PlayerID == l.Host {
		s.lobbies.Delete(l.LobbyID)
	}
}
