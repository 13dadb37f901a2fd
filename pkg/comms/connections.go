package comms

import (
	"github.com/gorilla/websocket"
)

// ConnectionWrapper wraps a client websocket connection, handling communication.
type ConnectionWrapper struct {
	Socket       *websocket.Conn
	WriteChannel chan Message
	PlayerID     string
}

func NewConnectionWrapper(socket *websocket.Conn) *ConnectionWrapper {
	return &ConnectionWrapper{
		Socket:       socket,
		WriteChannel: make(chan Message, 16),
	}
}

// ReadMessage reads the next message in from the client.
func (c *ConnectionWrapper) ReadMessage() (Message, error) {
	var message Message
	err := c.Socket.ReadJSON(&message)
	return message, err
}

// WritePump forwards messages from the write channel to the client until the
// channel is closed. Run it in its own goroutine; it is the only writer on the
// socket.
func (c *ConnectionWrapper) WritePump() {
	for message := range c.WriteChannel {
		if err := c.Socket.WriteJSON(message); err != nil {
			return
		}
	}
}

// Close closes the write channel and the underlying socket.
func (c *ConnectionWrapper) Close() {
	close(c.WriteChannel)
	c.Socket.Close()
}
