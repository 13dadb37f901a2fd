package comms

import (
	"fmt"
	"reflect"
)

// Message is the envelope for all conversation with a client.
type Message struct {
	Type     string      `json:"type"`
	Contents interface{} `json:"contents,omitempty"`
}

// ToMessage wraps typed message contents in a Message, using the name of the
// contents struct as the message type.
func ToMessage(contents interface{}) Message {
	return Message{
		Type:     reflect.TypeOf(contents).Name(),
		Contents: contents,
	}
}

// Request holds a Message and the identity and reply channel of the client
// which sent it.
type Request struct {
	ConnChannel chan Message
	PlayerID    string
	Message     Message
}

// Error replies to the client with an ErrorResponse.
func (r Request) Error(reason string, err error) {
	if err != nil {
		reason = fmt.Sprintf("%s: %s", reason, err)
	}
	r.ConnChannel <- ToMessage(ErrorResponse{Reason: reason})
}

// ErrorResponse is returned to the client when a request cannot be served.
type ErrorResponse struct {
	Reason string `json:"reason"`
}

// ErrorDecodingMessageResponse is returned when message contents do not match
// the shape the message type requires.
type ErrorDecodingMessageResponse struct{}
