// Package protocol defines the JSON-RPC 2.0 envelope exchanged between an
// embedded MCP App and its host, along with the method vocabulary and the
// parameter shapes for each method.
//
// The envelope is deliberately loose: hosts in the wild disagree on the
// exact method vocabulary, so anything that is not structurally a JSON-RPC
// 2.0 object is rejected at decode time and everything else is left for the
// dispatcher to classify.
package protocol

import (
	"encoding/json"
	"errors"
)

// Version is the only accepted value for the jsonrpc field.
const Version = "2.0"

// ErrNotJSONRPC is returned by Decode for input that is not a JSON-RPC 2.0
// object. Such input is dropped by callers, never surfaced.
var ErrNotJSONRPC = errors.New("not a jsonrpc 2.0 message")

// Message is the wire envelope for every message on the channel, in either
// direction. Which fields are set determines its role:
//
//   - Method set, ID nil: notification
//   - Method set, ID set: request expecting exactly one response
//   - Method empty, ID set: response to a request this side issued
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// IsResponse reports whether the message is a reply to a request this side
// issued: it carries an id but no method.
func (m *Message) IsResponse() bool { return m.ID != nil && m.Method == "" }

// IsRequest reports whether the message expects a correlated response.
func (m *Message) IsRequest() bool { return m.ID != nil && m.Method != "" }

// Decode parses raw transport bytes into a Message. Anything that is not a
// JSON object with jsonrpc == "2.0" yields ErrNotJSONRPC.
func Decode(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, ErrNotJSONRPC
	}
	if m.JSONRPC != Version {
		return Message{}, ErrNotJSONRPC
	}
	return m, nil
}

// NewNotification builds a fire-and-forget message.
func NewNotification(method string, params any) (Message, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return Message{}, err
	}
	return Message{JSONRPC: Version, Method: method, Params: raw}, nil
}

// NewRequest builds a message that expects exactly one response carrying id.
func NewRequest(id int64, method string, params any) (Message, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return Message{}, err
	}
	return Message{JSONRPC: Version, ID: &id, Method: method, Params: raw}, nil
}

// NewResponse builds the reply to a request, echoing its id.
func NewResponse(id int64, result any) (Message, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return Message{}, err
	}
	return Message{JSONRPC: Version, ID: &id, Result: raw}, nil
}

// Encode serializes the message for the transport.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	if raw, ok := params.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(params)
}
