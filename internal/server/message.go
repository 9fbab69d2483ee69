package server

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"

	"github.com/lox/holdemtable/internal/game"
)

// marshalJSON is used on the broadcast fan-out path, where one event
// can encode up to six per-viewer projections.
var marshalJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Inbound event types
const (
	EventJoin             = "join"
	EventSetStartingStack = "setStartingStack"
	EventStartGame        = "startGame"
	EventAction           = "action"
)

// Outbound event types
const (
	EventState        = "state"
	EventErrorMessage = "errorMessage"
)

// Envelope is the wire frame for every event in both directions
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// JoinData is the payload for a join event
type JoinData struct {
	Name string `json:"name"`
}

// SetStartingStackData is the payload for a setStartingStack event
type SetStartingStackData struct {
	Amount int `json:"amount"`
}

// ActionData is the payload for a betting action
type ActionData struct {
	Type   string `json:"type"`
	Amount int    `json:"amount,omitempty"`
}

// newStateEnvelope wraps a view projection for the wire
func newStateEnvelope(view *game.View) (*Envelope, error) {
	data, err := marshalJSON.Marshal(view)
	if err != nil {
		return nil, err
	}
	return &Envelope{Type: EventState, Data: data}, nil
}

// newErrorEnvelope wraps a client-protocol error for the offending
// socket only.
func newErrorEnvelope(message string) (*Envelope, error) {
	data, err := marshalJSON.Marshal(message)
	if err != nil {
		return nil, err
	}
	return &Envelope{Type: EventErrorMessage, Data: data}, nil
}
