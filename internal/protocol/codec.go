package protocol

import (
	"encoding/json"
	"fmt"
)

// Wire format: every message is one JSON envelope {"t": type, "d": payload}.
// Type tags live in a single namespace so a captured stream reads unambiguously.
const (
	TypeCreateAccount = "createAccount"
	TypeLogin         = "login"
	TypeInput         = "input"
	TypeChatMessage   = "chatMessage"
	TypeRequestMap    = "requestMap"
	TypeSaveMap       = "saveMap"
	TypeWarp          = "warp"
	TypeMapEditor     = "mapEditor"

	TypeJoinGame      = "joinGame"
	TypeFailedJoin    = "failedJoin"
	TypePlayerData    = "playerData"
	TypePlayerState   = "playerState"
	TypeChatLog       = "chatLog"
	TypeChangeMap     = "changeMap"
	TypeMapData       = "mapData"
	TypeMapEditorData = "mapEditorData"
	TypeFlags         = "flags"
)

// Message is any payload that knows its envelope type tag.
type Message interface {
	Type() string
}

type envelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// Encode wraps a message in its envelope.
func Encode(msg Message) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Type(), err)
	}
	return json.Marshal(envelope{T: msg.Type(), D: payload})
}

func decodeInto[T Message](data json.RawMessage) (Message, error) {
	var msg T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

var clientDecoders = map[string]func(json.RawMessage) (Message, error){
	TypeCreateAccount: decodeInto[CreateAccount],
	TypeLogin:         decodeInto[Login],
	TypeInput:         decodeInto[MoveInput],
	TypeChatMessage:   decodeInto[ChatMessage],
	TypeRequestMap:    decodeInto[RequestMap],
	TypeSaveMap:       decodeInto[SaveMap],
	TypeWarp:          decodeInto[Warp],
	TypeMapEditor:     decodeInto[MapEditor],
}

var serverDecoders = map[string]func(json.RawMessage) (Message, error){
	TypeJoinGame:      decodeInto[JoinGame],
	TypeFailedJoin:    decodeInto[FailedJoin],
	TypePlayerData:    decodeInto[PlayerData],
	TypePlayerState:   decodeInto[PlayerState],
	TypeChatLog:       decodeInto[ChatLog],
	TypeChangeMap:     decodeInto[ChangeMap],
	TypeMapData:       decodeInto[MapData],
	TypeMapEditorData: decodeInto[MapEditorData],
	TypeFlags:         decodeInto[Flags],
}

func decode(data []byte, decoders map[string]func(json.RawMessage) (Message, error)) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	dec, ok := decoders[env.T]
	if !ok {
		return nil, fmt.Errorf("unknown message type %q", env.T)
	}
	msg, err := dec(env.D)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.T, err)
	}
	return msg, nil
}

// DecodeClient parses a message sent by a client. The server only ever
// decodes through this, so a client echoing server messages gets rejected.
func DecodeClient(data []byte) (Message, error) {
	return decode(data, clientDecoders)
}

// DecodeServer parses a message sent by the server.
func DecodeServer(data []byte) (Message, error) {
	return decode(data, serverDecoders)
}
