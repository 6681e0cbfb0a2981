package protocol

import (
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/gamemap"
)

// Messages sent from the client to the server.

type CreateAccount struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	CharacterName string `json:"characterName"`
}

func (CreateAccount) Type() string { return TypeCreateAccount }

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (Login) Type() string { return TypeLogin }

// MoveInput carries one predicted movement step for server replay.
type MoveInput struct {
	Input game.Input `json:"input"`
}

func (MoveInput) Type() string { return TypeInput }

type ChatMessage struct {
	Channel ChatChannel `json:"channel"`
	Text    string      `json:"text"`
}

func (ChatMessage) Type() string { return TypeChatMessage }

// RequestMap asks for the full data of the client's current map, sent when
// the local cache misses or is stale.
type RequestMap struct{}

func (RequestMap) Type() string { return TypeRequestMap }

// SaveMap submits an edited copy of the client's current map.
type SaveMap struct {
	Map *gamemap.Map `json:"map"`
}

func (SaveMap) Type() string { return TypeSaveMap }

// Warp is an editor command to jump to a map, optionally at an exact point.
type Warp struct {
	Map      game.MapID `json:"map"`
	Position *game.Vec2 `json:"position,omitempty"`
}

func (Warp) Type() string { return TypeWarp }

// MapEditor opens or closes the map editor for this player.
type MapEditor struct {
	Open bool `json:"open"`
}

func (MapEditor) Type() string { return TypeMapEditor }
