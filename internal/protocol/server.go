package protocol

import (
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/gamemap"
)

// Messages sent from the server to the client.

// JoinGame confirms a successful login and tells the client its own entity id.
type JoinGame struct {
	ID game.Entity `json:"id"`
}

func (JoinGame) Type() string { return TypeJoinGame }

type FailedJoin struct {
	Reason FailJoinReason `json:"reason"`
}

func (FailedJoin) Type() string { return TypeFailedJoin }

// PlayerData announces or removes a visible player. A nil Player means the
// entity left the recipient's view and must be dropped.
type PlayerData struct {
	ID     game.Entity `json:"id"`
	Player *Player     `json:"player,omitempty"`
}

func (PlayerData) Type() string { return TypePlayerData }

// PlayerState is the authoritative movement snapshot broadcast every
// broadcast interval for each entity that moved.
type PlayerState struct {
	State game.State `json:"state"`
}

func (PlayerState) Type() string { return TypePlayerState }

type ChatLog struct {
	Channel ChatChannel `json:"channel"`
	Text    string      `json:"text"`
}

func (ChatLog) Type() string { return TypeChatLog }

// ChangeMap tells the client it is now on another map. The client compares
// CacheKey against its cached copy and sends RequestMap only on mismatch.
type ChangeMap struct {
	Map      game.MapID `json:"map"`
	CacheKey uint64     `json:"cacheKey"`
}

func (ChangeMap) Type() string { return TypeChangeMap }

type MapData struct {
	Map *gamemap.Map `json:"map"`
}

func (MapData) Type() string { return TypeMapData }

// MapEditorData seeds the editor UI: the list of known maps plus the current
// map's dimensions and settings.
type MapEditorData struct {
	Maps     map[game.MapID]string `json:"maps"`
	ID       game.MapID            `json:"id"`
	Width    int                   `json:"width"`
	Height   int                   `json:"height"`
	Settings gamemap.Settings      `json:"settings"`
}

func (MapEditorData) Type() string { return TypeMapEditorData }

// Flags updates the transient flags of a visible player.
type Flags struct {
	ID    game.Entity `json:"id"`
	Flags PlayerFlags `json:"flags"`
}

func (Flags) Type() string { return TypeFlags }
