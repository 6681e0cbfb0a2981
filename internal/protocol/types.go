package protocol

import (
	"github.com/emberworld/server/internal/game"
)

// ChatChannel routes a chat line to the right window and color client side.
type ChatChannel string

const (
	// ChannelEcho is client-local output, never sent over the wire by the
	// server but reserved so clients can reuse the chat log for it.
	ChannelEcho   ChatChannel = "echo"
	ChannelServer ChatChannel = "server"
	ChannelSay    ChatChannel = "say"
	ChannelGlobal ChatChannel = "global"
	ChannelError  ChatChannel = "error"
)

// FailJoinReason tells a client why CreateAccount or Login was rejected.
type FailJoinReason string

const (
	UsernameTaken      FailJoinReason = "usernameTaken"
	CharacterNameTaken FailJoinReason = "characterNameTaken"
	LoginIncorrect     FailJoinReason = "loginIncorrect"
)

// Message returns the human readable form shown in the client's error dialog.
func (r FailJoinReason) Message() string {
	switch r {
	case UsernameTaken:
		return "username is taken"
	case CharacterNameTaken:
		return "character name is taken"
	case LoginIncorrect:
		return "username/password is incorrect"
	default:
		return string(r)
	}
}

// PlayerFlags are transient, per-session toggles shared with everyone on the
// same map.
type PlayerFlags struct {
	InMapEditor bool `json:"inMapEditor"`
}

// Player is the full appearance snapshot of one entity, sent when a player
// becomes visible to another. Movement afterwards flows through the much
// smaller State updates.
type Player struct {
	Name      string         `json:"name"`
	Position  game.Vec2      `json:"position"`
	Velocity  game.Vec2      `json:"velocity"`
	Map       game.MapID     `json:"map"`
	Sprite    uint32         `json:"sprite"`
	Direction game.Direction `json:"direction"`
	Flags     PlayerFlags    `json:"flags"`
}
