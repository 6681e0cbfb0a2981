package handler

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/protocol"
	"github.com/emberworld/server/internal/scripting"
	"github.com/emberworld/server/internal/world"
)

// HandleChatMessage routes a chat line. Slash commands are tried first; a
// slash nobody claims falls through and is said out loud, typos included.
func (d *Deps) HandleChatMessage(c Conn, msg protocol.ChatMessage) {
	p := d.player(c)
	if p == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") && d.handleCommand(p, text) {
		return
	}

	switch msg.Channel {
	case protocol.ChannelSay:
		d.SendToMap(p.Map, protocol.ChatLog{
			Channel: protocol.ChannelSay,
			Text:    p.Name + ": " + text,
		})
	case protocol.ChannelGlobal:
		d.Broadcast(protocol.ChatLog{
			Channel: protocol.ChannelGlobal,
			Text:    p.Name + ": " + text,
		})
	case protocol.ChannelServer:
		d.Broadcast(protocol.ChatLog{Channel: protocol.ChannelServer, Text: text})
	default:
		// echo and error are client-local channels.
		d.Log.Warn("chat on reserved channel",
			zap.String("channel", string(msg.Channel)),
			zap.String("username", p.Username),
		)
	}
}

// handleCommand runs a slash command: built-ins first, then scripted ones.
// Returns false when nothing claims the command.
func (d *Deps) handleCommand(p *world.Player, text string) bool {
	name, args, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)

	switch name {
	case "warp":
		d.commandWarp(p, args)
		return true
	case "sprite":
		d.commandSprite(p, args)
		return true
	}

	if d.Scripting != nil {
		return d.Scripting.HandleCommand(d.commandContext(p), name, args)
	}
	return false
}

func (d *Deps) commandWarp(p *world.Player, args string) {
	id, err := strconv.ParseUint(args, 10, 64)
	if err != nil {
		d.replyError(p, "Usage: /warp <map>")
		return
	}
	dir := game.South
	if err := d.Warp(p, game.MapID(id), nil, &dir, false); err != nil {
		d.Log.Error("warp command failed", zap.String("username", p.Username), zap.Error(err))
		d.replyError(p, "Warp failed.")
	}
}

// commandSprite changes any online character's sprite: /sprite <name> <id>.
// The name may contain spaces, so the sprite id is split off the tail.
func (d *Deps) commandSprite(p *world.Player, args string) {
	i := strings.LastIndex(args, " ")
	if i < 0 {
		d.replyError(p, "Usage: /sprite <name> <sprite>")
		return
	}
	name := strings.TrimSpace(args[:i])
	sprite, err := strconv.ParseUint(args[i+1:], 10, 32)
	if err != nil {
		d.replyError(p, "Usage: /sprite <name> <sprite>")
		return
	}

	target := d.World.GetByName(name)
	if target == nil {
		d.replyError(p, "No such player: "+name)
		return
	}

	target.Sprite = uint32(sprite)
	target.Dirty = true
	if err := d.Stores.Players.Save(target.Record()); err != nil {
		d.Log.Error("player save after sprite change failed",
			zap.String("username", target.Username),
			zap.Error(err),
		)
	} else {
		target.Dirty = false
	}

	snap := target.Protocol()
	d.SendToMap(target.Map, protocol.PlayerData{ID: target.ID, Player: &snap})
}

func (d *Deps) replyError(p *world.Player, text string) {
	p.Session.SendMessage(protocol.ChatLog{Channel: protocol.ChannelError, Text: text})
}

// commandContext is the world surface handed to Lua command scripts.
func (d *Deps) commandContext(p *world.Player) scripting.CommandContext {
	return scripting.CommandContext{
		Caller: p.Name,
		Reply: func(text string) {
			d.replyError(p, text)
		},
		Announce: func(text string) {
			d.Broadcast(protocol.ChatLog{Channel: protocol.ChannelServer, Text: text})
		},
		Warp: func(mapID uint64) {
			if err := d.Warp(p, game.MapID(mapID), nil, nil, false); err != nil {
				d.Log.Error("scripted warp failed", zap.String("username", p.Username), zap.Error(err))
			}
		},
		Online: func() []string {
			var names []string
			d.World.Each(func(other *world.Player) {
				names = append(names, other.Name)
			})
			sort.Strings(names)
			return names
		},
	}
}
