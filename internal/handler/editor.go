package handler

import (
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/protocol"
	"github.com/emberworld/server/internal/world"
)

// HandleMapEditor toggles the map editor for a player. The flag change is
// visible to everyone on the map; opening also seeds the editor UI.
func (d *Deps) HandleMapEditor(c Conn, msg protocol.MapEditor) {
	p := d.player(c)
	if p == nil {
		return
	}

	p.Flags.InMapEditor = msg.Open
	d.SendToMap(p.Map, protocol.Flags{ID: p.ID, Flags: p.Flags})

	if msg.Open {
		d.sendMapEditor(p)
	}
}

// sendMapEditor sends the editor snapshot: every known map by name plus the
// current map's dimensions and settings.
func (d *Deps) sendMapEditor(p *world.Player) {
	m := d.World.Map(p.Map)
	if m == nil {
		return
	}

	maps := make(map[game.MapID]string, len(d.World.Maps()))
	for id, known := range d.World.Maps() {
		maps[id] = known.Settings.Name
	}

	p.Session.SendMessage(protocol.MapEditorData{
		Maps:     maps,
		ID:       m.ID,
		Width:    m.Width,
		Height:   m.Height,
		Settings: m.Settings,
	})
}
