package handler

import (
	"github.com/emberworld/server/internal/protocol"
)

// HandleInput queues one movement input for replay on the next tick.
func (d *Deps) HandleInput(c Conn, msg protocol.MoveInput) {
	p := d.player(c)
	if p == nil {
		return
	}
	p.QueueInput(msg.Input)
}
