// Package client implements the simulation-facing pieces a game client
// needs: input prediction with server reconciliation, remote entity
// smoothing, the map cache, and the websocket connection.
package client

import (
	"github.com/emberworld/server/internal/game"
)

// maxPendingInputs caps the unacknowledged input history. The server only
// echoes the local entity's state on corrections and warps, so an undisturbed
// walk would otherwise grow the list forever; a rewind never reaches further
// back than this window anyway.
const maxPendingInputs = 64

// Predictor runs the local entity's movement ahead of the server. Every step
// is applied immediately and kept until the server echoes its sequence
// number back; unacknowledged steps are replayed on top of each server
// snapshot so a correction rewinds only what the server has not yet seen.
type Predictor struct {
	state   game.State
	pending []game.Input
	nextSeq uint64
}

func NewPredictor(initial game.State) *Predictor {
	return &Predictor{state: initial}
}

// State is the predicted state to render the local entity at.
func (p *Predictor) State() game.State {
	return p.state
}

// Step advances the prediction by one frame and returns the input to send.
func (p *Predictor) Step(acceleration game.Vec2, running bool, dt float64) game.Input {
	p.nextSeq++
	in := game.Input{
		Acceleration: acceleration,
		Running:      running,
		Sequence:     p.nextSeq,
		DT:           dt,
	}
	p.state.ApplyInput(in, game.Friction)
	if len(p.pending) >= maxPendingInputs {
		copy(p.pending, p.pending[1:])
		p.pending = p.pending[:len(p.pending)-1]
	}
	p.pending = append(p.pending, in)
	return in
}

// Reconcile folds an authoritative snapshot into the prediction: inputs the
// server has applied are dropped, the rest replay on top of the snapshot.
// With no divergence this lands exactly on the predicted state.
func (p *Predictor) Reconcile(server game.State) {
	kept := p.pending[:0]
	for _, in := range p.pending {
		if in.Sequence > server.LastSequence {
			kept = append(kept, in)
		}
	}
	p.pending = kept

	st := server
	for _, in := range p.pending {
		st.ApplyInput(in, game.Friction)
	}
	p.state = st
}

// PendingCount reports how many inputs await acknowledgement.
func (p *Predictor) PendingCount() int {
	return len(p.pending)
}
