package client

import (
	"github.com/emberworld/server/internal/game"
)

// RemoteView smooths other entities between authoritative snapshots. Moving
// entities interpolate over the broadcast window; a stopped entity snaps so
// it does not glide to a halt after the fact.
type RemoteView struct {
	entities map[game.Entity]*remoteEntity
}

type remoteEntity struct {
	target game.State
	interp *game.Interpolation
}

func NewRemoteView() *RemoteView {
	return &RemoteView{
		entities: make(map[game.Entity]*remoteEntity),
	}
}

func (e *remoteEntity) displayed(now float64) game.State {
	if e.interp == nil {
		return e.target
	}
	return e.interp.At(now)
}

// Observe folds in a new authoritative snapshot at the given time (seconds).
func (v *RemoteView) Observe(st game.State, now float64) {
	e, ok := v.entities[st.ID]
	if !ok {
		v.entities[st.ID] = &remoteEntity{target: st}
		return
	}

	if st.Velocity != (game.Vec2{}) {
		current := e.displayed(now)
		e.interp = &game.Interpolation{Source: current, Target: st, Start: now}
	} else {
		e.interp = nil
	}
	e.target = st
}

// At returns the smoothed state of one entity for rendering.
func (v *RemoteView) At(id game.Entity, now float64) (game.State, bool) {
	e, ok := v.entities[id]
	if !ok {
		return game.State{}, false
	}
	return e.displayed(now), true
}

// Remove drops an entity that left the view.
func (v *RemoteView) Remove(id game.Entity) {
	delete(v.entities, id)
}

// Each visits the smoothed state of every tracked entity.
func (v *RemoteView) Each(now float64, fn func(game.State)) {
	for _, e := range v.entities {
		fn(e.displayed(now))
	}
}
