package game

// Input is one client-submitted movement intent. The client assigns strictly
// increasing sequence numbers; the server replays inputs verbatim and echoes
// the last applied sequence back inside State.
type Input struct {
	Acceleration Vec2    `json:"acceleration"`
	Running      bool    `json:"running"`
	Sequence     uint64  `json:"sequence"`
	DT           float64 `json:"dt"`
}

// State is the authoritative kinematic snapshot of one entity. It is the
// single unit exchanged for movement synchronization and is always derived
// by applying an Input to a prior State.
type State struct {
	ID           Entity    `json:"id"`
	Position     Vec2      `json:"position"`
	Velocity     Vec2      `json:"velocity"`
	Direction    Direction `json:"direction"`
	Map          MapID     `json:"map"`
	MaxSpeed     float64   `json:"maxSpeed"`
	LastSequence uint64    `json:"lastSequence"`
}

// ApplyInput advances the state by one input step. This function is the
// movement integrator: it must behave identically on client and server for
// the same input, or prediction diverges. Keep it pure and free of any
// source of nondeterminism.
func (s *State) ApplyInput(in Input, friction float64) {
	if in.Running {
		s.MaxSpeed = RunSpeed
	} else {
		s.MaxSpeed = WalkSpeed
	}

	candidate := s.Velocity.Add(in.Acceleration).ClampLength(0, s.MaxSpeed)
	frictionForce := candidate.Normalize().Scale(friction * in.DT)

	// Friction opposes motion but can never reverse it.
	if frictionForce.LengthSq() <= candidate.LengthSq() {
		s.Velocity = candidate.Sub(frictionForce)
	} else {
		s.Velocity = Vec2{}
	}

	if s.Velocity.LengthSq() >= stopEpsilon*stopEpsilon {
		s.Position = s.Position.Add(s.Velocity.Scale(in.DT))
	} else {
		s.Velocity = Vec2{}
	}

	s.LastSequence = in.Sequence
}

// FromInput returns the state after applying in, leaving s untouched.
func (s State) FromInput(in Input, friction float64) State {
	next := s
	next.ApplyInput(in, friction)
	return next
}

// Lerp interpolates between two authoritative snapshots. Identity fields come
// from the target; velocity is the implied velocity of the interpolation so
// walk animations match the on-screen motion.
func (s State) Lerp(target State, t float64) State {
	position := s.Position.Lerp(target.Position, t)
	velocity := target.Position.Sub(s.Position).Scale(1.0 / LerpDuration)

	direction := target.Direction
	if d, ok := DirectionFromVelocity(velocity); ok {
		direction = d
	}

	return State{
		ID:           target.ID,
		Position:     position,
		Velocity:     velocity,
		Direction:    direction,
		Map:          target.Map,
		MaxSpeed:     target.MaxSpeed,
		LastSequence: target.LastSequence,
	}
}

// Interpolation smooths a remote entity between two authoritative states.
// Client-only; the authoritative copy is never mutated through it.
type Interpolation struct {
	Source State
	Target State
	Start  float64
}

// At computes the smoothed state for the given time (seconds, same clock as
// Start). Clamped, so it is safe to call before Start and after completion.
func (ip Interpolation) At(now float64) State {
	t := (now - ip.Start) / LerpDuration
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return ip.Source.Lerp(ip.Target, t)
}

// CollisionBox is the footprint used for blocking and trigger checks: the
// lower half of the sprite only, so sprites may visually overlap above the
// feet without colliding.
func CollisionBox(position Vec2) Box2 {
	return BoxFromOriginSize(
		position.Add(Vec2{0, SpriteSize / 2}),
		Vec2{SpriteSize, SpriteSize / 2},
	)
}
