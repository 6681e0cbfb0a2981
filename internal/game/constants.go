package game

// World units: one tile is TileSize units, sprites are one tile square.
const (
	TileSize   = 48.0
	SpriteSize = 48.0
)

// Movement tuning. Speeds are world units per second.
const (
	WalkSpeed    = 2.5 * TileSize
	RunSpeed     = 5.0 * TileSize
	Acceleration = RunSpeed * 10.0
	Friction     = Acceleration * 0.3
)

// Simulation timing. The server advances at TickRate and broadcasts each
// entity's state at most once per BroadcastInterval; clients smooth remote
// entities over the same window.
const (
	TickRate          = 30.0
	TickInterval      = 1.0 / TickRate
	BroadcastInterval = 1.0 / 20.0
	LerpDuration      = BroadcastInterval
)

// stopEpsilon is the velocity magnitude below which an entity is considered
// standing still. Position must not advance under it or idle entities drift.
const stopEpsilon = 1e-6
