package game

import "fmt"

// Direction is a cardinal facing. South is the default for fresh characters
// and for degenerate velocity vectors.
type Direction uint8

const (
	South Direction = iota
	West
	East
	North
)

var directionNames = [...]string{"south", "west", "east", "north"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(directionNames[d]), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if string(text) == name {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("invalid direction %q", text)
}

// Reverse returns the opposite facing.
func (d Direction) Reverse() Direction {
	switch d {
	case South:
		return North
	case North:
		return South
	case West:
		return East
	default:
		return West
	}
}

// Offset returns the unit vector for the facing. North is -Y: world space
// grows downward, matching screen space.
func (d Direction) Offset() Vec2 {
	switch d {
	case South:
		return Vec2{0, 1}
	case West:
		return Vec2{-1, 0}
	case East:
		return Vec2{1, 0}
	default:
		return Vec2{0, -1}
	}
}

// DirectionFromVelocity derives a facing from a velocity vector. Zero and
// perfectly diagonal velocities are ambiguous and report ok=false so callers
// keep the previous facing.
func DirectionFromVelocity(v Vec2) (Direction, bool) {
	ax, ay := v.X, v.Y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	if v.IsZero() || ax == ay {
		return South, false
	}
	if ax > ay {
		if v.X > 0 {
			return East, true
		}
		return West, true
	}
	if v.Y > 0 {
		return South, true
	}
	return North, true
}
