package game

import "math"

// Vec2 is a 2-D world-space vector. Positions and velocities share the type;
// the math must stay identical between client prediction and server
// authority, so nothing here may be approximated per-platform.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Length() float64   { return math.Hypot(v.X, v.Y) }
func (v Vec2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Normalize returns the unit vector, or zero for the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// ClampLength limits the vector's magnitude to [min, max].
func (v Vec2) ClampLength(min, max float64) Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	if l < min {
		return v.Scale(min / l)
	}
	if l > max {
		return v.Scale(max / l)
	}
	return v
}

// Lerp linearly interpolates toward o by t in [0, 1].
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Box2 is an axis-aligned world-space rectangle, min-inclusive.
type Box2 struct {
	Min Vec2 `json:"min" yaml:"min"`
	Max Vec2 `json:"max" yaml:"max"`
}

// BoxFromOriginSize builds a box from its top-left corner and a size.
func BoxFromOriginSize(origin, size Vec2) Box2 {
	return Box2{Min: origin, Max: origin.Add(size)}
}

// BoxFromSize builds a box anchored at the origin.
func BoxFromSize(size Vec2) Box2 {
	return Box2{Max: size}
}

// Intersects reports whether the interiors overlap. Touching edges do not
// count, so entities can stand flush against a blocked zone.
func (b Box2) Intersects(o Box2) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y
}

// ContainsBox reports whether o lies entirely inside b.
func (b Box2) ContainsBox(o Box2) bool {
	return b.Min.X <= o.Min.X && o.Max.X <= b.Max.X &&
		b.Min.Y <= o.Min.Y && o.Max.Y <= b.Max.Y
}

// ContainsPoint reports whether p lies inside b (min-inclusive).
func (b Box2) ContainsPoint(p Vec2) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// Size returns the box dimensions.
func (b Box2) Size() Vec2 { return b.Max.Sub(b.Min) }
