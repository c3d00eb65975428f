// Package geom holds the small 2D geometry toolkit shared by the decision
// core. Angles are in degrees, matching the soccer server protocol.
package geom

import "math"

// Vec2 is a point or displacement on the pitch, in metres.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Polar builds a vector of length r pointing at dir degrees.
func Polar(r, dir float64) Vec2 {
	return Vec2{X: r * CosDeg(dir), Y: r * SinDeg(dir)}
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len2() float64        { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Len() }
func (v Vec2) Dist2(o Vec2) float64 { return v.Sub(o).Len2() }
func (v Vec2) AbsX() float64        { return math.Abs(v.X) }
func (v Vec2) AbsY() float64        { return math.Abs(v.Y) }
func (v Vec2) Equals(o Vec2) bool   { return v.X == o.X && v.Y == o.Y }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Dir returns the direction of v in degrees. The zero vector points at 0.
func (v Vec2) Dir() float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return Deg(math.Atan2(v.Y, v.X))
}

// Rotate turns v by deg degrees counter-clockwise.
func (v Vec2) Rotate(deg float64) Vec2 {
	c, s := CosDeg(deg), SinDeg(deg)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// WithLen rescales v to length r. The zero vector stays zero.
func (v Vec2) WithLen(r float64) Vec2 {
	l := v.Len()
	if l < 1e-12 {
		return Vec2{}
	}
	return v.Scale(r / l)
}

// Unit returns v normalised to length 1.
func (v Vec2) Unit() Vec2 { return v.WithLen(1) }

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
