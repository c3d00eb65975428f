package geom

import "math"

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min, Max Vec2
}

// RectCentered builds a rect around c with half extents hx, hy.
func RectCentered(c Vec2, hx, hy float64) Rect {
	return Rect{Min: V(c.X-hx, c.Y-hy), Max: V(c.X+hx, c.Y+hy)}
}

// Contains reports whether p lies inside r, borders included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Segment is the line segment A→B.
type Segment struct {
	A, B Vec2
}

// Length of the segment.
func (s Segment) Length() float64 { return s.A.Dist(s.B) }

// Nearest returns the point on s closest to p.
func (s Segment) Nearest(p Vec2) Vec2 {
	d := s.B.Sub(s.A)
	l2 := d.Len2()
	if l2 < 1e-12 {
		return s.A
	}
	t := p.Sub(s.A).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return s.A.Add(d.Scale(t))
}

// DistTo returns the distance from p to the segment.
func (s Segment) DistTo(p Vec2) float64 { return p.Dist(s.Nearest(p)) }

// HitT returns the first parameter t in [0,1] where the segment enters r.
// The bool is false when there is no hit.
func (s Segment) HitT(r Rect) (float64, bool) {
	dx := s.B.X - s.A.X
	dy := s.B.Y - s.A.Y

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if s.A.X < r.Min.X || s.A.X > r.Max.X {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (r.Min.X - s.A.X) * invD
		t2 := (r.Max.X - s.A.X) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(dy) < 1e-12 {
		if s.A.Y < r.Min.Y || s.A.Y > r.Max.Y {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (r.Min.Y - s.A.Y) * invD
		t2 := (r.Max.Y - s.A.Y) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return math.Max(tMin, 0), true
}

// Intersects reports whether the segment touches r.
func (s Segment) Intersects(r Rect) bool {
	_, hit := s.HitT(r)
	return hit
}

// CrossX returns where the infinite line through s crosses the vertical
// line at x. ok is false when s is vertical-parallel or does not reach x
// going forward from A.
func (s Segment) CrossX(x float64) (y float64, ok bool) {
	dx := s.B.X - s.A.X
	if math.Abs(dx) < 1e-12 {
		return 0, false
	}
	t := (x - s.A.X) / dx
	if t < 0 {
		return 0, false
	}
	return s.A.Y + (s.B.Y-s.A.Y)*t, true
}
