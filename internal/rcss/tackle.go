package rcss

import (
	"math"

	"github.com/Garsondee/Striker-Sense/internal/geom"
)

// TackleProbability returns the server's tackle success probability for a
// player at pos facing body (degrees) against a ball at ballPos.
//
//	fail = (|x|/dist)^exp + (|y|/width)^exp   (ball in the body frame)
//	success = max(0, 1 - fail)
//
// dist is TackleDist in front of the player and TackleBackDist behind.
func (sp *ServerParams) TackleProbability(pos geom.Vec2, body float64, ballPos geom.Vec2) float64 {
	rel := ballPos.Sub(pos).Rotate(-body)
	dist := sp.TackleDist
	if rel.X < 0 {
		dist = sp.TackleBackDist
	}
	if dist <= 1e-9 || sp.TackleWidth <= 1e-9 {
		return 0
	}
	nx := math.Abs(rel.X) / dist
	ny := math.Abs(rel.Y) / sp.TackleWidth
	if nx >= 1 || ny >= 1 {
		return 0
	}
	fail := math.Pow(nx, sp.TackleExponent) + math.Pow(ny, sp.TackleExponent)
	if fail >= 1 || math.IsNaN(fail) {
		return 0
	}
	return 1 - fail
}
