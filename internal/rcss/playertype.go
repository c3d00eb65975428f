package rcss

import (
	"fmt"
	"math"
	"sort"

	"github.com/Garsondee/Striker-Sense/internal/geom"
)

// dashTableSize is the number of cycles precomputed in the dash-distance tables.
const dashTableSize = 50

// PlayerTypeParams are the raw heterogeneous player parameters as sent by
// the server in player_type messages.
type PlayerTypeParams struct {
	ID                    int     `mapstructure:"id"`
	SpeedMax              float64 `mapstructure:"playerSpeedMax"`
	StaminaIncMax         float64 `mapstructure:"staminaIncMax"`
	Decay                 float64 `mapstructure:"playerDecay"`
	InertiaMoment         float64 `mapstructure:"inertiaMoment"`
	DashPowerRate         float64 `mapstructure:"dashPowerRate"`
	PlayerSize            float64 `mapstructure:"playerSize"`
	KickableMargin        float64 `mapstructure:"kickableMargin"`
	KickRand              float64 `mapstructure:"kickRand"`
	ExtraStamina          float64 `mapstructure:"extraStamina"`
	EffortMax             float64 `mapstructure:"effortMax"`
	EffortMin             float64 `mapstructure:"effortMin"`
	KickPowerRate         float64 `mapstructure:"kickPowerRate"`
	CatchableAreaLStretch float64 `mapstructure:"catchableAreaLStretch"`
}

// DefaultPlayerTypeParams returns the parameters of heterogeneous type 0.
func DefaultPlayerTypeParams() PlayerTypeParams {
	return PlayerTypeParams{
		ID:                    0,
		SpeedMax:              1.05,
		StaminaIncMax:         45,
		Decay:                 0.4,
		InertiaMoment:         5.0,
		DashPowerRate:         0.006,
		PlayerSize:            0.3,
		KickableMargin:        0.7,
		KickRand:              0.1,
		ExtraStamina:          50,
		EffortMax:             1.0,
		EffortMin:             0.6,
		KickPowerRate:         0.027,
		CatchableAreaLStretch: 1.0,
	}
}

// Validate rejects parameter sets that would make the kinematic model
// degenerate (no movement, or unbounded inertia).
func (p PlayerTypeParams) Validate() error {
	switch {
	case p.ID < 0:
		return fmt.Errorf("player type id %d is negative", p.ID)
	case p.Decay <= 0 || p.Decay >= 1:
		return fmt.Errorf("player type %d: decay %.3f outside (0,1)", p.ID, p.Decay)
	case p.DashPowerRate < 0:
		return fmt.Errorf("player type %d: negative dash power rate", p.ID)
	case p.SpeedMax <= 0:
		return fmt.Errorf("player type %d: non-positive speed max", p.ID)
	case p.EffortMax <= 0 || p.EffortMin > p.EffortMax:
		return fmt.Errorf("player type %d: effort range [%.2f,%.2f] invalid", p.ID, p.EffortMin, p.EffortMax)
	}
	return nil
}

// PlayerType is an immutable heterogeneous player type with its derived
// kinematic tables. Share by pointer; never mutate after construction.
type PlayerType struct {
	PlayerTypeParams
	sp *ServerParams

	kickableArea  float64
	realSpeedMax  float64
	backSpeedMax  float64
	dashTable     []float64
	backDashTable []float64
	dirRates      map[int]float64
}

// NewPlayerType derives the kinematic tables for p under sp.
func NewPlayerType(sp *ServerParams, p PlayerTypeParams) (*PlayerType, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	pt := &PlayerType{PlayerTypeParams: p, sp: sp}
	pt.kickableArea = p.PlayerSize + p.KickableMargin + sp.BallSize

	accel := sp.MaxDashPower * p.DashPowerRate * p.EffortMax
	pt.dashTable, pt.realSpeedMax = buildDashTable(accel, p.SpeedMax, p.Decay)

	backAccel := math.Abs(sp.MinDashPower) * p.DashPowerRate * p.EffortMax * sp.BackDashRate
	pt.backDashTable, pt.backSpeedMax = buildDashTable(backAccel, p.SpeedMax, p.Decay)

	pt.dirRates = make(map[int]float64)
	step := sp.DashAngleStep
	if step <= 0 {
		step = 45
	}
	for d := -180.0; d <= 180.0+1e-9; d += step {
		pt.dirRates[int(math.Round(d))] = dashDirRate(sp, d)
	}
	return pt, nil
}

// MustDefaultPlayerType builds type 0 under sp. It panics only if the
// built-in defaults are invalid, which is a programming error.
func MustDefaultPlayerType(sp *ServerParams) *PlayerType {
	pt, err := NewPlayerType(sp, DefaultPlayerTypeParams())
	if err != nil {
		panic(err)
	}
	return pt
}

func buildDashTable(accel, speedMax, decay float64) ([]float64, float64) {
	table := make([]float64, 0, dashTableSize)
	speed := 0.0
	dist := 0.0
	top := 0.0
	for i := 0; i < dashTableSize; i++ {
		speed += accel
		if speed > speedMax {
			speed = speedMax
		}
		if speed > top {
			top = speed
		}
		dist += speed
		table = append(table, dist)
		speed *= decay
	}
	return table, top
}

// dashDirRate is the server's dash-direction efficiency curve.
func dashDirRate(sp *ServerParams, dir float64) float64 {
	a := geom.AngleDiff(dir, 0)
	if a > 90 {
		return sp.BackDashRate - (sp.BackDashRate-sp.SideDashRate)*(1-(a-90)/90)
	}
	return sp.SideDashRate + (1-sp.SideDashRate)*(1-a/90)
}

// Server returns the server parameters the type was derived under.
func (pt *PlayerType) Server() *ServerParams { return pt.sp }

// KickableArea is the radius within which the ball can be kicked.
func (pt *PlayerType) KickableArea() float64 { return pt.kickableArea }

// CatchableArea is the goalie catch radius for this type.
func (pt *PlayerType) CatchableArea() float64 {
	return math.Hypot(pt.sp.CatchableAreaL*pt.CatchableAreaLStretch, pt.sp.CatchableAreaW*0.5)
}

// RealSpeedMax is the top speed actually reachable by repeated full dashes.
func (pt *PlayerType) RealSpeedMax() float64 { return pt.realSpeedMax }

// EffectiveTurn converts a turn moment into the body rotation achieved at speed.
func (pt *PlayerType) EffectiveTurn(moment, speed float64) float64 {
	return moment / (1.0 + pt.InertiaMoment*speed)
}

// DashRate returns the dash efficiency for a dash direction, snapped to
// the server's dash angle step.
func (pt *PlayerType) DashRate(dir float64) float64 {
	step := pt.sp.DashAngleStep
	if step <= 0 {
		step = 45
	}
	snapped := math.Round(geom.NormalizeDeg(dir)/step) * step
	if r, ok := pt.dirRates[int(math.Round(snapped))]; ok {
		return r
	}
	return dashDirRate(pt.sp, snapped)
}

// DashDistanceTable exposes the forward cumulative dash distances (read-only).
func (pt *PlayerType) DashDistanceTable() []float64 { return pt.dashTable }

// CyclesToReachDistance returns the minimum number of full forward dashes
// from rest whose cumulative travel covers dist.
func (pt *PlayerType) CyclesToReachDistance(dist float64) int {
	return cyclesFromTable(pt.dashTable, pt.realSpeedMax, dist)
}

// BackCyclesToReachDistance is CyclesToReachDistance for back dashes.
func (pt *PlayerType) BackCyclesToReachDistance(dist float64) int {
	return cyclesFromTable(pt.backDashTable, pt.backSpeedMax, dist)
}

func cyclesFromTable(table []float64, top, dist float64) int {
	if dist <= 0 {
		return 0
	}
	i := sort.SearchFloat64s(table, dist)
	if i < len(table) {
		return i + 1
	}
	if top <= 1e-9 {
		return Unreachable
	}
	n := len(table) + int(math.Ceil((dist-table[len(table)-1])/top))
	if n > Unreachable {
		return Unreachable
	}
	return n
}

// InertiaTravel is the displacement produced by vel after n cycles of decay.
func (pt *PlayerType) InertiaTravel(vel geom.Vec2, n int) geom.Vec2 {
	if n <= 0 {
		return geom.Vec2{}
	}
	return vel.Scale((1 - math.Pow(pt.Decay, float64(n))) / (1 - pt.Decay))
}

// InertiaPoint is where a player at pos with vel coasts to after n cycles.
func (pt *PlayerType) InertiaPoint(pos, vel geom.Vec2, n int) geom.Vec2 {
	return pos.Add(pt.InertiaTravel(vel, n))
}

// KickRate returns the kick power rate after the server's distance and
// angle penalties for a ball at relative position rel (body frame angle
// relDir degrees).
func (pt *PlayerType) KickRate(ballDist, relDir float64) float64 {
	margin := pt.KickableMargin
	if margin <= 0 {
		return 0
	}
	d := math.Max(0, ballDist-pt.PlayerSize-pt.sp.BallSize)
	eff := 1.0 - 0.25*math.Abs(geom.NormalizeDeg(relDir))/180.0 - 0.25*d/margin
	if eff < 0 {
		eff = 0
	}
	return pt.KickPowerRate * eff
}

// PlayerTypes is the match-wide registry of heterogeneous types.
type PlayerTypes struct {
	sp    *ServerParams
	types map[int]*PlayerType
	def   *PlayerType
}

// NewPlayerTypes creates a registry holding only the default type.
func NewPlayerTypes(sp *ServerParams) *PlayerTypes {
	def := MustDefaultPlayerType(sp)
	return &PlayerTypes{sp: sp, types: map[int]*PlayerType{0: def}, def: def}
}

// Set registers a type. Invalid parameters are rejected and the previous
// entry for the id, if any, stays in effect.
func (r *PlayerTypes) Set(p PlayerTypeParams) error {
	pt, err := NewPlayerType(r.sp, p)
	if err != nil {
		return fmt.Errorf("player type %d rejected: %w", p.ID, err)
	}
	r.types[p.ID] = pt
	if p.ID == 0 {
		r.def = pt
	}
	return nil
}

// Get returns the type for id, falling back to the default type for
// unknown ids (unidentified players use type 0).
func (r *PlayerTypes) Get(id int) *PlayerType {
	if pt, ok := r.types[id]; ok {
		return pt
	}
	return r.def
}

// Default returns type 0.
func (r *PlayerTypes) Default() *PlayerType { return r.def }

// Server returns the shared server parameters.
func (r *PlayerTypes) Server() *ServerParams { return r.sp }
