package rcss

import "math"

// StaminaModel is the per-player energy accumulator. It is a value type:
// speculative simulations copy it and never touch the real agent state.
type StaminaModel struct {
	Stamina  float64
	Effort   float64
	Recovery float64
	Capacity float64 // negative = unlimited
}

// FullStamina returns a fresh model for pt at kick-off.
func FullStamina(pt *PlayerType) StaminaModel {
	return StaminaModel{
		Stamina:  pt.sp.StaminaMax,
		Effort:   pt.EffortMax,
		Recovery: 1.0,
		Capacity: pt.sp.StaminaCapacity,
	}
}

// dashCost is the stamina consumed by a dash; back dashes cost double.
func dashCost(power float64) float64 {
	if power >= 0 {
		return power
	}
	return -2.0 * power
}

// SimulateWait advances the model one cycle without dashing.
func (m *StaminaModel) SimulateWait(pt *PlayerType) {
	sp := pt.sp

	// recovery decays permanently below the threshold
	if m.Stamina <= sp.RecoverDecThrValue() {
		if m.Recovery > sp.RecoverMin {
			m.Recovery = math.Max(sp.RecoverMin, m.Recovery-sp.RecoverDec)
		}
	}

	if m.Stamina <= sp.EffortDecThr*sp.StaminaMax {
		if m.Effort > pt.EffortMin {
			m.Effort = math.Max(pt.EffortMin, m.Effort-sp.EffortDec)
		}
	}
	if m.Stamina >= sp.EffortIncThr*sp.StaminaMax {
		if m.Effort < pt.EffortMax {
			m.Effort = math.Min(pt.EffortMax, m.Effort+sp.EffortInc)
		}
	}

	inc := math.Min(pt.StaminaIncMax*m.Recovery, sp.StaminaMax-m.Stamina)
	if inc < 0 {
		inc = 0
	}
	if m.Capacity >= 0 {
		if inc > m.Capacity {
			inc = m.Capacity
		}
		m.Capacity -= inc
	}
	m.Stamina += inc
}

// SimulateDash spends the stamina for one dash and then advances a cycle.
func (m *StaminaModel) SimulateDash(pt *PlayerType, power float64) {
	m.Stamina = math.Max(0, m.Stamina-dashCost(power))
	m.SimulateWait(pt)
}

// SimulateDashes applies n identical dashes.
func (m *StaminaModel) SimulateDashes(pt *PlayerType, power float64, n int) {
	for i := 0; i < n; i++ {
		m.SimulateDash(pt, power)
	}
}

// SafetyDashPower clamps power so the dash never takes stamina below the
// recovery-decay floor plus buffer. The sign of power is preserved.
func (m StaminaModel) SafetyDashPower(pt *PlayerType, power, buffer float64) float64 {
	required := dashCost(power)
	available := math.Max(0, m.Stamina-pt.sp.RecoverDecThrValue()-buffer)
	result := math.Min(required, available)
	if power < 0 {
		result *= -0.5
	}
	if math.Abs(result) > math.Abs(power) {
		return power
	}
	return result
}

// AvailableDashPower is the strongest forward dash the current stamina
// supports, extra stamina included.
func (m StaminaModel) AvailableDashPower(pt *PlayerType) float64 {
	return math.Min(pt.sp.MaxDashPower, m.Stamina+pt.ExtraStamina)
}
