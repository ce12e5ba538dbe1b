package game

import "math"

// Wave is Bias + Amplitude*sin(phase + Shift), in degrees.
type Wave struct {
	Bias, Amplitude, Shift float32
}

func (w Wave) at(phase float64) float32 {
	if w.Amplitude == 0 {
		return w.Bias
	}
	return w.Bias + w.Amplitude*sinF(phase+float64(w.Shift))
}

// Cycle is a periodic limb animation preset.
type Cycle struct {
	Rate      float64 // radians per second
	UpperArm  Wave
	LowerArm  Wave
	UpperLeg  Wave
	LowerLeg  Wave
	BodyPitch float32
}

// LimbOffsets is one sample of a Cycle, per limb channel.
type LimbOffsets struct {
	UpperArm, LowerArm, UpperLeg, LowerLeg float32
	BodyPitch                              float32
}

var (
	// SwimCycle is a prone crawl: alternating arms, kicking legs.
	SwimCycle = Cycle{
		Rate:      3,
		UpperArm:  Wave{Amplitude: 35},
		LowerArm:  Wave{Amplitude: 20, Shift: 0.8},
		UpperLeg:  Wave{Amplitude: 25, Shift: math.Pi},
		LowerLeg:  Wave{Amplitude: 15, Shift: 4.2},
		BodyPitch: -90,
	}
	// CheerCycle raises both arms and pumps them; legs stay still.
	CheerCycle = Cycle{
		Rate:     CrowdCheerRate,
		UpperArm: Wave{Bias: -60, Amplitude: -25},
		LowerArm: Wave{Bias: -20, Amplitude: -15},
	}
)

// Sample evaluates the cycle at clock t with a per-agent phase offset.
func (c Cycle) Sample(t, offset float64) LimbOffsets {
	p := t*c.Rate + offset
	return LimbOffsets{
		UpperArm:  c.UpperArm.at(p),
		LowerArm:  c.LowerArm.at(p),
		UpperLeg:  c.UpperLeg.at(p),
		LowerLeg:  c.LowerLeg.at(p),
		BodyPitch: c.BodyPitch,
	}
}

// SwimOffsets animates a swimmer only while it is in the water.
func SwimOffsets(t, offset float64, inWater bool) LimbOffsets {
	if !inWater {
		return LimbOffsets{}
	}
	return SwimCycle.Sample(t, offset)
}

// CheerOffsets animates a spectator.
func CheerOffsets(t, offset float64) LimbOffsets {
	return CheerCycle.Sample(t, offset)
}
