package metrics

import (
	"math"

	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/physics"
)

// Sample is one observed frame.
type Sample struct {
	Bodies    dynamo.Bodies
	Gravity   physics.Gravity
	Time      float64
	TimeScale float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Energy is the mean total energy over all samples.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s Sample) {
	e.totalEnergy += s.Gravity.Energy(s.Bodies)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation from the energy at the last
// baseline. Changing G changes the potential, so a new G starts a new
// baseline.
type EnergyDrift struct {
	name          string
	baselineG     float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s Sample) {
	energy := s.Gravity.Energy(s.Bodies)

	if e.samples == 0 || s.Gravity.G != e.baselineG {
		e.initialEnergy = energy
		e.baselineG = s.Gravity.G
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.baselineG = 0
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
