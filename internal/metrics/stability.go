package metrics

import "math"

// Stability is the fraction of samples in which every free body stayed
// within threshold of the anchor.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(smp Sample) {
	s.samples++
	anchor := smp.Bodies.AnchorPosition()
	for _, b := range smp.Bodies {
		if b.Fixed {
			continue
		}
		if b.Position.Sub(anchor).Norm() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// OrbitBand tracks the closest and farthest approach of one body to the
// anchor. Value is the farthest.
type OrbitBand struct {
	name     string
	body     int
	min, max float64
}

func NewOrbitBand(body int) *OrbitBand {
	b := &OrbitBand{name: "orbit_max", body: body}
	b.Reset()
	return b
}

func (o *OrbitBand) Name() string { return o.name }

func (o *OrbitBand) Observe(s Sample) {
	if o.body < 0 || o.body >= len(s.Bodies) {
		return
	}
	d := s.Bodies[o.body].Position.Sub(s.Bodies.AnchorPosition()).Norm()
	o.min = math.Min(o.min, d)
	o.max = math.Max(o.max, d)
}

func (o *OrbitBand) Value() float64 {
	if math.IsInf(o.max, -1) {
		return 0
	}
	return o.max
}

// Min is the closest approach seen, or 0 before any sample.
func (o *OrbitBand) Min() float64 {
	if math.IsInf(o.min, 1) {
		return 0
	}
	return o.min
}

func (o *OrbitBand) Reset() {
	o.min = math.Inf(1)
	o.max = math.Inf(-1)
}
