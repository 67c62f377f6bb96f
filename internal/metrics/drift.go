package metrics

import (
	"math"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// MassDrift is the largest |S+I+R - initial total| seen over a run. The
// Euler update does not renormalize, so a non-zero value is expected.
type MassDrift struct {
	name         string
	initialTotal float64
	maxDrift     float64
	samples      int
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(s dynamo.Sample) {
	total := s.Total()
	if m.samples == 0 {
		m.initialTotal = total
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, math.Abs(total-m.initialTotal))
}

func (m *MassDrift) Value() float64 { return m.maxDrift }

func (m *MassDrift) Reset() {
	m.initialTotal = 0
	m.maxDrift = 0
	m.samples = 0
}

// Bounds is the fraction of samples whose compartments all lie in [0, 1].
type Bounds struct {
	name       string
	violations int
	samples    int
}

func NewBounds() *Bounds {
	return &Bounds{name: "in_bounds"}
}

func (b *Bounds) Name() string { return b.name }

func (b *Bounds) Observe(s dynamo.Sample) {
	b.samples++
	for _, v := range s.Values() {
		if v < 0 || v > 1 {
			b.violations++
			break
		}
	}
}

func (b *Bounds) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounds) Reset() {
	b.violations = 0
	b.samples = 0
}
