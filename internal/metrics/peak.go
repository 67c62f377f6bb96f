package metrics

import "github.com/san-kum/sirsim/internal/dynamo"

// PeakInfected tracks the largest infected proportion and when it occurred.
type PeakInfected struct {
	name    string
	peak    float64
	time    float64
	samples int
}

func NewPeakInfected() *PeakInfected {
	return &PeakInfected{name: "peak_infected"}
}

func (p *PeakInfected) Name() string { return p.name }

func (p *PeakInfected) Observe(s dynamo.Sample) {
	if p.samples == 0 || s.I > p.peak {
		p.peak = s.I
		p.time = s.Time
	}
	p.samples++
}

func (p *PeakInfected) Value() float64 { return p.peak }

func (p *PeakInfected) PeakTime() float64 { return p.time }

func (p *PeakInfected) Reset() {
	p.peak = 0
	p.time = 0
	p.samples = 0
}

// FinalInfected reports I at the last observed sample.
type FinalInfected struct {
	name string
	last float64
}

func NewFinalInfected() *FinalInfected {
	return &FinalInfected{name: "final_infected"}
}

func (f *FinalInfected) Name() string             { return f.name }
func (f *FinalInfected) Observe(s dynamo.Sample) { f.last = s.I }
func (f *FinalInfected) Value() float64           { return f.last }
func (f *FinalInfected) Reset()                   { f.last = 0 }
