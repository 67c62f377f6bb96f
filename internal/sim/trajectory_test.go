package sim

import (
	"context"
	"strings"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/integrators"
	"github.com/san-kum/sirsim/internal/logging"
	"github.com/san-kum/sirsim/internal/models"
)

var _ = Describe("Trajectory", func() {
	var (
		s   *Simulator
		x0  dynamo.State
		cfg dynamo.Config
	)

	BeforeEach(func() {
		s = New(models.NewSIRS(models.DefaultParams()), integrators.NewEuler())
		x0 = models.DefaultState()
		cfg = dynamo.Config{Dt: 0.25, Duration: 5}
	})

	Context("before stepping", func() {
		It("emits the initial condition at t=0 first", func() {
			tr, err := s.Trajectory(x0, cfg)
			Expect(err).NotTo(HaveOccurred())

			first, ok := tr.Next()
			Expect(ok).To(BeTrue())
			Expect(first.Time).To(Equal(0.0))
			Expect(first.State).To(Equal(x0))
			Expect(tr.Steps()).To(Equal(0))
		})

		It("rejects an invalid configuration", func() {
			_, err := s.Trajectory(x0, dynamo.Config{Dt: 0, Duration: 1})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})

	Context("while stepping", func() {
		It("advances time by exactly h between samples", func() {
			tr, err := s.Trajectory(x0, cfg)
			Expect(err).NotTo(HaveOccurred())

			var times []float64
			for sample := range tr.All() {
				times = append(times, sample.Time)
			}
			Expect(times).To(HaveLen(21))
			for i := 1; i < len(times); i++ {
				Expect(times[i] - times[i-1]).To(Equal(cfg.Dt))
			}
		})

		It("applies one Euler update per step", func() {
			tr, err := s.Trajectory(x0, cfg)
			Expect(err).NotTo(HaveOccurred())

			prev, _ := tr.Next()
			for sample := range tr.All() {
				dx := models.Derive(prev.State, models.DefaultParams())
				Expect(sample.S).To(Equal(prev.S + cfg.Dt*dx.S))
				Expect(sample.I).To(Equal(prev.I + cfg.Dt*dx.I))
				Expect(sample.R).To(Equal(prev.R + cfg.Dt*dx.R))
				prev = sample
			}
		})

		It("keeps S+I+R close to its initial total", func() {
			tr, err := s.Trajectory(x0, dynamo.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			for sample := range tr.All() {
				Expect(sample.Total()).To(BeNumerically("~", x0.Total(), 1e-9))
			}
		})
	})

	Context("after the horizon", func() {
		It("cannot be restarted", func() {
			tr, err := s.Trajectory(x0, cfg)
			Expect(err).NotTo(HaveOccurred())

			n := 0
			for range tr.All() {
				n++
			}
			Expect(n).To(Equal(21))
			Expect(tr.Done()).To(BeTrue())
			Expect(tr.Err()).NotTo(HaveOccurred())

			_, ok := tr.Next()
			Expect(ok).To(BeFalse())
			for range tr.All() {
				Fail("exhausted trajectory yielded a sample")
			}
		})

		It("may overshoot the horizon by less than one step", func() {
			tr, err := s.Trajectory(x0, dynamo.Config{Dt: 1, Duration: 10.5})
			Expect(err).NotTo(HaveOccurred())

			var last dynamo.Sample
			for sample := range tr.All() {
				last = sample
			}
			Expect(last.Time).To(Equal(11.0))
			Expect(tr.Steps()).To(Equal(11))
		})
	})

	Context("with a logger in the context", func() {
		It("records start and finish at debug verbosity", func() {
			var buf strings.Builder
			ctx := logr.NewContext(context.Background(), logging.NewTestLogger(&buf))

			steps, err := s.Stream(ctx, x0, cfg, func(dynamo.Sample) error { return nil })
			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(Equal(20))
			Expect(buf.String()).To(ContainSubstring("simulation started"))
			Expect(buf.String()).To(ContainSubstring("simulation finished"))
		})
	})
})
