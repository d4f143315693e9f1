package gnlse

import (
	"context"
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gnlse/internal/dispersion"
	"github.com/san-kum/gnlse/internal/field"
	"github.com/san-kum/gnlse/internal/impulse"
	"github.com/san-kum/gnlse/internal/raman"
)

func run(s Setup, opts ...Option) *Solution {
	GinkgoHelper()
	solver, err := New(s, opts...)
	Expect(err).NotTo(HaveOccurred())
	sol, err := solver.Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return sol
}

func fieldAt(sol *Solution, i int) field.Field {
	GinkgoHelper()
	f, err := sol.Field(i)
	Expect(err).NotTo(HaveOccurred())
	return f
}

func spectrumAt(sol *Solution, i int) field.Field {
	GinkgoHelper()
	f, err := sol.Spectrum(i)
	Expect(err).NotTo(HaveOccurred())
	return f
}

func centroid(omega []float64, aw field.Field) float64 {
	num, den := 0.0, 0.0
	for i, p := range aw.Intensity() {
		num += omega[i] * p
		den += p
	}
	return num / den
}

func photons(omega []float64, w0 float64, aw field.Field) float64 {
	sum := 0.0
	for i, p := range aw.Intensity() {
		sum += p / (w0 + omega[i])
	}
	return sum
}

var _ = Describe("Propagation", func() {
	var s Setup

	BeforeEach(func() {
		s = solitonSetup(GinkgoTB(), 1)
	})

	Context("with dispersion only", func() {
		BeforeEach(func() {
			s.Nonlinearity = 0
			s.FiberLength *= 2
		})

		It("applies the exact linear propagator at every save", func() {
			sol := run(s)
			w := sol.OmegaAxis()
			aw0 := spectrumAt(sol, 0)

			for i, z := range sol.Distances() {
				aw := spectrumAt(sol, i)
				want := make(field.Field, len(aw0))
				for k := range want {
					want[k] = aw0[k] * cmplx.Exp(complex(0, testBeta2*w[k]*w[k]*z/2))
				}
				Expect(aw.MaxAbsDiff(want)).To(BeNumerically("<", 1e-9*math.Sqrt(s.Impulse.Power())*10),
					"snapshot %d", i)

				for k := range aw {
					Expect(cmplx.Abs(aw[k])).To(BeNumerically("~", cmplx.Abs(aw0[k]), 1e-9))
				}
			}
		})

		It("conserves energy", func() {
			sol := run(s)
			e0 := fieldAt(sol, 0).Energy(sol.Dt())
			e1 := fieldAt(sol, sol.Len()-1).Energy(sol.Dt())
			Expect(e1 / e0).To(BeNumerically("~", 1, 1e-10))
		})
	})

	Context("with self-phase modulation only", func() {
		var power float64

		BeforeEach(func() {
			pulse, err := impulse.NewGaussian(100, 0.050)
			Expect(err).NotTo(HaveOccurred())
			power = pulse.Power()
			fiber, err := dispersion.NewTaylor(0, []float64{0})
			Expect(err).NotTo(HaveOccurred())

			s.Impulse = pulse
			s.Dispersion = fiber
			s.RTol, s.ATol = 1e-9, 1e-9
			// peak nonlinear phase of 3 rad
			s.FiberLength = 3 / (s.Nonlinearity * power)
		})

		It("keeps the intensity and accumulates the phase γ·|A|²·z", func() {
			sol := run(s)
			a0 := fieldAt(sol, 0)

			for i, z := range sol.Distances() {
				a := fieldAt(sol, i)
				want := make(field.Field, len(a0))
				for k, v := range a0 {
					p := real(v)*real(v) + imag(v)*imag(v)
					want[k] = v * cmplx.Exp(complex(0, s.Nonlinearity*p*z))
				}
				Expect(a.MaxAbsDiff(want)).To(BeNumerically("<", 1e-4*math.Sqrt(power)), "snapshot %d", i)
			}

			last := fieldAt(sol, sol.Len()-1)
			peak, idx := last.Peak()
			Expect(peak).To(BeNumerically("~", power, 1e-4*power))
			Expect(cmplx.Phase(last[idx])).To(BeNumerically("~", 3, 1e-4))
		})
	})

	Context("with a fundamental soliton", func() {
		It("propagates a sech pulse unchanged over ten dispersion lengths", func() {
			s = solitonSetup(GinkgoTB(), 10)
			sol := run(s)

			a0 := fieldAt(sol, 0)
			amp0 := make([]float64, len(a0))
			for i, v := range a0 {
				amp0[i] = cmplx.Abs(v)
			}

			for i := 1; i < sol.Len(); i++ {
				a := fieldAt(sol, i)
				amp := make([]float64, len(a))
				for k, v := range a {
					amp[k] = cmplx.Abs(v)
				}
				Expect(relativeL2(amp, amp0)).To(BeNumerically("<", 0.05), "snapshot %d", i)
			}
		})

		It("keeps a Gaussian of soliton order one localized", func() {
			s = solitonSetup(GinkgoTB(), 10)
			const fwhm = 0.050
			t0 := fwhm / (2 * math.Sqrt(math.Ln2))
			pulse, err := impulse.NewGaussian(math.Abs(testBeta2)/(s.Nonlinearity*t0*t0), fwhm)
			Expect(err).NotTo(HaveOccurred())
			s.Impulse = pulse

			sol := run(s)
			first, last := fieldAt(sol, 0), fieldAt(sol, sol.Len()-1)

			Expect(last.Energy(sol.Dt()) / first.Energy(sol.Dt())).To(BeNumerically("~", 1, 1e-5))
			peak, _ := last.Peak()
			Expect(peak).To(BeNumerically(">", 0.5*pulse.Power()))
		})
	})

	Context("with loss", func() {
		It("decays the energy as exp(-αL)", func() {
			fiber, err := dispersion.NewTaylor(3, []float64{testBeta2})
			Expect(err).NotTo(HaveOccurred())
			s.Dispersion = fiber
			s.Loss = 2
			s.Nonlinearity = 0
			s.FiberLength = 0.5

			sol := run(s)
			alpha := dispersion.DBToNeper(5)
			e0 := fieldAt(sol, 0).Energy(sol.Dt())
			for i, z := range sol.Distances() {
				e := fieldAt(sol, i).Energy(sol.Dt())
				Expect(e/e0).To(BeNumerically("~", math.Exp(-alpha*z), 1e-9), "snapshot %d", i)
			}
		})
	})

	Context("with delayed Raman response", func() {
		BeforeEach(func() {
			s = solitonSetup(GinkgoTB(), 5)
			s.Raman = raman.NewBlowWood()
		})

		It("shifts the soliton spectrum to lower frequencies without losing energy", func() {
			sol := run(s)
			w := sol.OmegaAxis()

			e0 := fieldAt(sol, 0).Energy(sol.Dt())
			e1 := fieldAt(sol, sol.Len()-1).Energy(sol.Dt())
			Expect(e1 / e0).To(BeNumerically("~", 1, 1e-4))

			Expect(centroid(w, spectrumAt(sol, 0))).To(BeNumerically("~", 0, 1e-6))
			Expect(centroid(w, spectrumAt(sol, sol.Len()-1))).To(BeNumerically("<", -2))
		})

		It("conserves photon number with self-steepening while the energy decreases", func() {
			s.SelfSteepening = true
			sol := run(s)
			w, w0 := sol.OmegaAxis(), sol.Carrier()

			n0 := photons(w, w0, spectrumAt(sol, 0))
			n1 := photons(w, w0, spectrumAt(sol, sol.Len()-1))
			Expect(n1 / n0).To(BeNumerically("~", 1, 1e-4))

			energies := make([]float64, sol.Len())
			for i := range energies {
				energies[i] = spectrumAt(sol, i).Energy(1)
			}
			for i := 1; i < len(energies); i++ {
				Expect(energies[i]).To(BeNumerically("<=", energies[i-1]*(1+1e-6)), "snapshot %d", i)
			}
			Expect(energies[len(energies)-1] / energies[0]).To(BeNumerically(">", 0.98))
		})
	})
})
