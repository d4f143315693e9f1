// Package grid builds the time and angular-frequency sampling axes of a
// propagation run and converts fields between the two domains.
//
// The spectral transform is the inverse DFT scaled by √N, so that a time
// derivative maps to multiplication by -iω and both directions are unitary:
//
//	g, _ := grid.New(1<<13, 12.5)
//	aw := g.ToFrequency(at)
//	back := g.ToTime(aw) // equals at within rounding
package grid

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gnlse/internal/field"
)

// Grid holds the sampling axes of one run. It is never mutated after New.
type Grid struct {
	n      int
	window float64
	dt     float64
	t      []float64
	omega  []float64
	norm   float64
}

// New builds a grid of n points spanning [-window/2, window/2).
func New(n int, window float64) (*Grid, error) {
	if n <= 0 {
		return nil, field.Configf("resolution", "must be positive, got %d", n)
	}
	if !(window > 0) || math.IsInf(window, 0) {
		return nil, field.Configf("time_window", "must be positive and finite, got %g", window)
	}

	g := &Grid{
		n:      n,
		window: window,
		dt:     window / float64(n),
		t:      make([]float64, n),
		omega:  make([]float64, n),
		norm:   math.Sqrt(float64(n)),
	}

	if n > 1 {
		// endpoint excluded: the last sample sits one dt before window/2
		floats.Span(g.t, -window/2, window/2-g.dt)
	} else {
		g.t[0] = -window / 2
	}

	dw := 2 * math.Pi / window
	for i := 0; i < n; i++ {
		k := i
		if i >= (n+1)/2 {
			k = i - n
		}
		g.omega[i] = float64(k) * dw
	}

	return g, nil
}

func (g *Grid) Len() int                { return g.n }
func (g *Grid) Window() float64         { return g.window }
func (g *Grid) Dt() float64             { return g.dt }
func (g *Grid) Time() []float64         { return clone(g.t) }
func (g *Grid) Omega() []float64        { return clone(g.omega) }
func (g *Grid) ShiftedOmega() []float64 { return Shift(g.omega) }

// ToFrequency returns the unitary spectrum of a time-domain field.
func (g *Grid) ToFrequency(a []complex128) []complex128 {
	out := fft.IFFT(a)
	s := complex(g.norm, 0)
	for i := range out {
		out[i] *= s
	}
	return out
}

// ToTime returns the time-domain field of a unitary spectrum.
func (g *Grid) ToTime(aw []complex128) []complex128 {
	out := fft.FFT(aw)
	s := complex(1/g.norm, 0)
	for i := range out {
		out[i] *= s
	}
	return out
}

// Shift reorders an FFT-ordered slice so that zero frequency is centered.
func Shift[T any](x []T) []T {
	n := len(x)
	out := make([]T, n)
	h := (n + 1) / 2
	copy(out, x[h:])
	copy(out[n-h:], x[:h])
	return out
}

// Unshift inverts Shift.
func Unshift[T any](x []T) []T {
	n := len(x)
	out := make([]T, n)
	h := n / 2
	copy(out, x[h:])
	copy(out[n-h:], x[:h])
	return out
}

func clone(x []float64) []float64 {
	c := make([]float64, len(x))
	copy(c, x)
	return c
}
