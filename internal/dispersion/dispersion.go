// Package dispersion builds the frequency-domain linear operator D(ω) of a
// fiber: the dispersive phase advance per unit length and the field loss.
package dispersion

import (
	"math"

	"github.com/san-kum/gnlse/internal/field"
)

// Model maps angular-frequency offsets from the carrier to D(ω).
type Model interface {
	Operator(omega []float64) ([]complex128, error)
}

// DBToNeper converts a power loss in dB per unit length to the linear power
// attenuation coefficient alpha in 1/length.
func DBToNeper(loss float64) float64 {
	return loss * math.Ln10 / 10
}

// Taylor builds D(ω) = i·Σ β_n ω^n/n! − α/2 from the derivatives of the
// propagation constant at the carrier. Betas[0] is β2.
type Taylor struct {
	loss  float64
	betas []float64
}

// NewTaylor returns a Taylor model for loss in dB per unit length and betas
// starting at the second order.
func NewTaylor(loss float64, betas []float64) (*Taylor, error) {
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return nil, field.Configf("loss", "must be finite, got %g", loss)
	}
	for i, b := range betas {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, field.Configf("betas", "beta%d must be finite, got %g", i+2, b)
		}
	}
	bs := make([]float64, len(betas))
	copy(bs, betas)
	return &Taylor{loss: loss, betas: bs}, nil
}

func (d *Taylor) Loss() float64 { return d.loss }

func (d *Taylor) Betas() []float64 {
	bs := make([]float64, len(d.betas))
	copy(bs, d.betas)
	return bs
}

func (d *Taylor) Operator(omega []float64) ([]complex128, error) {
	alpha := DBToNeper(d.loss)
	out := make([]complex128, len(omega))

	for i, w := range omega {
		phase := 0.0
		// w^n/n! built incrementally, starting at n = 2
		term := w * w / 2
		for n, b := range d.betas {
			phase += b * term
			term *= w / float64(n+3)
		}
		out[i] = complex(-alpha/2, phase)
	}

	return out, nil
}

// Direct is a caller-supplied operator, already sampled on the FFT-ordered
// frequency axis.
type Direct struct {
	op []complex128
}

func NewDirect(op []complex128) *Direct {
	c := make([]complex128, len(op))
	copy(c, op)
	return &Direct{op: c}
}

func (d *Direct) Operator(omega []float64) ([]complex128, error) {
	if len(d.op) != len(omega) {
		return nil, field.Configf("dispersion", "operator has %d samples, grid has %d", len(d.op), len(omega))
	}
	out := make([]complex128, len(d.op))
	copy(out, d.op)
	return out, nil
}
