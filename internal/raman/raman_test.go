package raman

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gnlse/internal/field"
)

// integral of h over [0, 2 ps] by the trapezoid rule
func area(m Model) float64 {
	ts := make([]float64, 200001)
	floats.Span(ts, 0, 2)
	h := m.Response(ts)
	dt := ts[1] - ts[0]
	return dt * (floats.Sum(h) - (h[0]+h[len(h)-1])/2)
}

func TestResponseNormalized(t *testing.T) {
	for name, m := range map[string]Model{"blowwood": NewBlowWood(), "linagrawal": NewLinAgrawal()} {
		t.Run(name, func(t *testing.T) {
			if a := area(m); math.Abs(a-1) > 1e-3 {
				t.Errorf("integral of h_R = %v, want 1", a)
			}
		})
	}
}

func TestResponseCausal(t *testing.T) {
	h := NewBlowWood().Response([]float64{-0.1, -1e-6, 0})
	for i, v := range h {
		if v != 0 {
			t.Errorf("h[%d] = %v, want 0", i, v)
		}
	}
	hl := NewLinAgrawal().Response([]float64{-0.05})
	if hl[0] != 0 {
		t.Errorf("lin-agrawal h(-0.05) = %v, want 0", hl[0])
	}
}

func TestFractions(t *testing.T) {
	if f := NewBlowWood().Fraction(); f != 0.18 {
		t.Errorf("blow-wood fR = %v", f)
	}
	if f := NewLinAgrawal().Fraction(); f != 0.245 {
		t.Errorf("lin-agrawal fR = %v", f)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    interface{ Validate() error }
		ok   bool
	}{
		{"default blowwood", NewBlowWood(), true},
		{"default linagrawal", NewLinAgrawal(), true},
		{"fraction above one", &BlowWood{FR: 1.5, Tau1: 0.01, Tau2: 0.03}, false},
		{"zero tau", &BlowWood{FR: 0.18, Tau1: 0, Tau2: 0.03}, false},
		{"negative taub", &LinAgrawal{FR: 0.2, Tau1: 0.01, Tau2: 0.03, FB: 0.2, TauB: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, field.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestByName(t *testing.T) {
	m, err := ByName("none")
	if err != nil || m != nil {
		t.Errorf("none: got (%v, %v)", m, err)
	}
	if m, _ := ByName("blowwood"); m == nil {
		t.Error("blowwood: got nil model")
	}
	if _, err := ByName("foo"); !errors.Is(err, field.ErrConfiguration) {
		t.Errorf("unknown: expected ErrConfiguration, got %v", err)
	}
}
