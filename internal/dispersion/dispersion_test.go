package dispersion

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gnlse/internal/field"
)

func TestTaylor_Operator(t *testing.T) {
	omega := []float64{0, 1, -2, 3.5}
	b2, b3, b4 := -0.0118, 8.1e-5, -9.5e-8

	d, err := NewTaylor(0, []float64{b2, b3, b4})
	if err != nil {
		t.Fatalf("NewTaylor failed: %v", err)
	}

	op, err := d.Operator(omega)
	if err != nil {
		t.Fatalf("Operator failed: %v", err)
	}

	for i, w := range omega {
		want := b2*w*w/2 + b3*w*w*w/6 + b4*w*w*w*w/24
		if math.Abs(imag(op[i])-want) > 1e-15 {
			t.Errorf("omega=%v: phase %v, want %v", w, imag(op[i]), want)
		}
		if real(op[i]) != 0 {
			t.Errorf("omega=%v: lossless operator has real part %v", w, real(op[i]))
		}
	}
}

func TestTaylor_Loss(t *testing.T) {
	d, _ := NewTaylor(3, nil)
	op, _ := d.Operator([]float64{0, 10})

	alpha := 3 * math.Ln10 / 10
	for i := range op {
		if math.Abs(real(op[i])+alpha/2) > 1e-15 || imag(op[i]) != 0 {
			t.Errorf("sample %d: got %v, want %v", i, op[i], complex(-alpha/2, 0))
		}
	}

	// 10 dB is a factor 10 in power
	if got := math.Exp(-DBToNeper(10)); math.Abs(got-0.1) > 1e-15 {
		t.Errorf("10 dB attenuation = %v, want 0.1", got)
	}
}

func TestTaylor_ZeroBetas(t *testing.T) {
	d, err := NewTaylor(0, []float64{0, 0})
	if err != nil {
		t.Fatalf("zero betas rejected: %v", err)
	}
	op, err := d.Operator([]float64{-5, 0, 5})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range op {
		if v != 0 {
			t.Errorf("sample %d: expected trivial operator, got %v", i, v)
		}
	}
}

func TestTaylor_Invalid(t *testing.T) {
	if _, err := NewTaylor(math.NaN(), nil); !errors.Is(err, field.ErrConfiguration) {
		t.Errorf("NaN loss: expected ErrConfiguration, got %v", err)
	}
	if _, err := NewTaylor(0, []float64{math.Inf(1)}); !errors.Is(err, field.ErrConfiguration) {
		t.Errorf("Inf beta: expected ErrConfiguration, got %v", err)
	}
}

func TestDirect(t *testing.T) {
	src := []complex128{1i, 2i, 3i}
	d := NewDirect(src)
	src[0] = 99

	op, err := d.Operator([]float64{0, 1, -1})
	if err != nil {
		t.Fatalf("Operator failed: %v", err)
	}
	if op[0] != 1i {
		t.Errorf("Direct aliased caller array: got %v", op[0])
	}

	if _, err := d.Operator([]float64{0, 1}); !errors.Is(err, field.ErrConfiguration) {
		t.Errorf("length mismatch: expected ErrConfiguration, got %v", err)
	}
}
