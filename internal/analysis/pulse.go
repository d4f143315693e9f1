package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Energy integrates an intensity profile sampled with spacing dt.
func Energy(intensity []float64, dt float64) float64 {
	return floats.Sum(intensity) * dt
}

// PeakPower returns the largest sample and its index, or (0, -1) when empty.
func PeakPower(intensity []float64) (float64, int) {
	if len(intensity) == 0 {
		return 0, -1
	}
	i := floats.MaxIdx(intensity)
	return intensity[i], i
}

// FWHM measures the full width at half maximum of the main lobe around the
// peak, interpolating linearly between samples. It returns 0 when the lobe
// reaches the edge of the axis.
func FWHM(x, intensity []float64) float64 {
	peak, idx := PeakPower(intensity)
	if idx < 0 || peak <= 0 {
		return 0
	}
	half := peak / 2

	left := idx
	for left > 0 && intensity[left] > half {
		left--
	}
	right := idx
	for right < len(intensity)-1 && intensity[right] > half {
		right++
	}
	if intensity[left] > half || intensity[right] > half {
		return 0
	}

	return crossing(x, intensity, right-1, right, half) - crossing(x, intensity, left, left+1, half)
}

func crossing(x, y []float64, i, j int, level float64) float64 {
	if y[j] == y[i] {
		return x[i]
	}
	return x[i] + (level-y[i])*(x[j]-x[i])/(y[j]-y[i])
}

// Mean returns the intensity-weighted mean of x.
func Mean(x, intensity []float64) float64 {
	total := floats.Sum(intensity)
	if total == 0 {
		return 0
	}
	return floats.Dot(x, intensity) / total
}

// RMSWidth returns the intensity-weighted standard deviation of x.
func RMSWidth(x, intensity []float64) float64 {
	total := floats.Sum(intensity)
	if total == 0 {
		return 0
	}
	mean := floats.Dot(x, intensity) / total
	v := 0.0
	for i, p := range intensity {
		d := x[i] - mean
		v += d * d * p
	}
	return math.Sqrt(v / total)
}

// DispersionLength is t0²/|β2|.
func DispersionLength(t0, beta2 float64) float64 {
	return t0 * t0 / math.Abs(beta2)
}

// NonlinearLength is 1/(γ·P).
func NonlinearLength(gamma, power float64) float64 {
	return 1 / (gamma * power)
}

// SolitonOrder is √(L_D/L_NL).
func SolitonOrder(beta2, gamma, t0, power float64) float64 {
	return math.Sqrt(DispersionLength(t0, beta2) / NonlinearLength(gamma, power))
}

// SolitonPower is the peak power giving soliton order n.
func SolitonPower(beta2, gamma, t0, n float64) float64 {
	return n * n * math.Abs(beta2) / (gamma * t0 * t0)
}
