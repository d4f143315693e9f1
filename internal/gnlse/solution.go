package gnlse

import (
	"fmt"

	"github.com/san-kum/gnlse/internal/field"
	"github.com/san-kum/gnlse/internal/grid"
)

// Snapshot is the field at one save point. AW is in FFT order on the
// solver's frequency axis; At is the matching time-domain envelope.
type Snapshot struct {
	Index int
	Z     float64
	AW    field.Field
	At    field.Field
}

// Stats counts solver work over one run.
type Stats struct {
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	Evaluations int `json:"evaluations"`
}

// Solution holds every snapshot of a completed run together with the axes
// needed to interpret them.
type Solution struct {
	z  []float64
	at []field.Field
	aw []field.Field

	t          []float64
	omega      []float64
	w0         float64
	wavelength float64
	window     float64

	Stats Stats
}

func newSolution(s *Solver) *Solution {
	n := s.setup.ZSaves
	return &Solution{
		z:          make([]float64, 0, n),
		at:         make([]field.Field, 0, n),
		aw:         make([]field.Field, 0, n),
		t:          s.grid.Time(),
		omega:      s.grid.Omega(),
		w0:         s.setup.Carrier(),
		wavelength: s.setup.Wavelength,
		window:     s.grid.Window(),
	}
}

func (s *Solution) append(snap Snapshot) {
	s.z = append(s.z, snap.Z)
	s.at = append(s.at, snap.At)
	s.aw = append(s.aw, snap.AW)
}

// Len is the number of snapshots.
func (s *Solution) Len() int { return len(s.z) }

// Distances returns the snapshot positions in metres.
func (s *Solution) Distances() []float64 { return append([]float64(nil), s.z...) }

// TimeAxis returns the time grid in ps.
func (s *Solution) TimeAxis() []float64 { return append([]float64(nil), s.t...) }

// OmegaAxis returns the angular frequency offsets from the carrier in rad/ps,
// in FFT order.
func (s *Solution) OmegaAxis() []float64 { return append([]float64(nil), s.omega...) }

// Carrier is the carrier angular frequency in rad/ps.
func (s *Solution) Carrier() float64 { return s.w0 }

// Wavelength is the carrier wavelength in nm.
func (s *Solution) Wavelength() float64 { return s.wavelength }

// Dt is the time-grid spacing in ps.
func (s *Solution) Dt() float64 { return s.window / float64(len(s.t)) }

// Field returns the time-domain envelope at snapshot i.
func (s *Solution) Field(i int) (field.Field, error) {
	if err := s.check(i); err != nil {
		return nil, err
	}
	return s.at[i].Clone(), nil
}

// Spectrum returns the spectral envelope at snapshot i in FFT order.
func (s *Solution) Spectrum(i int) (field.Field, error) {
	if err := s.check(i); err != nil {
		return nil, err
	}
	return s.aw[i].Clone(), nil
}

// Snapshot returns snapshot i.
func (s *Solution) Snapshot(i int) (Snapshot, error) {
	if err := s.check(i); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Index: i, Z: s.z[i], AW: s.aw[i].Clone(), At: s.at[i].Clone()}, nil
}

// Last returns the field at the fiber output.
func (s *Solution) Last() Snapshot {
	snap, _ := s.Snapshot(s.Len() - 1)
	return snap
}

// ShiftedSpectrum returns |Ã|² at snapshot i ordered by increasing frequency,
// alongside the matching absolute angular frequencies.
func (s *Solution) ShiftedSpectrum(i int) ([]float64, []float64, error) {
	aw, err := s.Spectrum(i)
	if err != nil {
		return nil, nil, err
	}
	w := grid.Shift(s.omega)
	for k := range w {
		w[k] += s.w0
	}
	return w, grid.Shift(aw.Intensity()), nil
}

func (s *Solution) check(i int) error {
	if i < 0 || i >= len(s.z) {
		return fmt.Errorf("gnlse: snapshot %d out of range [0, %d)", i, len(s.z))
	}
	return nil
}
