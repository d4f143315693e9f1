// Package storage keeps propagation runs on disk, one directory per run:
//
//	<base>/<run_id>/metadata.json
//	<base>/<run_id>/field.csv     z, then |A|² per time sample
//	<base>/<run_id>/spectrum.csv  z, then |Ã|² per frequency sample, low to high
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gnlse/internal/gnlse"
	"github.com/san-kum/gnlse/internal/grid"
)

const (
	metadataFile = "metadata.json"
	fieldFile    = "field.csv"
	spectrumFile = "spectrum.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Timestamp  time.Time          `json:"timestamp"`
	Elapsed    float64            `json:"elapsed_seconds"`
	Parameters Parameters         `json:"parameters"`
	Stats      gnlse.Stats        `json:"stats"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a completed run and returns its id.
func (s *Store) Save(label string, setup gnlse.Setup, sol *gnlse.Solution, metrics map[string]float64, elapsed time.Duration) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	runID, runDir, err := s.newRunDir(label)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Label:      label,
		Timestamp:  time.Now(),
		Elapsed:    elapsed.Seconds(),
		Parameters: ParametersOf(setup),
		Stats:      sol.Stats,
		Metrics:    metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	z := sol.Distances()
	fields := make([][]float64, sol.Len())
	spectra := make([][]float64, sol.Len())
	for i := range fields {
		at, err := sol.Field(i)
		if err != nil {
			return "", err
		}
		fields[i] = at.Intensity()

		_, p, err := sol.ShiftedSpectrum(i)
		if err != nil {
			return "", err
		}
		spectra[i] = p
	}

	if err := writeMatrix(filepath.Join(runDir, fieldFile), "z", sol.TimeAxis(), z, fields); err != nil {
		return "", err
	}
	if err := writeMatrix(filepath.Join(runDir, spectrumFile), "z", grid.Shift(sol.OmegaAxis()), z, spectra); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) newRunDir(label string) (string, string, error) {
	base := fmt.Sprintf("%s_%d", label, time.Now().Unix())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s-%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeMatrix(path, key string, axis, z []float64, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, len(axis)+1)
	header = append(header, key)
	for _, v := range axis {
		header = append(header, formatFloat(v))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(axis)+1)
	for i, row := range rows {
		record[0] = formatFloat(z[i])
		for j, v := range row {
			record[j+1] = formatFloat(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// Matrix is one stored CSV table: an axis (time in ps or angular frequency
// offset in rad/ps), the distances, and one row per distance.
type Matrix struct {
	Axis []float64   `json:"axis"`
	Z    []float64   `json:"z"`
	Rows [][]float64 `json:"rows"`
}

// LoadIntensity reads |A(z, t)|².
func (s *Store) LoadIntensity(runID string) (*Matrix, error) {
	return s.loadMatrix(runID, fieldFile)
}

// LoadSpectrum reads |Ã(z, ω)|² with ω increasing.
func (s *Store) LoadSpectrum(runID string) (*Matrix, error) {
	return s.loadMatrix(runID, spectrumFile)
}

func (s *Store) loadMatrix(runID, name string) (*Matrix, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	axis, err := parseFloats(header[1:])
	if err != nil {
		return nil, fmt.Errorf("%s header: %w", name, err)
	}

	m := &Matrix{Axis: axis}
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		values, err := parseFloats(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		m.Z = append(m.Z, values[0])
		m.Rows = append(m.Rows, values[1:])
	}

	return m, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
