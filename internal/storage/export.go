package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

type ExportData struct {
	Metadata  RunMetadata `json:"metadata"`
	Intensity *Matrix     `json:"intensity"`
	Spectrum  *Matrix     `json:"spectrum"`
}

// ExportJSON writes the metadata and both tables of a run as one document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	intensity, err := s.LoadIntensity(runID)
	if err != nil {
		return err
	}
	spectrum, err := s.LoadSpectrum(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{
		Metadata:  *meta,
		Intensity: intensity,
		Spectrum:  spectrum,
	})
}

// ExportCSV copies the stored field table, or the spectrum table, to w.
func (s *Store) ExportCSV(w io.Writer, runID string, spectrum bool) error {
	name := fieldFile
	if spectrum {
		name = spectrumFile
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
