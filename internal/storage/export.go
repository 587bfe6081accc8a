package storage

import (
	"encoding/json"
	"io"

	"github.com/okaryn/plife/internal/engine"
	"github.com/okaryn/plife/internal/plife"
)

// ExportData is the self-contained JSON form of a stored run.
type ExportData struct {
	Meta    RunMetadata    `json:"meta"`
	Palette plife.Palette  `json:"palette"`
	Frames  []engine.Frame `json:"frames"`
}

// ExportJSON writes a complete run (metadata, palette, frames) to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	palette, err := s.LoadPalette(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Meta: *meta, Palette: palette, Frames: frames})
}
