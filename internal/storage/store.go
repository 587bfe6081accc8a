package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okaryn/plife/internal/engine"
	"github.com/okaryn/plife/internal/plife"
)

// Store persists run outputs (sampled frames, palette, metrics) for
// later plotting and export. Runs are never resumed from stored data;
// the simulation itself stays ephemeral per run.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one stored run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Particles int                `json:"particles"`
	Colors    int                `json:"colors"`
	Dt        float64            `json:"dt"`
	Beta      float64            `json:"beta"`
	Friction  float64            `json:"friction"`
	Seed      int64              `json:"seed"`
	Policy    string             `json:"policy"`
	Placement string             `json:"placement"`
	Ticks     int                `json:"ticks"`
	Anomalies int                `json:"anomalies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json, palette.json and frames.csv into a fresh
// run directory and returns the run ID.
func (s *Store) Save(params plife.Params, policy, placement string, palette plife.Palette, result *engine.Result) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}

	// Mkdir, not MkdirAll: two runs started within the same second must
	// get distinct directories, not silently share one.
	base := fmt.Sprintf("%s_%d", policy, time.Now().Unix())
	runID := base
	for n := 1; ; n++ {
		err := os.Mkdir(filepath.Join(s.baseDir, runID), 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}
	runDir := filepath.Join(s.baseDir, runID)

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Particles: params.Particles,
		Colors:    params.Colors,
		Dt:        params.Dt,
		Beta:      params.Beta,
		Friction:  params.Friction,
		Seed:      params.Seed,
		Policy:    policy,
		Placement: placement,
		Ticks:     result.Ticks,
		Anomalies: len(result.Anomalies),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "palette.json"), palette); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, "frames.csv"), result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []engine.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"tick", "time", "index", "x", "y", "z", "vx", "vy", "vz", "color"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, frame := range frames {
		for i, p := range frame.Particles {
			row := []string{
				strconv.Itoa(frame.Tick),
				strconv.FormatFloat(frame.Time, 'f', 6, 64),
				strconv.Itoa(i),
				strconv.FormatFloat(p.Pos.X, 'f', 6, 64),
				strconv.FormatFloat(p.Pos.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Pos.Z, 'f', 6, 64),
				strconv.FormatFloat(p.Vel.X, 'f', 6, 64),
				strconv.FormatFloat(p.Vel.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Vel.Z, 'f', 6, 64),
				strconv.Itoa(p.Color),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

// List returns metadata for every stored run.
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

	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPalette reads one run's palette.
func (s *Store) LoadPalette(runID string) (plife.Palette, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "palette.json"))
	if err != nil {
		return nil, err
	}

	var pal plife.Palette
	if err := json.Unmarshal(data, &pal); err != nil {
		return nil, err
	}
	return pal, nil
}

// LoadFrames reads the sampled frames of a run back in tick order.
func (s *Store) LoadFrames(runID string) ([]engine.Frame, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []engine.Frame{}, nil
	}

	frames := make([]engine.Frame, 0)
	var cur *engine.Frame

	for _, rec := range records[1:] {
		if len(rec) < 10 {
			continue
		}
		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		tm, _ := strconv.ParseFloat(rec[1], 64)

		if cur == nil || cur.Tick != tick {
			frames = append(frames, engine.Frame{Tick: tick, Time: tm})
			cur = &frames[len(frames)-1]
		}

		var vals [6]float64
		ok := true
		for k := 0; k < 6; k++ {
			v, err := strconv.ParseFloat(rec[3+k], 64)
			if err != nil {
				ok = false
				break
			}
			vals[k] = v
		}
		color, err := strconv.Atoi(rec[9])
		if !ok || err != nil {
			continue
		}

		cur.Particles = append(cur.Particles, plife.Particle{
			Pos:   plife.Vec3{X: vals[0], Y: vals[1], Z: vals[2]},
			Vel:   plife.Vec3{X: vals[3], Y: vals[4], Z: vals[5]},
			Color: color,
		})
	}

	return frames, nil
}
