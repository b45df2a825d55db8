package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/particlebox/internal/ensemble"
	"github.com/san-kum/particlebox/internal/particle"
	"github.com/san-kum/particlebox/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var frameHeader = []string{"tick", "handle", "x", "y", "vx", "vy", "radius", "mass"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Particles int                `json:"particles"`
	Ticks     int                `json:"ticks"`
	Ensemble  ensemble.Config    `json:"ensemble"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and frames.csv into a new run directory and
// returns the run id.
func (s *Store) Save(name string, particles int, cfg ensemble.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Seed:      cfg.Seed,
		Particles: particles,
		Ticks:     result.TicksTaken,
		Ensemble:  cfg,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteFramesCSV writes one row per particle per frame.
func WriteFramesCSV(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)

	if err := w.Write(frameHeader); err != nil {
		return err
	}

	for _, f := range frames {
		tick := strconv.Itoa(f.Tick)
		for i, p := range f.Particles {
			var h ensemble.Handle
			if i < len(f.Handles) {
				h = f.Handles[i]
			}
			row := []string{
				tick,
				strconv.FormatUint(uint64(h), 10),
				formatFloat(p.Pos.X),
				formatFloat(p.Pos.Y),
				formatFloat(p.Vel.X),
				formatFloat(p.Vel.Y),
				formatFloat(p.Radius),
				formatFloat(p.Mass),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames rebuilds the recorded frames of a run. Rows that fail to parse
// are skipped.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadFramesCSV(file)
}

func ReadFramesCSV(in io.Reader) ([]sim.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	if len(records) < 2 {
		return frames, nil
	}

	for _, record := range records[1:] {
		if len(record) != len(frameHeader) {
			continue
		}

		tick, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		h, err := strconv.ParseUint(record[1], 10, 64)
		if err != nil {
			continue
		}
		vals := make([]float64, 0, 6)
		for _, field := range record[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				break
			}
			vals = append(vals, v)
		}
		if len(vals) != 6 {
			continue
		}

		if n := len(frames); n == 0 || frames[n-1].Tick != tick {
			frames = append(frames, sim.Frame{Tick: tick})
		}
		f := &frames[len(frames)-1]
		f.Handles = append(f.Handles, ensemble.Handle(h))
		f.Particles = append(f.Particles, particle.Particle{
			Pos:    particle.Vec2{X: vals[0], Y: vals[1]},
			Vel:    particle.Vec2{X: vals[2], Y: vals[3]},
			Radius: vals[4],
			Mass:   vals[5],
		})
	}

	return frames, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
