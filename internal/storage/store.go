package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/experiment"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BodyInfo struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Mass  float64 `json:"mass"`
	Fixed bool    `json:"fixed,omitempty"`
	Color string  `json:"color,omitempty"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	FPS        float64            `json:"fps"`
	Frames     int                `json:"frames"`
	SimTime    float64            `json:"sim_time"`
	Integrator string             `json:"integrator"`
	SubSteps   int                `json:"sub_steps"`
	G          float64            `json:"gravitational_constant"`
	TimeScale  float64            `json:"time_scale"`
	Script     string             `json:"script,omitempty"`
	TasksDone  int                `json:"tasks_done"`
	Bodies     []BodyInfo         `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Trajectory is a recorded run in body-major order: Positions[b][i] is body
// b at Times[i].
type Trajectory struct {
	Times     []float64
	Positions [][]dynamo.Vec3
}

// Save writes the run metadata and one CSV row per recorded frame. Metadata
// fields derived from the result are filled in.
func (s *Store) Save(meta RunMetadata, result *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = result.Frames
	meta.SimTime = result.SimTime
	meta.Integrator = result.Integrator
	meta.TasksDone = result.TasksDone
	meta.Metrics = result.Metrics
	if len(meta.Bodies) == 0 && len(result.States) > 0 {
		for _, b := range result.States[0] {
			meta.Bodies = append(meta.Bodies, BodyInfo{ID: b.ID, Name: b.Name, Mass: b.Mass, Fixed: b.Fixed, Color: b.Color})
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metadata: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return nil
}

func writeTrajectory(path string, result *experiment.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trajectory: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(result.States) > 0 {
		header := []string{"time"}
		for _, b := range result.States[0] {
			header = append(header,
				fmt.Sprintf("b%d_x", b.ID),
				fmt.Sprintf("b%d_y", b.ID),
				fmt.Sprintf("b%d_z", b.ID))
		}
		if err := w.Write(header); err != nil {
			return err
		}

		for i, bodies := range result.States {
			row := make([]string, 0, 1+3*len(bodies))
			row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
			for _, b := range bodies {
				row = append(row,
					strconv.FormatFloat(b.Position.X, 'f', 6, 64),
					strconv.FormatFloat(b.Position.Y, 'f', 6, 64),
					strconv.FormatFloat(b.Position.Z, 'f', 6, 64))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// List returns recorded runs, oldest first. Directories without readable
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", runID, err)
	}

	return &meta, nil
}

// TrajectoryPath is the CSV file of a run.
func (s *Store) TrajectoryPath(runID string) string {
	return filepath.Join(s.baseDir, runID, trajectoryFile)
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(s.TrajectoryPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trajectory %s: %w", runID, err)
	}

	traj := &Trajectory{}
	if len(records) < 1 {
		return traj, nil
	}

	n := (len(records[0]) - 1) / 3
	traj.Positions = make([][]dynamo.Vec3, n)
	for b := range traj.Positions {
		traj.Positions[b] = make([]dynamo.Vec3, 0, len(records)-1)
	}
	traj.Times = make([]float64, 0, len(records)-1)

	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("trajectory %s row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}

		traj.Times = append(traj.Times, vals[0])
		for b := 0; b < n; b++ {
			traj.Positions[b] = append(traj.Positions[b], dynamo.Vec3{
				X: vals[1+3*b],
				Y: vals[2+3*b],
				Z: vals[3+3*b],
			})
		}
	}

	return traj, nil
}

// Distances returns each sample's distance between body b and the anchor
// body a.
func (t *Trajectory) Distances(b, a int) []float64 {
	if b < 0 || b >= len(t.Positions) || a < 0 || a >= len(t.Positions) {
		return nil
	}
	out := make([]float64, len(t.Times))
	for i := range out {
		out[i] = t.Positions[b][i].Sub(t.Positions[a][i]).Norm()
	}
	return out
}
