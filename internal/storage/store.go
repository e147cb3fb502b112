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

	"github.com/google/uuid"

	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/rover"
	"github.com/san-kum/roversim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	scenarioFile = "scenario.json"
	outputsFile  = "outputs.csv"
)

var ErrRunNotFound = errors.New("run not found")

// Columns after the measurement channels in outputs.csv.
var extraColumns = []string{"pwm_throttle", "pwm_steering", "dthr_held", "dstr_held"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Key        string             `json:"key"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Steps      int                `json:"steps"`
	Errors     []string           `json:"errors,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewRunID builds <name>_<yyyymmdd_hhmmss>_<8 hex>.
func NewRunID(name string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s", name, at.Format("20060102_150405"), uuid.NewString()[:8])
}

// Save writes a run directory for cfg and result and returns its ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	key, err := cfg.Key()
	if err != nil {
		return "", err
	}

	now := s.now()
	name := cfg.Output.RunName
	if name == "" {
		name = cfg.Name
	}
	runID := NewRunID(name, now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       cfg.Name,
		Key:        key,
		Timestamp:  now,
		Seed:       cfg.Sim.Seed,
		Dt:         cfg.Sim.Dt,
		Duration:   cfg.Duration(),
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Steps:      result.StepsTaken,
		Metrics:    result.Metrics,
	}
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, scenarioFile), cfg); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, outputsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteOutputs(csvFile, result); err != nil {
		return "", err
	}
	return runID, csvFile.Close()
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
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteOutputs writes the sampled outputs as CSV: time, the measurement
// channels, the pulses sent and the held commands.
func WriteOutputs(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"time"}
	header = append(header, rover.OutputNames[:]...)
	header = append(header, extraColumns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, smp := range result.Samples {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(smp.T))
		for _, val := range smp.Outputs.Vector() {
			row = append(row, formatFloat(val))
		}
		row = append(row,
			formatFloat(smp.PWM[0]),
			formatFloat(smp.PWM[1]),
			formatFloat(smp.Held.Throttle),
			formatFloat(smp.Held.Steering),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
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
	var meta RunMetadata
	if err := s.readJSON(runID, metadataFile, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadScenario returns the resolved scenario a run was produced from.
func (s *Store) LoadScenario(runID string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := s.readJSON(runID, scenarioFile, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Store) readJSON(runID, file string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, file))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// Recording is outputs.csv read back.
type Recording struct {
	Times   []float64
	Outputs []rover.Measurement
	PWM     [][2]float64
	Held    []rover.Command
}

// Column returns one measurement channel by index.
func (r *Recording) Column(idx int) []float64 {
	out := make([]float64, len(r.Outputs))
	for i, m := range r.Outputs {
		out[i] = m.Vector()[idx]
	}
	return out
}

func (s *Store) LoadOutputs(runID string) (*Recording, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, outputsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadOutputs(file)
}

// ReadOutputs parses CSV written by WriteOutputs.
func ReadOutputs(r io.Reader) (*Recording, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	rec := &Recording{}
	if len(records) < 2 {
		return rec, nil
	}

	width := 1 + rover.NumOutputs + len(extraColumns)
	if len(records[0]) != width {
		return nil, fmt.Errorf("outputs header has %d columns, want %d", len(records[0]), width)
	}

	for i := 1; i < len(records); i++ {
		vals := make([]float64, width)
		for j, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, records[0][j], err)
			}
			vals[j] = v
		}

		m, err := rover.MeasurementFromVector(vals[1 : 1+rover.NumOutputs])
		if err != nil {
			return nil, err
		}
		tail := vals[1+rover.NumOutputs:]

		rec.Times = append(rec.Times, vals[0])
		rec.Outputs = append(rec.Outputs, m)
		rec.PWM = append(rec.PWM, [2]float64{tail[0], tail[1]})
		rec.Held = append(rec.Held, rover.Command{Throttle: tail[2], Steering: tail[3]})
	}
	return rec, nil
}

type ExportData struct {
	Meta    RunMetadata     `json:"meta"`
	Times   []float64       `json:"times"`
	Columns []string        `json:"columns"`
	Outputs [][]float64     `json:"outputs"`
	PWM     [][2]float64    `json:"pwm"`
	Held    []rover.Command `json:"held"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rec, err := s.LoadOutputs(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Meta:    *meta,
		Times:   rec.Times,
		Columns: rover.OutputNames[:],
		Outputs: make([][]float64, len(rec.Outputs)),
		PWM:     rec.PWM,
		Held:    rec.Held,
	}
	for i, m := range rec.Outputs {
		data.Outputs[i] = m.Vector()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Path returns the file path of a run artifact.
func (s *Store) Path(runID, file string) string {
	return filepath.Join(s.baseDir, runID, file)
}

// OutputsPath is where a run's CSV lives.
func (s *Store) OutputsPath(runID string) string {
	return s.Path(runID, outputsFile)
}
