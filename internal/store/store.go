// Package store persists simulation runs as flat files: a metadata.json
// and a states.csv per run directory.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/longsim/longsim/internal/sim"
	"github.com/longsim/longsim/internal/vehicle"
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
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Params    map[string]float64 `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

var csvHeader = []string{"time", "x", "v", "a", "w_e", "w_e_dot", "throttle", "incline"}

// Save writes a run directory named after the scenario and returns its id.
func (s *Store) Save(scenarioName string, params vehicle.Params, result *sim.Result, metrics map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenarioName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenarioName,
		Timestamp: time.Now(),
		Dt:        params.Dt,
		Duration:  result.Final().T,
		Steps:     result.StepsTaken,
		Params:    params.Map(),
		Metrics:   metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, rec := range result.Records {
		row := []string{
			formatFloat(rec.T),
			formatFloat(rec.State.X),
			formatFloat(rec.State.V),
			formatFloat(rec.State.A),
			formatFloat(rec.State.We),
			formatFloat(rec.State.WeDot),
			formatFloat(rec.Throttle),
			formatFloat(rec.Incline),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return runID, w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
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

	return runs, nil
}

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

// LoadRecords reads back the per-step samples of a stored run.
func (s *Store) LoadRecords(runID string) ([]sim.Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	records := make([]sim.Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) < len(csvHeader) {
			continue
		}

		vals := make([]float64, len(csvHeader))
		ok := true
		for j := range csvHeader {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		records = append(records, sim.Record{
			T: vals[0],
			State: vehicle.State{
				X:     vals[1],
				V:     vals[2],
				A:     vals[3],
				We:    vals[4],
				WeDot: vals[5],
			},
			Throttle: vals[6],
			Incline:  vals[7],
		})
	}

	return records, nil
}
