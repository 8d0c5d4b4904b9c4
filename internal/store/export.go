package store

import (
	"encoding/json"
	"io"

	"github.com/longsim/longsim/internal/sim"
)

// ExportData is the self-contained JSON form of a stored run.
type ExportData struct {
	Scenario string             `json:"scenario"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Params   map[string]float64 `json:"params"`
	Metrics  map[string]float64 `json:"metrics"`
	Records  []recordJSON       `json:"records"`
}

type recordJSON struct {
	T        float64 `json:"t"`
	X        float64 `json:"x"`
	V        float64 `json:"v"`
	A        float64 `json:"a"`
	We       float64 `json:"w_e"`
	WeDot    float64 `json:"w_e_dot"`
	Throttle float64 `json:"throttle"`
	Incline  float64 `json:"incline"`
}

// ExportJSON writes a stored run as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, records []sim.Record) error {
	data := ExportData{
		Scenario: meta.Scenario,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    meta.Steps,
		Params:   meta.Params,
		Metrics:  meta.Metrics,
		Records:  make([]recordJSON, len(records)),
	}

	for i, rec := range records {
		data.Records[i] = recordJSON{
			T:        rec.T,
			X:        rec.State.X,
			V:        rec.State.V,
			A:        rec.State.A,
			We:       rec.State.We,
			WeDot:    rec.State.WeDot,
			Throttle: rec.Throttle,
			Incline:  rec.Incline,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
