package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longsim/longsim/internal/sim"
	"github.com/longsim/longsim/internal/vehicle"
)

func testResult() *sim.Result {
	return &sim.Result{
		Records: []sim.Record{
			{T: 0, State: vehicle.State{X: 0, V: 5.0, We: 100.0}, Throttle: 0.2},
			{T: 0.01, State: vehicle.State{X: 0.05, V: 5.0, A: 4.982975, We: 100.0, WeDot: 7.802475}, Throttle: 0.2},
			{T: 0.02, State: vehicle.State{X: 0.1, V: 5.04982975, We: 100.07802475}, Throttle: 0.2},
		},
		StepsTaken: 2,
	}
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	params := vehicle.DefaultParams()
	metrics := map[string]float64{"v_max": 5.05}

	runID, err := st.Save("steady", params, testResult(), metrics)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "steady_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "steady", meta.Scenario)
	assert.Equal(t, 0.01, meta.Dt)
	assert.Equal(t, 2, meta.Steps)
	assert.Equal(t, 5.05, meta.Metrics["v_max"])
	assert.Equal(t, params.Mass, meta.Params["mass"])

	records, err := st.LoadRecords(runID)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.InDelta(t, 0.01, records[1].T, 1e-9)
	assert.InDelta(t, 0.05, records[1].State.X, 1e-6)
	assert.InDelta(t, 4.982975, records[1].State.A, 1e-6)
	assert.InDelta(t, 7.802475, records[1].State.WeDot, 1e-6)
	assert.InDelta(t, 0.2, records[1].Throttle, 1e-9)
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	params := vehicle.DefaultParams()
	_, err := st.Save("alpha", params, testResult(), nil)
	require.NoError(t, err)
	_, err = st.Save("beta", params, testResult(), nil)
	require.NoError(t, err)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	scenarios := []string{runs[0].Scenario, runs[1].Scenario}
	assert.ElementsMatch(t, []string{"alpha", "beta"}, scenarios)
}

func TestListMissingBaseDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	_, err := st.Load("no-such-run")
	assert.Error(t, err)
}

func TestWritePositions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePositions(&buf, testResult().Records))

	want := "0.000000, 0.000000\n" +
		"0.010000, 0.050000\n" +
		"0.020000, 0.100000\n"
	assert.Equal(t, want, buf.String())
}

func TestExportPositionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.txt")
	require.NoError(t, ExportPositions(path, testResult().Records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.NotContains(t, lines[0], "time", "positions file must not have a header")
	for _, line := range lines {
		assert.Contains(t, line, ", ")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	params := vehicle.DefaultParams()
	runID, err := st.Save("steady", params, testResult(), map[string]float64{"v_max": 5.05})
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	records, err := st.LoadRecords(runID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, records))

	var out ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "steady", out.Scenario)
	assert.Equal(t, 2, out.Steps)
	assert.Len(t, out.Records, 3)
	assert.InDelta(t, 0.05, out.Records[1].X, 1e-6)
}
