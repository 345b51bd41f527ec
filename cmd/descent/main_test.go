package main

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sky-flux/descent"
	"github.com/sky-flux/descent/internal/log"
	"github.com/sky-flux/descent/internal/monitor"
	"github.com/sky-flux/descent/optimizer"
)

const pgaPath = "../../internal/dataload/testdata/pga.csv"

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeLines[T any](t *testing.T, text string) []T {
	t.Helper()
	var values []T
	scanner := bufio.NewScanner(bytes.NewBufferString(text))
	for scanner.Scan() {
		var v T
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &v), scanner.Text())
		values = append(values, v)
	}
	require.NoError(t, scanner.Err())
	return values
}

// --- run ---

func TestRunJSONEvery(t *testing.T) {
	stdout, stderr, err := execute(t, "run",
		"--synthetic", "100", "--seed", "7",
		"--format", "json", "--every", "10",
		"--learning-rate", "0.1", "--convergence-threshold", "0", "--max-iterations", "30")
	require.NoError(t, err)

	states := decodeLines[optimizer.State](t, stdout)
	require.Len(t, states, 4)
	for i, s := range states {
		assert.Equal(t, i*10, s.Iteration)
	}
	assert.False(t, states[3].Converged)
	assert.Less(t, states[3].MeanSquaredError, states[0].MeanSquaredError)
	assert.Contains(t, stderr, "Exhausted after 30 iterations")
}

func TestRunFinalOnly(t *testing.T) {
	stdout, _, err := execute(t, "run", "--synthetic", "50", "--format", "json", "--every", "0",
		"--max-iterations", "5", "--convergence-threshold", "0", "--learning-rate", "0.1")
	require.NoError(t, err)
	states := decodeLines[optimizer.State](t, stdout)
	require.Len(t, states, 1)
	assert.Equal(t, 5, states[0].Iteration)
}

func TestRunCSVTable(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "--data", pgaPath, "--every", "100")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
	assert.Contains(t, stderr, "Converged after")
	assert.Contains(t, stderr, "raw scale:")
	assert.Contains(t, stderr, "optimum:")
}

func TestRunNoData(t *testing.T) {
	_, _, err := execute(t, "run")
	assert.True(t, errors.Is(err, errors.NotValid), "%v", err)
}

func TestRunInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "run", "--synthetic", "10", "--format", "xml")
	assert.True(t, errors.Is(err, errors.NotValid), "%v", err)
}

func TestRunDegenerateData(t *testing.T) {
	_, _, err := execute(t, "run", "--synthetic", "1")
	assert.True(t, errors.Is(err, descent.ErrDegenerateDataset), "%v", err)
}

// timedWriter records when each write arrived.
type timedWriter struct {
	bytes.Buffer
	times []time.Time
}

func (w *timedWriter) Write(p []byte) (int, error) {
	w.times = append(w.times, time.Now())
	return w.Buffer.Write(p)
}

func TestRunIntervalStreamsTable(t *testing.T) {
	const interval = 20 * time.Millisecond
	var out timedWriter
	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", "--synthetic", "50",
		"--interval", interval.String(), "--every", "1",
		"--learning-rate", "0.1", "--convergence-threshold", "0", "--max-iterations", "5"})
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	require.NoError(t, cmd.Execute())

	// six rows paced one tick apart cannot all arrive at the end
	require.NotEmpty(t, out.times)
	spread := out.times[len(out.times)-1].Sub(out.times[0])
	assert.GreaterOrEqual(t, spread, 3*interval)
}

func TestRunProgressBar(t *testing.T) {
	_, stderr, err := execute(t, "run", "--synthetic", "50", "--every", "0",
		"--learning-rate", "0.1", "--convergence-threshold", "0", "--max-iterations", "20")
	require.NoError(t, err)
	assert.Contains(t, stderr, "descending")
	assert.Contains(t, stderr, "Exhausted after 20 iterations")
}

func TestRunMetricsAddr(t *testing.T) {
	_, stderr, err := execute(t, "run", "--synthetic", "50", "--metrics-addr", "127.0.0.1:0", "--every", "0")
	require.NoError(t, err)
	assert.Contains(t, stderr, "after")
}

func TestRunMetricsAddrInUse(t *testing.T) {
	addr, shutdown, err := serveMetrics("127.0.0.1:0", http.NotFoundHandler(), zap.NewNop())
	require.NoError(t, err)
	defer shutdown()
	_, _, err = execute(t, "run", "--synthetic", "50", "--metrics-addr", addr)
	assert.Error(t, err)
}

func TestServeMetrics(t *testing.T) {
	m := monitor.NewMonitor("serve")
	m.Observe(optimizer.State{Iteration: 12, MeanSquaredError: 0.25})

	addr, shutdown, err := serveMetrics("127.0.0.1:0", m.Handler(), zap.NewNop())
	require.NoError(t, err)
	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `descent_optimizer_iteration{run_id="serve"} 12`)

	shutdown()
	_, err = http.Get("http://" + addr + "/metrics")
	assert.Error(t, err)
}

func TestQuietSilencesLogs(t *testing.T) {
	_, _, err := execute(t, "--quiet", "run", "--synthetic", "20", "--format", "json", "--every", "0")
	require.NoError(t, err)
	assert.False(t, log.Logger().Core().Enabled(zap.InfoLevel))

	_, _, err = execute(t, "run", "--synthetic", "20", "--format", "json", "--every", "0")
	require.NoError(t, err)
	assert.True(t, log.Logger().Core().Enabled(zap.InfoLevel))
}

// --- sweep ---

func TestSweepJSON(t *testing.T) {
	stdout, _, err := execute(t, "sweep", "--synthetic", "100", "--format", "json",
		"--learning-rates", "0.1,2.5", "--max-iterations", "200", "--jobs", "2")
	require.NoError(t, err)

	rows := decodeLines[sweepRow](t, stdout)
	require.Len(t, rows, 2)
	assert.Equal(t, 0.1, rows[0].Hyperparameters.LearningRate)
	assert.Equal(t, 2.5, rows[1].Hyperparameters.LearningRate)
	assert.True(t, rows[0].Best)
	assert.False(t, rows[1].Best)
	// a cost increase satisfies the decrease test on the first step
	assert.Equal(t, descent.Converged, rows[1].Phase)
	assert.Equal(t, 1, rows[1].Final.Iteration)
}

func TestSweepTable(t *testing.T) {
	stdout, _, err := execute(t, "sweep", "--data", pgaPath, "--learning-rates", "0.5,1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "*")
	assert.Contains(t, stdout, "Converged")
}

// --- normalize ---

func TestNormalizeJSON(t *testing.T) {
	stdout, _, err := execute(t, "normalize", "--data", pgaPath, "--format", "json")
	require.NoError(t, err)

	var result struct {
		Stats        descent.Stats         `json:"stats"`
		Observations []descent.Observation `json:"observations"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Len(t, result.Observations, 20)
	assert.InDelta(t, 293.655, result.Stats.XMean, 1e-9)
	assert.Greater(t, result.Stats.XStd, 0.0)
}

func TestNormalizeByIndex(t *testing.T) {
	stdout, _, err := execute(t, "normalize", "--data", pgaPath, "--x-column", "1", "--y-column", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "290.3")
}
