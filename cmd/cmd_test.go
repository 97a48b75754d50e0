package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofredholm/store"
)

const separableProblem = `
Title: Separable kernel
Kernel: separable
FreeTerm: identity
Lambda: 1.0
Domain: [0, 1]
Method: collocation
Basis: polynomial
Nodes: uniform
NBasis: 4
NCollocation: 8
Samples: 5
`

func writeProblem(t *testing.T, doc string) string {
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestReadProblem(t *testing.T) {
	fp, err := readProblem(writeProblem(t, separableProblem))
	require.NoError(t, err)
	assert.Equal(t, "Separable kernel", fp.Title)

	_, err = readProblem("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kernel: separable")

	_, err = readProblem(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = readProblem(writeProblem(t, "Kernel: nope\nFreeTerm: one\n"))
	assert.Error(t, err)
}

func TestRunSolve(t *testing.T) {
	fp, err := readProblem(writeProblem(t, separableProblem))
	require.NoError(t, err)
	var (
		dir        = t.TempDir()
		storePath  = filepath.Join(dir, "runs")
		metricsOut = filepath.Join(dir, "metrics.prom")
	)
	res, err := runSolve(context.Background(), fp, solveOptions{storePath: storePath, metricsOut: metricsOut})
	require.NoError(t, err)
	assert.Less(t, res.Residual, 1e-3)
	require.Len(t, res.Samples, 5)
	for _, p := range res.Samples {
		assert.InDelta(t, 1.5*p.X, p.U, 1e-6)
	}
	assert.NotEqual(t, uuid.Nil, res.RunID)

	st, err := store.Open(store.Config{Path: storePath})
	require.NoError(t, err)
	defer st.Close()
	run, err := st.LoadRun(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, "Separable kernel", run.Title)
	assert.Equal(t, res.Samples, run.Samples)

	data, err := os.ReadFile(metricsOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fredholm_solve_total{method="collocation"} 1`)

	var out bytes.Buffer
	renderSolveTable(&out, fp, res)
	assert.Contains(t, out.String(), "Separable kernel")
	assert.Contains(t, strings.ToUpper(out.String()), "RESIDUAL")
	assert.Contains(t, out.String(), res.RunID.String())
}

func TestRunSolveFailure(t *testing.T) {
	// lambda = 1 with a constant kernel leaves the constant mode singular
	fp, err := readProblem(writeProblem(t, "Kernel: constant\nFreeTerm: one\nNBasis: 1\n"))
	require.NoError(t, err)
	metricsOut := filepath.Join(t.TempDir(), "metrics.prom")
	_, err = runSolve(context.Background(), fp, solveOptions{metricsOut: metricsOut})
	require.Error(t, err)
	data, err := os.ReadFile(metricsOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fredholm_solve_failures_total{method="collocation",stage="solve"} 1`)
}

func TestRunSweep(t *testing.T) {
	fp, err := readProblem(writeProblem(t, separableProblem))
	require.NoError(t, err)
	rows, err := runSweep(context.Background(), fp, 2, 6, 3)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i, r := range rows {
		assert.Equal(t, 2+i, r.NBasis)
		require.NoError(t, r.Err)
		assert.Less(t, r.Residual, 1e-3)
	}
	var out bytes.Buffer
	renderSweepTable(&out, fp, rows)
	assert.Contains(t, out.String(), "Separable kernel")

	_, err = runSweep(context.Background(), fp, 5, 2, 1)
	assert.Error(t, err)

	// basis sizes beyond the node count get a larger node set
	fp, err = readProblem(writeProblem(t, "Kernel: separable\nFreeTerm: identity\n"+
		"Domain: [-1, 1]\nBasis: legendre\nNBasis: 2\nNCollocation: 4\n"))
	require.NoError(t, err)
	rows, err = runSweep(context.Background(), fp, 3, 6, 1)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, r := range rows {
		require.NoError(t, r.Err)
		assert.Less(t, r.Residual, 1e-3)
		assert.False(t, math.IsInf(r.Condition, 0))
	}
	// the file's 4 nodes serve NBasis 3 and 4; larger sizes get 2*NBasis
	assert.Equal(t, []int{4, 4, 10, 12}, []int{rows[0].NCollocation, rows[1].NCollocation,
		rows[2].NCollocation, rows[3].NCollocation})
	out.Reset()
	renderSweepTable(&out, fp, rows)
	assert.Contains(t, out.String(), "NODES")
	assert.Contains(t, out.String(), " 12 ")

	// galerkin rows carry no node count
	fp.Method = "galerkin"
	rows, err = runSweep(context.Background(), fp, 2, 3, 2)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, r.Err)
		assert.Zero(t, r.NCollocation)
	}
}

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseSlogLevel("debug", 0).String())
	assert.Equal(t, "WARN", parseSlogLevel(" Warning ", 0).String())
	assert.Equal(t, "ERROR", parseSlogLevel("8", 0).String())
	assert.Equal(t, "INFO", parseSlogLevel("", 0).String())
	assert.Equal(t, "INFO", parseSlogLevel("loud", 0).String())
	assert.Equal(t, "WARN+2", parseSlogLevel("warn+2", 0).String())
	assert.Equal(t, slog.LevelError, parseSlogLevel("ERROR", slog.LevelDebug))
}

func TestLogFilename(t *testing.T) {
	t.Cleanup(func() { viper.Set(logFilenameKey, "") })
	viper.Set(logFilenameKey, "")
	assert.Equal(t, ".gofredholm.log", logFilename("", ""))
	assert.Equal(t, ".gofredholm-separable-kernel.log", logFilename("", "Separable kernel"))
	assert.Equal(t, ".gofredholm-k-x-t-e-xt-2.log", logFilename("", "  K(x,t) = e^{xt} #2 "))
	assert.Equal(t, ".gofredholm.log", logFilename("", "***"))
	assert.Equal(t, filepath.Join("logs", "a.log"), logFilename(" logs//a.log ", "Separable kernel"))

	viper.Set(logFilenameKey, "from-config.log")
	assert.Equal(t, "from-config.log", logFilename("", "Separable kernel"))
	assert.Equal(t, "flag.log", logFilename("flag.log", "Separable kernel"))
}

func TestStartProfile(t *testing.T) {
	require.NoError(t, startProfile(""))
	assert.Nil(t, profiler)
	assert.Error(t, startProfile("trace-everything"))
}

func TestExecuteSolve(t *testing.T) {
	var (
		problem = writeProblem(t, separableProblem)
		logPath = filepath.Join(t.TempDir(), "test.log")
		out     bytes.Buffer
	)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"solve", "-I", problem, "--log-file", logPath, "--samples", "3"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "0.500000")
	assert.Contains(t, out.String(), "0.75")

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "solved")
	assert.Contains(t, string(logData), `problem="Separable kernel"`)
	assert.Contains(t, string(logData), "condition=")
}

func TestRunsCommands(t *testing.T) {
	var (
		dir       = t.TempDir()
		storePath = filepath.Join(dir, "runs")
		logPath   = filepath.Join(dir, "runs.log")
		out       bytes.Buffer
		ids       []uuid.UUID
	)
	fp, err := readProblem(writeProblem(t, separableProblem))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		res, err := runSolve(context.Background(), fp, solveOptions{storePath: storePath})
		require.NoError(t, err)
		ids = append(ids, res.RunID)
	}
	execute := func(args ...string) error {
		out.Reset()
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append(args, "--log-file", logPath))
		return rootCmd.Execute()
	}
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, execute("runs", "list", "--store", storePath))
	for _, id := range ids {
		assert.Contains(t, out.String(), id.String())
	}
	assert.Contains(t, out.String(), "Separable kernel")

	require.NoError(t, execute("runs", "show", ids[0].String(), "--store", storePath))
	assert.Contains(t, out.String(), "collocation polynomial, 4 basis functions")
	assert.Contains(t, out.String(), "0.500000")

	require.NoError(t, execute("runs", "delete", ids[0].String(), "--store", storePath))
	assert.Contains(t, out.String(), "deleted "+ids[0].String())

	err = execute("runs", "show", ids[0].String(), "--store", storePath)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	err = execute("runs", "delete", ids[0].String(), "--store", storePath)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Error(t, execute("runs", "show", "not-a-uuid", "--store", storePath))

	st, err := store.Open(store.Config{Path: storePath})
	require.NoError(t, err)
	var listing bytes.Buffer
	require.NoError(t, listRuns(context.Background(), st, &listing))
	require.NoError(t, st.Close())
	assert.NotContains(t, listing.String(), ids[0].String())
	assert.Contains(t, listing.String(), ids[1].String())
}

func TestRunsStorePath(t *testing.T) {
	c := &cobra.Command{Use: "list"}
	c.Flags().String(storeFlagName, "", "")
	_, err := runsStorePath(c)
	assert.Error(t, err)
	require.NoError(t, c.Flags().Set(storeFlagName, "somewhere"))
	path, err := runsStorePath(c)
	require.NoError(t, err)
	assert.Equal(t, "somewhere", path)
}
