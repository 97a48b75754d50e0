package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gofredholm/InputParameters"
	"github.com/notargets/gofredholm/inteq"
	"github.com/notargets/gofredholm/metrics"
	"github.com/notargets/gofredholm/store"
	"github.com/notargets/gofredholm/utils"
)

// ResidualPoints is the grid the reported residual is taken over
const ResidualPoints = 1000

// IllConditioned is the 2-norm condition number past which a solve is logged as a warning
const IllConditioned = 1e12

const exampleFile = `
########################################
Title: "Separable kernel"
Kernel: separable      # separable, exponential, sine, constant
FreeTerm: identity     # identity, one, exp, cos, tan, log1p
Lambda: 1.0
Domain: [0, 1]
Method: collocation    # or galerkin
Basis: polynomial      # fourier, chebyshev, legendre
Nodes: uniform         # chebyshev, random, gauss-legendre
NBasis: 4
NCollocation: 8
NIntegration: 100
########################################
`

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one problem file and print sampled values of the solution",
	Long: `
Solves the integral equation described by a YAML problem file, prints the solution
sampled on an even grid together with the max residual, and optionally stores the run.

gofredholm solve -I problem.yaml --samples 21 --store ./runs`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			fp   *InputParameters.FredholmProblem
			res  SolveResult
			opts solveOptions
		)
		inputFile, _ := cmd.Flags().GetString(inputFlagName)
		if fp, err = readProblem(inputFile); err != nil {
			return
		}
		configureLogger(logFile, fp.Title, verbose)
		if verbose {
			fp.Print()
		}
		opts.samples, _ = cmd.Flags().GetInt(samplesFlagName)
		opts.storePath = viper.GetString(storeConfigKey)
		opts.metricsOut, _ = cmd.Flags().GetString(metricsFlagName)
		if res, err = runSolve(cmd.Context(), fp, opts); err != nil {
			return
		}
		renderSolveTable(cmd.OutOrStdout(), fp, res)
		return
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP(inputFlagName, "I", "", "YAML problem file")
	SolveCmd.Flags().IntP(samplesFlagName, "s", 0, "number of solution samples (default from file)")
	SolveCmd.Flags().String(storeFlagName, "", "badger directory to persist the run in")
	SolveCmd.Flags().String(metricsFlagName, "", "write solve metrics in prometheus text format to this file")
	bindFlagToConfig(SolveCmd.Flags().Lookup(storeFlagName), storeConfigKey)
}

type solveOptions struct {
	samples    int
	storePath  string
	metricsOut string
}

type SolveResult struct {
	Solution *inteq.Solution
	Residual float64
	Samples  []inteq.Point
	Elapsed  time.Duration
	RunID    uuid.UUID
}

func readProblem(inputFile string) (fp *InputParameters.FredholmProblem, err error) {
	var data []byte
	if len(inputFile) == 0 {
		return nil, fmt.Errorf("must supply a problem file (-I, --%s), for example:%s",
			inputFlagName, exampleFile)
	}
	if data, err = os.ReadFile(inputFile); err != nil {
		return
	}
	fp = &InputParameters.FredholmProblem{}
	if err = fp.Parse(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", inputFile, err)
	}
	if err = fp.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", inputFile, err)
	}
	return
}

func runSolve(ctx context.Context, fp *InputParameters.FredholmProblem, opts solveOptions) (res SolveResult, err error) {
	var (
		cfg inteq.Config
		fr  *inteq.Fredholm
		reg = prometheus.NewRegistry()
		mc  = metrics.NewCollectors(reg)
	)
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg, err = fp.EquationConfig(); err != nil {
		return
	}
	if fr, err = fp.Equation(); err != nil {
		return
	}
	globalLogger.Debug("solving", "method", cfg.Method,
		"basis", cfg.Basis, "nodes", cfg.Nodes, "nBasis", cfg.NBasis)
	start := time.Now()
	if res.Solution, err = fr.Solve(cfg); err != nil {
		mc.ObserveFailure(cfg.Method, err)
		globalLogger.Error("solve failed", "state", fr.State(), "err", err)
		_ = writeMetrics(reg, opts.metricsOut)
		return
	}
	if res.Residual, err = fr.Residual(res.Solution, ResidualPoints); err != nil {
		mc.ObserveFailure(cfg.Method, err)
		return
	}
	res.Elapsed = time.Since(start)
	mc.ObserveSolve(cfg.Method, res.Elapsed, res.Residual)
	cond := res.Solution.Condition()
	globalLogger.Info("solved", "method", cfg.Method,
		"residual", res.Residual, "condition", cond, "elapsed", res.Elapsed)
	if cond > IllConditioned {
		globalLogger.Warn("closed system is ill conditioned, coefficients may carry little precision",
			"condition", cond, "nBasis", cfg.NBasis)
	}
	globalLogger.Debug("memory", "usage", utils.GetMemUsage())

	n := opts.samples
	if n <= 0 {
		n = fp.SampleCount()
	}
	if res.Samples, err = res.Solution.Sample(n); err != nil {
		return
	}
	if opts.storePath != "" {
		if res.RunID, err = saveRun(ctx, opts.storePath, fp.Title, res); err != nil {
			return
		}
		globalLogger.Info("stored run", "id", res.RunID, "path", opts.storePath)
	}
	err = writeMetrics(reg, opts.metricsOut)
	return
}

func saveRun(ctx context.Context, path, title string, res SolveResult) (id uuid.UUID, err error) {
	var st *store.Store
	if st, err = store.Open(store.Config{Path: path, SyncWrites: true, Logger: globalLogger}); err != nil {
		return
	}
	defer func() {
		if cerr := st.Close(); err == nil {
			err = cerr
		}
	}()
	return st.SaveRun(ctx, store.NewRun(title, res.Solution, res.Residual, res.Samples))
}

func writeMetrics(g prometheus.Gatherer, path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, g)
}

func renderSolveTable(w io.Writer, fp *InputParameters.FredholmProblem, res SolveResult) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"x", "u(x)"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, p := range res.Samples {
		table.Append([]string{fmt.Sprintf("%.6f", p.X), fmt.Sprintf("%.10g", p.U)})
	}
	table.SetFooter([]string{"residual", fmt.Sprintf("%.3e", res.Residual)})
	table.Render()
	if fp.Title != "" {
		fmt.Fprintf(w, "%s\n", fp.Title)
	}
	fmt.Fprint(w, buf.String())
	if res.RunID != uuid.Nil {
		fmt.Fprintf(w, "run id: %s\n", res.RunID)
	}
}
