package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/gofredholm/InputParameters"
	"github.com/notargets/gofredholm/inteq"
)

// SweepCmd represents the sweep command
var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Solve one problem file over a range of basis sizes and compare residuals",
	Long: `
Re-solves the problem for every basis size in [from, to], one independent solver per
size, and prints the residual of each.

gofredholm sweep -I problem.yaml --from 2 --to 8`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			fp   *InputParameters.FredholmProblem
			rows []SweepRow
		)
		inputFile, _ := cmd.Flags().GetString(inputFlagName)
		if fp, err = readProblem(inputFile); err != nil {
			return
		}
		configureLogger(logFile, fp.Title, verbose)
		from, _ := cmd.Flags().GetInt(sweepFromFlagName)
		to, _ := cmd.Flags().GetInt(sweepToFlagName)
		if rows, err = runSweep(cmd.Context(), fp, from, to, viper.GetInt(sweepParallelKey)); err != nil {
			return
		}
		renderSweepTable(cmd.OutOrStdout(), fp, rows)
		return
	},
}

func init() {
	rootCmd.AddCommand(SweepCmd)
	SweepCmd.Flags().StringP(inputFlagName, "I", "", "YAML problem file")
	SweepCmd.Flags().Int(sweepFromFlagName, 2, "smallest basis size")
	SweepCmd.Flags().Int(sweepToFlagName, 8, "largest basis size")
	SweepCmd.Flags().IntP(sweepParallelFlag, "p", defaultSweepLimit, "number of concurrent solves")
	bindFlagToConfig(SweepCmd.Flags().Lookup(sweepParallelFlag), sweepParallelKey)
}

// SweepRow is the outcome of one basis size; Err is set instead of failing the sweep.
// NCollocation is the node count actually used, zero for Galerkin.
type SweepRow struct {
	NBasis       int
	NCollocation int
	Residual     float64
	Condition    float64
	Err          error
}

func runSweep(ctx context.Context, fp *InputParameters.FredholmProblem, from, to, parallel int) (rows []SweepRow, err error) {
	var (
		base inteq.Config
	)
	if ctx == nil {
		ctx = context.Background()
	}
	if from < 1 || to < from {
		return nil, fmt.Errorf("sweep needs 1 <= from <= to, have from=%d to=%d", from, to)
	}
	if base, err = fp.EquationConfig(); err != nil {
		return
	}
	rows = make([]SweepRow, to-from+1)
	group, groupCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		group.SetLimit(parallel)
	}
	for i := range rows {
		nb := from + i
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			rows[i] = sweepOne(fp, base, nb)
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, err
	}
	return
}

// sweepOne builds its own solver so goroutines share no mutable state
func sweepOne(fp *InputParameters.FredholmProblem, cfg inteq.Config, nBasis int) (row SweepRow) {
	var (
		fr  *inteq.Fredholm
		sol *inteq.Solution
	)
	row.NBasis = nBasis
	cfg.NBasis = nBasis
	if cfg.Method == inteq.Collocation {
		if cfg.NCollocation < nBasis {
			globalLogger.Info("sweep raised the collocation node count", "nBasis", nBasis,
				"from", cfg.NCollocation, "to", 2*nBasis)
			cfg.NCollocation = 2 * nBasis
		}
		row.NCollocation = cfg.NCollocation
	}
	if fr, row.Err = fp.Equation(); row.Err != nil {
		return
	}
	if sol, row.Err = fr.Solve(cfg); row.Err != nil {
		globalLogger.Warn("sweep solve failed", "nBasis", nBasis, "err", row.Err)
		return
	}
	row.Condition = sol.Condition()
	row.Residual, row.Err = fr.Residual(sol, ResidualPoints)
	globalLogger.Debug("sweep solve", "nBasis", nBasis, "residual", row.Residual, "condition", row.Condition)
	return
}

func renderSweepTable(w io.Writer, fp *InputParameters.FredholmProblem, rows []SweepRow) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"NBasis", "Nodes", "Condition", "Residual"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, r := range rows {
		nodes, cond, cell := "-", "-", fmt.Sprintf("%.3e", r.Residual)
		if r.NCollocation > 0 {
			nodes = fmt.Sprintf("%d", r.NCollocation)
		}
		if r.Err != nil {
			cell = "error: " + r.Err.Error()
		} else {
			cond = fmt.Sprintf("%.3e", r.Condition)
		}
		table.Append([]string{fmt.Sprintf("%d", r.NBasis), nodes, cond, cell})
	}
	table.Render()
	if fp.Title != "" {
		fmt.Fprintf(w, "%s\n", fp.Title)
	}
	fmt.Fprint(w, buf.String())
}
