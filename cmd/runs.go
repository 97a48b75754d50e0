package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gofredholm/store"
)

// RunsCmd represents the runs command
var RunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List, show or delete solves stored with solve --store",
	Long: `
Reads back the runs a solve persisted to a badger directory.

gofredholm runs list --store ./runs
gofredholm runs show <id> --store ./runs
gofredholm runs delete <id> --store ./runs`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(st *store.Store) error {
			return listRuns(cmd.Context(), st, cmd.OutOrStdout())
		})
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the samples and coefficients of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("run id %q: %w", args[0], err)
		}
		return withStore(cmd, func(st *store.Store) error {
			return showRun(cmd.Context(), st, id, cmd.OutOrStdout())
		})
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("run id %q: %w", args[0], err)
		}
		return withStore(cmd, func(st *store.Store) error {
			if err := st.DeleteRun(cmd.Context(), id); err != nil {
				return err
			}
			globalLogger.Info("deleted run", "id", id)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(RunsCmd)
	RunsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)
	RunsCmd.PersistentFlags().String(storeFlagName, "", "badger directory the runs were stored in (default store.path)")
}

// runsStorePath prefers the runs --store flag over the store.path config key
func runsStorePath(cmd *cobra.Command) (path string, err error) {
	if path, _ = cmd.Flags().GetString(storeFlagName); path == "" {
		path = viper.GetString(storeConfigKey)
	}
	if path == "" {
		return "", fmt.Errorf("no run store, pass --%s or set %s", storeFlagName, storeConfigKey)
	}
	return
}

func withStore(cmd *cobra.Command, fn func(st *store.Store) error) (err error) {
	var (
		path string
		st   *store.Store
	)
	if path, err = runsStorePath(cmd); err != nil {
		return
	}
	if st, err = store.Open(store.Config{Path: path, SyncWrites: true, Logger: globalLogger}); err != nil {
		return
	}
	defer func() {
		if cerr := st.Close(); err == nil {
			err = cerr
		}
	}()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}
	return fn(st)
}

func listRuns(ctx context.Context, st *store.Store, w io.Writer) (err error) {
	var (
		ids  []uuid.UUID
		runs []store.Run
	)
	if ctx == nil {
		ctx = context.Background()
	}
	if ids, err = st.ListRuns(ctx); err != nil {
		return
	}
	runs = make([]store.Run, 0, len(ids))
	for _, id := range ids {
		var run store.Run
		if run, err = st.LoadRun(ctx, id); err != nil {
			return
		}
		runs = append(runs, run)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Created.After(runs[j].Created) })

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"ID", "Title", "Method", "Basis", "NBasis", "Residual", "Created"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	for _, r := range runs {
		table.Append([]string{r.ID.String(), r.Title, r.Method, r.Basis,
			fmt.Sprintf("%d", r.NBasis), fmt.Sprintf("%.3e", r.Residual),
			r.Created.Format("2006-01-02 15:04:05")})
	}
	table.SetFooter([]string{"", "", "", "", "", "runs", fmt.Sprintf("%d", len(runs))})
	table.Render()
	fmt.Fprint(w, buf.String())
	return
}

func showRun(ctx context.Context, st *store.Store, id uuid.UUID, w io.Writer) (err error) {
	var run store.Run
	if ctx == nil {
		ctx = context.Background()
	}
	if run, err = st.LoadRun(ctx, id); err != nil {
		return
	}
	fmt.Fprintf(w, "%s\n%s %s, %d basis functions, residual %.3e\n",
		run.Title, run.Method, run.Basis, run.NBasis, run.Residual)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"j", "c_j"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for j, c := range run.Coeffs {
		table.Append([]string{fmt.Sprintf("%d", j), fmt.Sprintf("%.10g", c)})
	}
	table.Render()

	table = tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"x", "u(x)"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, p := range run.Samples {
		table.Append([]string{fmt.Sprintf("%.6f", p.X), fmt.Sprintf("%.10g", p.U)})
	}
	table.Render()
	fmt.Fprint(w, buf.String())
	return
}
