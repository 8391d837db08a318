package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/agent-miner/internal/model"
	"github.com/sells-group/agent-miner/internal/store"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect persisted agency reports",
	Long:  "Commands for listing and viewing the agency reports saved by analyze runs.",
}

// -- reports list --

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agency reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openReadStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runID, _ := cmd.Flags().GetString("run")
		agency, _ := cmd.Flags().GetString("agency")
		agent, _ := cmd.Flags().GetString("agent")
		limit, _ := cmd.Flags().GetInt("limit")

		reports, err := st.ListReports(ctx, store.ReportFilter{
			RunID:  runID,
			Agency: agency,
			Agent:  agent,
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "reports list")
		}

		if len(reports) == 0 {
			fmt.Fprintln(os.Stderr, "No reports found.")
			return nil
		}

		formatReportsList(os.Stdout, reports)
		return nil
	},
}

// -- reports show --

var reportsShowCmd = &cobra.Command{
	Use:   "show <agency-ref-or-name>",
	Short: "Show the latest report of an agency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openReadStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		report, err := st.GetReport(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return eris.Errorf("reports show: no report for %q", args[0])
		}
		if err != nil {
			return eris.Wrap(err, "reports show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	reportsListCmd.Flags().String("run", "", "filter by run ID")
	reportsListCmd.Flags().String("agency", "", "filter by agency ref or name")
	reportsListCmd.Flags().String("agent", "", "filter by canonical agent name")
	reportsListCmd.Flags().Int("limit", 50, "max number of reports to display")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	rootCmd.AddCommand(reportsCmd)
}

// openReadStore validates the config for read commands and opens the store.
func openReadStore(cmd *cobra.Command) (store.Store, error) {
	if err := cfg.Validate("reports"); err != nil {
		return nil, err
	}
	st, err := initStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("store.driver is none; nothing is persisted")
	}
	return st, nil
}

// formatReportsList writes a tabular list of reports to w.
func formatReportsList(out io.Writer, reports []model.StoredReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tRUN\tAGENCY\tREVIEWS\tWITH_AGENTS\tAGENTS\tTOP_AGENT\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t---\t------\t-------\t-----------\t------\t---------\t-------")

	for _, r := range reports {
		agency := r.Report.AgencyName
		if len([]rune(agency)) > 30 {
			agency = string([]rune(agency)[:27]) + "..."
		}

		top := ""
		if len(r.Report.Agents) > 0 {
			a := r.Report.Agents[0]
			top = fmt.Sprintf("%s (%d)", a.CanonicalName, a.TotalMentions)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			truncateID(r.ID),
			truncateID(r.RunID),
			agency,
			r.Report.TotalReviews,
			r.Report.ReviewsWithAgents,
			len(r.Report.Agents),
			top,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
