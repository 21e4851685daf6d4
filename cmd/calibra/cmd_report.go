package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"calibra/internal/report"
	"calibra/internal/store"
)

var reportFlags struct {
	dbPath string
	runID  string
	limit  int
	asJSON bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List stored validation runs or print one run",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.dbPath, "db", store.DefaultDBPath, "Audit store DB path")
	f.StringVar(&reportFlags.runID, "run", "", "Run ID to print (empty = list runs)")
	f.IntVar(&reportFlags.limit, "limit", 20, "Max runs to list")
	f.BoolVar(&reportFlags.asJSON, "json", false, "Print as JSON")
}

func runReport(_ *cobra.Command, _ []string) error {
	st, err := store.Open(reportFlags.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if reportFlags.runID == "" {
		runs, err := st.ListRuns(reportFlags.limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No stored runs.")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %-16s  %d total / %d passed / %d failed / %d skipped  (%s)\n",
				r.ID, r.Aggregate, r.Total, r.Passed, r.Failed, r.Skipped, r.StartedAt)
		}
		return nil
	}

	rep, err := st.GetReport(reportFlags.runID)
	if err != nil {
		return err
	}
	if rep == nil {
		return fmt.Errorf("run %s not found", reportFlags.runID)
	}
	if reportFlags.asJSON {
		out, err := report.JSON(*rep)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	fmt.Print(report.Text(*rep))
	return nil
}
