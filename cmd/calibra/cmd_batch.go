package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"calibra/internal/report"
	"calibra/internal/store"
	"calibra/internal/validate"
)

var batchFlags struct {
	file    string
	workers int
	persist bool
	dbPath  string
	asJSON  bool
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Validate every method in a batch file and print the roll-up",
	RunE:  runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.file, "file", "", "Batch request file, YAML or JSON (required)")
	f.IntVar(&batchFlags.workers, "workers", 4, "Parallel validation workers")
	f.BoolVar(&batchFlags.persist, "persist", false, "Save the run to the audit store")
	f.StringVar(&batchFlags.dbPath, "db", store.DefaultDBPath, "Audit store DB path")
	f.BoolVar(&batchFlags.asJSON, "json", false, "Print the full report as JSON")
	_ = batchCmd.MarkFlagRequired("file")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	v, err := validate.New(configStore())
	if err != nil {
		return err
	}
	items, err := validate.LoadBatch(batchFlags.file, v.Docs().Hash)
	if err != nil {
		return err
	}

	rep := v.ValidateBatch(cmd.Context(), items, batchFlags.workers)

	if batchFlags.persist {
		st, err := store.Open(batchFlags.dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SaveReport(rep); err != nil {
			return err
		}
	}

	if batchFlags.asJSON {
		out, err := report.JSON(rep)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	fmt.Print(report.Text(rep))
	return nil
}
