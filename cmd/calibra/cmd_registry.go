package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"calibra/internal/layers"
	"calibra/internal/score"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Load and check the registry documents, then print coverage",
	Long: "Loads all five registry documents, runs every load-time validation\n" +
		"(weight sums, discrete levels, anti-universality), and prints the\n" +
		"intrinsic-calibration coverage.",
	RunE: runRegistry,
}

func runRegistry(_ *cobra.Command, _ []string) error {
	docs, err := configStore().Documents()
	if err != nil {
		return err
	}

	fmt.Printf("Config hash: %s\n", docs.Hash)
	fmt.Printf("Catalog:     %d methods, %d ensembles\n", len(docs.Catalog.Methods), len(docs.Catalog.Ensembles))
	fmt.Printf("Fusion:      %d roles\n", len(docs.Fusion.Roles))
	fmt.Printf("Compat:      %d methods\n", len(docs.Compatibility))

	stats := layers.NewBaseEvaluator(docs).Coverage()
	fmt.Printf("\nIntrinsic calibration: %d total, %d computed, %d excluded\n",
		stats.Total, stats.Computed, stats.Excluded)
	if stats.Computed > 0 {
		fmt.Printf("Average sub-scores: theory %.3f, impl %.3f, deploy %.3f\n",
			stats.Averages["theory"], stats.Averages["impl"], stats.Averages["deploy"])
	}
	if len(stats.ByRole) > 0 {
		names := make([]string, 0, len(stats.ByRole))
		for role := range stats.ByRole {
			names = append(names, role)
		}
		sort.Strings(names)
		fmt.Println("By role:")
		for _, name := range names {
			required := 8
			if role, err := score.ParseRole(name); err == nil {
				required = len(role.RequiredLayers())
			}
			fmt.Printf("  %-14s %d (requires %d layers)\n", name, stats.ByRole[name], required)
		}
	}
	return nil
}
