/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/valpere/threadsmith/internal"
	"github.com/valpere/threadsmith/internal/store"
	"github.com/valpere/threadsmith/internal/workflow"
)

const defaultDBPath = "./data/threadsmith.db"

var (
	historyLimit int
	historyYAML  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the run journal",
	Long: `List, inspect, search and delete runs archived with --db.

The journal is a record of finished runs; it is never used to resume one.`,
}

func openJournal() (*store.Store, error) {
	path := viper.GetString("db")
	if path == "" {
		path = defaultDBPath
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func printRuns(runs []internal.RunRecord) error {
	if len(runs) == 0 {
		fmt.Println("No runs in the journal.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tITER\tCHARS\tDRAFT")
	for _, r := range runs {
		snippet := strings.ReplaceAll(workflow.Preview(r.FinalDraft, 40), "\n", " ")
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Status,
			r.Iterations, r.CharacterCount, snippet)
	}
	return w.Flush()
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openJournal()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		return printRuns(runs)
	},
}

var historyFindCmd = &cobra.Command{
	Use:   "find <draft>",
	Short: "Find runs started from the given draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openJournal()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.FindByDraft(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to search runs: %w", err)
		}
		return printRuns(runs)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openJournal()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if historyYAML {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(run); err != nil {
				return err
			}
			return enc.Close()
		}

		fmt.Printf("Run:             %s\n", run.ID)
		fmt.Printf("Created:         %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Model:           %s\n", run.Model)
		fmt.Printf("Status:          %s\n", run.Status)
		fmt.Printf("Iterations:      %d\n", run.Iterations)
		fmt.Printf("Characters:      %d\n", run.CharacterCount)
		if run.ApprovedAfter > 0 {
			fmt.Printf("Editor approval: %s\n", run.ApprovedAfter)
		}
		fmt.Printf("\nInitial draft:\n%s\n", run.InitialDraft)
		fmt.Printf("\nFinal draft:\n%s\n", run.FinalDraft)

		fmt.Println("\nVersions:")
		for i := 1; i < len(run.Versions); i++ {
			fmt.Printf("Version %d: %s\n", i, workflow.Preview(run.Versions[i], 50))
			if i-1 < len(run.Reviews) {
				fmt.Printf("  Review: %s\n", workflow.Preview(run.Reviews[i-1], 80))
			}
		}
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run journal statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openJournal()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total runs:      %d\n", stats.TotalRuns)
		fmt.Printf("Approved runs:   %d\n", stats.ApprovedRuns)
		fmt.Printf("Total versions:  %d\n", stats.TotalVersions)
		fmt.Printf("Avg iterations:  %.1f\n", stats.AvgIterations)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived run by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openJournal()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteRun(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		fmt.Printf("Deleted run: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to list (0 = all)")
	historyShowCmd.Flags().BoolVar(&historyYAML, "yaml", false, "Print the full run as YAML")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyFindCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}
