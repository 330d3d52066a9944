package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codeGROOVE-dev/doppelganger"
	"github.com/codeGROOVE-dev/doppelganger/ingest"
	"github.com/codeGROOVE-dev/doppelganger/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze <batch.json>",
		Short: "Resolve identity clusters from a harvested profile batch",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().Float64("merge-floor", doppelganger.DefaultMergeFloor, "minimum confidence (0-100) to merge records into one cluster")
	cmd.Flags().Bool("all-verdicts", false, "include verdicts below the merge floor for auditing")
	cmd.Flags().String("db", "", "also archive the run to this SQLite database")
	cmd.Flags().Int("workers", 0, "pair-scoring workers (0 = number of CPUs)")
	_ = viper.BindPFlag("merge_floor", cmd.Flags().Lookup("merge-floor")) //nolint:errcheck // flag exists
	_ = viper.BindPFlag("db", cmd.Flags().Lookup("db"))                   //nolint:errcheck // flag exists

	rootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read batch: %w", err)
	}

	records, err := ingest.Load(data)
	if err != nil {
		return fmt.Errorf("parse batch: %w", err)
	}
	logger.Info("batch loaded", "records", len(records))

	mergeFloor := viper.GetFloat64("merge_floor")
	allVerdicts, _ := cmd.Flags().GetBool("all-verdicts") //nolint:errcheck // flag exists
	workers, _ := cmd.Flags().GetInt("workers")           //nolint:errcheck // flag exists

	opts := []doppelganger.Option{
		doppelganger.WithLogger(logger),
		doppelganger.WithMergeFloor(mergeFloor),
	}
	if allVerdicts {
		opts = append(opts, doppelganger.WithAllVerdicts())
	}
	if workers > 0 {
		opts = append(opts, doppelganger.WithWorkers(workers))
	}

	result, err := doppelganger.Analyze(cmd.Context(), records, opts...)
	if err != nil {
		return err
	}

	if dbPath := viper.GetString("db"); dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close() //nolint:errcheck // best-effort close

		runID, err := db.SaveRun(cmd.Context(), result, mergeFloor, len(records))
		if err != nil {
			return fmt.Errorf("archive run: %w", err)
		}
		logger.Info("run archived", "run_id", runID, "db", dbPath)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
