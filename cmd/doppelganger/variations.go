package main

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/doppelganger/probe"
	"github.com/codeGROOVE-dev/doppelganger/variations"
)

func init() {
	cmd := &cobra.Command{
		Use:   "variations <username>",
		Short: "Print plausible alternate identifiers for a seed username",
		Args:  cobra.ExactArgs(1),
		RunE:  runVariations,
	}
	cmd.Flags().Bool("probe", false, "probe platforms for each candidate (network)")
	cmd.Flags().StringSlice("platforms", nil, "restrict probing to these platforms")
	cmd.Flags().Duration("cache-ttl", 24*time.Hour, "probe cache time-to-live")

	rootCmd.AddCommand(cmd)
}

func runVariations(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	seed := args[0]

	ranked := variations.Rank(seed, variations.Generate(seed))

	doProbe, _ := cmd.Flags().GetBool("probe") //nolint:errcheck // flag exists
	if !doProbe {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CANDIDATE\tTYPE\tSIMILARITY")
		for _, v := range ranked {
			fmt.Fprintf(w, "%s\t%s\t%.2f\n", v.Candidate, v.Type, v.Similarity)
		}
		return w.Flush()
	}

	platforms, _ := cmd.Flags().GetStringSlice("platforms")   //nolint:errcheck // flag exists
	cacheTTL, _ := cmd.Flags().GetDuration("cache-ttl")       //nolint:errcheck // flag exists

	cache, err := probe.NewCache(cacheTTL)
	if err != nil {
		logger.Warn("failed to initialize probe cache, continuing without", "error", err)
		cache = nil
	}

	hits := probe.Lookup(cmd.Context(), seed, probe.Config{
		Logger:    logger,
		Fetcher:   probe.HTTPFetcher(&http.Client{Timeout: 10 * time.Second}, cache, logger),
		Platforms: platforms,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tUSERNAME\tVARIATION\tURL")
	for _, h := range hits {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.Platform, h.Username, h.Variation, h.URL)
	}
	return w.Flush()
}
