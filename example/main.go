// Package main demonstrates basic usage of the doppelganger library.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/codeGROOVE-dev/doppelganger"
	"github.com/codeGROOVE-dev/doppelganger/ingest"
)

func main() {
	flag.Parse()

	if len(flag.Args()) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s <profiles.json>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s harvested/jane.json\n", os.Args[0])
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Args()[0])
	if err != nil {
		log.Fatalf("Failed to read batch: %v", err)
	}

	records, err := ingest.Load(data)
	if err != nil {
		log.Fatalf("Failed to parse batch: %v", err)
	}

	result, err := doppelganger.Analyze(context.Background(), records)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	for _, c := range result.Clusters {
		fmt.Printf("Cluster:    %s\n", c.ClusterID)
		fmt.Printf("Members:    %v\n", c.Members)
		fmt.Printf("Platforms:  %v\n", c.Platforms)
		fmt.Printf("Confidence: %.1f (%s)\n\n", c.Strongest.Confidence, c.Strongest.Band)
	}
	for _, id := range result.Unmatched {
		fmt.Printf("Unmatched:  %s\n", id)
	}
}
