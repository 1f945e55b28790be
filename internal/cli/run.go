package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfra/fra-atlas/internal/pipeline"
)

const defaultRunTimeout = 2 * time.Minute

var (
	stateFilter    string
	districtFilter string
	timeout        time.Duration
	noCache        bool
	outJSON        string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one aggregation pass over every configured endpoint",
	Long: `Run fetches every endpoint in the registry concurrently, normalizes
the rows into canonical claims, and reports the resulting collection:
- Endpoint failures degrade the run but never abort it
- Cached gateway responses are reused unless --no-cache is set
- The aggregated collection can be written to a JSON file

Example:
  fra-atlas run
  fra-atlas run --state "Madhya Pradesh" --no-cache
  fra-atlas run --json collection.json`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&stateFilter, "state", "", "restrict endpoints that support it to one state")
	runCmd.Flags().StringVar(&districtFilter, "district", "", "restrict endpoints that support it to one district")
	runCmd.Flags().DurationVar(&timeout, "timeout", defaultRunTimeout, "overall run timeout")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	runCmd.Flags().StringVar(&outJSON, "json", "", "write the run snapshot and collection to this JSON path")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = !noCache

	p, err := pipeline.New(cfg, newLogger(), nil, nil)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Aggregating %d endpoints...\n", p.Registry().Len())
	if stateFilter != "" {
		fmt.Fprintf(os.Stderr, "   State filter: %s\n", stateFilter)
	}
	fmt.Fprintf(os.Stderr, "\n")

	snap, err := p.Run(ctx, pipeline.RunOptions{
		State:    stateFilter,
		District: districtFilter,
		NoCache:  noCache,
	})
	if err != nil {
		return fmt.Errorf("aggregation run: %w", err)
	}

	for _, ep := range snap.Endpoints {
		if ep.Failed {
			fmt.Fprintf(os.Stderr, "✗ %-24s %s\n", ep.Key, ep.Error)
			continue
		}
		cached := ""
		if ep.Cached {
			cached = " (cached)"
		}
		fmt.Fprintf(os.Stderr, "✓ %-24s %5d records in %dms%s\n", ep.Key, ep.Records, ep.DurationMS, cached)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Run Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Generation:  %d\n", snap.Generation)
	fmt.Fprintf(os.Stderr, "  Records:     %d\n", snap.Records)
	fmt.Fprintf(os.Stderr, "  Endpoints:   %d ok, %d failed\n", snap.Succeeded, snap.Failed)
	fmt.Fprintf(os.Stderr, "  Duration:    %dms\n", snap.DurationMS)
	fmt.Fprintf(os.Stderr, "\n")

	if outJSON == "" {
		return nil
	}

	out := struct {
		Run    any `json:"run"`
		Claims any `json:"claims"`
	}{Run: snap, Claims: p.Store().Claims()}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := os.WriteFile(outJSON, data, 0o644); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)

	return nil
}
