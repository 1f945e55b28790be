package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfra/fra-atlas/internal/pipeline"
	"github.com/openfra/fra-atlas/internal/registry"
)

var probeEndpoints bool

// endpointsCmd represents the endpoints command
var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the configured gateway endpoints",
	Long: `Endpoints lists the dataset registry the aggregator runs against:
the built-in government endpoints plus any appended or overridden through
the endpoints section of the config file.

With --probe, each endpoint is requested with limit=1 to report whether it
is currently reachable.

Example:
  fra-atlas endpoints
  fra-atlas endpoints --probe`,
	Args: cobra.NoArgs,
	RunE: runEndpoints,
}

func init() {
	rootCmd.AddCommand(endpointsCmd)

	endpointsCmd.Flags().BoolVar(&probeEndpoints, "probe", false, "probe each endpoint with a one-record request")
}

func runEndpoints(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := registry.Build(cfg.Endpoints)
	if err != nil {
		return fmt.Errorf("build endpoint registry: %w", err)
	}

	if !probeEndpoints {
		fmt.Printf("%-26s %-9s %-6s %s\n", "KEY", "KIND", "YEAR", "TITLE")
		for _, ep := range reg.All() {
			fmt.Printf("%-26s %-9s %-6s %s\n", ep.Key, ep.Kind, ep.Year, ep.Title)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := pipeline.New(cfg, newLogger(), nil, nil)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Probing %d endpoints...\n\n", reg.Len())

	accessible := 0
	for _, st := range p.Probe(ctx) {
		if st.IsAccessible {
			accessible++
			fmt.Printf("✓ %-26s %d\n", st.Key, st.StatusCode)
			continue
		}
		detail := st.Error
		if detail == "" {
			detail = fmt.Sprintf("status %d", st.StatusCode)
		}
		fmt.Printf("✗ %-26s %s\n", st.Key, detail)
	}

	fmt.Fprintf(os.Stderr, "\n%d/%d endpoints accessible\n", accessible, reg.Len())
	return nil
}
