package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"aceintel/domain/record"
	"aceintel/domain/run"
	"aceintel/internal/config"
	"aceintel/internal/container"
	"aceintel/internal/report"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aceintel",
		Short: "Reconcile MTA bus speed and camera enforcement datasets",
	}

	rootCmd.AddCommand(
		newRunCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var dataDir string
	var bucket string
	var speedAgg string
	var markdownOut string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one reconciliation run and print the summary",
		Long: `Load both datasets from the data directory, reconcile them on
route and time bucket, and print the run summary.

Exits with status 1 when neither dataset yields any records.

Example: aceintel run --data-dir ./data --bucket 24h --speed-agg mean`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags override the environment for this invocation
			if dataDir != "" {
				os.Setenv("ACE_DATA_DIR", dataDir)
			}
			if bucket != "" {
				os.Setenv("ACE_BUCKET", bucket)
			}
			if speedAgg != "" {
				os.Setenv("ACE_SPEED_AGG", speedAgg)
			}
			return runReconcile(cmd, markdownOut)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding the dataset files")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Time bucket width (Go duration, default 24h)")
	cmd.Flags().StringVar(&speedAgg, "speed-agg", "", "Speed reducer: mean|median|first")
	cmd.Flags().StringVar(&markdownOut, "report", "", "Write a markdown report to this file")

	return cmd
}

func runReconcile(cmd *cobra.Command, markdownOut string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to wire dependencies: %w", err)
	}
	defer c.Shutdown()

	result, err := c.Pipeline.Execute(cmd.Context())
	if err != nil {
		return err
	}

	printSummary(result)

	if markdownOut != "" {
		if err := os.WriteFile(markdownOut, []byte(report.Markdown(result)), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", markdownOut)
	}

	if result.Summary.Status == run.StatusNoData {
		// Empty inputs are an operational signal, not a crash.
		fmt.Fprintln(os.Stderr, "no data loaded from either dataset")
		os.Exit(1)
	}
	return nil
}

func printSummary(result *run.Result) {
	fmt.Printf("=== RECONCILIATION RUN %s ===\n", result.RunID)
	fmt.Printf("Status: %s\n", result.Summary.Status)
	fmt.Printf("Duration: %s\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("Fingerprint: %s\n", result.Fingerprint)

	for _, kind := range record.Kinds() {
		ds, ok := result.Summary.Datasets[kind]
		if !ok {
			continue
		}
		fmt.Printf("\n--- %s ---\n", kind)
		fmt.Printf("Records: %d\n", ds.Records)
		fmt.Printf("Files: %d loaded, %d failed of %d discovered\n",
			ds.FilesLoaded, ds.FilesFailed, ds.FilesDiscovered)
		if ds.MinDate != nil && ds.MaxDate != nil {
			fmt.Printf("Date range: %s to %s\n",
				ds.MinDate.Format("2006-01-02"), ds.MaxDate.Format("2006-01-02"))
		}
		if ds.SpeedMean != nil {
			fmt.Printf("Mean speed: %.2f", *ds.SpeedMean)
			if ds.SpeedStdDev != nil {
				fmt.Printf(" (std dev %.2f)", *ds.SpeedStdDev)
			}
			fmt.Println()
		}
		if len(ds.UnmappedAttrs) > 0 {
			fmt.Printf("Unmapped attributes: %v\n", ds.UnmappedAttrs)
		}
	}

	ms := result.Summary.Merge
	fmt.Printf("\n--- merge ---\n")
	fmt.Printf("Groups: %d\n", ms.Groups)
	fmt.Printf("Matched: %d\n", ms.MatchedGroups)
	fmt.Printf("Bus-speed only: %d\n", ms.BusSpeedOnly)
	fmt.Printf("Enforcement only: %d\n", ms.EnforcementOnly)
	fmt.Printf("Unresolved records: %d\n", ms.UnresolvedRecords)
}

func init() {
	// .env is optional; system environment always applies
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}
}
