package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"statkit/adapters/memory"
	"statkit/adapters/postgres"
	"statkit/adapters/tabular"
	"statkit/domain/table"
	"statkit/internal"
	"statkit/internal/api"
	"statkit/internal/config"
	"statkit/ports"
	"statkit/stattest"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "statkit",
		Short: "Automated hypothesis test selection and execution for tabular data",
	}

	rootCmd.AddCommand(
		newSelectCmd(),
		newRunCmd(),
		newAnalyzeCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSelectCmd() *cobra.Command {
	var paired bool

	cmd := &cobra.Command{
		Use:   "select [file] [feature1] [feature2]",
		Short: "Choose the appropriate test for one or two columns without running it",
		Long: `Classify the given columns and report which hypothesis test the
decision rules would pick, without executing it.

Example: statkit select data.csv dose outcome --paired`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := tabular.NewReader(args[0]).Read()
			if err != nil {
				return err
			}
			feature2 := ""
			if len(args) == 3 {
				feature2 = args[2]
			}
			kind, err := stattest.SelectTest(ds, args[1], feature2, paired)
			if err != nil {
				return err
			}
			fmt.Println(kind.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&paired, "paired", false, "Treat the two samples as paired observations")

	return cmd
}

func newRunCmd() *cobra.Command {
	var paired bool
	var missing string
	var detailed bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run [file] [feature1] [feature2]",
		Short: "Select and execute a hypothesis test on one or two columns",
		Long: `Select the appropriate test for the given columns, handle missing
values with the chosen strategy, and print the test statistics.

Example: statkit run data.csv dose outcome --missing impute --json`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := tabular.NewReader(args[0]).Read()
			if err != nil {
				return err
			}
			feature2 := ""
			if len(args) == 3 {
				feature2 = args[2]
			}
			opts := stattest.ExecOptions{
				Paired:  paired,
				Missing: stattest.MissingStrategy(missing),
			}

			if detailed {
				summary, err := stattest.ExecuteTestDetailed(ds, args[1], feature2, opts)
				if err != nil {
					return err
				}
				if asJSON {
					return json.NewEncoder(os.Stdout).Encode(summary)
				}
				fmt.Printf("Test: %s\n", summary.TestName)
				fmt.Printf("Outcome: %s\n", summary.TestOutcome)
				fmt.Printf("p-value: %g\n", summary.PValue)
				return nil
			}

			result, err := stattest.ExecuteTest(ds, args[1], feature2, opts)
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"test":  result.Test.String(),
					"stats": result.Stats,
				})
			}

			fmt.Printf("Test: %s\n", result.Test.String())
			for name, value := range result.Stats {
				fmt.Printf("  %s = %g\n", name, value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&paired, "paired", false, "Treat the two samples as paired observations")
	cmd.Flags().StringVar(&missing, "missing", "remove", "Missing value strategy: remove or impute")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Print the condensed significance summary instead of raw statistics")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the result as JSON")

	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var target string
	var alpha float64
	var outputDir string

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Screen every column of one or more files against a target",
		Long: `Run the full feature screen on each input file: test every column
against the target and partition them by significance. With --output-dir,
write a filtered copy of each file keeping only the significant columns.

Example: statkit analyze q1.csv q2.csv --target churned --alpha 0.01 --output-dir filtered/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				return fmt.Errorf("--target is required")
			}
			if outputDir != "" {
				if err := os.MkdirAll(outputDir, 0o755); err != nil {
					return err
				}
			}

			var g errgroup.Group
			for _, path := range args {
				path := path
				g.Go(func() error {
					return analyzeFile(path, target, alpha, outputDir)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target column to test every feature against")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance threshold")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Write filtered copies of the inputs here")

	return cmd
}

func analyzeFile(path, target string, alpha float64, outputDir string) error {
	ds, err := tabular.NewReader(path).Read()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "== %s ==\n", path)
	result, err := stattest.NewAnalyzer(&out).AnalyzeFeatures(ds, target, alpha)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Print(out.String())

	if outputDir != "" && result.Filtered != nil {
		dst := filepath.Join(outputDir, filepath.Base(path))
		if ext := filepath.Ext(dst); !strings.EqualFold(ext, ".csv") {
			dst = strings.TrimSuffix(dst, ext) + ".csv"
		}
		if err := writeFiltered(result.Filtered, dst); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func writeFiltered(ds *table.Dataset, path string) error {
	return tabular.WriteCSVFile(ds, path)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API for uploads, single test runs, and stored
analysis reports. Reports persist to PostgreSQL when DATABASE_URL is set,
otherwise they stay in memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional local development overrides.
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.NewDefaultLogger()

			repo, err := buildRepository(cfg, logger)
			if err != nil {
				return err
			}

			return api.NewServer(cfg, repo, logger).Start()
		},
	}

	return cmd
}

func buildRepository(cfg *config.Config, logger *internal.Logger) (ports.ReportRepository, error) {
	if cfg.Database.URL == "" {
		logger.Info("no DATABASE_URL set, storing reports in memory")
		return memory.NewReportRepository(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	repo, err := postgres.NewReportRepository(db)
	if err != nil {
		return nil, err
	}
	logger.Info("storing reports in postgres")
	return repo, nil
}
