package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/archivekit/extractall-go/internal/app"
	"github.com/archivekit/extractall-go/internal/cache"
	"github.com/archivekit/extractall-go/internal/config"
	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/manifest"
	"github.com/archivekit/extractall-go/internal/output"
	"github.com/archivekit/extractall-go/internal/state"
	"github.com/archivekit/extractall-go/internal/strategies"
	"github.com/archivekit/extractall-go/internal/utils"
	"github.com/archivekit/extractall-go/pkg/version"
)

// doctorTools are the external tools the extraction chains lean on
var doctorTools = []string{"unzip", "unrar", "7z", "tar", "python3"}

var (
	cfgFile string
	verbose bool
	quiet   bool

	// Dependencies for testing
	osStat       = os.Stat
	execLookPath = exec.LookPath
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "extractall [input-dir]",
	Short: "Batch-extract archives with tool fallbacks",
	Long: `ExtractAll processes every archive in a directory through a chain of
extraction strategies: multiple external tools per format, split-volume
reassembly, and (in aggressive mode) best-effort recovery of damaged
archives.

Outcomes are tracked in the input directory, so interrupted runs resume
where they left off. Extracted content lands under output/, the archives
themselves are filed into extracted/, failed/, or locked/.`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.extractall/config.yaml)")
	rootCmd.PersistentFlags().StringP("mode", "m", string(config.DefaultMode), "Extraction mode (standard, aggressive, conservative)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Directory for extracted content (default <input-dir>/output)")
	rootCmd.PersistentFlags().String("toolchains", "", "Toolchain manifest file (yaml or json)")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultToolTimeout, "Per-tool timeout")
	rootCmd.PersistentFlags().Bool("no-multipart", false, "Disable split-volume reassembly")
	rootCmd.PersistentFlags().Bool("no-partial", false, "Disable partial recovery of damaged archives")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Plan the run without extracting or moving anything")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Errors only, no progress bar")

	// Bind flags to viper
	_ = viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("tools.timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	// Subcommand flags
	reportCmd.Flags().String("export", "", "Write the report to a file (.zst compresses)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(formatsCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		return cmd.Help()
	}
	inputDir := args[0]

	// Negated strategy flags override whatever config resolved to
	if noMultipart, _ := cmd.Flags().GetBool("no-multipart"); noMultipart {
		cfg.Strategies.Multipart = false
	}
	if noPartial, _ := cmd.Flags().GetBool("no-partial"); noPartial {
		cfg.Strategies.Partial = false
	}

	var chains domain.ToolChains
	if manifestPath, _ := cmd.Flags().GetString("toolchains"); manifestPath != "" {
		mcfg, merr := manifest.NewLoader().Load(utils.ExpandPath(manifestPath))
		if merr != nil {
			return fmt.Errorf("failed to load toolchain manifest: %w", merr)
		}
		chains = mcfg.Merge(strategies.DefaultToolChains())
		if mcfg.Options.TimeoutSeconds > 0 {
			cfg.Tools.Timeout = time.Duration(mcfg.Options.TimeoutSeconds) * time.Second
		}
	}

	outputRoot, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		CommonOptions: domain.CommonOptions{
			DryRun:  dryRun,
			Verbose: verbose,
			Quiet:   quiet,
		},
		Config:     cfg,
		InputDir:   inputDir,
		OutputRoot: outputRoot,
		Chains:     chains,
	})
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	summary, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	if !quiet {
		printSummary(summary, orchestrator.Stats(), dryRun)
	}
	return nil
}

// printSummary writes the end-of-run counts to the console
func printSummary(summary *domain.RunSummary, stats state.Statistics, dryRun bool) {
	bold := color.New(color.Bold)

	if dryRun {
		bold.Println("\nDry run complete")
		fmt.Printf("  Scanned: %d\n", summary.Scanned)
		fmt.Printf("  Skipped: %d\n", summary.Skipped)
		return
	}

	bold.Println("\nExtraction summary")
	fmt.Printf("  Scanned: %d\n", summary.Scanned)
	fmt.Printf("  Skipped: %d\n", summary.Skipped)
	color.Green("  Success: %d", summary.Success)
	if summary.Partial > 0 {
		color.Yellow("  Partial: %d", summary.Partial)
	}
	if summary.Failed > 0 {
		color.Red("  Failed:  %d", summary.Failed)
	}
	if summary.Locked > 0 {
		color.Magenta("  Locked:  %d", summary.Locked)
	}
	if stats.TotalProcessed > 0 {
		fmt.Printf("  Success rate: %.2f%%\n", stats.SuccessRate)
	}
	fmt.Printf("  Elapsed: %s\n", summary.Elapsed.Round(time.Millisecond))
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check external tools and directories",
	Long:  "Verifies the external extraction tools, configuration, and working directories this machine provides.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking extraction environment...")

		cfg, err := config.Load()
		if err != nil {
			cfg = config.Default()
		}

		// Tool probes go through the cache so repeated doctor runs and
		// extraction runs share verdicts
		var probeCache domain.Cache
		if cfg.Cache.Enabled {
			if c, cerr := cache.NewBadgerCache(cache.Options{
				Directory: utils.ExpandPath(cfg.Cache.Directory),
				TTL:       cache.DefaultToolTTL,
			}); cerr == nil {
				probeCache = c
				defer probeCache.Close()
			}
		}

		ctx := context.Background()
		found := 0
		for _, tool := range doctorTools {
			fmt.Printf("  %-8s ", tool+":")
			if path, ok := lookupTool(ctx, probeCache, tool); ok {
				fmt.Printf("OK (%s)\n", path)
				found++
			} else {
				fmt.Println("NOT FOUND")
			}
		}

		allPassed := found > 0

		fmt.Print("  Config file: ")
		if _, err := osStat(config.ConfigFilePath()); err == nil {
			fmt.Println("OK")
		} else {
			fmt.Println("WARN (not found, using defaults)")
		}

		fmt.Print("  Write permissions: ")
		if checkWritePermissions() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		fmt.Print("  Cache directory: ")
		cacheDir := utils.ExpandPath(cfg.Cache.Directory)
		if checkCacheDir(cacheDir) {
			fmt.Printf("OK (%s)\n", cacheDir)
		} else {
			fmt.Println("WARN (will be created on first use)")
		}

		fmt.Println()
		if allPassed {
			fmt.Println("Ready to extract.")
			return nil
		}
		fmt.Println("No extraction tools found. Install at least one of unzip, unrar, or 7z.")
		return nil
	},
}

// lookupTool resolves a tool on PATH, consulting and feeding the probe
// cache when one is available
func lookupTool(ctx context.Context, c domain.Cache, name string) (string, bool) {
	if c != nil {
		if probe, err := cache.GetToolProbe(ctx, c, name); err == nil {
			return probe.Path, probe.Available
		}
	}

	path, err := execLookPath(name)
	available := err == nil

	if c != nil {
		probe := cache.ToolProbe{Name: name, Path: path, Available: available, CheckedAt: time.Now()}
		_ = cache.PutToolProbe(ctx, c, probe, cache.DefaultToolTTL)
	}
	return path, available
}

// checkWritePermissions checks if we can write to the current directory
func checkWritePermissions() bool {
	tmpFile := ".extractall_test_write"
	f, err := os.Create(tmpFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmpFile)
	return true
}

// checkCacheDir checks if the cache directory exists
func checkCacheDir(path string) bool {
	info, err := osStat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

var reportCmd = &cobra.Command{
	Use:   "report [input-dir]",
	Short: "Show the extraction report for a directory",
	Long:  "Reads the extraction state of a processed directory and prints its report, or exports it to a file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		st, err := state.Inspect(utils.ExpandPath(dir))
		if err != nil {
			return fmt.Errorf("no extraction state in %s: %w", dir, err)
		}
		report := st.Report()

		if export, _ := cmd.Flags().GetString("export"); export != "" {
			if err := output.WriteReport(report, export); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", export)
			return nil
		}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [input-dir]",
	Short: "Clear the extraction state for a directory",
	Long:  "Deletes the extraction state file so the next run starts from scratch. Already-moved archives stay where they are.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		dir = utils.ExpandPath(dir)

		// A missing state file means nothing to reset; a corrupted one is
		// exactly what reset is for
		if _, err := state.Inspect(dir); errors.Is(err, state.ErrStateNotFound) {
			fmt.Printf("No extraction state in %s\n", dir)
			return nil
		}

		store := state.NewStore(state.StoreOptions{Dir: dir})
		if err := store.Reset(); err != nil {
			return err
		}
		fmt.Printf("Extraction state cleared in %s\n", dir)
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported archive formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := strategies.NewDependencies(strategies.DependencyOptions{})

		fmt.Println("Supported formats:")
		for _, format := range deps.Registry.Formats() {
			handler := deps.Registry.Get(format)
			fmt.Printf("  %-5s ", string(format))
			for i, ext := range handler.Extensions() {
				if i > 0 {
					fmt.Print(", ")
				}
				fmt.Print(ext)
			}
			fmt.Println()
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
