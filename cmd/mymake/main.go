// Command mymake parses a specification file and builds one of its
// targets, or runs an enrichment subcommand (browse/discover/shell-init).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/trikdhar/mymake/config"
	"github.com/trikdhar/mymake/internal/engine"
	"github.com/trikdhar/mymake/internal/export"
	"github.com/trikdhar/mymake/internal/graph"
	"github.com/trikdhar/mymake/internal/history"
	"github.com/trikdhar/mymake/internal/parser"
	"github.com/trikdhar/mymake/internal/procexec"
	"github.com/trikdhar/mymake/internal/safety"
	"github.com/trikdhar/mymake/internal/shell"
	"github.com/trikdhar/mymake/internal/tui"
	"github.com/trikdhar/mymake/internal/workspace"
)

func main() {
	// A recipe-worker re-exec never reaches cobra: it is routed
	// straight into the worker body before any flag parsing happens.
	if procexec.IsWorkerInvocation(os.Args) {
		os.Exit(procexec.RunWorkerMain())
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		specFile    string
		printOnly   bool
		keepGoing   bool
		debug       bool
		blockSIGINT bool
		timeoutSecs int
	)

	root := &cobra.Command{
		Use:   "mymake [target]",
		Short: "A declarative build-automation engine",
		Long:  "mymake parses a specification file's rules and variables and drives a recipe's commands through a two-level process tree.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("file") {
				cfg.SpecFile = specFile
			}
			if cmd.Flags().Changed("keep-going") {
				cfg.ContinueOnError = keepGoing
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}
			if cmd.Flags().Changed("block-sigint") {
				cfg.BlockSIGINT = blockSIGINT
			}
			if cmd.Flags().Changed("timeout") {
				cfg.TimeoutSeconds = timeoutSecs
			}

			var target string
			if len(args) == 1 {
				target = args[0]
			}
			return runBuild(cfg, target, printOnly)
		},
	}

	root.Flags().StringVarP(&specFile, "file", "f", "mymake3.mk", "specification file path")
	root.Flags().BoolVarP(&printOnly, "print", "p", false, "print parsed variables and rules; skip execution")
	root.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "continue after a recipe's non-zero exit")
	root.Flags().BoolVarP(&debug, "debug", "d", false, "emit indented per-target trace lines")
	root.Flags().BoolVarP(&blockSIGINT, "block-sigint", "i", false, "mask user interrupt on the driver")
	root.Flags().IntVarP(&timeoutSecs, "timeout", "t", 0, "abort the whole build after N wall-clock seconds")

	root.AddCommand(newBrowseCmd())
	root.AddCommand(newDiscoverCmd())
	root.AddCommand(newShellInitCmd())

	return root
}

func runBuild(cfg *config.Config, target string, printOnly bool) error {
	db, err := parser.Parse(cfg.SpecFile)
	if err != nil {
		return err
	}

	if printOnly {
		printVariablesAndRules(db)
		return nil
	}

	if target == "" {
		target = db.DefaultTarget()
	}

	if cfg.BlockSIGINT {
		// mirrors the source's sigprocmask(SIG_BLOCK, SIGINT): the
		// driver itself never sees ^C, though a recipe worker's own
		// handler (installed inside RunWorkerMain) still runs in the
		// child.
		signal.Ignore(syscall.SIGINT)
	} else {
		stop := procexec.InstallSignalTeardown(nil, nil, cfg.Debug)
		defer stop()
	}

	orch := procexec.NewOrchestrator(cfg.Debug, time.Duration(cfg.TimeoutSeconds)*time.Second)
	orch.SetSafety(cfg.Safety.Enabled, cfg.SafetyAbort)

	eng := engine.New(db, orch, engine.Options{ContinueOnError: cfg.ContinueOnError, Debug: cfg.Debug})

	// History is keyed by the absolute spec path, as browse keys it.
	if abs, err := filepath.Abs(cfg.SpecFile); err == nil {
		cfg.SpecFile = abs
	}

	g := graph.BuildGraph(graph.TargetsFromDatabase(db))
	hist, err := history.Load()
	if err != nil {
		hist = nil
	}
	eng.SetDiagnostics(g, hist, cfg.SpecFile)

	start := time.Now()
	buildErr := eng.Build(target)
	end := time.Now()

	recordRun(cfg, hist, target, start, end, buildErr)

	return buildErr
}

// printVariablesAndRules implements -p's unconditional dump, per the
// original source's always-on variable/rule listing ahead of any
// recipe output.
func printVariablesAndRules(db *parser.Database) {
	for name, value := range db.Variables {
		fmt.Printf("%s=%s\n", name, value)
	}
	for _, rule := range db.Rules {
		fmt.Printf("%s: %v\n", rule.Target, rule.Prerequisites)
	}
	for _, pr := range db.PatternRules {
		fmt.Printf("%s: %v\n", pr.Target, pr.Prerequisites)
	}
}

// recordRun feeds a completed build into history, export, and shell
// integration, none of which affect the exit status the build itself
// reports. hist may be nil when the cache file couldn't be loaded; the
// history write is then skipped rather than failing the build.
func recordRun(cfg *config.Config, hist *history.History, target string, start, end time.Time, buildErr error) {
	exitCode := 0
	if buildErr != nil {
		exitCode = 1
	}

	if hist != nil {
		hist.RecordExecutionWithTiming(cfg.SpecFile, target, end.Sub(start), buildErr == nil)
		_ = hist.Save()
	}

	result := export.BuildResult{StartTime: start, EndTime: end, ExitCode: exitCode, Err: buildErr}

	if cfg.Export.Enabled {
		if exporter, err := export.NewExporter(&cfg.Export); err == nil {
			record := export.NewExecutionRecord(cfg.SpecFile, target, result)
			_ = exporter.Export(record)
		}
	}

	if cfg.Shell.Enabled {
		if integ, err := shell.NewIntegration(&cfg.Shell); err == nil && integ != nil {
			_ = integ.RecordExecution(shell.ExecutionInfo{Target: target, SpecPath: cfg.SpecFile})
		}
	}
}

func newBrowseCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse and run targets interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := parser.Parse(cfg.SpecFile)
			if err != nil {
				return err
			}

			orch := procexec.NewOrchestrator(cfg.Debug, time.Duration(cfg.TimeoutSeconds)*time.Second)
			orch.SetSafety(cfg.Safety.Enabled, cfg.SafetyAbort)
			eng := engine.New(db, orch, engine.Options{ContinueOnError: cfg.ContinueOnError, Debug: cfg.Debug})

			checker, _ := safety.NewChecker(&cfg.Safety)

			m := tui.NewModel(cfg.SpecFile, db, eng, orch, checker, watch)
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the target list when the spec file changes")
	return cmd
}

func newDiscoverCmd() *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find specification files in this directory tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			opts := workspace.DefaultDiscoveryOptions(cfg.SpecFile)
			if cmd.Flags().Changed("max-depth") {
				opts.MaxDepth = maxDepth
			}

			root, err := os.Getwd()
			if err != nil {
				return err
			}

			results, err := workspace.DiscoverSpecFiles(root, opts)
			if err != nil {
				return err
			}

			for _, r := range results {
				fmt.Println(r.RelPath)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 3, "maximum directory depth to search")
	return cmd
}

func newShellInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "shell-init {bash|zsh|fish}",
		Short:     "Print a shell snippet that exports MYPATH and registers target completion",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var targets []string
			if db, err := parser.Parse(cfg.SpecFile); err == nil {
				for _, rule := range db.Rules {
					targets = append(targets, rule.Target)
				}
			}

			script, err := shell.GenerateInitScript(args[0], cfg.MyPath, targets)
			if err != nil {
				return err
			}
			fmt.Print(script)
			return nil
		},
	}
}
