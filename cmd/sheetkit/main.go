package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/sheetkit/internal/config"
	"github.com/ensigniasec/sheetkit/internal/sheet"
	"github.com/ensigniasec/sheetkit/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile = config.DefaultPath
	verbose    bool
	logFile    string
	variant    string
	collapsed  float64
	title      string
	noPresent  bool
	force      bool
	hostHeight float64
	contents   []float64
	drags      []float64
	closeAfter bool
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:   "sheetkit",
		Short: "A draggable bottom sheet for terminal user interfaces.",
		Long:  `sheetkit presents a draggable bottom sheet in the terminal, either embedded at the bottom of the screen ("modal") or as an overlay with a dimming backdrop ("alert"). Drag it by the header, click the arrow to toggle it, or click the backdrop to close it.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Path to the settings file")

	demoCmd.Flags().StringVar(&variant, "variant", "", "Presentation variant: modal or alert")
	demoCmd.Flags().Float64Var(&collapsed, "collapsed", 0, "Collapsed height in rows")
	demoCmd.Flags().StringVar(&title, "title", "", "Header title (modal only)")
	demoCmd.Flags().BoolVar(&noPresent, "no-present", false, "Start with the sheet hidden; press p to present")
	demoCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the TUI runs")

	simulateCmd.Flags().StringVar(&variant, "variant", "", "Presentation variant: modal or alert")
	simulateCmd.Flags().Float64Var(&collapsed, "collapsed", sheet.DefaultCollapsedHeight, "Collapsed height")
	simulateCmd.Flags().Float64Var(&hostHeight, "host", 800, "Usable host height") //nolint:mnd // Reference host height.
	simulateCmd.Flags().Float64SliceVar(&contents, "content", []float64{94}, "Content heights to stack, in order") //nolint:mnd // Reference content.
	simulateCmd.Flags().Float64SliceVar(&drags, "drag", nil, "Drag deltas; each one is released before the next")
	simulateCmd.Flags().BoolVar(&closeAfter, "close", false, "Force close the sheet at the end")
	simulateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output steps in JSON format instead of text")

	configInitCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing settings file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}

// loadSettings reads the settings file and applies flag overrides.
func loadSettings(cmd *cobra.Command) config.File {
	f, err := config.Load(configFile)
	if err != nil {
		logrus.Fatalf("Unable to load config: %v", err)
	}
	if cmd.Flags().Changed("variant") {
		v, err := sheet.ParseVariant(variant)
		if err != nil {
			logrus.Fatal(err)
		}
		f.Variant = v.String()
	}
	if cmd.Flags().Changed("collapsed") {
		f.CollapsedRows = collapsed
	}
	if cmd.Flags().Changed("title") {
		f.Title = title
	}
	return f
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive sheet demo",
	Long:  "Open a full-screen terminal demo hosting one sheet session with the configured variant and content rows.",
	Run: func(cmd *cobra.Command, args []string) {
		f := loadSettings(cmd)
		cfg, err := f.Sheet()
		if err != nil {
			logrus.Fatal(err)
		}

		var out io.Writer
		if logFile != "" {
			fh, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				logrus.Fatalf("Unable to open log file: %v", err)
			}
			defer fh.Close()
			out = fh
		}

		err = tui.Run(cmd.Context(), tui.Options{
			Sheet:       cfg,
			Rows:        f.Rows,
			LogOutput:   out,
			AutoPresent: !noPresent,
		})
		if err != nil {
			logrus.Fatalf("TUI mode failed: %v", err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted sheet session without a terminal UI",
	Long:  "Present a sheet on a virtual host, apply drag gestures and print the resulting state and offset after every step.",
	Run: func(cmd *cobra.Command, args []string) {
		v := sheet.Embedded
		if cmd.Flags().Changed("variant") {
			parsed, err := sheet.ParseVariant(variant)
			if err != nil {
				logrus.Fatal(err)
			}
			v = parsed
		}
		cfg := sheet.DefaultConfig(v)
		cfg.CollapsedHeight = collapsed

		steps, err := simulate(cfg, hostHeight, contents, drags, closeAfter)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := printSteps(os.Stdout, steps, jsonOutput); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	Run: func(cmd *cobra.Command, args []string) {
		if config.Exists(configFile) && !force {
			logrus.Fatalf("Config already exists at %s; use --force to overwrite", configFile)
		}
		if err := config.Save(configFile, config.Default()); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "Wrote default config to %s\n", configFile)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := config.Load(configFile)
		if err != nil {
			logrus.Fatal(err)
		}
		out, err := yaml.Marshal(f)
		if err != nil {
			logrus.Fatal(err)
		}
		_, _ = os.Stdout.Write(out)
	},
}
