// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"warpaai/internal/ir"
	"warpaai/internal/obf"
	"warpaai/internal/parser"
)

var (
	xorKey        int
	bogusCount    int
	cycles        int
	seed          int64
	profilePath   string
	outPath       string
	telemetryPath string
	verbosity     int
)

var rootCmd = &cobra.Command{
	Use:   "warp-obf <file.wir>",
	Short: "Educational IR obfuscation engine",
	Long: `warp-obf runs a small, auditable obfuscation pipeline over a textual IR
module: XOR string encryption, bogus function insertion, internal symbol
renaming and dead conditional branches. The transformations are
deliberately simple and reversible.`,
	Args:          cobra.ExactArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaults := obf.DefaultOptions()
	rootCmd.Flags().IntVar(&xorKey, "xor-key", defaults.XorKey, "XOR key for string encryption (low byte used)")
	rootCmd.Flags().IntVar(&bogusCount, "bogus-count", defaults.BogusCount, "number of bogus functions to insert per cycle")
	rootCmd.Flags().IntVar(&cycles, "cycles", defaults.Cycles, "number of obfuscation cycles to run")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "seed for decoy name generation (0 = time-based)")
	rootCmd.Flags().StringVar(&profilePath, "profile", "", "YAML profile with obfuscation parameters")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the obfuscated module to this file")
	rootCmd.Flags().StringVar(&telemetryPath, "telemetry", obf.DefaultTelemetryPath, "telemetry output path")
	rootCmd.Flags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	commonlog.Configure(verbosity, nil)
	startTime := time.Now()
	path := args[0]

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	module, err := parser.ParseFile(path)
	if err != nil {
		return err
	}

	engine, err := obf.New(opts)
	if err != nil {
		return err
	}
	report, err := engine.Run(module)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(ir.Print(module)), 0o644); err != nil {
			return fmt.Errorf("failed to write obfuscated module: %w", err)
		}
	}

	// Telemetry persistence is non-fatal: the module mutation already
	// succeeded, so degrade to a warning.
	if err := report.WriteFile(telemetryPath); err != nil {
		color.Yellow("warning: %v", err)
	}

	fmt.Printf("Strings obfuscated:   %d\n", report.StringsObfuscated)
	fmt.Printf("Fake functions added: %d\n", report.FakeFunctionsInserted)
	fmt.Printf("Cycles completed:     %d\n", report.CyclesCompleted)
	color.Green("Obfuscated %s in %s", path, formatDuration(time.Since(startTime)))
	return nil
}

// buildOptions layers the configuration: engine defaults, then the
// YAML profile, then explicit command-line flags.
func buildOptions(cmd *cobra.Command) (obf.Options, error) {
	opts := obf.DefaultOptions()
	opts.Seed = time.Now().UnixNano()

	if profilePath != "" {
		if err := applyProfile(&opts, profilePath); err != nil {
			return opts, err
		}
	}
	if cmd.Flags().Changed("xor-key") {
		opts.XorKey = xorKey
	}
	if cmd.Flags().Changed("bogus-count") {
		opts.BogusCount = bogusCount
	}
	if cmd.Flags().Changed("cycles") {
		opts.Cycles = cycles
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = seed
	}
	return opts, nil
}

type profile struct {
	XorKey     *int   `yaml:"xor_key"`
	BogusCount *int   `yaml:"bogus_count"`
	Cycles     *int   `yaml:"cycles"`
	Seed       *int64 `yaml:"seed"`
}

func applyProfile(opts *obf.Options, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if p.XorKey != nil {
		opts.XorKey = *p.XorKey
	}
	if p.BogusCount != nil {
		opts.BogusCount = *p.BogusCount
	}
	if p.Cycles != nil {
		opts.Cycles = *p.Cycles
	}
	if p.Seed != nil {
		opts.Seed = *p.Seed
	}
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	default:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	}
}
