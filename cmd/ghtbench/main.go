// Command ghtbench drives synthetic workloads against ght tables and
// compares the resulting reports.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "ghtbench",
	Short: "Benchmark and compare ght hash tables",
	Long: `ghtbench runs insert/search/delete workloads against a ght table and
writes JSON reports that can be compared between commits.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log table resizes and worker progress")
	rootCmd.AddCommand(runCmd, compareCmd)
}

// newLogger returns a console logger; verbose lowers the level to debug so
// table resize events are shown.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}
