// Command tunecouncil is the interactive multi-LLM music recommendation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagConfig string
	flagDebug  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tunecouncil",
		Short: "Ask three LLMs for song recommendations and publish the consensus as a playlist",
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", envOrDefault("TUNECOUNCIL_CONFIG", "config.yaml"), "Path to the YAML config")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	root.AddCommand(newRunCmd(), newPreviewCmd(), newModelsCmd(), newHistoryCmd())
	return root
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newLogger builds the session logger. Debug runs get the development
// encoder; normal runs keep structured production output on stderr.
func newLogger() (*zap.Logger, error) {
	if flagDebug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
