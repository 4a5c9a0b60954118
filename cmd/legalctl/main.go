// Package main implements legalctl, an operator CLI that runs the analysis,
// Q&A and report services in-process against the document-analysis backend.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"legaldesk/internal/bootstrap"
	"legaldesk/internal/config"
	"legaldesk/internal/logging"
)

var (
	// apiURL overrides LEGAL_API_URL for this invocation
	apiURL string
	// verbose routes service logs to stderr
	verbose bool
	version = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "legalctl",
	Short: "Analyze legal documents from the command line",
	Long: `legalctl drives the legal document analysis backend directly: check its
health, analyze a document and export the PDF report, ask questions and list
suggested questions.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "analysis backend URL (default $LEGAL_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log service activity to stderr")
	rootCmd.AddCommand(healthCmd, analyzeCmd, askCmd, suggestCmd)
}

// newContainer builds the services for one command. Logs go to stderr only
// with --verbose so command output stays clean. Status is only polled in the
// foreground, by analyze --wait.
func newContainer(cmd *cobra.Command) (*bootstrap.Container, error) {
	cfg := config.Load()
	if apiURL != "" {
		cfg.Backend.BaseURL = apiURL
	}

	log := zap.NewNop()
	if verbose {
		log = logging.NewWithWriter(cmd.ErrOrStderr(), logging.ParseLevel("debug"), nil)
	}

	c, err := bootstrap.NewContainer(cmd.Context(), cfg, log, bootstrap.WithoutBackgroundStatus())
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return c, nil
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
