package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "intakectl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intakectl",
		Short: "Interior AI intake operator CLI",
		Long: `intakectl publishes test submissions to the intake topic, inspects and prunes
the processing ledger, obtains Gmail refresh tokens for report delivery, and
checks that Vertex AI and Pub/Sub are reachable.
Configuration is read the same way as the service: config.yaml plus environment.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newPublishCmd(),
		newLedgerCmd(),
		newGmailTokenCmd(),
		newCheckCmd(),
	)
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Setup(cfg.Log)
	return cfg, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
