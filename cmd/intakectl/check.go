package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/genai"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/publisher"
)

const statusConnected = "connected"

type pinger interface {
	Ping(ctx context.Context) error
}

// dependency is one upstream the check command verifies. build is deferred
// so a construction failure is reported like a failed ping.
type dependency struct {
	name  string
	build func(ctx context.Context) (pinger, error)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that Vertex AI and the Pub/Sub topic are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			deps := []dependency{
				{name: "vertex_ai", build: func(ctx context.Context) (pinger, error) {
					client, err := genai.NewVertexClient(ctx, cfg.GenAI)
					if err != nil {
						return nil, err
					}
					return genai.NewGenerator(client, cfg.GenAI.Model, cfg.GenAI.Timeout), nil
				}},
				{name: "pubsub", build: func(ctx context.Context) (pinger, error) {
					return publisher.New(ctx, cfg.PubSub)
				}},
			}

			report, failed := runChecks(cmd.Context(), deps)
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d dependency checks failed", failed, len(deps))
			}
			return nil
		},
	}
}

// runChecks pings every dependency and maps its name to "connected" or the
// error text
func runChecks(ctx context.Context, deps []dependency) (map[string]string, int) {
	report := make(map[string]string, len(deps))
	failed := 0
	for _, dep := range deps {
		p, err := dep.build(ctx)
		if err == nil {
			err = p.Ping(ctx)
		}
		if err != nil {
			report[dep.name] = err.Error()
			failed++
			continue
		}
		report[dep.name] = statusConnected
	}
	return report, failed
}
