package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/publisher"
)

func newPublishCmd() *cobra.Command {
	var file string
	var source string
	cmd := &cobra.Command{
		Use:   "publish [form-json]",
		Short: "Publish client form data to the intake topic",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			switch {
			case len(args) == 1:
				raw = []byte(args[0])
			case file == "-":
				raw, err = io.ReadAll(cmd.InOrStdin())
			case file != "":
				raw, err = os.ReadFile(file)
			default:
				return fmt.Errorf("form data is required as an argument or via --file")
			}
			if err != nil {
				return fmt.Errorf("failed to read form data: %w", err)
			}

			fields, err := parseForm(raw)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := publisher.New(cmd.Context(), cfg.PubSub)
			if err != nil {
				return err
			}

			id, err := p.Publish(cmd.Context(), fields, source)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published message %s to %s\n", id, p.Topic())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read form JSON from a file, or - for stdin")
	cmd.Flags().StringVar(&source, "source", "api", "Source recorded with the submission")
	return cmd
}

func parseForm(raw []byte) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("form data must be a JSON object: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("form data must not be empty")
	}
	return fields, nil
}
