package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sdcanvas/simulation-core/internal/document"
	"github.com/sdcanvas/simulation-core/internal/engine"
	"github.com/sdcanvas/simulation-core/pkg/config"
)

var (
	runDocumentPath string
	runConfigPath   string
	runOutputFormat string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation over a document and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(runDocumentPath)
		if err != nil {
			return fmt.Errorf("failed to read document %s: %w", runDocumentPath, err)
		}

		graph, err := document.ParseContent(raw)
		if err != nil {
			return err
		}

		cfg, err := config.LoadSimulationConfig(runConfigPath)
		if err != nil {
			return err
		}

		result, err := engine.New().Run(graph, cfg)
		if err != nil {
			return err
		}

		switch runOutputFormat {
		case "json":
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		case "yaml":
			out, err := yaml.Marshal(result)
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		default:
			return fmt.Errorf("unknown output format %q (must be json or yaml)", runOutputFormat)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runDocumentPath, "document", "f", "", "path to the SDCanvas document (required)")
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to the simulation config YAML (required)")
	runCmd.Flags().StringVarP(&runOutputFormat, "output", "o", "json", "output format (json or yaml)")
	_ = runCmd.MarkFlagRequired("document")
	_ = runCmd.MarkFlagRequired("config")
}
