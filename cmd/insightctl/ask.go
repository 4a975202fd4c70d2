package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"insightedge/backend/analysis"
	"insightedge/backend/ask"
	"insightedge/backend/config"
	"insightedge/backend/utils"
)

func newAskCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question about a file (remote model when GEMINI_API_KEY is set)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(file)
			if err != nil {
				return err
			}
			cfg := config.Load()
			logger := zap.NewNop()

			var gen ask.Generator
			if cfg.GeminiAPIKey != "" {
				client, err := utils.NewGeminiClient(cmd.Context(), utils.AIConfig{APIKey: cfg.GeminiAPIKey, Endpoint: cfg.GeminiEndpoint})
				if err != nil {
					return err
				}
				defer client.Close()
				gen = client
			}

			o := ask.New(ask.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, Timeout: cfg.AITimeout},
				gen, analysis.NewEngine(logger), logger)
			out, err := o.Ask(cmd.Context(), strings.Join(args, " "), &ds)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Response)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV or XLSX file")
	return cmd
}
