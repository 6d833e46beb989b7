package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/tunecouncil/llm"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models [provider]",
		Short: "List the models each provider account can use",
		Long:  "Lists available models for anthropic, openai and google, or for a single named provider.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listers := map[string]llm.ModelLister{
				"anthropic": llm.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"), ""),
				"openai":    llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), ""),
				"google":    llm.NewGoogleClient(os.Getenv("GOOGLE_API_KEY"), ""),
			}
			providers := []string{"anthropic", "openai", "google"}
			if len(args) == 1 {
				if _, ok := listers[args[0]]; !ok {
					return fmt.Errorf("unknown provider %q (available: anthropic, openai, google)", args[0])
				}
				providers = args[:1]
			}
			for _, provider := range providers {
				cmd.Printf("%s:\n", provider)
				models, err := listers[provider].ListModels(cmd.Context())
				if err != nil {
					cmd.Printf("  error: %v\n", err)
					continue
				}
				for _, model := range models {
					cmd.Printf("  - %s\n", model)
				}
				cmd.Printf("  total: %d\n", len(models))
			}
			return nil
		},
	}
}
