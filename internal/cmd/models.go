package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vectra-ml/vectra/internal/model"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported models and their artifact status",
	Long: `Models lists every model vectra knows about, where its artifacts are
expected, and whether they are present.

Each model needs two files under <models dir>/<key>/:
  model.onnx      ONNX export of the transformer encoder
  tokenizer.json  Matching subword tokenizer definition

Examples:
  vectra models`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := model.DefaultRegistry()
	for _, key := range registry.Keys() {
		desc, err := registry.Resolve(key)
		if err != nil {
			return err
		}

		marker := " "
		if key == cfg.Models.Default {
			marker = "*"
		}
		fmt.Printf("%s %-12s %s\n", marker, key, desc.Name)
		fmt.Printf("    %s  %s\n", artifactStatus(desc.ModelPath(cfg.Models.Dir)), desc.ModelPath(cfg.Models.Dir))
		fmt.Printf("    %s  %s\n", artifactStatus(desc.TokenizerPath(cfg.Models.Dir)), desc.TokenizerPath(cfg.Models.Dir))
	}
	return nil
}

func artifactStatus(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "missing"
	}
	return "ok     "
}
