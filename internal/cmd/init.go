package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vectra-ml/vectra/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .vectra directory with default configuration",
	Long: `Init creates a .vectra directory in the current working directory and
writes a default config.yaml into it. Fails if a config file already exists.

Examples:
  vectra init`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	path, err := config.SaveDefault(wd)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
