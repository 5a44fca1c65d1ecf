package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// collectionsCmd represents the collections command
var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List stored document collections",
	Long: `Collections lists every collection in the vector database with its model,
vector width and document count.

Examples:
  vectra collections`,
	Args: cobra.NoArgs,
	RunE: runCollections,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}

func runCollections(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	cols, err := s.ListCollections()
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		fmt.Println("No collections stored yet. Run 'vectra vectorize <path> --save <name>'.")
		return nil
	}

	for _, c := range cols {
		fmt.Printf("%-20s %-12s dim=%-5d docs=%-6d %s\n",
			c.Name, c.Model, c.Dim, c.Count, c.CreatedAt)
	}
	return nil
}
