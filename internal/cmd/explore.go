package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore <collection>",
	Short: "Plot a clustered collection as a 2D scatter",
	Long: `Explore projects a clustered collection's vectors onto their first two
principal components and writes a scatter plot colored by cluster. The
output format follows the file extension (.png, .svg, .pdf).

Examples:
  vectra explore reviews --out reviews.png`,
	Args: cobra.ExactArgs(1),
	RunE: runExplore,
}

var exploreOut string

func init() {
	rootCmd.AddCommand(exploreCmd)

	exploreCmd.Flags().StringVar(&exploreOut, "out", "clusters.png", "Output image path")
}

func runExplore(cmd *cobra.Command, args []string) error {
	e, err := loadClustered(args[0])
	if err != nil {
		return err
	}

	if err := e.Explore(exploreOut); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", exploreOut)
	return nil
}
