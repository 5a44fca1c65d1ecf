package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vectra-ml/vectra/internal/explorer"
)

// clusterCmd represents the cluster command
var clusterCmd = &cobra.Command{
	Use:   "cluster <collection>",
	Short: "Partition a stored collection into k clusters",
	Long: `Cluster loads a previously saved collection, runs k-means over its
vectors, and stores the resulting label per document back into the
collection.

Examples:
  vectra cluster reviews --k 6`,
	Args: cobra.ExactArgs(1),
	RunE: runCluster,
}

var clusterK int

func init() {
	rootCmd.AddCommand(clusterCmd)

	clusterCmd.Flags().IntVar(&clusterK, "k", 6, "Number of clusters")
}

func runCluster(cmd *cobra.Command, args []string) error {
	name := args[0]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	docs, vectors, err := s.LoadCollection(name)
	if err != nil {
		return err
	}

	e, err := explorer.New(docs, vectors)
	if err != nil {
		return err
	}

	labels, err := e.Cluster(clusterK)
	if err != nil {
		return err
	}

	if err := s.SaveLabels(name, labels); err != nil {
		return err
	}

	sizes := make([]int, clusterK)
	for _, l := range labels {
		sizes[l]++
	}
	fmt.Printf("Clustered %d documents into %d groups\n", len(docs), clusterK)
	for ci, n := range sizes {
		fmt.Printf("  Cluster %d: %d documents\n", ci, n)
	}
	return nil
}
