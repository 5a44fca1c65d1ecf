package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vectra-ml/vectra/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server over stdio",
	Long: `Serve starts a Model Context Protocol server on stdin/stdout, exposing
vectra's vectorize, cluster and keyword operations as MCP tools.

Available tools: vectra_vectorize, vectra_cluster, vectra_keywords,
vectra_collections.

Examples:
  vectra serve
  vectra serve --tools vectra_cluster,vectra_keywords
  vectra serve --timeout 10m`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// Command-line flags
var (
	serveTools   []string
	serveTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringSliceVar(&serveTools, "tools", nil, "Tools to expose (default: all)")
	serveCmd.Flags().DurationVar(&serveTimeout, "timeout", 0, "Exit after this much inactivity (0 = never)")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := mcp.New(mcp.Config{
		Tools:   serveTools,
		Timeout: serveTimeout,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	if verbose {
		fmt.Fprintf(os.Stderr, "vectra serve: exposing tools %v\n", s.ListTools())
	}
	return s.ServeStdio()
}
