package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"osgate/internal/cli"
)

var (
	toolsEndpoint     string
	toolsOutputFormat string
	toolsQuiet        bool
)

// toolsCmd lists the tools registered on a running gateway.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the query tools a running gateway exposes",
	Long: `List the query tools registered on a running gateway, with their
descriptions. The gateway must be running with an HTTP transport
(use 'osgate serve').`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	executor := cli.NewToolExecutor(cli.ExecutorOptions{
		Endpoint: toolsEndpoint,
		Format:   cli.OutputFormat(toolsOutputFormat),
		Quiet:    toolsQuiet,
	})
	defer executor.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := executor.Connect(ctx); err != nil {
		return err
	}

	return executor.ListTools(ctx)
}

func init() {
	rootCmd.AddCommand(toolsCmd)

	toolsCmd.Flags().StringVar(&toolsEndpoint, "endpoint", "", "Gateway endpoint (default: from configuration)")
	toolsCmd.Flags().StringVarP(&toolsOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	toolsCmd.Flags().BoolVarP(&toolsQuiet, "quiet", "q", false, "Suppress non-essential output")
}
