package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"osgate/internal/cli"
)

var (
	queryEndpoint     string
	queryOutputFormat string
	queryQuiet        bool

	queryFilter      string
	queryLimit       int
	queryDetailLevel string
)

// queryCmd calls a query tool on a running gateway.
var queryCmd = &cobra.Command{
	Use:   "query <tool>",
	Short: "Run a query tool against a running gateway",
	Long: `Run one of the gateway's query tools and print the result.

The gateway must be running with an HTTP transport (use 'osgate serve').
Use 'osgate tools' to list the available tools.

Examples:
  osgate query get_instances
  osgate query get_instances --filter web --detail-level full
  osgate query get_volumes --limit 5 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	toolName := args[0]

	executor := cli.NewToolExecutor(cli.ExecutorOptions{
		Endpoint: queryEndpoint,
		Format:   cli.OutputFormat(queryOutputFormat),
		Quiet:    queryQuiet,
	})
	defer executor.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := executor.Connect(ctx); err != nil {
		return err
	}

	// Only pass arguments the user actually set, so the gateway's own
	// defaults apply otherwise.
	toolArgs := map[string]interface{}{}
	if cmd.Flags().Changed("filter") {
		toolArgs["filter"] = queryFilter
	}
	if cmd.Flags().Changed("limit") {
		toolArgs["limit"] = queryLimit
	}
	if cmd.Flags().Changed("detail-level") {
		toolArgs["detail_level"] = queryDetailLevel
	}

	return executor.Execute(ctx, toolName, toolArgs)
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryEndpoint, "endpoint", "", "Gateway endpoint (default: from configuration)")
	queryCmd.Flags().StringVarP(&queryOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	queryCmd.Flags().BoolVarP(&queryQuiet, "quiet", "q", false, "Suppress non-essential output")

	queryCmd.Flags().StringVar(&queryFilter, "filter", "", "Substring of the resource name, or an exact resource ID")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum number of resources to return")
	queryCmd.Flags().StringVar(&queryDetailLevel, "detail-level", "", "Detail level (basic, detailed, full)")
}
