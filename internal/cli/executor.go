package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for CLI commands
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ExecutorOptions contains options for tool execution
type ExecutorOptions struct {
	Endpoint string
	Format   OutputFormat
	Quiet    bool
}

// ToolExecutor provides high-level tool execution against a running
// gateway, with output formatting.
type ToolExecutor struct {
	client  *Client
	options ExecutorOptions
}

// NewToolExecutor creates a new tool executor
func NewToolExecutor(options ExecutorOptions) *ToolExecutor {
	if options.Format == "" {
		options.Format = OutputFormatTable
	}
	return &ToolExecutor{
		client:  NewClient(options.Endpoint),
		options: options,
	}
}

// Connect establishes connection to the gateway
func (e *ToolExecutor) Connect(ctx context.Context) error {
	return e.client.Connect(ctx)
}

// Close closes the connection
func (e *ToolExecutor) Close() error {
	return e.client.Close()
}

// Execute executes a tool and formats the output
func (e *ToolExecutor) Execute(ctx context.Context, toolName string, arguments map[string]interface{}) error {
	result, err := e.client.CallTool(ctx, toolName, arguments)
	if err != nil {
		return fmt.Errorf("failed to execute tool %s: %w", toolName, err)
	}

	if result.IsError {
		return e.formatError(result)
	}
	return e.formatOutput(result)
}

// ListTools prints the gateway's registered tools.
func (e *ToolExecutor) ListTools(ctx context.Context) error {
	tools, err := e.client.ListTools(ctx)
	if err != nil {
		return err
	}

	switch e.options.Format {
	case OutputFormatJSON, OutputFormatYAML:
		names := make([]map[string]string, 0, len(tools))
		for _, tool := range tools {
			names = append(names, map[string]string{
				"name":        tool.Name,
				"description": tool.Description,
			})
		}
		data, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return err
		}
		if e.options.Format == OutputFormatYAML {
			return printAsYAML(string(data))
		}
		fmt.Println(string(data))
		return nil
	default:
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"TOOL", "DESCRIPTION"})
		for _, tool := range tools {
			tw.AppendRow(table.Row{tool.Name, tool.Description})
		}
		tw.SetStyle(table.StyleLight)
		tw.Render()
		return nil
	}
}

// formatError renders a failure envelope to stderr.
func (e *ToolExecutor) formatError(result *mcp.CallToolResult) error {
	var errorMsgs []string
	for _, content := range result.Content {
		if textContent, ok := mcp.AsTextContent(content); ok {
			errorMsgs = append(errorMsgs, textContent.Text)
		}
	}

	errorMsg := strings.Join(errorMsgs, "\n")
	fmt.Fprintf(os.Stderr, "Error: %s\n", errorMsg)
	return fmt.Errorf("%s", errorMsg)
}

// formatOutput formats the tool output according to the specified format
func (e *ToolExecutor) formatOutput(result *mcp.CallToolResult) error {
	if len(result.Content) == 0 {
		if !e.options.Quiet {
			fmt.Println("No results")
		}
		return nil
	}

	textContent, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		return fmt.Errorf("content is not text")
	}

	switch e.options.Format {
	case OutputFormatJSON:
		fmt.Println(textContent.Text)
		return nil
	case OutputFormatYAML:
		return printAsYAML(textContent.Text)
	case OutputFormatTable:
		return e.outputTable(textContent.Text)
	default:
		return fmt.Errorf("unsupported output format: %s", e.options.Format)
	}
}

// printAsYAML converts JSON to YAML and prints it
func printAsYAML(jsonData string) error {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}

	fmt.Print(string(yamlData))
	return nil
}

// outputTable renders a success envelope as a table, one row per
// resource. The canonical columns come first; remaining fields
// follow in sorted order.
func (e *ToolExecutor) outputTable(jsonData string) error {
	var envelope struct {
		Count     int              `json:"count"`
		Resources []map[string]any `json:"resources"`
	}
	if err := json.Unmarshal([]byte(jsonData), &envelope); err != nil {
		fmt.Println(jsonData) // Fallback to raw text if not JSON
		return nil
	}

	if len(envelope.Resources) == 0 {
		if !e.options.Quiet {
			fmt.Println("No results")
		}
		return nil
	}

	columns := tableColumns(envelope.Resources)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)

	header := table.Row{}
	for _, col := range columns {
		header = append(header, strings.ToUpper(col))
	}
	tw.AppendHeader(header)

	for _, resource := range envelope.Resources {
		row := table.Row{}
		for _, col := range columns {
			row = append(row, cellValue(resource[col]))
		}
		tw.AppendRow(row)
	}

	tw.SetStyle(table.StyleLight)
	tw.Render()

	if !e.options.Quiet {
		fmt.Printf("Total: %d\n", envelope.Count)
	}
	return nil
}

// canonicalColumns lead every table regardless of kind.
var canonicalColumns = []string{"id", "name", "status"}

func tableColumns(resources []map[string]any) []string {
	seen := map[string]bool{}
	for _, col := range canonicalColumns {
		seen[col] = true
	}

	var extra []string
	for _, resource := range resources {
		for key := range resource {
			if !seen[key] {
				seen[key] = true
				extra = append(extra, key)
			}
		}
	}
	sort.Strings(extra)

	return append(append([]string{}, canonicalColumns...), extra...)
}

func cellValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64, bool:
		return fmt.Sprint(value)
	default:
		// Nested structures (addresses, attachments, endpoints) are
		// compacted to JSON.
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(data)
	}
}
