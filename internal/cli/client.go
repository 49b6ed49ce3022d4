package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"osgate/internal/config"
)

// Client is a simplified MCP client for CLI commands talking to a
// running gateway over streamable HTTP.
type Client struct {
	endpoint string
	client   client.MCPClient
	timeout  time.Duration
}

// DetectEndpoint derives the gateway endpoint from configuration.
func DetectEndpoint() string {
	cfg, err := config.LoadConfig()
	if err != nil {
		return "http://localhost:8090/mcp"
	}
	return fmt.Sprintf("http://%s:%d/mcp", cfg.Gateway.Host, cfg.Gateway.Port)
}

// NewClient creates a client for the given endpoint; an empty
// endpoint selects the configured gateway.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DetectEndpoint()
	}
	return &Client{
		endpoint: endpoint,
		timeout:  30 * time.Second,
	}
}

// Connect establishes the streamable HTTP session and initializes it.
func (c *Client) Connect(ctx context.Context) error {
	httpClient, err := client.NewStreamableHttpClient(c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to create streamable-http client: %w", err)
	}
	c.client = httpClient

	if err := httpClient.Start(ctx); err != nil {
		return fmt.Errorf("failed to start streamable-http client: %w", err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "osgate-cli",
		Version: "1.0.0",
	}

	initCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.client.Initialize(initCtx, initRequest); err != nil {
		httpClient.Close()
		return fmt.Errorf("initialization failed: %w", err)
	}
	return nil
}

// Close shuts the session down.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// CallTool executes one tool call against the gateway.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.CallTool(timeoutCtx, req)
	if err != nil {
		return nil, fmt.Errorf("tool call failed: %w", err)
	}
	return result, nil
}

// ListTools fetches the gateway's tool registry for discovery.
func (c *Client) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.ListTools(timeoutCtx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return result.Tools, nil
}
