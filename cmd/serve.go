package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"osgate/internal/config"
	"osgate/internal/gateway"
	"osgate/internal/openstack"
	"osgate/internal/query"
	"osgate/pkg/logging"
)

// Gateway flags. Values given on the command line take precedence over
// config files and environment variables.
var (
	serveHost      string
	servePort      int
	serveTransport string
	serveLogLevel  string
	serveLogJSON   bool
)

// OpenStack connection flags.
var (
	serveAuthURL           string
	serveRegion            string
	serveUsername          string
	servePassword          string
	serveProjectName       string
	serveUserDomainName    string
	serveProjectDomainName string
)

// serveCmd starts the MCP query gateway.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the osgate MCP query gateway",
	Long: `Starts the osgate server: authenticates against the configured OpenStack
control plane, registers the query tools, and serves them over the chosen
MCP transport until interrupted.

Transports:
  streamable-http (default)  HTTP endpoint at /mcp
  sse                        Server-Sent Events endpoint at /sse
  stdio                      MCP over stdin/stdout, for direct agent spawning

Configuration:
  osgate loads configuration from ~/.config/osgate/config.yaml and
  .osgate/config.yaml in the current directory. OpenStack credentials may
  also come from the standard OS_* environment variables. Precedence is
  flags > environment > config files > defaults.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	level := logging.ParseLevel(serveLogLevel)
	// The stdio transport owns stdout, so logs must go to stderr there.
	// They go to stderr for the HTTP transports too, keeping stdout clean.
	logging.Init(level, os.Stderr, serveLogJSON)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.OpenStack.ApplyEnvironment()
	applyServeFlags(cmd, &cfg)

	if !config.ValidTransport(cfg.Gateway.Transport) {
		return fmt.Errorf("invalid transport %q (valid: %s, %s, %s)",
			cfg.Gateway.Transport, config.TransportStreamableHTTP, config.TransportSSE, config.TransportStdio)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := openstack.NewProvider(ctx, cfg.OpenStack)
	if err != nil {
		return fmt.Errorf("failed to connect to OpenStack: %w", err)
	}

	facade := query.NewService(openstack.NewClient(provider), cfg.Gateway.QueryTimeout)
	registry := gateway.NewRegistry()
	dispatcher := gateway.NewDispatcher(registry, facade)

	srv := gateway.NewServer(gateway.Config{
		Host:      cfg.Gateway.Host,
		Port:      cfg.Gateway.Port,
		Transport: cfg.Gateway.Transport,
		Version:   rootCmd.Version,
	}, registry, dispatcher)

	logging.Info("Serve", "Starting osgate %s (transport=%s)", rootCmd.Version, cfg.Gateway.Transport)
	return srv.Run(ctx)
}

// applyServeFlags copies explicitly-set command line flags onto the loaded
// configuration. Unset flags leave file and environment values intact.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Gateway.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Gateway.Port = servePort
	}
	if cmd.Flags().Changed("transport") {
		cfg.Gateway.Transport = serveTransport
	}
	if cmd.Flags().Changed("auth-url") {
		cfg.OpenStack.AuthURL = serveAuthURL
	}
	if cmd.Flags().Changed("region") {
		cfg.OpenStack.Region = serveRegion
	}
	if cmd.Flags().Changed("username") {
		cfg.OpenStack.Username = serveUsername
	}
	if cmd.Flags().Changed("password") {
		cfg.OpenStack.Password = servePassword
	}
	if cmd.Flags().Changed("project-name") {
		cfg.OpenStack.ProjectName = serveProjectName
	}
	if cmd.Flags().Changed("user-domain-name") {
		cfg.OpenStack.UserDomainName = serveUserDomainName
	}
	if cmd.Flags().Changed("project-domain-name") {
		cfg.OpenStack.ProjectDomainName = serveProjectDomainName
	}
}

// init registers the serve command and its flags with the root command.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host interface the gateway listens on")
	serveCmd.Flags().IntVar(&servePort, "port", 8090, "Port the gateway listens on")
	serveCmd.Flags().StringVar(&serveTransport, "transport", config.TransportStreamableHTTP,
		"MCP transport to serve (streamable-http, sse, stdio)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "Emit logs as JSON instead of text")

	serveCmd.Flags().StringVar(&serveAuthURL, "auth-url", "", "OpenStack Keystone endpoint (e.g. http://keystone:5000/v3)")
	serveCmd.Flags().StringVar(&serveRegion, "region", "", "OpenStack region name")
	serveCmd.Flags().StringVar(&serveUsername, "username", "", "OpenStack username")
	serveCmd.Flags().StringVar(&servePassword, "password", "", "OpenStack password")
	serveCmd.Flags().StringVar(&serveProjectName, "project-name", "", "OpenStack project to scope to")
	serveCmd.Flags().StringVar(&serveUserDomainName, "user-domain-name", "", "Domain of the OpenStack user")
	serveCmd.Flags().StringVar(&serveProjectDomainName, "project-domain-name", "", "Domain of the OpenStack project")
}
