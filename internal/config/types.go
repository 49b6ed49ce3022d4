package config

import "time"

// Config is the top-level configuration structure for osgate.
type Config struct {
	Gateway   GatewayConfig   `yaml:"gateway"`
	OpenStack OpenStackConfig `yaml:"openstack"`
}

// Transport names for the gateway's MCP endpoint.
const (
	// TransportStreamableHTTP is the streamable HTTP transport.
	TransportStreamableHTTP = "streamable-http"
	// TransportSSE is the Server-Sent Events transport.
	TransportSSE = "sse"
	// TransportStdio is the standard I/O transport.
	TransportStdio = "stdio"
)

// GatewayConfig defines how the MCP endpoint is served.
type GatewayConfig struct {
	Host         string        `yaml:"host,omitempty"`         // Host to bind to (default: localhost)
	Port         int           `yaml:"port,omitempty"`         // Port for the MCP endpoint (default: 8090)
	Transport    string        `yaml:"transport,omitempty"`    // Transport to use (default: streamable-http)
	QueryTimeout time.Duration `yaml:"queryTimeout,omitempty"` // Bound on each outbound control-plane call (default: 30s)
}

// OpenStackConfig holds the credentials and endpoint for the
// control-plane session. The standard OS_* environment variables
// override these values at startup; flags override both.
type OpenStackConfig struct {
	AuthURL           string `yaml:"authURL,omitempty"`
	Region            string `yaml:"region,omitempty"`
	Username          string `yaml:"username,omitempty"`
	Password          string `yaml:"password,omitempty"`
	ProjectName       string `yaml:"projectName,omitempty"`
	UserDomainName    string `yaml:"userDomainName,omitempty"`
	ProjectDomainName string `yaml:"projectDomainName,omitempty"`
}

// ValidTransport reports whether the transport name is supported.
func ValidTransport(transport string) bool {
	switch transport {
	case TransportStreamableHTTP, TransportSSE, TransportStdio:
		return true
	}
	return false
}

// GetDefaultConfig returns the built-in defaults. The OpenStack
// defaults mirror a stock devstack deployment; real deployments
// override them via config files, flags, or OS_* environment
// variables.
func GetDefaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			Host:         "localhost",
			Port:         8090,
			Transport:    TransportStreamableHTTP,
			QueryTimeout: 30 * time.Second,
		},
		OpenStack: OpenStackConfig{
			AuthURL:           "http://127.0.0.1:5000/v3",
			Username:          "admin",
			ProjectName:       "admin",
			UserDomainName:    "Default",
			ProjectDomainName: "Default",
		},
	}
}
