package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osgate/internal/query"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	tools := r.Tools()
	require.Len(t, tools, 8)

	expected := []string{
		"get_instances",
		"get_volumes",
		"get_networks",
		"get_images",
		"get_compute_services",
		"get_network_agents",
		"get_volume_services",
		"get_services",
	}
	for i, name := range expected {
		assert.Equal(t, name, tools[i].Name, "registration order is fixed")
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	desc, ok := r.Get("get_volumes")
	require.True(t, ok)
	assert.Equal(t, query.KindVolume, desc.Kind)
	assert.Equal(t, "get_volumes", desc.Tool.Name)

	_, ok = r.Get("get_snapshots")
	assert.False(t, ok)
}

func TestRegistryToolSchemas(t *testing.T) {
	r := NewRegistry()

	for _, desc := range r.All() {
		props := desc.Tool.InputSchema.Properties
		require.Contains(t, props, "filter", "tool %s", desc.Tool.Name)
		require.Contains(t, props, "limit", "tool %s", desc.Tool.Name)
		require.Contains(t, props, "detail_level", "tool %s", desc.Tool.Name)
		// All arguments are optional; defaults are documented in the
		// schema instead.
		assert.Empty(t, desc.Tool.InputSchema.Required, "tool %s", desc.Tool.Name)
	}
}

func TestToolName(t *testing.T) {
	assert.Equal(t, "get_instances", ToolName(query.KindInstance))
	assert.Equal(t, "get_compute_services", ToolName(query.KindComputeService))
	assert.Equal(t, "get_services", ToolName(query.KindService))
}
