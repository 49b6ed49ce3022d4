package gateway

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"osgate/internal/query"
)

// ToolDescriptor is one static registry entry: the boundary tool
// schema and the resource kind its handler queries.
type ToolDescriptor struct {
	Tool mcp.Tool
	Kind query.Kind
}

var toolDescriptions = map[query.Kind]string{
	query.KindInstance:       "Get OpenStack virtual machine instances (Nova servers)",
	query.KindVolume:         "Get OpenStack block storage volumes (Cinder)",
	query.KindNetwork:        "Get OpenStack networks (Neutron)",
	query.KindImage:          "Get OpenStack images (Glance)",
	query.KindComputeService: "Get OpenStack compute services and their state (Nova os-services)",
	query.KindNetworkAgent:   "Get OpenStack network agents and their liveness (Neutron)",
	query.KindVolumeService:  "Get OpenStack volume services and their state (Cinder os-services)",
	query.KindService:        "Get OpenStack service catalog entries with their endpoints (Keystone)",
}

// ToolName returns the boundary name for a kind: get_<kind>s.
func ToolName(kind query.Kind) string {
	return fmt.Sprintf("get_%ss", kind)
}

// Registry is the static tool registry, built once at process start
// and immutable for the process lifetime.
type Registry struct {
	order  []string
	byName map[string]ToolDescriptor
}

// NewRegistry builds descriptors for every registered resource kind.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]ToolDescriptor),
	}
	for _, kind := range query.Kinds() {
		name := ToolName(kind)
		tool := mcp.NewTool(name,
			mcp.WithDescription(toolDescriptions[kind]),
			mcp.WithString("filter",
				mcp.Description("Substring of the resource name, or an exact resource ID"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results to return"),
				mcp.Min(1),
				mcp.DefaultNumber(query.DefaultLimit),
			),
			mcp.WithString("detail_level",
				mcp.Description("How much of each record to return"),
				mcp.Enum(string(query.DetailBasic), string(query.DetailDetailed), string(query.DetailFull)),
				mcp.DefaultString(string(query.DefaultDetail)),
			),
		)
		r.order = append(r.order, name)
		r.byName[name] = ToolDescriptor{Tool: tool, Kind: kind}
	}
	return r
}

// Get looks up a descriptor by tool name.
func (r *Registry) Get(name string) (ToolDescriptor, bool) {
	desc, ok := r.byName[name]
	return desc, ok
}

// All returns every descriptor in registration order.
func (r *Registry) All() []ToolDescriptor {
	descriptors := make([]ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		descriptors = append(descriptors, r.byName[name])
	}
	return descriptors
}

// Tools returns the tool schemas in registration order, for discovery
// by the calling agent.
func (r *Registry) Tools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(r.order))
	for _, desc := range r.All() {
		tools = append(tools, desc.Tool)
	}
	return tools
}
