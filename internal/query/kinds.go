package query

// Kind identifies one queryable OpenStack resource collection.
type Kind string

const (
	KindInstance       Kind = "instance"
	KindVolume         Kind = "volume"
	KindNetwork        Kind = "network"
	KindImage          Kind = "image"
	KindComputeService Kind = "compute_service"
	KindNetworkAgent   Kind = "network_agent"
	KindVolumeService  Kind = "volume_service"
	KindService        Kind = "service"
)

// kindSpec describes how raw records of one kind map onto the
// canonical resource shape, and which raw fields make up the
// detailed tier on top of the basic id/name/status triple.
//
// Not every upstream collection carries a literal "name" or "status"
// field (Nova os-services report a binary and an up/down state, for
// example), so the canonical fields are resolved per kind.
type kindSpec struct {
	idField     string
	nameField   string
	statusField string

	// detailedFields are raw field names included at the detailed
	// level when present in the record. Missing fields are omitted,
	// never synthesized.
	detailedFields []string
}

var kindSpecs = map[Kind]kindSpec{
	KindInstance: {
		idField:     "id",
		nameField:   "name",
		statusField: "status",
		detailedFields: []string{
			"flavor", "image", "addresses", "created", "updated",
		},
	},
	KindVolume: {
		idField:     "id",
		nameField:   "name",
		statusField: "status",
		detailedFields: []string{
			"size", "volume_type", "bootable", "created_at",
			"attachments", "availability_zone",
		},
	},
	KindNetwork: {
		idField:     "id",
		nameField:   "name",
		statusField: "status",
		detailedFields: []string{
			"shared", "router:external", "admin_state_up", "mtu",
			"subnets", "availability_zones", "created_at", "project_id",
		},
	},
	KindImage: {
		idField:     "id",
		nameField:   "name",
		statusField: "status",
		detailedFields: []string{
			"size", "disk_format", "container_format", "min_disk",
			"min_ram", "created_at", "updated_at", "visibility",
			"protected", "owner",
		},
	},
	KindComputeService: {
		idField:     "id",
		nameField:   "binary",
		statusField: "state",
		detailedFields: []string{
			"binary", "host", "state", "status", "zone", "updated_at",
			"disabled_reason",
		},
	},
	KindNetworkAgent: {
		idField:     "id",
		nameField:   "binary",
		statusField: "alive",
		detailedFields: []string{
			"binary", "agent_type", "host", "alive", "admin_state_up",
			"created_at", "heartbeat_timestamp", "availability_zone",
		},
	},
	KindVolumeService: {
		idField:     "id",
		nameField:   "binary",
		statusField: "state",
		detailedFields: []string{
			"binary", "host", "state", "status", "zone", "updated_at",
			"disabled_reason",
		},
	},
	KindService: {
		idField:     "id",
		nameField:   "name",
		statusField: "enabled",
		detailedFields: []string{
			"type", "description", "enabled", "endpoints",
		},
	},
}

// kindOrder fixes the registration order of kinds; tool registration
// and discovery listings follow it.
var kindOrder = []Kind{
	KindInstance,
	KindVolume,
	KindNetwork,
	KindImage,
	KindComputeService,
	KindNetworkAgent,
	KindVolumeService,
	KindService,
}

// Kinds returns all registered resource kinds in registration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindOrder))
	copy(kinds, kindOrder)
	return kinds
}

// Registered reports whether the kind is in the static kind table.
func (k Kind) Registered() bool {
	_, ok := kindSpecs[k]
	return ok
}
