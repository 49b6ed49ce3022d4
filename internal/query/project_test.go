package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func volumeResource(t *testing.T) Resource {
	t.Helper()
	rec := Record{
		"id":                    "vol-1",
		"name":                  "data",
		"status":                "in-use",
		"size":                  float64(20),
		"volume_type":           "ssd",
		"bootable":              "false",
		"created_at":            "2024-03-01T10:00:00Z",
		"attachments":           []any{map[string]any{"server_id": "srv-1"}},
		"availability_zone":     "nova",
		"os-vol-host-attr:host": "cinder@lvm#lvm",
		"metadata":              map[string]any{"owner": "platform"},
	}
	res, err := newResource(KindVolume, kindSpecs[KindVolume], rec)
	require.NoError(t, err)
	return res
}

func TestProjectBasic(t *testing.T) {
	p := Project(volumeResource(t), DetailBasic)
	assert.Equal(t, Projection{
		"id":     "vol-1",
		"name":   "data",
		"status": "in-use",
	}, p)
}

func TestProjectDetailed(t *testing.T) {
	p := Project(volumeResource(t), DetailDetailed)

	assert.Equal(t, "vol-1", p["id"])
	assert.Equal(t, "ssd", p["volume_type"])
	assert.Equal(t, "nova", p["availability_zone"])
	// Provider-specific metadata stays out of the detailed tier.
	assert.NotContains(t, p, "os-vol-host-attr:host")
	assert.NotContains(t, p, "metadata")
}

func TestProjectFullIsVerbatim(t *testing.T) {
	res := volumeResource(t)
	p := Project(res, DetailFull)

	for k, v := range res.Raw {
		assert.Equal(t, v, p[k], "raw field %q must survive verbatim", k)
	}
}

func TestProjectTiersAreNested(t *testing.T) {
	// fields(basic) ⊆ fields(detailed) ⊆ fields(full), for every kind,
	// including kinds whose records have no literal name/status field.
	fixtures := map[Kind]Record{
		KindInstance: {
			"id": "srv-1", "name": "web", "status": "ACTIVE",
			"flavor": map[string]any{"id": "m1"}, "addresses": map[string]any{},
			"created": "2024-01-01T00:00:00Z", "OS-EXT-STS:vm_state": "active",
		},
		KindVolume: {
			"id": "vol-1", "name": "data", "status": "available",
			"size": float64(10), "bootable": "true",
		},
		KindNetwork: {
			"id": "net-1", "name": "private", "status": "ACTIVE",
			"shared": false, "router:external": false, "mtu": float64(1500),
			"subnets": []any{"sub-1"},
		},
		KindImage: {
			"id": "img-1", "name": "ubuntu", "status": "active",
			"disk_format": "qcow2", "size": float64(1024), "visibility": "public",
		},
		KindComputeService: {
			"id": float64(7), "binary": "nova-compute", "host": "cmp-1",
			"state": "up", "status": "enabled", "zone": "nova",
		},
		KindNetworkAgent: {
			"id": "agt-1", "binary": "neutron-l3-agent", "agent_type": "L3 agent",
			"host": "net-1", "alive": true, "admin_state_up": true,
		},
		KindVolumeService: {
			"id": float64(3), "binary": "cinder-volume", "host": "stor-1",
			"state": "up", "status": "enabled",
		},
		KindService: {
			"id": "svc-1", "name": "keystone", "type": "identity",
			"enabled": true, "endpoints": []any{},
		},
	}

	for kind, rec := range fixtures {
		res, err := newResource(kind, kindSpecs[kind], rec)
		require.NoError(t, err, "kind %s", kind)

		basic := Project(res, DetailBasic)
		detailed := Project(res, DetailDetailed)
		full := Project(res, DetailFull)

		for k := range basic {
			assert.Contains(t, detailed, k, "kind %s: basic field %q missing from detailed", kind, k)
		}
		for k := range detailed {
			assert.Contains(t, full, k, "kind %s: detailed field %q missing from full", kind, k)
		}
	}
}

func TestProjectOmitsMissingFields(t *testing.T) {
	rec := Record{"id": "net-1", "name": "bare", "status": "ACTIVE"}
	res, err := newResource(KindNetwork, kindSpecs[KindNetwork], rec)
	require.NoError(t, err)

	p := Project(res, DetailDetailed)
	assert.NotContains(t, p, "mtu")
	assert.NotContains(t, p, "subnets")
	assert.Len(t, p, 3)
}

func TestProjectFullDropsNilFields(t *testing.T) {
	rec := Record{"id": "vol-1", "name": "data", "status": "available", "migration_status": nil}
	res, err := newResource(KindVolume, kindSpecs[KindVolume], rec)
	require.NoError(t, err)

	p := Project(res, DetailFull)
	assert.NotContains(t, p, "migration_status")
}

func TestProjectCanonicalFieldsForServiceKinds(t *testing.T) {
	// Nova os-services records carry an integer id, a binary and an
	// up/down state; the canonical triple is derived from those.
	rec := Record{
		"id":     float64(12),
		"binary": "nova-scheduler",
		"host":   "ctl-1",
		"state":  "up",
		"status": "enabled",
	}
	res, err := newResource(KindComputeService, kindSpecs[KindComputeService], rec)
	require.NoError(t, err)

	assert.Equal(t, "12", res.ID)
	assert.Equal(t, "nova-scheduler", res.Name)
	assert.Equal(t, "up", res.Status)

	// Full is raw-verbatim: the record's own id and status fields win,
	// while the derived name is added because the record has none.
	full := Project(res, DetailFull)
	assert.Equal(t, float64(12), full["id"])
	assert.Equal(t, "nova-scheduler", full["name"])
	assert.Equal(t, "enabled", full["status"])
}

func TestProjectAllPreservesOrder(t *testing.T) {
	resources := []Resource{
		{ID: "a", Name: "first", Kind: KindInstance, Status: "ACTIVE", Raw: Record{"id": "a"}},
		{ID: "b", Name: "second", Kind: KindInstance, Status: "SHUTOFF", Raw: Record{"id": "b"}},
	}
	projections := ProjectAll(resources, DetailBasic)
	require.Len(t, projections, 2)
	assert.Equal(t, "a", projections[0]["id"])
	assert.Equal(t, "b", projections[1]["id"])
}
