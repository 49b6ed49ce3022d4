package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osgate/internal/query"
)

type fakeControlPlane struct {
	records map[query.Kind][]query.Record
	err     error
}

func (f *fakeControlPlane) List(ctx context.Context, kind query.Kind) ([]query.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[kind], nil
}

func newTestDispatcher(cp query.ControlPlane) *Dispatcher {
	return NewDispatcher(NewRegistry(), query.NewService(cp, 0))
}

func instanceFixture() map[query.Kind][]query.Record {
	records := make([]query.Record, 0, 15)
	for i := 0; i < 12; i++ {
		records = append(records, query.Record{
			"id":     fmt.Sprintf("srv-%04d", i),
			"name":   fmt.Sprintf("node-%d", i),
			"status": "ACTIVE",
			"flavor": map[string]any{"id": "m1.small"},
		})
	}
	for i := 0; i < 3; i++ {
		records = append(records, query.Record{
			"id":      fmt.Sprintf("web-%04d", i),
			"name":    fmt.Sprintf("web-server-%d", i),
			"status":  "ACTIVE",
			"flavor":  map[string]any{"id": "m1.large"},
			"created": "2024-05-01T08:00:00Z",
		})
	}
	return map[query.Kind][]query.Record{query.KindInstance: records}
}

func TestDispatchFilteredInstances(t *testing.T) {
	// 15 instances, 3 matching "web-server": all 3 come back at the
	// detailed tier, under the limit of 10.
	d := newTestDispatcher(&fakeControlPlane{records: instanceFixture()})

	envelope := d.Dispatch(context.Background(), "get_instances", map[string]any{
		"filter":       "web-server",
		"limit":        float64(10),
		"detail_level": "detailed",
	})
	require.False(t, envelope.IsError())
	require.Len(t, envelope.Resources, 3)

	for _, p := range envelope.Resources {
		assert.Contains(t, p["name"], "web-server")
		assert.Equal(t, map[string]any{"id": "m1.large"}, p["flavor"])
		assert.Contains(t, p, "created")
	}
}

func TestDispatchFullVolumesUnfiltered(t *testing.T) {
	volumes := []query.Record{
		{"id": "vol-1", "name": "data-0", "status": "in-use", "size": float64(20), "os-vol-tenant-attr:tenant_id": "t1"},
		{"id": "vol-2", "name": "data-1", "status": "available", "size": float64(5), "bootable": "true"},
	}
	d := newTestDispatcher(&fakeControlPlane{records: map[query.Kind][]query.Record{query.KindVolume: volumes}})

	envelope := d.Dispatch(context.Background(), "get_volumes", map[string]any{
		"detail_level": "full",
	})
	require.False(t, envelope.IsError())
	require.Len(t, envelope.Resources, 2)

	// Raw fields verbatim, fixture order preserved.
	assert.Equal(t, "vol-1", envelope.Resources[0]["id"])
	assert.Equal(t, "t1", envelope.Resources[0]["os-vol-tenant-attr:tenant_id"])
	assert.Equal(t, "vol-2", envelope.Resources[1]["id"])
	assert.Equal(t, "true", envelope.Resources[1]["bootable"])
}

func TestDispatchDefaults(t *testing.T) {
	records := make([]query.Record, 0, 120)
	for i := 0; i < 120; i++ {
		records = append(records, query.Record{
			"id": fmt.Sprintf("net-%03d", i), "name": "net", "status": "ACTIVE", "mtu": float64(1500),
		})
	}
	d := newTestDispatcher(&fakeControlPlane{records: map[query.Kind][]query.Record{query.KindNetwork: records}})

	envelope := d.Dispatch(context.Background(), "get_networks", map[string]any{})
	require.False(t, envelope.IsError())
	// limit defaults to 100, detail_level to detailed, filter to "".
	assert.Len(t, envelope.Resources, query.DefaultLimit)
	assert.Contains(t, envelope.Resources[0], "mtu")
}

func TestDispatchUnknownTool(t *testing.T) {
	d := newTestDispatcher(&fakeControlPlane{})

	envelope := d.Dispatch(context.Background(), "get_snapshots", map[string]any{})
	require.True(t, envelope.IsError())
	assert.Equal(t, query.ErrKindUnknownTool, envelope.Err.Kind)
	assert.Empty(t, envelope.Resources)
}

func TestDispatchUpstreamFailure(t *testing.T) {
	d := newTestDispatcher(&fakeControlPlane{
		err: &query.UpstreamError{Kind: query.KindNetwork, Condition: query.ConditionTimeout},
	})

	envelope := d.Dispatch(context.Background(), "get_networks", map[string]any{})
	require.True(t, envelope.IsError())
	assert.Equal(t, query.ErrKindUpstream, envelope.Err.Kind)
	assert.Contains(t, envelope.Err.Message, "timeout")
	// Failure envelopes never carry partial data.
	assert.Empty(t, envelope.Resources)
}

func TestDispatchInvalidArguments(t *testing.T) {
	d := newTestDispatcher(&fakeControlPlane{records: instanceFixture()})

	cases := []struct {
		name  string
		args  map[string]any
		field string
	}{
		{"unknown key", map[string]any{"zfilter": "x", "afilter": "y"}, "afilter"},
		{"filter type", map[string]any{"filter": float64(3)}, "filter"},
		{"limit zero", map[string]any{"limit": float64(0)}, "limit"},
		{"limit fractional", map[string]any{"limit": 2.5}, "limit"},
		{"limit garbage string", map[string]any{"limit": "ten"}, "limit"},
		{"limit wrong type", map[string]any{"limit": true}, "limit"},
		{"detail level unknown", map[string]any{"detail_level": "verbose"}, "detail_level"},
		{"detail level type", map[string]any{"detail_level": float64(1)}, "detail_level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			envelope := d.Dispatch(context.Background(), "get_instances", tc.args)
			require.True(t, envelope.IsError())
			assert.Equal(t, query.ErrKindInvalidArgument, envelope.Err.Kind)
			assert.Contains(t, envelope.Err.Message, tc.field)
		})
	}
}

func TestDispatchCoercesStringLimit(t *testing.T) {
	d := newTestDispatcher(&fakeControlPlane{records: instanceFixture()})

	envelope := d.Dispatch(context.Background(), "get_instances", map[string]any{
		"limit": "5",
	})
	require.False(t, envelope.IsError())
	assert.Len(t, envelope.Resources, 5)
}

func TestDispatchZeroMatchesIsEmptySuccess(t *testing.T) {
	d := newTestDispatcher(&fakeControlPlane{records: instanceFixture()})

	envelope := d.Dispatch(context.Background(), "get_instances", map[string]any{
		"filter": "no-such-instance",
	})
	require.False(t, envelope.IsError())
	assert.Empty(t, envelope.Resources)
}

func TestEnvelopeJSONShape(t *testing.T) {
	success := successEnvelope([]query.Projection{{"id": "a", "name": "n", "status": "s"}})
	data, err := json.Marshal(success)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1), decoded["count"])
	assert.Contains(t, decoded, "resources")
	assert.NotContains(t, decoded, "error_kind")

	failure := failureEnvelope(&query.UnknownToolError{Name: "get_snapshots"})
	data, err = json.Marshal(failure)
	require.NoError(t, err)

	decoded = nil
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, query.ErrKindUnknownTool, decoded["error_kind"])
	assert.Contains(t, decoded, "message")
	assert.NotContains(t, decoded, "resources")
}

func TestEnvelopeEmptySuccessSerializesEmptyList(t *testing.T) {
	data, err := json.Marshal(successEnvelope(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 0, "resources": []}`, string(data))
}
