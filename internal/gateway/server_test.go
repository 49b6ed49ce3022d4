package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osgate/internal/config"
	"osgate/internal/query"
)

func newTestServer(cp query.ControlPlane) *Server {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, query.NewService(cp, 0))
	return NewServer(Config{Transport: config.TransportStreamableHTTP}, registry, dispatcher)
}

func callToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestServerDefaults(t *testing.T) {
	s := newTestServer(&fakeControlPlane{})
	assert.Equal(t, "localhost", s.config.Host)
	assert.Equal(t, 8090, s.config.Port)
	assert.Equal(t, "http://localhost:8090/mcp", s.Endpoint())
}

func TestServerRejectsUnknownTransport(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, query.NewService(&fakeControlPlane{}, 0))
	s := NewServer(Config{Transport: "websocket"}, registry, dispatcher)

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket")
}

func TestHandlerSuccessResult(t *testing.T) {
	s := newTestServer(&fakeControlPlane{records: map[query.Kind][]query.Record{
		query.KindImage: {
			{"id": "img-1", "name": "ubuntu", "status": "active", "disk_format": "qcow2"},
		},
	}})

	handler := s.makeHandler("get_images")
	result, err := handler(context.Background(), callToolRequest("get_images", map[string]any{"detail_level": "basic"}))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	assert.Equal(t, float64(1), decoded["count"])
}

func TestHandlerFailureResult(t *testing.T) {
	s := newTestServer(&fakeControlPlane{
		err: &query.UpstreamError{Kind: query.KindNetwork, Condition: query.ConditionTimeout},
	})

	handler := s.makeHandler("get_networks")
	result, err := handler(context.Background(), callToolRequest("get_networks", nil))
	// Query failures surface as error results, never as handler
	// errors; the transport always gets a well-formed envelope.
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	assert.Equal(t, query.ErrKindUpstream, decoded["error_kind"])
}

func TestHandlerToleratesMissingArguments(t *testing.T) {
	s := newTestServer(&fakeControlPlane{records: map[query.Kind][]query.Record{
		query.KindVolume: {{"id": "vol-1", "name": "data", "status": "available"}},
	}})

	handler := s.makeHandler("get_volumes")
	result, err := handler(context.Background(), callToolRequest("get_volumes", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}
