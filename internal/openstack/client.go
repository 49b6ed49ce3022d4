package openstack

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"

	"osgate/internal/query"
	"osgate/pkg/logging"
)

// serviceGetter is the slice of gophercloud's ServiceClient the raw
// lister needs. Narrowed so tests can stand in a fake control plane.
type serviceGetter interface {
	Get(ctx context.Context, url string, jsonResponse any, opts *gophercloud.RequestOpts) (*http.Response, error)
	ServiceURL(parts ...string) string
}

// route maps one resource kind onto its upstream list call.
type route struct {
	client serviceGetter
	parts  []string // URL path parts under the service endpoint
	key    string   // response body key holding the collection
}

// Client implements query.ControlPlane with one raw GET per kind.
// Records are decoded straight from the list response body, so the
// full detail level reflects the control plane's own field set
// verbatim rather than an SDK struct's view of it.
type Client struct {
	routes   map[query.Kind]route
	identity serviceGetter // endpoints join for identity services
}

// NewClient builds the control-plane client over an authenticated
// provider session.
func NewClient(p *Provider) *Client {
	return newClient(p.compute, p.blockStorage, p.network, p.image, p.identity)
}

func newClient(compute, blockStorage, network, image, identity serviceGetter) *Client {
	return &Client{
		routes: map[query.Kind]route{
			query.KindInstance:       {compute, []string{"servers", "detail"}, "servers"},
			query.KindComputeService: {compute, []string{"os-services"}, "services"},
			query.KindVolume:         {blockStorage, []string{"volumes", "detail"}, "volumes"},
			query.KindVolumeService:  {blockStorage, []string{"os-services"}, "services"},
			query.KindNetwork:        {network, []string{"networks"}, "networks"},
			query.KindNetworkAgent:   {network, []string{"agents"}, "agents"},
			query.KindImage:          {image, []string{"images"}, "images"},
			query.KindService:        {identity, []string{"services"}, "services"},
		},
		identity: identity,
	}
}

// List fetches all raw records of one kind in upstream order.
func (c *Client) List(ctx context.Context, kind query.Kind) ([]query.Record, error) {
	r, ok := c.routes[kind]
	if !ok {
		return nil, &query.UpstreamError{
			Kind:      kind,
			Condition: query.ConditionNotFound,
			Cause:     fmt.Errorf("no upstream route for kind %q", kind),
		}
	}

	records, err := c.fetch(ctx, r)
	if err != nil {
		return nil, classify(kind, err)
	}

	// Identity services carry their endpoints at detailed and full
	// levels; join them here so projection stays pure.
	if kind == query.KindService {
		if err := c.attachEndpoints(ctx, records); err != nil {
			return nil, classify(kind, err)
		}
	}

	logging.Debug("OpenStack", "Fetched %d %s records", len(records), kind)
	return records, nil
}

// fetch performs the raw GET and extracts the collection under the
// route's body key.
func (c *Client) fetch(ctx context.Context, r route) ([]query.Record, error) {
	var body map[string]any
	if _, err := r.client.Get(ctx, r.client.ServiceURL(r.parts...), &body, nil); err != nil {
		return nil, err
	}

	items, ok := body[r.key].([]any)
	if !ok {
		return nil, fmt.Errorf("list response has no %q collection", r.key)
	}

	records := make([]query.Record, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			logging.Warn("OpenStack", "Skipping non-object entry at index %d in %q collection", i, r.key)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// attachEndpoints groups the Keystone endpoint list by service and
// adds an "endpoints" field to every service record.
func (c *Client) attachEndpoints(ctx context.Context, services []query.Record) error {
	var body map[string]any
	if _, err := c.identity.Get(ctx, c.identity.ServiceURL("endpoints"), &body, nil); err != nil {
		return err
	}

	items, ok := body["endpoints"].([]any)
	if !ok {
		return fmt.Errorf("endpoint list response has no %q collection", "endpoints")
	}

	byService := make(map[string][]any)
	for _, item := range items {
		endpoint, ok := item.(map[string]any)
		if !ok {
			continue
		}
		serviceID, _ := endpoint["service_id"].(string)
		if serviceID == "" {
			continue
		}
		byService[serviceID] = append(byService[serviceID], map[string]any{
			"id":        endpoint["id"],
			"interface": endpoint["interface"],
			"region":    endpoint["region"],
			"url":       endpoint["url"],
		})
	}

	for _, svc := range services {
		id, _ := svc["id"].(string)
		endpoints := byService[id]
		if endpoints == nil {
			endpoints = []any{}
		}
		svc["endpoints"] = endpoints
	}
	return nil
}

// classify wraps an upstream failure with the condition the gateway
// surfaces: timeout, auth rejection, missing endpoint, or a generic
// network failure.
func classify(kind query.Kind, err error) error {
	condition := query.ConditionNetwork
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		condition = query.ConditionTimeout
	case gophercloud.ResponseCodeIs(err, http.StatusUnauthorized),
		gophercloud.ResponseCodeIs(err, http.StatusForbidden):
		condition = query.ConditionAuthRejected
	case gophercloud.ResponseCodeIs(err, http.StatusNotFound):
		condition = query.ConditionNotFound
	}
	return &query.UpstreamError{Kind: kind, Condition: condition, Cause: err}
}
