package openstack

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"

	"osgate/internal/config"
	"osgate/pkg/logging"
)

// Provider owns the authenticated control-plane session: one Keystone
// token (re-authenticated on expiry) and one service client per
// consumed API. It is built once at startup and read-shared by all
// concurrent invocations; gophercloud clients are safe for concurrent
// use.
type Provider struct {
	compute      *gophercloud.ServiceClient
	blockStorage *gophercloud.ServiceClient
	network      *gophercloud.ServiceClient
	image        *gophercloud.ServiceClient
	identity     *gophercloud.ServiceClient
}

// NewProvider authenticates against Keystone with password
// credentials and resolves the service clients from the catalog.
func NewProvider(ctx context.Context, cfg config.OpenStackConfig) (*Provider, error) {
	opts := gophercloud.AuthOptions{
		IdentityEndpoint: cfg.AuthURL,
		Username:         cfg.Username,
		Password:         cfg.Password,
		DomainName:       cfg.UserDomainName,
		AllowReauth:      true,
		Scope: &gophercloud.AuthScope{
			ProjectName: cfg.ProjectName,
			DomainName:  cfg.ProjectDomainName,
		},
	}

	client, err := openstack.AuthenticatedClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("keystone authentication failed: %w", err)
	}
	logging.Info("OpenStack", "Authenticated against %s as %s", cfg.AuthURL, cfg.Username)

	eo := gophercloud.EndpointOpts{Region: cfg.Region}

	p := &Provider{}
	services := []struct {
		name   string
		target **gophercloud.ServiceClient
		build  func() (*gophercloud.ServiceClient, error)
	}{
		{"compute", &p.compute, func() (*gophercloud.ServiceClient, error) { return openstack.NewComputeV2(client, eo) }},
		{"block storage", &p.blockStorage, func() (*gophercloud.ServiceClient, error) { return openstack.NewBlockStorageV3(client, eo) }},
		{"network", &p.network, func() (*gophercloud.ServiceClient, error) { return openstack.NewNetworkV2(client, eo) }},
		{"image", &p.image, func() (*gophercloud.ServiceClient, error) { return openstack.NewImageV2(client, eo) }},
		{"identity", &p.identity, func() (*gophercloud.ServiceClient, error) { return openstack.NewIdentityV3(client, eo) }},
	}
	for _, svc := range services {
		sc, err := svc.build()
		if err != nil {
			return nil, fmt.Errorf("resolving %s endpoint from catalog: %w", svc.name, err)
		}
		*svc.target = sc
	}

	return p, nil
}
