package query

import (
	"context"
	"errors"
	"time"

	"osgate/pkg/logging"
)

// ControlPlane is the read-only authenticated handle onto the
// OpenStack APIs. Implementations must be safe for concurrent use;
// the façade shares one handle across all in-flight invocations.
type ControlPlane interface {
	// List fetches all raw records of one kind, preserving the order
	// returned by the control plane.
	List(ctx context.Context, kind Kind) ([]Record, error)
}

// Service is the resource query façade: one polymorphic list
// operation over the static kind table. It holds no cross-invocation
// state beyond the shared control-plane handle.
type Service struct {
	cp      ControlPlane
	timeout time.Duration
}

// DefaultTimeout bounds an outbound control-plane call when the
// configuration does not set one.
const DefaultTimeout = 30 * time.Second

// NewService creates a query façade over the given control-plane
// handle. A timeout of zero selects DefaultTimeout.
func NewService(cp ControlPlane, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{cp: cp, timeout: timeout}
}

// List executes one query: fetch, filter, truncate, in that order.
// Filtering always happens before truncation so that the returned
// prefix is deterministic over the filtered set. Upstream order is
// preserved, never re-sorted.
//
// Records that cannot be mapped to a resource (no usable ID) are
// skipped with a logged warning; they never abort the batch.
func (s *Service) List(ctx context.Context, spec QuerySpec) ([]Resource, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.cp.List(ctx, spec.Kind)
	if err != nil {
		return nil, s.wrapUpstream(spec.Kind, err)
	}

	resources := make([]Resource, 0, min(len(records), spec.Limit))
	for i, rec := range records {
		res, err := newResource(spec.Kind, kindSpecs[spec.Kind], rec)
		if err != nil {
			logging.Warn("Query", "skipping malformed %s record at index %d: %v", spec.Kind, i, err)
			continue
		}
		if spec.Filter != "" && !res.Matches(spec.Filter) {
			continue
		}
		resources = append(resources, res)
		if len(resources) == spec.Limit {
			break
		}
	}
	return resources, nil
}

// wrapUpstream normalizes a control-plane failure into an
// UpstreamError. Errors already classified by the client layer pass
// through unchanged; a deadline expiry becomes a timeout condition.
func (s *Service) wrapUpstream(kind Kind, err error) error {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return err
	}

	condition := ConditionNetwork
	if errors.Is(err, context.DeadlineExceeded) {
		condition = ConditionTimeout
	}
	return &UpstreamError{Kind: kind, Condition: condition, Cause: err}
}
