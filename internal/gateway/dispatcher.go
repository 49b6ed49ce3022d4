package gateway

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"osgate/internal/query"
	"osgate/pkg/logging"
)

// Dispatcher binds tool invocations to façade queries. It is
// stateless and side-effect free across invocations; concurrent
// dispatches share nothing but the registry and the façade.
type Dispatcher struct {
	registry *Registry
	facade   *query.Service
}

// NewDispatcher wires the static registry to the query façade.
func NewDispatcher(registry *Registry, facade *query.Service) *Dispatcher {
	return &Dispatcher{registry: registry, facade: facade}
}

// Dispatch resolves the tool name, binds and validates arguments,
// runs the query, and projects the results. Every failure is
// recovered here and returned as a failure envelope; nothing escapes
// to the transport as a fault.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, args map[string]any) Envelope {
	desc, ok := d.registry.Get(toolName)
	if !ok {
		return failureEnvelope(&query.UnknownToolError{Name: toolName})
	}

	spec, err := bindArguments(desc.Kind, args)
	if err != nil {
		return failureEnvelope(err)
	}

	resources, err := d.facade.List(ctx, spec)
	if err != nil {
		logging.Error("Gateway", err, "Query for %s failed", toolName)
		return failureEnvelope(err)
	}

	return successEnvelope(query.ProjectAll(resources, spec.Detail))
}

// bindArguments turns the raw argument map into a QuerySpec.
// Declared arguments are scanned in schema declaration order
// (filter, limit, detail_level) so the first offending field named
// in an error is deterministic; unknown keys are rejected afterwards
// in sorted order. Absent arguments take the documented defaults.
func bindArguments(kind query.Kind, args map[string]any) (query.QuerySpec, error) {
	spec := query.QuerySpec{
		Kind:   kind,
		Limit:  query.DefaultLimit,
		Detail: query.DefaultDetail,
	}

	if v, ok := args["filter"]; ok {
		s, ok := v.(string)
		if !ok {
			return spec, &query.InvalidArgumentError{Field: "filter", Reason: fmt.Sprintf("must be a string, got %T", v)}
		}
		spec.Filter = s
	}

	if v, ok := args["limit"]; ok {
		limit, err := coerceLimit(v)
		if err != nil {
			return spec, err
		}
		spec.Limit = limit
	}

	if v, ok := args["detail_level"]; ok {
		s, ok := v.(string)
		if !ok {
			return spec, &query.InvalidArgumentError{Field: "detail_level", Reason: fmt.Sprintf("must be a string, got %T", v)}
		}
		level := query.DetailLevel(s)
		if !level.Valid() {
			return spec, &query.InvalidArgumentError{Field: "detail_level", Reason: fmt.Sprintf("must be one of basic, detailed, full; got %q", s)}
		}
		spec.Detail = level
	}

	if err := rejectUnknownKeys(args); err != nil {
		return spec, err
	}

	return spec, nil
}

var declaredArguments = map[string]bool{
	"filter":       true,
	"limit":        true,
	"detail_level": true,
}

func rejectUnknownKeys(args map[string]any) error {
	keys := make([]string, 0, len(args))
	for k := range args {
		if !declaredArguments[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	return &query.InvalidArgumentError{Field: keys[0], Reason: "unknown argument"}
}

// coerceLimit accepts JSON numbers (when integral), Go ints, and
// numeric strings, per the boundary's coercion rules.
func coerceLimit(v any) (int, error) {
	var limit int
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, &query.InvalidArgumentError{Field: "limit", Reason: fmt.Sprintf("must be an integer, got %v", n)}
		}
		limit = int(n)
	case int:
		limit = n
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, &query.InvalidArgumentError{Field: "limit", Reason: fmt.Sprintf("must be an integer, got %q", n)}
		}
		limit = parsed
	default:
		return 0, &query.InvalidArgumentError{Field: "limit", Reason: fmt.Sprintf("must be an integer, got %T", v)}
	}

	if limit < 1 {
		return 0, &query.InvalidArgumentError{Field: "limit", Reason: "must be a positive integer"}
	}
	return limit, nil
}
