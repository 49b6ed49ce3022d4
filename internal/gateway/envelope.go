package gateway

import (
	"encoding/json"
	"errors"

	"osgate/internal/query"
)

// EnvelopeError is the structured error surfaced to the calling
// agent: the boundary error kind plus a human-readable message.
type EnvelopeError struct {
	Kind    string `json:"error_kind"`
	Message string `json:"message"`
}

// Envelope is the boundary response: a success payload (ordered
// projected resources) or a structured error. Never both.
type Envelope struct {
	Resources []query.Projection
	Err       *EnvelopeError
}

// IsError reports whether the envelope carries a failure.
func (e Envelope) IsError() bool {
	return e.Err != nil
}

// MarshalJSON renders either {"count", "resources"} or
// {"error_kind", "message"}, matching the boundary contract.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Err != nil {
		return json.Marshal(e.Err)
	}
	return json.Marshal(struct {
		Count     int                `json:"count"`
		Resources []query.Projection `json:"resources"`
	}{
		Count:     len(e.Resources),
		Resources: e.Resources,
	})
}

func successEnvelope(projections []query.Projection) Envelope {
	if projections == nil {
		projections = []query.Projection{}
	}
	return Envelope{Resources: projections}
}

// failureEnvelope translates an internal error into the boundary
// error taxonomy. This is the single place that mapping happens.
func failureEnvelope(err error) Envelope {
	kind := query.ErrKindUpstream

	var invalidArg *query.InvalidArgumentError
	var unknownTool *query.UnknownToolError
	var projection *query.ProjectionError
	switch {
	case errors.As(err, &invalidArg):
		kind = query.ErrKindInvalidArgument
	case errors.As(err, &unknownTool):
		kind = query.ErrKindUnknownTool
	case errors.As(err, &projection):
		kind = query.ErrKindProjection
	}

	return Envelope{Err: &EnvelopeError{Kind: kind, Message: err.Error()}}
}
