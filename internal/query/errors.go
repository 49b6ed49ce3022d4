package query

import "fmt"

// Boundary error kinds surfaced in failure envelopes. The dispatcher
// is the single place translating internal errors into these names.
const (
	ErrKindInvalidArgument = "InvalidArgumentError"
	ErrKindUnknownTool     = "UnknownToolError"
	ErrKindUpstream        = "UpstreamError"
	ErrKindProjection      = "ProjectionError"
)

// Upstream failure conditions carried by UpstreamError.
const (
	ConditionTimeout      = "timeout"
	ConditionAuthRejected = "auth_rejected"
	ConditionNotFound     = "not_found"
	ConditionNetwork      = "network"
)

// InvalidArgumentError reports a malformed or out-of-range tool
// argument. Field names the first offending argument in the schema's
// declaration order.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// UnknownToolError reports a tool name that is not in the registry.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// UpstreamError reports a failed control-plane call. It is never
// retried by the gateway.
type UpstreamError struct {
	Kind      Kind
	Condition string
	Cause     error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream %s query failed (%s): %v", e.Kind, e.Condition, e.Cause)
	}
	return fmt.Sprintf("upstream %s query failed (%s)", e.Kind, e.Condition)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ProjectionError reports a record too malformed to produce even the
// basic tier. It is surfaced per record; one bad record never fails
// the whole batch.
type ProjectionError struct {
	Kind   Kind
	Reason string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("cannot project %s record: %s", e.Kind, e.Reason)
}
