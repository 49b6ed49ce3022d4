package query

import (
	"fmt"
	"strings"
)

// DetailLevel selects how much of a resource record is returned.
type DetailLevel string

const (
	DetailBasic    DetailLevel = "basic"
	DetailDetailed DetailLevel = "detailed"
	DetailFull     DetailLevel = "full"
)

// Valid reports whether the detail level is one of the three tiers.
func (d DetailLevel) Valid() bool {
	switch d {
	case DetailBasic, DetailDetailed, DetailFull:
		return true
	}
	return false
}

// Defaults applied when a tool invocation omits the argument.
const (
	DefaultLimit  = 100
	DefaultDetail = DetailDetailed
)

// QuerySpec is one validated list request. Constructed per tool
// invocation and discarded after use.
type QuerySpec struct {
	Kind   Kind
	Filter string
	Limit  int
	Detail DetailLevel
}

// Validate checks the spec against the static kind table and the
// argument invariants. It returns an InvalidArgumentError naming the
// offending field.
func (s QuerySpec) Validate() error {
	if !s.Kind.Registered() {
		return &InvalidArgumentError{Field: "kind", Reason: fmt.Sprintf("unknown resource kind %q", s.Kind)}
	}
	if s.Limit < 1 {
		return &InvalidArgumentError{Field: "limit", Reason: "must be a positive integer"}
	}
	if !s.Detail.Valid() {
		return &InvalidArgumentError{Field: "detail_level", Reason: fmt.Sprintf("must be one of basic, detailed, full; got %q", s.Detail)}
	}
	return nil
}

// Record is one raw control-plane record, exactly as decoded from the
// upstream list response.
type Record = map[string]any

// Resource is one queried cloud object. Immutable once built; every
// query produces a fresh snapshot.
type Resource struct {
	ID     string
	Name   string
	Kind   Kind
	Status string
	Raw    Record
}

// Matches reports whether the resource is retained by the filter:
// a case-sensitive substring of the name, or an exact ID match.
func (r Resource) Matches(filter string) bool {
	return strings.Contains(r.Name, filter) || r.ID == filter
}

// newResource maps a raw record onto the canonical resource shape
// using the kind's field table. A record with no usable ID is
// rejected; everything else is tolerated.
func newResource(kind Kind, ks kindSpec, rec Record) (Resource, error) {
	id := stringField(rec, ks.idField)
	if id == "" {
		return Resource{}, &ProjectionError{Kind: kind, Reason: fmt.Sprintf("record has no %q field", ks.idField)}
	}
	return Resource{
		ID:     id,
		Name:   stringField(rec, ks.nameField),
		Kind:   kind,
		Status: stringField(rec, ks.statusField),
		Raw:    rec,
	}, nil
}

// stringField extracts a record field as a string. Non-string scalars
// (service IDs are integers on Nova, liveness is a boolean on
// Neutron agents) are formatted; nil and absent fields yield "".
func stringField(rec Record, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
