package model

import "encoding/json"

// PropType scopes a predicate to an event property, a user property, or a
// derived (computed) property.
type PropType string

const (
	PropEvent     PropType = "event"
	PropUser      PropType = "user"
	PropDerivedV2 PropType = "derivedV2"
)

// Op is a comparison operator understood by the funnel API.
type Op string

const (
	OpIs             Op = "is"
	OpIsNot          Op = "is not"
	OpGreater        Op = "greater"
	OpGreaterOrEqual Op = "greater_or_equal"
)

// Predicate is a single filter over one event or user property. Multiple
// predicates attached to the same funnel step combine with AND semantics;
// the funnel API has no OR composition across distinct properties.
type Predicate struct {
	// GroupType is set on user-scope and derived predicates only.
	GroupType string   `json:"group_type,omitempty" yaml:"group_type,omitempty"`
	Type      PropType `json:"subprop_type" yaml:"type" validate:"required,oneof=event user derivedV2"`
	Key       string   `json:"subprop_key" yaml:"key" validate:"required"`
	Op        Op       `json:"subprop_op" yaml:"op" validate:"required,oneof=is 'is not' greater greater_or_equal"`
	Values    []any    `json:"subprop_value" yaml:"values" validate:"required,min=1"`
}

// MarshalJSON adds an empty subfilters array to user-scope and derived
// predicates, which the funnel API expects. Event predicates carry no
// subfilters field.
func (p Predicate) MarshalJSON() ([]byte, error) {
	type plain Predicate
	if p.GroupType == "" {
		return json.Marshal(plain(p))
	}
	return json.Marshal(struct {
		plain
		Subfilters []any `json:"subfilters"`
	}{plain: plain(p), Subfilters: []any{}})
}
