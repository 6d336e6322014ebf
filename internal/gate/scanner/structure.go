package scanner

import (
	"fmt"
	"reflect"
)

const (
	// MaxDepth is the deepest allowed nesting of child properties.
	MaxDepth = 10
	// hardDepthCap bounds the recursive walk itself; anything this deep has
	// already failed MaxDepth.
	hardDepthCap = 20
)

// StructureValidator enforces the shape limits of a payload: it must be an
// object, its serialized form must fit under MaxPayloadBytes and its
// properties must not nest deeper than MaxDepth.
type StructureValidator struct {
	maxBytes int
	maxDepth int
}

// NewStructureValidator returns a validator with the default limits.
func NewStructureValidator() *StructureValidator {
	return &StructureValidator{maxBytes: MaxPayloadBytes, maxDepth: MaxDepth}
}

// Scan validates the payload shape. The raw string is the serialized form
// already produced by Serialize; it is not re-serialized here.
func (s *StructureValidator) Scan(payload any, raw string) error {
	if !isObject(payload) {
		return &Violation{Kind: KindStructure, RuleID: "structure-object", Detail: "payload must be an object"}
	}
	if len(raw) > s.maxBytes {
		return &Violation{
			Kind:   KindStructure,
			RuleID: "structure-size",
			Detail: fmt.Sprintf("payload size %d exceeds limit %d", len(raw), s.maxBytes),
		}
	}
	if d := depthOf(reflect.ValueOf(payload), 0); d > s.maxDepth {
		return &Violation{
			Kind:   KindStructure,
			RuleID: "structure-depth",
			Detail: fmt.Sprintf("payload nesting depth %d exceeds limit %d", d, s.maxDepth),
		}
	}
	return nil
}

func isObject(payload any) bool {
	if payload == nil {
		return false
	}
	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	return v.Kind() == reflect.Map || v.Kind() == reflect.Struct
}

// depthOf walks child properties and reports the deepest nesting level.
// Containers count one level each; scalars count zero. The walk stops at
// hardDepthCap so pathological input cannot recurse unboundedly.
func depthOf(v reflect.Value, depth int) int {
	if depth >= hardDepthCap {
		return depth
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return depth
		}
		return depthOf(v.Elem(), depth)
	case reflect.Map:
		max := depth + 1
		for _, key := range v.MapKeys() {
			if d := depthOf(v.MapIndex(key), depth+1); d > max {
				max = d
			}
		}
		return max
	case reflect.Slice, reflect.Array:
		max := depth + 1
		for i := 0; i < v.Len(); i++ {
			if d := depthOf(v.Index(i), depth+1); d > max {
				max = d
			}
		}
		return max
	case reflect.Struct:
		max := depth + 1
		for i := 0; i < v.NumField(); i++ {
			if d := depthOf(v.Field(i), depth+1); d > max {
				max = d
			}
		}
		return max
	default:
		return depth
	}
}
