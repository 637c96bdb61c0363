// Package typemap implements the type-resolution pass: it maps each
// discovered variable's built-in data type to a canonical type name and a
// write-coercion rule.
package typemap

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/c360/uabridge/errors"
	"github.com/c360/uabridge/session"
)

// Descriptor is the resolved type of one variable: a canonical type name and
// the coercion applied to inbound write values. Coerce is best-effort
// conversion, not validation; it never fails for well-formed primitive input.
type Descriptor struct {
	Name   string
	Coerce func(raw any) any
}

// Index maps variable node id to its resolved descriptor. Built once after
// discovery, immutable afterwards.
type Index map[string]Descriptor

// Resolve queries the built-in data type of every id and builds the type
// index, one descriptor per id. Any type query failure aborts the whole pass
// (same all-or-nothing policy as discovery).
func Resolve(ctx context.Context, sess session.Session, ids []string) (Index, error) {
	idx := make(Index, len(ids))
	for _, id := range ids {
		t, err := sess.BuiltInType(ctx, id)
		if err != nil {
			return nil, errors.WrapFatal(err, "Resolver", "Resolve", "type query for "+id)
		}
		idx[id] = DescriptorFor(t)
	}
	return idx, nil
}

// DescriptorFor maps a built-in type tag to its descriptor. The mapping is
// total: every tag gets exactly one arm, and any tag outside the handled set
// falls back to the text-like descriptor.
func DescriptorFor(t session.BuiltInType) Descriptor {
	switch t {
	case session.TypeBoolean:
		return Descriptor{Name: "Boolean", Coerce: func(raw any) any { return toBool(raw) }}
	case session.TypeSByte:
		return Descriptor{Name: "SByte", Coerce: func(raw any) any { return int8(toFloat(raw)) }}
	case session.TypeByte:
		return Descriptor{Name: "Byte", Coerce: func(raw any) any { return uint8(toFloat(raw)) }}
	case session.TypeInt16:
		return Descriptor{Name: "Int16", Coerce: func(raw any) any { return int16(toFloat(raw)) }}
	case session.TypeUInt16:
		return Descriptor{Name: "UInt16", Coerce: func(raw any) any { return uint16(toFloat(raw)) }}
	case session.TypeInt32:
		return Descriptor{Name: "Int32", Coerce: func(raw any) any { return int32(toFloat(raw)) }}
	case session.TypeUInt32:
		return Descriptor{Name: "UInt32", Coerce: func(raw any) any { return uint32(toFloat(raw)) }}
	case session.TypeInt64:
		return Descriptor{Name: "Int64", Coerce: func(raw any) any { return int64(toFloat(raw)) }}
	case session.TypeUInt64:
		return Descriptor{Name: "UInt64", Coerce: func(raw any) any { return uint64(toFloat(raw)) }}
	case session.TypeFloat:
		return Descriptor{Name: "Float", Coerce: func(raw any) any { return float32(toFloat(raw)) }}
	case session.TypeDouble:
		return Descriptor{Name: "Double", Coerce: func(raw any) any { return toFloat(raw) }}
	case session.TypeString:
		return Descriptor{Name: "String", Coerce: func(raw any) any { return toString(raw) }}
	case session.TypeLocalizedText:
		return Descriptor{Name: "LocalizedText", Coerce: func(raw any) any { return toString(raw) }}
	default:
		// DateTime, GUID, namespaced and subtyped data types: serve them as
		// text rather than failing resolution.
		return Descriptor{Name: "String", Coerce: func(raw any) any { return toString(raw) }}
	}
}

// toBool converts an arbitrary inbound value to a boolean, truthy/falsy style
func toBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case nil:
		return false
	default:
		return true
	}
}

// toFloat converts an arbitrary inbound value to a float64; unparseable
// input coerces to 0 rather than failing.
func toFloat(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return 0
	case nil:
		return 0
	default:
		return 0
	}
}

// toString converts an arbitrary inbound value to its string form
func toString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
