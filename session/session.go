package session

import "context"

// NodeClass classifies an address-space entry for traversal purposes.
// Only containers and variables matter to the bridge; every other OPC UA
// node class (methods, types, views) is deliberately ClassOther.
type NodeClass int

const (
	// ClassOther is any node class the bridge neither traverses nor collects
	ClassOther NodeClass = iota
	// ClassContainer is an object node that groups further entries
	ClassContainer
	// ClassVariable is a leaf node holding a typed value
	ClassVariable
)

// String returns the string representation of NodeClass
func (nc NodeClass) String() string {
	switch nc {
	case ClassContainer:
		return "container"
	case ClassVariable:
		return "variable"
	default:
		return "other"
	}
}

// Reference is one child entry returned by a browse call
type Reference struct {
	ID    string
	Class NodeClass
}

// BuiltInType is the OPC UA built-in data type identifier (numeric id in
// namespace 0 of the type's NodeId).
type BuiltInType uint32

// Built-in type identifiers handled by the type resolver
const (
	TypeBoolean       BuiltInType = 1
	TypeSByte         BuiltInType = 2
	TypeByte          BuiltInType = 3
	TypeInt16         BuiltInType = 4
	TypeUInt16        BuiltInType = 5
	TypeInt32         BuiltInType = 6
	TypeUInt32        BuiltInType = 7
	TypeInt64         BuiltInType = 8
	TypeUInt64        BuiltInType = 9
	TypeFloat         BuiltInType = 10
	TypeDouble        BuiltInType = 11
	TypeString        BuiltInType = 12
	TypeDateTime      BuiltInType = 13
	TypeLocalizedText BuiltInType = 21
)

// WriteStatus is the protocol-level outcome of a write operation
type WriteStatus struct {
	Code        uint32
	Description string
}

// Good reports whether the write succeeded. OPC UA encodes severity in the
// top two bits of the status code: 00 = good.
func (s WriteStatus) Good() bool {
	return s.Code&0xC0000000 == 0
}

// Session is the capability the bridge consumes from the OPC UA client.
// All methods are safe for concurrent use to the extent the underlying
// secure-channel implementation serializes request/response pairing.
type Session interface {
	// Browse returns the hierarchical children of a node
	Browse(ctx context.Context, nodeID string) ([]Reference, error)

	// BuiltInType returns the built-in data type of a variable node
	BuiltInType(ctx context.Context, nodeID string) (BuiltInType, error)

	// ReadValue reads the current value attribute of a variable node
	ReadValue(ctx context.Context, nodeID string) (any, error)

	// Write writes a typed value to a variable node's value attribute and
	// returns the protocol status outcome. The error return is reserved for
	// transport-level failures; rejections surface in WriteStatus.
	Write(ctx context.Context, nodeID string, dataType string, value any) (WriteStatus, error)

	// Connected reports whether the underlying connection is usable
	Connected() bool

	// Close closes the session and releases the underlying connection
	Close(ctx context.Context) error
}
