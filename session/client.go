package session

import (
	"context"
	"fmt"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"

	"github.com/c360/uabridge/errors"
	"github.com/c360/uabridge/pkg/retry"
)

// Client implements Session over a gopcua client connection.
// A single Client is shared by all request handlers; the secure channel
// serializes protocol exchanges, so no additional locking is applied here.
type Client struct {
	endpoint string
	opc      *opcua.Client
}

// Connect dials the endpoint and establishes an OPC UA session. The attempt
// limit is the single retry knob of the bridge; steady-state operations are
// never retried.
func Connect(ctx context.Context, endpoint string, attempts int) (*Client, error) {
	opts := []opcua.Option{
		opcua.SecurityPolicy(ua.SecurityPolicyURINone),
		opcua.SecurityMode(ua.MessageSecurityModeNone),
	}

	opc, err := opcua.NewClient(endpoint, opts...)
	if err != nil {
		return nil, errors.WrapFatal(err, "Session", "Connect", "create client for "+endpoint)
	}

	// Quick schedule: short delays so a bridge booting beside its server
	// connects as soon as the server accepts sessions.
	cfg := retry.Quick()
	if attempts > 0 {
		cfg.MaxAttempts = attempts
	}
	if err := retry.Do(ctx, cfg, func() error {
		return opc.Connect(ctx)
	}); err != nil {
		return nil, errors.WrapFatal(fmt.Errorf("%w: %v", errors.ErrConnectionFailed, err),
			"Session", "Connect", "dial "+endpoint)
	}

	return &Client{endpoint: endpoint, opc: opc}, nil
}

// Connected reports whether the secure channel is established
func (c *Client) Connected() bool {
	return c.opc.State() == opcua.Connected
}

// Browse returns the hierarchical children of nodeID with their node classes.
// One service call per node; the reference descriptions already carry the
// node class, so no per-child attribute reads are needed.
func (c *Client) Browse(ctx context.Context, nodeID string) ([]Reference, error) {
	nid, err := ua.ParseNodeID(nodeID)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Session", "Browse", "parse node id "+nodeID)
	}

	req := &ua.BrowseRequest{
		View: &ua.ViewDescription{
			ViewID: ua.NewTwoByteNodeID(0),
		},
		NodesToBrowse: []*ua.BrowseDescription{{
			NodeID:          nid,
			BrowseDirection: ua.BrowseDirectionForward,
			ReferenceTypeID: ua.NewNumericNodeID(0, refTypeHierarchical),
			IncludeSubtypes: true,
			NodeClassMask:   uint32(ua.NodeClassAll),
			ResultMask:      uint32(ua.BrowseResultMaskAll),
		}},
	}

	resp, err := c.opc.Browse(ctx, req)
	if err != nil {
		return nil, errors.WrapTransient(err, "Session", "Browse", "browse "+nodeID)
	}
	if len(resp.Results) == 0 {
		return nil, errors.WrapTransient(fmt.Errorf("empty browse response"),
			"Session", "Browse", "browse "+nodeID)
	}
	if resp.Results[0].StatusCode != ua.StatusOK {
		return nil, errors.WrapTransient(resp.Results[0].StatusCode,
			"Session", "Browse", "browse "+nodeID)
	}

	refs := make([]Reference, 0, len(resp.Results[0].References))
	for _, rd := range resp.Results[0].References {
		refs = append(refs, Reference{
			ID:    rd.NodeID.NodeID.String(),
			Class: classOf(rd.NodeClass),
		})
	}
	return refs, nil
}

// BuiltInType reads the DataType attribute of a variable node and extracts
// the built-in type identifier from the data type NodeId. Subtyped or
// namespaced data types resolve to 0, which the type resolver maps to the
// text-like fallback.
func (c *Client) BuiltInType(ctx context.Context, nodeID string) (BuiltInType, error) {
	nid, err := ua.ParseNodeID(nodeID)
	if err != nil {
		return 0, errors.WrapInvalid(err, "Session", "BuiltInType", "parse node id "+nodeID)
	}

	req := &ua.ReadRequest{
		NodesToRead: []*ua.ReadValueID{{
			NodeID:      nid,
			AttributeID: ua.AttributeIDDataType,
		}},
	}

	resp, err := c.opc.Read(ctx, req)
	if err != nil {
		return 0, errors.WrapTransient(err, "Session", "BuiltInType", "read data type of "+nodeID)
	}
	if len(resp.Results) == 0 || resp.Results[0].Status != ua.StatusOK {
		return 0, errors.WrapTransient(fmt.Errorf("bad read status"),
			"Session", "BuiltInType", "read data type of "+nodeID)
	}

	return builtInTypeOf(resp.Results[0].Value), nil
}

// builtInTypeOf extracts the built-in type identifier from a DataType
// attribute variant. Servers may report StatusOK with an absent variant;
// that and any non-ns0 type id resolve to 0.
func builtInTypeOf(v *ua.Variant) BuiltInType {
	if v == nil {
		return 0
	}
	typeID := v.NodeID()
	if typeID == nil || typeID.Namespace() != 0 {
		return 0
	}
	return BuiltInType(typeID.IntID())
}

// ReadValue reads the current value attribute of a variable node
func (c *Client) ReadValue(ctx context.Context, nodeID string) (any, error) {
	nid, err := ua.ParseNodeID(nodeID)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Session", "ReadValue", "parse node id "+nodeID)
	}

	req := &ua.ReadRequest{
		NodesToRead: []*ua.ReadValueID{{
			NodeID:      nid,
			AttributeID: ua.AttributeIDValue,
		}},
		TimestampsToReturn: ua.TimestampsToReturnNeither,
	}

	resp, err := c.opc.Read(ctx, req)
	if err != nil {
		return nil, errors.WrapTransient(err, "Session", "ReadValue", "read "+nodeID)
	}
	if len(resp.Results) == 0 {
		return nil, errors.WrapTransient(fmt.Errorf("empty read response"),
			"Session", "ReadValue", "read "+nodeID)
	}
	dv := resp.Results[0]
	if dv.Status != ua.StatusOK {
		return nil, errors.WrapTransient(dv.Status, "Session", "ReadValue", "read "+nodeID)
	}
	if dv.Value == nil {
		return nil, nil
	}
	return dv.Value.Value(), nil
}

// Write writes value to the value attribute of a variable node. The value is
// expected to already carry the precise Go type produced by the coercion for
// dataType; the variant encoding follows from the concrete type.
func (c *Client) Write(ctx context.Context, nodeID string, dataType string, value any) (WriteStatus, error) {
	nid, err := ua.ParseNodeID(nodeID)
	if err != nil {
		return WriteStatus{}, errors.WrapInvalid(err, "Session", "Write", "parse node id "+nodeID)
	}

	variant, err := ua.NewVariant(value)
	if err != nil {
		return WriteStatus{}, errors.WrapInvalid(err, "Session", "Write",
			fmt.Sprintf("encode %s value for %s", dataType, nodeID))
	}

	req := &ua.WriteRequest{
		NodesToWrite: []*ua.WriteValue{{
			NodeID:      nid,
			AttributeID: ua.AttributeIDValue,
			Value: &ua.DataValue{
				EncodingMask: ua.DataValueValue,
				Value:        variant,
			},
		}},
	}

	resp, err := c.opc.Write(ctx, req)
	if err != nil {
		return WriteStatus{}, errors.WrapTransient(err, "Session", "Write", "write "+nodeID)
	}
	if len(resp.Results) == 0 {
		return WriteStatus{}, errors.WrapTransient(fmt.Errorf("empty write response"),
			"Session", "Write", "write "+nodeID)
	}

	code := resp.Results[0]
	return WriteStatus{
		Code:        uint32(code),
		Description: code.Error(),
	}, nil
}

// Close closes the session and the underlying secure channel
func (c *Client) Close(ctx context.Context) error {
	if err := c.opc.Close(ctx); err != nil {
		return errors.Wrap(err, "Session", "Close", "close "+c.endpoint)
	}
	return nil
}

// HierarchicalReferences reference type id (OPC UA part 3)
const refTypeHierarchical = 33

// classOf maps the protocol node class to the bridge's traversal classification
func classOf(nc ua.NodeClass) NodeClass {
	switch nc {
	case ua.NodeClassObject:
		return ClassContainer
	case ua.NodeClassVariable:
		return ClassVariable
	default:
		return ClassOther
	}
}
