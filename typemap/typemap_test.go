package typemap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/uabridge/session"
)

type fakeSession struct {
	types   map[string]session.BuiltInType
	typeErr map[string]error
	queries map[string]int
}

func newFakeSession(types map[string]session.BuiltInType) *fakeSession {
	return &fakeSession{
		types:   types,
		typeErr: make(map[string]error),
		queries: make(map[string]int),
	}
}

func (f *fakeSession) Browse(context.Context, string) ([]session.Reference, error) {
	return nil, nil
}

func (f *fakeSession) BuiltInType(_ context.Context, nodeID string) (session.BuiltInType, error) {
	f.queries[nodeID]++
	if err := f.typeErr[nodeID]; err != nil {
		return 0, err
	}
	return f.types[nodeID], nil
}

func (f *fakeSession) ReadValue(context.Context, string) (any, error) { return nil, nil }

func (f *fakeSession) Write(context.Context, string, string, any) (session.WriteStatus, error) {
	return session.WriteStatus{}, nil
}

func (f *fakeSession) Connected() bool { return true }

func (f *fakeSession) Close(context.Context) error { return nil }

func TestResolve_CoversEveryID(t *testing.T) {
	sess := newFakeSession(map[string]session.BuiltInType{
		"ns=1;i=1": session.TypeBoolean,
		"ns=1;i=2": session.TypeInt32,
		"ns=1;i=3": session.TypeString,
	})
	ids := []string{"ns=1;i=1", "ns=1;i=2", "ns=1;i=3"}

	idx, err := Resolve(context.Background(), sess, ids)
	require.NoError(t, err)
	require.Len(t, idx, len(ids))
	for _, id := range ids {
		assert.Contains(t, idx, id)
		assert.Equal(t, 1, sess.queries[id], "exactly one type query per id")
	}
	assert.Equal(t, "Boolean", idx["ns=1;i=1"].Name)
	assert.Equal(t, "Int32", idx["ns=1;i=2"].Name)
	assert.Equal(t, "String", idx["ns=1;i=3"].Name)
}

func TestResolve_QueryFailureAbortsPass(t *testing.T) {
	sess := newFakeSession(map[string]session.BuiltInType{
		"ns=1;i=1": session.TypeBoolean,
	})
	sess.typeErr["ns=1;i=2"] = errors.New("session timeout")

	idx, err := Resolve(context.Background(), sess, []string{"ns=1;i=1", "ns=1;i=2"})
	require.Error(t, err)
	assert.Nil(t, idx)
}

func TestDescriptorFor_CanonicalNames(t *testing.T) {
	tests := []struct {
		tag  session.BuiltInType
		name string
	}{
		{session.TypeBoolean, "Boolean"},
		{session.TypeSByte, "SByte"},
		{session.TypeByte, "Byte"},
		{session.TypeInt16, "Int16"},
		{session.TypeUInt16, "UInt16"},
		{session.TypeInt32, "Int32"},
		{session.TypeUInt32, "UInt32"},
		{session.TypeInt64, "Int64"},
		{session.TypeUInt64, "UInt64"},
		{session.TypeFloat, "Float"},
		{session.TypeDouble, "Double"},
		{session.TypeString, "String"},
		{session.TypeLocalizedText, "LocalizedText"},
		{session.TypeDateTime, "String"}, // unmapped tags fall back to text
		{session.BuiltInType(0), "String"},
		{session.BuiltInType(999), "String"},
	}

	for _, tt := range tests {
		d := DescriptorFor(tt.tag)
		assert.Equal(t, tt.name, d.Name, "tag %d", tt.tag)
		assert.NotNil(t, d.Coerce)
	}
}

func TestCoerce_Boolean(t *testing.T) {
	coerce := DescriptorFor(session.TypeBoolean).Coerce

	assert.Equal(t, true, coerce("true"))
	assert.Equal(t, false, coerce("false"))
	assert.Equal(t, true, coerce(true))
	assert.Equal(t, false, coerce(float64(0)))
	assert.Equal(t, true, coerce(float64(1)))
	assert.Equal(t, false, coerce(""))
	assert.Equal(t, true, coerce("on"), "non-empty unparseable strings are truthy")
	assert.Equal(t, false, coerce(nil))
}

func TestCoerce_Numeric(t *testing.T) {
	assert.Equal(t, int32(42), DescriptorFor(session.TypeInt32).Coerce("42"))
	assert.Equal(t, int32(42), DescriptorFor(session.TypeInt32).Coerce(float64(42)))
	assert.Equal(t, int16(-7), DescriptorFor(session.TypeInt16).Coerce("-7"))
	assert.Equal(t, uint8(200), DescriptorFor(session.TypeByte).Coerce(float64(200)))
	assert.Equal(t, uint32(7), DescriptorFor(session.TypeUInt32).Coerce("7"))
	assert.Equal(t, uint64(7), DescriptorFor(session.TypeUInt64).Coerce("7"))
	assert.Equal(t, float32(1.5), DescriptorFor(session.TypeFloat).Coerce("1.5"))
	assert.Equal(t, float64(1.5), DescriptorFor(session.TypeDouble).Coerce(1.5))
	assert.Equal(t, float64(1), DescriptorFor(session.TypeDouble).Coerce(true))
	assert.Equal(t, float64(0), DescriptorFor(session.TypeDouble).Coerce("not a number"),
		"best effort conversion, never an error")
}

func TestCoerce_Text(t *testing.T) {
	coerce := DescriptorFor(session.TypeString).Coerce

	assert.Equal(t, "7", coerce(float64(7)))
	assert.Equal(t, "hello", coerce("hello"))
	assert.Equal(t, "true", coerce(true))
	assert.Equal(t, "", coerce(nil))
	assert.Equal(t, "1.5", coerce(1.5))
}
