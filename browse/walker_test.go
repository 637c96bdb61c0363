package browse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/uabridge/session"
)

// fakeSession serves a fixed address-space snapshot from memory
type fakeSession struct {
	space     map[string][]session.Reference
	browseErr map[string]error
	browseCnt map[string]int
}

func newFakeSession(space map[string][]session.Reference) *fakeSession {
	return &fakeSession{
		space:     space,
		browseErr: make(map[string]error),
		browseCnt: make(map[string]int),
	}
}

func (f *fakeSession) Browse(_ context.Context, nodeID string) ([]session.Reference, error) {
	f.browseCnt[nodeID]++
	if err := f.browseErr[nodeID]; err != nil {
		return nil, err
	}
	return f.space[nodeID], nil
}

func (f *fakeSession) BuiltInType(context.Context, string) (session.BuiltInType, error) {
	return 0, nil
}

func (f *fakeSession) ReadValue(context.Context, string) (any, error) { return nil, nil }

func (f *fakeSession) Write(context.Context, string, string, any) (session.WriteStatus, error) {
	return session.WriteStatus{}, nil
}

func (f *fakeSession) Connected() bool { return true }

func (f *fakeSession) Close(context.Context) error { return nil }

func container(id string) session.Reference {
	return session.Reference{ID: id, Class: session.ClassContainer}
}

func variable(id string) session.Reference {
	return session.Reference{ID: id, Class: session.ClassVariable}
}

func TestDiscoverVariables_DepthFirstOrder(t *testing.T) {
	sess := newFakeSession(map[string][]session.Reference{
		"i=85": {
			container("ns=1;i=10"),
			variable("ns=1;i=1"),
		},
		"ns=1;i=10": {
			variable("ns=1;i=2"),
			variable("ns=1;i=3"),
		},
	})

	ids, err := DiscoverVariables(context.Background(), sess, "i=85")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns=1;i=2", "ns=1;i=3", "ns=1;i=1"}, ids)
}

func TestDiscoverVariables_Deterministic(t *testing.T) {
	space := map[string][]session.Reference{
		"i=85": {
			container("ns=1;i=10"),
			container("ns=1;i=20"),
		},
		"ns=1;i=10": {variable("ns=1;i=1"), variable("ns=1;i=2")},
		"ns=1;i=20": {variable("ns=1;i=3")},
	}

	first, err := DiscoverVariables(context.Background(), newFakeSession(space), "i=85")
	require.NoError(t, err)
	second, err := DiscoverVariables(context.Background(), newFakeSession(space), "i=85")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscoverVariables_DiamondDeduplicates(t *testing.T) {
	// The same variable and the same sub-container are reachable through two
	// distinct parent containers.
	sess := newFakeSession(map[string][]session.Reference{
		"i=85": {
			container("ns=1;i=10"),
			container("ns=1;i=20"),
		},
		"ns=1;i=10": {variable("ns=1;i=1"), container("ns=1;i=30")},
		"ns=1;i=20": {variable("ns=1;i=1"), container("ns=1;i=30")},
		"ns=1;i=30": {variable("ns=1;i=2")},
	})

	ids, err := DiscoverVariables(context.Background(), sess, "i=85")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns=1;i=1", "ns=1;i=2"}, ids)
}

func TestDiscoverVariables_SkipsOtherNodeClasses(t *testing.T) {
	sess := newFakeSession(map[string][]session.Reference{
		"i=85": {
			{ID: "ns=1;i=99", Class: session.ClassOther},
			variable("ns=1;i=1"),
		},
		// children of the skipped node must never be browsed
		"ns=1;i=99": {variable("ns=1;i=666")},
	})

	ids, err := DiscoverVariables(context.Background(), sess, "i=85")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns=1;i=1"}, ids)
	assert.Zero(t, sess.browseCnt["ns=1;i=99"])
}

func TestDiscoverVariables_CyclicContainersTerminate(t *testing.T) {
	// A lists B, B lists A. The visited set must break the cycle.
	sess := newFakeSession(map[string][]session.Reference{
		"i=85":      {container("ns=1;i=10")},
		"ns=1;i=10": {container("ns=1;i=20"), variable("ns=1;i=1")},
		"ns=1;i=20": {container("ns=1;i=10"), variable("ns=1;i=2")},
	})

	ids, err := DiscoverVariables(context.Background(), sess, "i=85")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns=1;i=2", "ns=1;i=1"}, ids)
	assert.Equal(t, 1, sess.browseCnt["ns=1;i=10"])
	assert.Equal(t, 1, sess.browseCnt["ns=1;i=20"])
}

func TestDiscoverVariables_BrowseFailureAbortsPass(t *testing.T) {
	sess := newFakeSession(map[string][]session.Reference{
		"i=85": {
			variable("ns=1;i=1"),
			container("ns=1;i=10"),
		},
	})
	sess.browseErr["ns=1;i=10"] = errors.New("session timeout")

	ids, err := DiscoverVariables(context.Background(), sess, "i=85")
	require.Error(t, err)
	assert.Nil(t, ids, "partial results must not be returned")
	assert.Contains(t, err.Error(), "ns=1;i=10")
}

func TestDiscoverVariables_EmptySpace(t *testing.T) {
	ids, err := DiscoverVariables(context.Background(), newFakeSession(nil), "i=85")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}
