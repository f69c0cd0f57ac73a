package engine

import (
	"testing"

	"flowline/internal/server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraphIndexesAdjacency(t *testing.T) {
	wf := workflow(
		[]model.Node{trigger("t"), action("a"), action("b")},
		[][2]string{{"t", "a"}, {"t", "b"}, {"a", "b"}},
	)
	g, err := buildGraph(wf)
	require.NoError(t, err)

	assert.Equal(t, "t", g.trigger.ID)
	assert.ElementsMatch(t, []string{"a", "b"}, g.outgoing["t"])
	assert.ElementsMatch(t, []string{"t", "a"}, g.incoming["b"])
}

func TestBuildGraphIgnoresDanglingEdges(t *testing.T) {
	wf := workflow(
		[]model.Node{trigger("t"), action("a")},
		[][2]string{{"t", "a"}, {"a", "ghost"}, {"ghost", "a"}},
	)
	g, err := buildGraph(wf)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, g.outgoing["t"])
	assert.Equal(t, []string{"t"}, g.incoming["a"])
}

func TestBuildGraphRejectsMissingTrigger(t *testing.T) {
	_, err := buildGraph(workflow([]model.Node{action("a")}, nil))
	assert.ErrorIs(t, err, ErrGraphInvalid)
}

func TestBuildGraphRejectsTwoTriggers(t *testing.T) {
	_, err := buildGraph(workflow([]model.Node{trigger("t1"), trigger("t2")}, nil))
	assert.ErrorIs(t, err, ErrGraphInvalid)
}

func TestValidateAcceptsDiamond(t *testing.T) {
	wf := workflow(
		[]model.Node{trigger("t"), action("a"), action("b"), action("d")},
		[][2]string{{"t", "a"}, {"t", "b"}, {"a", "d"}, {"b", "d"}},
	)
	assert.NoError(t, Validate(wf))
}

func TestValidateRejectsCycle(t *testing.T) {
	wf := workflow(
		[]model.Node{trigger("t"), action("a"), action("b")},
		[][2]string{{"t", "a"}, {"a", "b"}, {"b", "a"}},
	)
	err := Validate(wf)
	require.ErrorIs(t, err, ErrGraphInvalid)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	wf := workflow([]model.Node{trigger("t"), {ID: "a", Kind: "decision"}}, nil)
	assert.ErrorIs(t, Validate(wf), ErrGraphInvalid)
}

func TestValidateRejectsEdgeToUnknownNode(t *testing.T) {
	wf := workflow(
		[]model.Node{trigger("t"), action("a")},
		[][2]string{{"t", "ghost"}},
	)
	assert.ErrorIs(t, Validate(wf), ErrGraphInvalid)
}

func TestValidateRejectsDuplicateNodeIDs(t *testing.T) {
	wf := workflow([]model.Node{trigger("t"), action("a"), action("a")}, nil)
	assert.ErrorIs(t, Validate(wf), ErrGraphInvalid)
}

func TestValidateRejectsZeroTriggers(t *testing.T) {
	wf := workflow([]model.Node{action("a")}, nil)
	assert.ErrorIs(t, Validate(wf), ErrGraphInvalid)
}
