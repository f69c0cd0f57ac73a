package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelName(t *testing.T) {
	assert.Equal(t, "workflow:wf-42", Channel("wf-42"))
}

func TestNodeEventJSON(t *testing.T) {
	raw, err := json.Marshal(NodeEvent(TypeError, "node-7", "boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ERROR","message":"boom","nodeId":"node-7"}`, string(raw))
}

func TestCompletedEventJSONHasNullFields(t *testing.T) {
	raw, err := json.Marshal(CompletedEvent())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"COMPLETED","message":null,"nodeId":null}`, string(raw))
}

func TestMemoryPublisherOrderAndIsolation(t *testing.T) {
	p := NewMemoryPublisher()
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, "wf-a", NodeEvent(TypeTriggerExecuted, "t", "triggered")))
	require.NoError(t, p.Publish(ctx, "wf-a", NodeEvent(TypeNodeExecuted, "a", "done")))
	require.NoError(t, p.Publish(ctx, "wf-b", CompletedEvent()))

	a := p.Events("wf-a")
	require.Len(t, a, 2)
	assert.Equal(t, TypeTriggerExecuted, a[0].Type)
	assert.Equal(t, TypeNodeExecuted, a[1].Type)

	b := p.Events("wf-b")
	require.Len(t, b, 1)
	assert.Equal(t, TypeCompleted, b[0].Type)

	assert.Empty(t, p.Events("wf-c"))
}
