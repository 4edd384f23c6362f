package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invokeCall struct {
	caller Descriptor
	target string
	opts   PostOptions
}

type fakeInvoker struct {
	calls []invokeCall
}

func (f *fakeInvoker) InvokeRemote(caller Descriptor, target string, opts PostOptions) error {
	f.calls = append(f.calls, invokeCall{caller, target, opts})
	return nil
}

func TestViewInvokePayload(t *testing.T) {
	client, recs := newTestClient(t, "http://127.0.0.1/index.html", HandlerInvoke)
	view := NewView(client)

	require.NoError(t, view.Invoke("select", "row", 3))

	require.Len(t, recs[HandlerInvoke].bodies, 1)
	assert.JSONEq(t,
		`{"href":"http://127.0.0.1/index.html","args":["view",{},"select",["row",3],{}],"kwargs":{}}`,
		recs[HandlerInvoke].bodies[0],
	)
}

func TestViewInvokeWithoutArgs(t *testing.T) {
	client, recs := newTestClient(t, "http://127.0.0.1/", HandlerInvoke)

	require.NoError(t, NewView(client).Invoke("refresh"))
	assert.JSONEq(t,
		`{"href":"http://127.0.0.1/","args":["view",{},"refresh",[],{}],"kwargs":{}}`,
		recs[HandlerInvoke].bodies[0],
	)
}

func TestViewsShareClient(t *testing.T) {
	inv := &fakeInvoker{}
	first := NewView(inv)
	second := NewView(inv)

	require.NoError(t, first.Invoke("a"))
	require.NoError(t, second.Invoke("b", 1))

	require.Len(t, inv.calls, 2)
	assert.Same(t, first, inv.calls[0].caller)
	assert.Same(t, second, inv.calls[1].caller)
	assert.Equal(t, "a", inv.calls[0].target)
	assert.Equal(t, []any{1}, inv.calls[1].opts.Args)
	assert.Nil(t, inv.calls[1].opts.Kwargs)
	assert.NotSame(t, first, second)
}

func TestViewInvokeUnknownHandler(t *testing.T) {
	client, _ := newTestClient(t, "http://127.0.0.1/")

	assert.ErrorIs(t, NewView(client).Invoke("refresh"), ErrLookup)
}
