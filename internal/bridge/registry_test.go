package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRegistry(t *testing.T) {
	reg := NewMapRegistry()
	var got []string
	reg.Register("b", HandlerFunc(func(body string) error {
		got = append(got, body)
		return nil
	}))
	reg.Register("a", &recorder{})

	assert.Equal(t, []string{"a", "b"}, reg.Names())

	require.NoError(t, reg.Deliver("b", "payload"))
	assert.Equal(t, []string{"payload"}, got)

	reg.Unregister("b")
	_, ok := reg.Lookup("b")
	assert.False(t, ok)

	err := reg.Deliver("b", "payload")
	assert.ErrorIs(t, err, ErrLookup)
	assert.EqualError(t, err, `bridge: no handler registered for "b"`)
	assert.Len(t, got, 1)
}
