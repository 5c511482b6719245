package channel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apigene/mcp-apps/pkg/protocol"
)

func response(id int64, result string) protocol.Message {
	return protocol.Message{JSONRPC: protocol.Version, ID: &id, Result: []byte(result)}
}

func TestCorrelatorResolve(t *testing.T) {
	c := NewCorrelator(time.Second, nil)

	id := c.Register()
	assert.Equal(t, int64(1), id)

	go func() {
		c.Resolve(response(id, `{"ok":true}`))
	}()

	result, err := c.Await(context.Background(), id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(result))
	assert.Zero(t, c.Pending())
}

func TestCorrelatorUnmatchedResponse(t *testing.T) {
	c := NewCorrelator(time.Second, nil)

	assert.False(t, c.Resolve(response(42, `{}`)), "unmatched responses are dropped, not fatal")
	assert.False(t, c.Resolve(protocol.Message{JSONRPC: protocol.Version}), "responses without ids are ignored")
}

func TestCorrelatorTimeoutRemovesPending(t *testing.T) {
	c := NewCorrelator(20*time.Millisecond, nil)

	id := c.Register()
	_, err := c.Await(context.Background(), id)
	require.ErrorIs(t, err, ErrRequestTimeout)
	assert.Zero(t, c.Pending())

	// The loser of the race is a no-op.
	assert.False(t, c.Resolve(response(id, `{}`)))
}

func TestCorrelatorContextCancellation(t *testing.T) {
	c := NewCorrelator(time.Minute, nil)

	id := c.Register()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Await(ctx, id)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Pending())
}

func TestCorrelatorErrorResponse(t *testing.T) {
	c := NewCorrelator(time.Second, nil)

	id := c.Register()
	go func() {
		respID := id
		c.Resolve(protocol.Message{
			JSONRPC: protocol.Version,
			ID:      &respID,
			Error:   &protocol.Error{Code: -32601, Message: "method not found"},
		})
	}()

	_, err := c.Await(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

func TestCorrelatorIDsNeverReused(t *testing.T) {
	c := NewCorrelator(time.Millisecond, nil)

	seen := map[int64]bool{}
	for range 100 {
		id := c.Register()
		require.False(t, seen[id], "id %d reused", id)
		seen[id] = true
		c.drop(id)
	}
}
