package channel

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/apigene/mcp-apps/pkg/protocol"
)

// DefaultRequestTimeout is how long a request waits for its correlated
// response before rejecting.
const DefaultRequestTimeout = 5 * time.Second

// Correlator matches outbound requests to inbound responses by id. Ids are
// assigned from a monotonic counter starting at 1 and never reused within a
// session; each side of the channel owns its own Correlator, so the two id
// spaces never collide.
//
// Exactly one of resolve, reject, or timeout fires per request. A late
// response arriving after the timeout already fired is dropped with a
// warning, never a double resolution.
type Correlator struct {
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan outcome
}

type outcome struct {
	result json.RawMessage
	err    *protocol.Error
}

// NewCorrelator creates a correlator with the given response timeout.
// Non-positive timeouts fall back to DefaultRequestTimeout.
func NewCorrelator(timeout time.Duration, logger *slog.Logger) *Correlator {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Correlator{
		timeout: timeout,
		logger:  logger,
		pending: make(map[int64]chan outcome),
	}
}

// Register assigns the next id and creates its pending entry.
func (c *Correlator) Register() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.pending[id] = make(chan outcome, 1)
	return id
}

// Await blocks until the response for id arrives, the timeout elapses, or
// ctx is cancelled. The pending entry is removed in every case, so a loser
// of the race is a no-op.
func (c *Correlator) Await(ctx context.Context, id int64) (json.RawMessage, error) {
	c.mu.Lock()
	ch, ok := c.pending[id]
	c.mu.Unlock()
	if !ok {
		return nil, ErrDuplicateID
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case out := <-ch:
		if out.err != nil {
			return nil, out.err
		}
		return out.result, nil
	case <-timer.C:
		c.drop(id)
		return nil, ErrRequestTimeout
	case <-ctx.Done():
		c.drop(id)
		return nil, ctx.Err()
	}
}

// Resolve completes the pending request matching msg's id. It reports
// whether a match existed; callers log and drop unmatched responses, which
// usually means the host replied twice or after the timeout fired.
func (c *Correlator) Resolve(msg protocol.Message) bool {
	if msg.ID == nil {
		return false
	}
	c.mu.Lock()
	ch, ok := c.pending[*msg.ID]
	if ok {
		delete(c.pending, *msg.ID)
	}
	c.mu.Unlock()
	if !ok {
		c.logger.Warn("response with no pending request, dropping", "id", *msg.ID)
		return false
	}
	ch <- outcome{result: msg.Result, err: msg.Error}
	return true
}

// Pending returns the number of outstanding requests.
func (c *Correlator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Correlator) drop(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
