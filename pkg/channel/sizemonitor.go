package channel

import (
	"sync"
	"time"

	"github.com/apigene/mcp-apps/pkg/protocol"
)

// defaultDebounce is the size monitor's stabilization interval. The exact
// interval is an implementation choice, not part of the contract.
const defaultDebounce = 100 * time.Millisecond

// Size is an observed content dimension pair.
type Size struct {
	Width  int
	Height int
}

// MonitorSize watches sizes for layout changes and emits a size-changed
// notification for each stabilized change: updates arriving within the
// debounce interval collapse into one notification carrying the latest
// dimensions, and repeats of the last reported size are suppressed.
//
// The returned stop handle ends observation and is idempotent.
func (a *Adapter) MonitorSize(sizes <-chan Size) (stop func()) {
	done := make(chan struct{})
	go a.monitorSize(sizes, done)

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

func (a *Adapter) monitorSize(sizes <-chan Size, done <-chan struct{}) {
	var (
		timer    *time.Timer
		timerC   <-chan time.Time
		latest   Size
		dirty    bool
		reported Size
		haveSent bool
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-done:
			stopTimer()
			return
		case sz, ok := <-sizes:
			if !ok {
				stopTimer()
				return
			}
			if haveSent && sz == reported && !dirty {
				continue
			}
			latest = sz
			dirty = true
			stopTimer()
			timer = time.NewTimer(a.debounce)
			timerC = timer.C
		case <-timerC:
			timer = nil
			timerC = nil
			if !dirty {
				continue
			}
			dirty = false
			if haveSent && latest == reported {
				continue
			}
			reported = latest
			haveSent = true
			a.SendNotification(protocol.MethodSizeChanged, protocol.SizeChangedParams{
				Width:  latest.Width,
				Height: latest.Height,
			})
		}
	}
}
