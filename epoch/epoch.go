package epoch

import (
	"context"
	"time"
)

// Epoch runs f on every interval tick and on every true sent to C.
// Sending false, calling Stop or cancelling the context ends the routine.
type Epoch struct {
	f        func()
	c        chan bool
	done     chan struct{}
	interval time.Duration
}

func NewEpoch(f func(), interval time.Duration) *Epoch {
	return &Epoch{
		f:        f,
		c:        make(chan bool),
		done:     make(chan struct{}),
		interval: interval,
	}
}

func (e *Epoch) C() chan<- bool {
	return e.c
}

func (e *Epoch) Done() <-chan struct{} {
	return e.done
}

func (e *Epoch) StartEpochRoutine(ctx context.Context) {
	defer close(e.done)

	var tick <-chan time.Time
	if e.interval > 0 {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case flg := <-e.c:
			if !flg {
				return
			}
			e.f()
		case <-tick:
			e.f()
		}
	}
}

// Trigger runs f once more unless the routine has ended.
func (e *Epoch) Trigger() {
	select {
	case e.c <- true:
	case <-e.done:
	}
}

func (e *Epoch) Stop() {
	select {
	case e.c <- false:
	case <-e.done:
	}
	<-e.done
}
