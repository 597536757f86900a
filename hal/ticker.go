package hal

import (
	"sync"
	"sync/atomic"
	"time"
)

// tickSource is the host stand-in for the hardware timer interrupt. While
// armed, a goroutine invokes the handler once per period.
type tickSource struct {
	period time.Duration
	now    func() time.Time

	mu    sync.Mutex
	fn    func()
	armed bool
	stop  chan struct{}
	done  chan struct{}
	last  time.Time

	pending  atomic.Bool
	fired    atomic.Uint64
	overruns atomic.Uint64
}

func newTickSource(period time.Duration, now func() time.Time) *tickSource {
	if now == nil {
		now = time.Now
	}
	return &tickSource{period: period, now: now}
}

func (t *tickSource) Handle(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fn = fn
}

func (t *tickSource) Arm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.armed {
		return
	}
	t.armed = true
	t.last = t.now()
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stop, t.done)
}

// Disarm stops the ticker goroutine and waits for an in-flight callback to
// return.
func (t *tickSource) Disarm() {
	t.mu.Lock()
	if !t.armed {
		t.mu.Unlock()
		return
	}
	t.armed = false
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	close(stop)
	<-done
}

func (t *tickSource) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

func (t *tickSource) Ack() { t.pending.Store(false) }

func (t *tickSource) Overruns() uint64 { return t.overruns.Load() }

// fires reports how many times the handler was invoked.
func (t *tickSource) fires() uint64 { return t.fired.Load() }

func (t *tickSource) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	tk := time.NewTicker(t.period)
	defer tk.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tk.C:
			t.fire(t.now())
		}
	}
}

// fire delivers one tick observed at now.
func (t *tickSource) fire(now time.Time) {
	t.mu.Lock()
	fn := t.fn
	if d := now.Sub(t.last); !t.last.IsZero() && t.period > 0 && d > 0 {
		// time.Ticker drops ticks for slow receivers; count them.
		n := d / t.period
		if n > 1 {
			t.overruns.Add(uint64(n - 1))
		}
		t.last = t.last.Add(n * t.period)
	}
	t.mu.Unlock()

	if t.pending.Swap(true) {
		t.overruns.Add(1)
	}
	t.fired.Add(1)
	if fn != nil {
		fn()
	}
}
