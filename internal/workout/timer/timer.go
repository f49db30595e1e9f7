// Package timer implements the rest countdown between sets. One timer
// instance serves the whole engine: starting it while a countdown runs
// replaces the countdown, it never stacks.
package timer

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateExpired State = "expired"
)

func (s State) String() string {
	return string(s)
}

// NotifyFunc receives a tick with the seconds remaining and the timer state
// at that moment. The expiry notification arrives with remaining 0 and
// StateExpired.
type NotifyFunc func(remaining int, state State)

// RestTimer is a restartable one-shot countdown. All exported methods are
// safe for concurrent use.
type RestTimer struct {
	mutex     sync.Mutex
	state     State
	remaining int
	stopCh    chan struct{}
	interval  time.Duration
	notify    []NotifyFunc
}

func New() *RestTimer {
	return NewWithInterval(time.Second)
}

// NewWithInterval exists for tests; production code uses New with a one
// second tick.
func NewWithInterval(interval time.Duration) *RestTimer {
	return &RestTimer{
		state:    StateIdle,
		interval: interval,
	}
}

// Subscribe registers a tick listener. Listeners are invoked in registration
// order, synchronously on the timer goroutine.
func (t *RestTimer) Subscribe(fn NotifyFunc) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.notify = append(t.notify, fn)
}

// Start begins a countdown of the given duration. Any running or expired
// countdown is discarded first, so a new set always gets a fresh timer.
// Zero or negative durations are ignored.
func (t *RestTimer) Start(seconds int) {
	if seconds <= 0 {
		log.Warnf("rest timer start skipped, invalid duration %d", seconds)
		return
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.stopLocked()

	t.state = StateRunning
	t.remaining = seconds
	t.stopCh = make(chan struct{})

	log.Tracef("rest timer started: %ds", seconds)
	go t.run(t.stopCh)
}

// Stop aborts the countdown and resets to idle. Calling it with no countdown
// running is a no-op.
func (t *RestTimer) Stop() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.stopLocked()
}

func (t *RestTimer) stopLocked() {
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
	t.state = StateIdle
	t.remaining = 0
}

func (t *RestTimer) State() State {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.state
}

func (t *RestTimer) Remaining() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.remaining
}

func (t *RestTimer) run(stopCh chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !t.tick(stopCh) {
				return
			}
		}
	}
}

// tick decrements the countdown by one second and notifies listeners.
// Returns false when the countdown is over and the goroutine should exit.
func (t *RestTimer) tick(stopCh chan struct{}) bool {
	t.mutex.Lock()

	// a restart swapped the channel out under us, this tick is stale
	if t.stopCh != stopCh || t.state != StateRunning {
		t.mutex.Unlock()
		return false
	}

	t.remaining--
	remaining := t.remaining

	var state State
	if remaining <= 0 {
		remaining = 0
		t.remaining = 0
		t.state = StateExpired
		state = StateExpired
	} else {
		state = StateRunning
	}
	listeners := t.notify

	t.mutex.Unlock()

	for _, fn := range listeners {
		fn(remaining, state)
	}

	if state == StateExpired {
		t.expire(stopCh)
		return false
	}
	return true
}

// expire resets the timer back to idle after the expiry notification went
// out, unless a restart already claimed it.
func (t *RestTimer) expire(stopCh chan struct{}) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.stopCh != stopCh {
		return
	}
	t.stopCh = nil
	t.state = StateIdle
	t.remaining = 0
	log.Tracef("rest timer expired")
}
