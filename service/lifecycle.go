package service

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be stopped
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests swap in a manual clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is the wall clock
var RealClock Clock = realClock{}

// Lifecycle owns every timer, ticker and background goroutine of the app
// so that teardown cancels all of them in one place.
type Lifecycle struct {
	clock Clock

	mu     sync.Mutex
	closed bool
	nextID uint64
	timers map[uint64]Timer
	wg     sync.WaitGroup
}

// NewLifecycle creates a lifecycle manager on the given clock
func NewLifecycle(clock Clock) *Lifecycle {
	if clock == nil {
		clock = RealClock
	}
	return &Lifecycle{
		clock:  clock,
		timers: make(map[uint64]Timer),
	}
}

// AfterFunc runs f once after d unless cancelled first.
// After cancel returns, f will not start.
func (l *Lifecycle) AfterFunc(d time.Duration, f func()) (cancel func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return func() {}
	}

	id := l.nextID
	l.nextID++
	l.timers[id] = l.clock.AfterFunc(d, func() {
		if !l.claim(id) {
			return
		}
		defer l.wg.Done()
		f()
	})

	return func() { l.cancel(id) }
}

// Every runs f every d until cancelled or the lifecycle closes
func (l *Lifecycle) Every(d time.Duration, f func()) (cancel func()) {
	var (
		mu      sync.Mutex
		stopped bool
		current func()
	)

	var schedule func()
	schedule = func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		current = l.AfterFunc(d, func() {
			f()
			schedule()
		})
	}
	schedule()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if current != nil {
			current()
		}
	}
}

// Go runs f in a tracked goroutine. It is dropped once the lifecycle is closed.
func (l *Lifecycle) Go(f func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		f()
	}()
}

// Wait blocks until every running callback and goroutine has returned
func (l *Lifecycle) Wait() {
	l.wg.Wait()
}

// Close stops all timers, refuses new work and waits for running work
func (l *Lifecycle) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.wg.Wait()
		return
	}
	l.closed = true
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
	l.mu.Unlock()

	l.wg.Wait()
}

// Pending reports how many timers are scheduled
func (l *Lifecycle) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// claim removes a fired timer and registers its callback as running
func (l *Lifecycle) claim(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.timers[id]; !ok || l.closed {
		return false
	}
	delete(l.timers, id)
	l.wg.Add(1)
	return true
}

func (l *Lifecycle) cancel(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.timers[id]; ok {
		t.Stop()
		delete(l.timers, id)
	}
}
