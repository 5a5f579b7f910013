package bot

import "sync"

// lane is an unbounded FIFO of one conversation's events, drained by a
// single goroutine. push never blocks.
type lane struct {
	mu     sync.Mutex
	queue  []Event
	closed bool
	ready  chan struct{}
}

func newLane() *lane {
	return &lane{ready: make(chan struct{}, 1)}
}

func (l *lane) push(ev Event) {
	l.mu.Lock()
	l.queue = append(l.queue, ev)
	l.mu.Unlock()
	l.wake()
}

// close lets the drain loop exit once the queue is empty.
func (l *lane) close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.wake()
}

func (l *lane) wake() {
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// drain hands queued events to handle in order until the lane is closed
// and empty.
func (l *lane) drain(handle func(Event)) {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			closed := l.closed
			l.mu.Unlock()
			if closed {
				return
			}
			<-l.ready
			continue
		}
		ev := l.queue[0]
		l.queue[0] = Event{}
		l.queue = l.queue[1:]
		l.mu.Unlock()
		handle(ev)
	}
}

// pending reports the number of queued events.
func (l *lane) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}
