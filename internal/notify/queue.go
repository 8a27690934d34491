package notify

import (
	"context"
	"sync"
	"time"
)

const (
	// queueSize is the count of notifications that can be enqueued without blocking.
	queueSize = 64
)

type queued struct {
	ctx          context.Context
	notification Notification
}

// Queue paces notifications, each one is emitted an interval after the previous one
// so a burst of notifications is not shown all at once.
type Queue struct {
	notifier Notifier
	interval time.Duration
	itemCh   chan queued
	doneCh   chan struct{}
	pending  sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewQueue returns a Queue emitting to the given notifier and starts its worker routine.
//
// Close must be called to stop the worker.
func NewQueue(notifier Notifier, interval time.Duration) *Queue {
	q := &Queue{
		notifier: notifier,
		interval: interval,
		itemCh:   make(chan queued, queueSize),
		doneCh:   make(chan struct{}),
	}

	go q.run()

	return q
}

// Enqueue adds a notification to the queue, it returns false when the queue is closed.
func (q *Queue) Enqueue(ctx context.Context, n Notification) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	q.pending.Add(1)
	q.itemCh <- queued{ctx: ctx, notification: n}

	return true
}

// Flush blocks until the notifications enqueued so far are emitted.
func (q *Queue) Flush() {
	q.pending.Wait()
}

// Close emits the remaining notifications and stops the worker routine.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.doneCh

		return
	}

	q.closed = true
	close(q.itemCh)
	q.mu.Unlock()

	<-q.doneCh
}

func (q *Queue) run() {
	defer close(q.doneCh)

	var lastTS time.Time

	for item := range q.itemCh {
		if !lastTS.IsZero() {
			if wait := q.interval - time.Since(lastTS); wait > 0 {
				time.Sleep(wait)
			}
		}

		q.notifier.Notify(item.ctx, item.notification)
		lastTS = time.Now()

		q.pending.Done()
	}
}
