// Package broadcast provides a small type-safe in-process pub/sub hub used
// to fan domain events out to external subscribers (logging, billing
// notifications). Slow consumers never block publishers: messages are
// dropped when a subscriber's buffer is full.
package broadcast

import (
	"context"
	"slices"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster. Safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel delivering broadcast messages. The
	// channel is closed when the subscriber or broadcaster closes.
	Receive(ctx context.Context) <-chan Message[T]

	// Close stops delivery and releases resources. Idempotent.
	Close() error
}

// Broadcaster sends messages to all active subscribers.
type Broadcaster[T any] interface {
	// Subscribe registers a new subscriber. The subscription is cleaned up
	// when the context is cancelled or the subscriber is closed.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers msg to every active subscriber, dropping it for
	// those whose buffers are full.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close shuts down the broadcaster and all subscribers.
	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	mu     sync.Mutex
	closed bool
	drop   func(*subscriber[T])
}

func (s *subscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	s.mu.Unlock()
	if s.drop != nil {
		s.drop(s)
	}
	return nil
}

func (s *subscriber[T]) send(msg Message[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- msg:
	default:
		// Full buffer means a lagging consumer; dropping keeps publishers
		// non-blocking.
	}
}

type memoryBroadcaster[T any] struct {
	mu      sync.RWMutex
	subs    []*subscriber[T]
	bufSize int
	closed  bool
}

// NewBroadcaster returns an in-memory Broadcaster. bufSize is the per-
// subscriber channel capacity; values below 1 default to 16.
func NewBroadcaster[T any](bufSize int) Broadcaster[T] {
	if bufSize < 1 {
		bufSize = 16
	}
	return &memoryBroadcaster[T]{bufSize: bufSize}
}

func (b *memoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := &subscriber[T]{ch: make(chan Message[T], b.bufSize)}
	sub.drop = b.remove

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.drop = nil
		sub.Close()
		return sub
	}
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Close()
		}()
	}
	return sub
}

func (b *memoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.send(msg)
	}
	return nil
}

func (b *memoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.closed = true
	b.mu.Unlock()

	for _, sub := range subs {
		sub.drop = nil
		sub.Close()
	}
	return nil
}

func (b *memoryBroadcaster[T]) remove(target *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = slices.DeleteFunc(b.subs, func(s *subscriber[T]) bool { return s == target })
}
