// Package eventbus provides a small topic-based event bus.  The analysis
// engine stays free of logging; when observability is wanted, callers inject
// a bus and the engine publishes structured events on it instead.
package eventbus

import (
	"context"
	"fmt"
	"sync"
)

// EventType identifies what an event describes so subscribers can filter
// without creating one topic per event kind.
type EventType string

// Event is delivered to every subscriber of the topics it is published on.
type Event struct {
	Type EventType
	Data interface{}
}

// Topic groups subscribers that should receive the same events.
type Topic string

const defaultTopic Topic = "__default__"

// Bus dispatches events to subscribers.  Subscribers without an explicit
// topic join the default topic, which also receives every event published
// on any other topic.
type Bus struct {
	subscribers map[Topic][]chan Event
	done        []chan struct{}
	mu          sync.RWMutex
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[Topic][]chan Event),
	}
}

// Subscribe registers a subscriber on zero or more topics.  The first
// returned channel delivers events and is closed on shutdown; the
// subscriber should treat the close as a stop signal, finish its work, and
// then close the second (done) channel.
func (b *Bus) Subscribe(topics ...Topic) (chan Event, chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := make(chan Event, 1)
	done := make(chan struct{})
	b.done = append(b.done, done)

	if len(topics) == 0 {
		topics = []Topic{defaultTopic}
	}
	for _, topic := range topics {
		b.subscribers[topic] = append(b.subscribers[topic], c)
	}
	return c, done
}

// Publish sends the event to the named topics.  Every event is also
// broadcast to default-topic subscribers.  Topics without subscribers drop
// the event silently so publishers never block on missing consumers.
func (b *Bus) Publish(event Event, topics ...Topic) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	topics = append(topics, defaultTopic)
	sent := map[chan Event]bool{}
	for _, topic := range topics {
		for _, ch := range b.subscribers[topic] {
			if sent[ch] {
				continue
			}
			sent[ch] = true
			// delivery is inline so Shutdown cannot close a channel with a
			// send still in flight
			ch <- event
		}
	}
}

// Shutdown closes all subscriber channels and blocks until every subscriber
// closes its done channel or the context expires.
func (b *Bus) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	done := make(chan struct{})
	go waitAll(done, append([]chan struct{}{}, b.done...))

	closed := map[chan Event]bool{}
	for _, chs := range b.subscribers {
		for _, ch := range chs {
			if closed[ch] {
				continue
			}
			closed[ch] = true
			close(ch)
		}
	}
	b.subscribers = make(map[Topic][]chan Event)

	select {
	case <-ctx.Done():
		return fmt.Errorf("eventbus: context timeout or cancelled before all subscribers exited")
	case <-done:
		return nil
	}
}

// waitAll closes done after every subscriber done channel is closed.
func waitAll(done chan struct{}, all []chan struct{}) {
	var wg sync.WaitGroup
	for _, ch := range all {
		wg.Add(1)
		go func(c chan struct{}) {
			<-c
			wg.Done()
		}(ch)
	}
	wg.Wait()
	close(done)
}
