package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func collect(ch chan Event, done chan struct{}, mu *sync.Mutex, out *[]Event) {
	for ev := range ch {
		mu.Lock()
		*out = append(*out, ev)
		mu.Unlock()
	}
	close(done)
}

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, done := b.Subscribe()

	var mu sync.Mutex
	var got []Event
	go collect(ch, done, &mu, &got)

	b.Publish(Event{Type: "one", Data: 1})
	b.Publish(Event{Type: "two", Data: 2})
	b.Publish(Event{Type: "three", Data: 3})

	assert.Nil(t, b.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 3)
	assert.Equal(t, EventType("one"), got[0].Type)
	assert.Equal(t, 3, got[2].Data)
}

func TestTopicFiltering(t *testing.T) {
	b := New()
	chA, doneA := b.Subscribe(Topic("a"))
	chDef, doneDef := b.Subscribe()

	var mu sync.Mutex
	var gotA, gotDef []Event
	go collect(chA, doneA, &mu, &gotA)
	go collect(chDef, doneDef, &mu, &gotDef)

	b.Publish(Event{Type: "on-a"}, Topic("a"))
	b.Publish(Event{Type: "broadcast"})

	assert.Nil(t, b.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	// default-topic subscribers see everything, topic subscribers only
	// their own topic
	assert.Len(t, gotA, 1)
	assert.Equal(t, EventType("on-a"), gotA[0].Type)
	assert.Len(t, gotDef, 2)
}

func TestMultiTopicSubscriber(t *testing.T) {
	b := New()
	ch, done := b.Subscribe(Topic("a"), Topic("b"))

	var mu sync.Mutex
	var got []Event
	go collect(ch, done, &mu, &got)

	b.Publish(Event{Type: "on-a"}, Topic("a"))
	b.Publish(Event{Type: "on-b"}, Topic("b"))

	// the shared channel must be closed exactly once even though it is
	// registered under both topics
	assert.Nil(t, b.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 2)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := New()
	b.Publish(Event{Type: "dropped"})
	assert.Nil(t, b.Shutdown(context.Background()))
}

func TestShutdownTimeout(t *testing.T) {
	b := New()
	ch, _ := b.Subscribe()
	go func() {
		// drain but never close done
		for range ch {
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NotNil(t, b.Shutdown(ctx))
}
