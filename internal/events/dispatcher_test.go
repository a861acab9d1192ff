package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDispatcher_PublishToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []int64
	d.Subscribe(EventComplaintSubmitted, func(_ context.Context, e Event) error {
		got = append(got, e.ComplaintID)
		return nil
	})
	d.Subscribe(EventComplaintStatusChanged, func(context.Context, Event) error {
		t.Fatal("status handler must not receive submitted events")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintSubmitted, ComplaintID: 7}))
	assert.Equal(t, []int64{7}, got)
}

func TestDispatcher_ContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("webhook down")
	calls := 0
	d.Subscribe(EventComplaintSubmitted, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventComplaintSubmitted, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventComplaintSubmitted})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintStatusChanged}))
}

func TestDispatcher_ConcurrentSubscribePublish(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewInMemoryDispatcher()
	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.Subscribe(EventComplaintSubmitted, func(context.Context, Event) error {
				mu.Lock()
				count++
				mu.Unlock()
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			_ = d.Publish(context.Background(), Event{Type: EventComplaintSubmitted})
		}()
	}
	wg.Wait()

	mu.Lock()
	before := count
	mu.Unlock()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintSubmitted}))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, before+20, count)
}
