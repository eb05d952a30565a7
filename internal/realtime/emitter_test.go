package realtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagelink/internal/models"
	"stagelink/internal/realtime"
)

func TestEmitMessageReachesThreadSubscribers(t *testing.T) {
	emitter := realtime.NewEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := emitter.SubscribeToThread(ctx, "request001")
	second := emitter.SubscribeToThread(ctx, "request001")
	other := emitter.SubscribeToThread(ctx, "request999")

	message := models.Message{ID: "msg001", RequestID: "request001", Content: "hello"}
	emitter.EmitMessage(message)

	select {
	case got := <-first:
		assert.Equal(t, "msg001", got.ID)
	case <-time.After(time.Second):
		t.Fatal("first subscriber never received the message")
	}
	select {
	case got := <-second:
		assert.Equal(t, "msg001", got.ID)
	case <-time.After(time.Second):
		t.Fatal("second subscriber never received the message")
	}

	select {
	case <-other:
		t.Fatal("subscriber on another thread received the message")
	default:
	}
}

func TestEmitDashboardEventScopedToVenue(t *testing.T) {
	emitter := realtime.NewEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine := emitter.SubscribeToVenue(ctx, "venue001")
	other := emitter.SubscribeToVenue(ctx, "venue999")

	emitter.EmitDashboardEvent(realtime.DashboardEvent{
		Type:    realtime.EventBookingCreated,
		VenueID: "venue001",
		Payload: models.Booking{ID: "booking001"},
	})

	select {
	case got := <-mine:
		assert.Equal(t, realtime.EventBookingCreated, got.Type)
	case <-time.After(time.Second):
		t.Fatal("venue subscriber never received the event")
	}

	select {
	case <-other:
		t.Fatal("other venue received the event")
	default:
	}
}

func TestContextCancelRemovesSubscriber(t *testing.T) {
	emitter := realtime.NewEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	ch := emitter.SubscribeToThread(ctx, "request001")
	require.Equal(t, 1, emitter.ThreadClientCount("request001"))

	cancel()

	assert.Eventually(t, func() bool {
		return emitter.ThreadClientCount("request001") == 0
	}, time.Second, 10*time.Millisecond)

	// The removed channel is closed so range loops over it terminate.
	_, open := <-ch
	assert.False(t, open)
}

func TestVenueCancelRemovesSubscriber(t *testing.T) {
	emitter := realtime.NewEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	emitter.SubscribeToVenue(ctx, "venue001")
	require.Equal(t, 1, emitter.VenueClientCount("venue001"))

	cancel()

	assert.Eventually(t, func() bool {
		return emitter.VenueClientCount("venue001") == 0
	}, time.Second, 10*time.Millisecond)
}

func TestEmitDuringSubscriberChurn(t *testing.T) {
	emitter := realtime.NewEmitter()

	// A disconnect closing its channel must never race an in-flight
	// broadcast into a send on a closed channel.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5000; i++ {
			emitter.EmitMessage(models.Message{ID: "msg", RequestID: "request001"})
			emitter.EmitDashboardEvent(realtime.DashboardEvent{
				Type:    realtime.EventBookingCreated,
				VenueID: "venue001",
			})
		}
	}()

	for i := 0; i < 5000; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		emitter.SubscribeToThread(ctx, "request001")
		emitter.SubscribeToVenue(ctx, "venue001")
		cancel()
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("emit loop did not finish")
	}

	assert.Eventually(t, func() bool {
		return emitter.ThreadClientCount("request001") == 0 &&
			emitter.VenueClientCount("venue001") == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSlowSubscriberDoesNotBlockEmit(t *testing.T) {
	emitter := realtime.NewEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Never drained, so its buffer fills after 10 messages.
	emitter.SubscribeToThread(ctx, "request001")

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			emitter.EmitMessage(models.Message{ID: "msg", RequestID: "request001"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a slow subscriber")
	}
}
