package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscriber(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("user-1")
	defer cancel()

	b.Publish("user-1", Event{Type: TypeDashboardUpdated, List: "debts", EntryID: "d1"})

	select {
	case ev := <-ch:
		assert.Equal(t, TypeDashboardUpdated, ev.Type)
		assert.Equal(t, "debts", ev.List)
		assert.Equal(t, "d1", ev.EntryID)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestPublishIsScopedToUser(t *testing.T) {
	b := NewBroker()
	ch1, cancel1 := b.Subscribe("user-1")
	defer cancel1()
	ch2, cancel2 := b.Subscribe("user-2")
	defer cancel2()

	b.Publish("user-1", Event{Type: TypeDashboardUpdated})

	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 0)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("user-1")
	cancel()

	b.Publish("user-1", Event{Type: TypeDashboardUpdated})
	assert.Len(t, ch, 0)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("user-1")
	defer cancel()

	// Overfill the buffer; Publish must return rather than block.
	for i := 0; i < 32; i++ {
		b.Publish("user-1", Event{Type: TypeDashboardUpdated})
	}
	require.Len(t, ch, cap(ch))
}
