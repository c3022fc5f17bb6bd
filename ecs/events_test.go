package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var got []string
	bus.Subscribe(TopicPathReady, func(evt Event) { got = append(got, "a:"+evt.Entity.String()) })
	bus.Subscribe(TopicPathReady, func(evt Event) { got = append(got, "b:"+evt.Entity.String()) })
	bus.Subscribe(TopicPathCancel, func(Event) { got = append(got, "cancel") })

	bus.Publish(Event{Topic: TopicPathReady, Entity: 7})

	require.Equal(t, []string{"a:7", "b:7"}, got)
}

func TestEventBusUnsubscribeDuringDispatch(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	var second Subscription
	bus.Subscribe(TopicGameReset, func(Event) {
		calls++
		bus.Unsubscribe(second)
	})
	second = bus.Subscribe(TopicGameReset, func(Event) { calls += 100 })

	bus.Publish(Event{Topic: TopicGameReset})
	require.Equal(t, 1, calls)
	require.Equal(t, 1, bus.Subscribers(TopicGameReset))
	require.False(t, bus.Unsubscribe(second))
}

func TestEventBusNestedPublish(t *testing.T) {
	bus := NewEventBus()
	var got []Topic
	bus.Subscribe(TopicPlayerPathEnd, func(evt Event) {
		got = append(got, evt.Topic)
		bus.Publish(Event{Topic: TopicGameSuccess})
	})
	bus.Subscribe(TopicGameSuccess, func(evt Event) { got = append(got, evt.Topic) })

	bus.Publish(Event{Topic: TopicPlayerPathEnd, Entity: 1})
	require.Equal(t, []Topic{TopicPlayerPathEnd, TopicGameSuccess}, got)
}
