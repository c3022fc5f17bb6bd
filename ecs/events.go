package ecs

import "github.com/go-gl/mathgl/mgl64"

// Topic names an event stream on the bus.
type Topic string

const (
	TopicPathReady           Topic = "path:ready"
	TopicPathCancel          Topic = "path:cancel"
	TopicPathProgress        Topic = "path:progress"
	TopicPlayerPathEnd       Topic = "player:pathEnd"
	TopicPlayerDestroyed     Topic = "player:destroyed"
	TopicPlayersSpawnedCount Topic = "players:spawnedCount"
	TopicGameSuccess         Topic = "game:success"
	TopicGameFailure         Topic = "game:failure"
	TopicGameReset           Topic = "game:reset"
)

// Event is a bus message. Entity is zero for global topics.
type Event struct {
	Topic  Topic
	Entity Entity
	Data   any
}

// PathProgress is the Data of a path:progress event.
type PathProgress struct {
	SegmentIndex int
	SegmentT     float64
	Position     mgl64.Vec3
}

// PathEnd is the Data of a player:pathEnd event. Position is the last path
// point, taken before any resting snap onto the goal.
type PathEnd struct {
	Position mgl64.Vec3
}

// Handler receives published events.
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	topic Topic
	id    uint64
}

func (s Subscription) Topic() Topic {
	return s.topic
}

type subscriber struct {
	id      uint64
	handler Handler
	removed bool
}

// EventBus is a synchronous publish/subscribe dispatcher. Handlers run in
// subscription order on the publishing goroutine.
type EventBus struct {
	nextID uint64
	topics map[Topic][]*subscriber
}

func NewEventBus() *EventBus {
	return &EventBus{topics: make(map[Topic][]*subscriber)}
}

// Subscribe registers h for topic.
func (b *EventBus) Subscribe(topic Topic, h Handler) Subscription {
	if b == nil || h == nil {
		return Subscription{}
	}
	if b.topics == nil {
		b.topics = make(map[Topic][]*subscriber)
	}
	b.nextID++
	b.topics[topic] = append(b.topics[topic], &subscriber{id: b.nextID, handler: h})
	return Subscription{topic: topic, id: b.nextID}
}

// Unsubscribe removes the handler. A handler removed while an event is being
// dispatched does not receive the rest of that dispatch.
func (b *EventBus) Unsubscribe(sub Subscription) bool {
	if b == nil || sub.id == 0 {
		return false
	}
	subs := b.topics[sub.topic]
	for i, s := range subs {
		if s.id != sub.id {
			continue
		}
		s.removed = true
		b.topics[sub.topic] = append(subs[:i:i], subs[i+1:]...)
		return true
	}
	return false
}

// Publish delivers evt to every handler subscribed to evt.Topic.
func (b *EventBus) Publish(evt Event) {
	if b == nil {
		return
	}
	subs := append([]*subscriber(nil), b.topics[evt.Topic]...)
	for _, s := range subs {
		if s.removed {
			continue
		}
		s.handler(evt)
	}
}

// Subscribers returns the number of live handlers for topic.
func (b *EventBus) Subscribers(topic Topic) int {
	if b == nil {
		return 0
	}
	return len(b.topics[topic])
}
