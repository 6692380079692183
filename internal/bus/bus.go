package bus

import (
	"sync"

	"threshold-studio/internal/logger"
)

// Buffer depth per subscription. The screen allows a single outstanding
// request, so this is never reached in normal operation.
const subscriptionBuffer = 16

type Handler func(payload interface{})

// Bus is a topic-addressed publish/subscribe channel shared between the
// screens and the processing workers. Publishing never blocks: each
// subscription owns a goroutine that drains its own buffered queue, so
// handlers observe messages in publish order.
type Bus struct {
	mu     sync.Mutex
	nextID int
	topics map[string]map[int]*Subscription
	logger logger.Logger
	wg     sync.WaitGroup
}

// Subscription is the handle returned by Subscribe. Closing it removes
// exactly this subscriber; other handlers on the same topic are untouched.
type Subscription struct {
	bus     *Bus
	topic   string
	id      int
	queue   chan interface{}
	closeMu sync.Mutex
	closed  bool
}

func New(log logger.Logger) *Bus {
	return &Bus{
		topics: make(map[string]map[int]*Subscription),
		logger: log,
	}
}

func (b *Bus) Subscribe(topic string, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		bus:   b,
		topic: topic,
		id:    b.nextID,
		queue: make(chan interface{}, subscriptionBuffer),
	}

	if b.topics[topic] == nil {
		b.topics[topic] = make(map[int]*Subscription)
	}
	b.topics[topic][sub.id] = sub

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for payload := range sub.queue {
			h(payload)
		}
	}()

	b.logger.Debug("Bus", "subscribed", map[string]interface{}{
		"topic":           topic,
		"subscription_id": sub.id,
	})

	return sub
}

// Publish delivers payload to every current subscriber of topic and returns
// immediately. A subscriber whose queue is full misses the message; that is
// logged rather than blocking the publisher.
func (b *Bus) Publish(topic string, payload interface{}) {
	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.topics[topic]))
	for _, sub := range b.topics[topic] {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.closeMu.Lock()
		if sub.closed {
			sub.closeMu.Unlock()
			continue
		}
		select {
		case sub.queue <- payload:
		default:
			b.logger.Warning("Bus", "subscriber queue full, message dropped", map[string]interface{}{
				"topic":           topic,
				"subscription_id": sub.id,
			})
		}
		sub.closeMu.Unlock()
	}

	b.logger.Debug("Bus", "published", map[string]interface{}{
		"topic":       topic,
		"subscribers": len(subs),
	})
}

// Close removes the subscription from its topic and stops its delivery
// goroutine. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.closeMu.Unlock()

	s.bus.mu.Lock()
	if subs, ok := s.bus.topics[s.topic]; ok {
		delete(subs, s.id)
		if len(subs) == 0 {
			delete(s.bus.topics, s.topic)
		}
	}
	s.bus.mu.Unlock()
}

// Shutdown closes every subscription and waits for in-flight deliveries.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	var all []*Subscription
	for _, subs := range b.topics {
		for _, sub := range subs {
			all = append(all, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}
	b.wg.Wait()

	b.logger.Info("Bus", "shutdown completed", map[string]interface{}{
		"subscriptions_closed": len(all),
	})
}
