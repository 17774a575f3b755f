// Package ws streams deployment events to websocket subscribers.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ultrabuild/ultrabuild/domain"
)

// allTopics receives every event regardless of deployment id
const allTopics = ""

// outboxSize is the number of payloads queued per subscriber before it is dropped
const outboxSize = 32

// Subscriber abstracts a streaming client.
type Subscriber interface {
	Send([]byte) error
	Close()
}

// Hub fans deployment events out to subscribers. Subscribers either follow one
// deployment id or every deployment. Each subscriber is written to from its own
// goroutine, so a slow connection never stalls the hub.
type Hub struct {
	clients   map[string]map[Subscriber]*outbox
	register  chan subscription
	unreg     chan subscription
	broadcast chan message
	count     chan chan int
	done      chan struct{}
}

type message struct {
	topic   string
	payload []byte
}

type subscription struct {
	topic  string
	client Subscriber
}

// outbox queues payloads for one subscriber
type outbox struct {
	client Subscriber
	queue  chan []byte
}

// NewHub creates a hub. Run must be called to start delivery.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]map[Subscriber]*outbox),
		register:  make(chan subscription),
		unreg:     make(chan subscription),
		broadcast: make(chan message, 64),
		count:     make(chan chan int),
		done:      make(chan struct{}),
	}
}

// Run delivers messages until ctx is cancelled, then closes every subscriber
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for c, ob := range clients {
					close(ob.queue)
					c.Close()
				}
			}
			h.clients = map[string]map[Subscriber]*outbox{}
			return
		case sub := <-h.register:
			if _, ok := h.clients[sub.topic]; !ok {
				h.clients[sub.topic] = make(map[Subscriber]*outbox)
			}
			if _, ok := h.clients[sub.topic][sub.client]; ok {
				continue
			}
			ob := &outbox{client: sub.client, queue: make(chan []byte, outboxSize)}
			h.clients[sub.topic][sub.client] = ob
			go h.pump(sub.topic, ob)
		case sub := <-h.unreg:
			h.remove(sub.topic, sub.client)
		case reply := <-h.count:
			n := 0
			for _, clients := range h.clients {
				n += len(clients)
			}
			reply <- n
		case msg := <-h.broadcast:
			h.deliver(msg.topic, msg.payload)
			if msg.topic != allTopics {
				h.deliver(allTopics, msg.payload)
			}
		}
	}
}

// deliver queues payload for every subscriber of topic. Subscribers whose
// outbox is full are closed and removed.
func (h *Hub) deliver(topic string, payload []byte) {
	for c, ob := range h.clients[topic] {
		select {
		case ob.queue <- payload:
		default:
			slog.Warn("Dropping slow websocket subscriber", "layer", "ws", "operation", "deliver", "topic", topic)
			h.remove(topic, c)
			c.Close()
		}
	}
}

// remove forgets c and closes its outbox. Only the Run goroutine calls it.
func (h *Hub) remove(topic string, c Subscriber) {
	clients, ok := h.clients[topic]
	if !ok {
		return
	}
	if ob, ok := clients[c]; ok {
		close(ob.queue)
		delete(clients, c)
	}
	if len(clients) == 0 {
		delete(h.clients, topic)
	}
}

// pump writes queued payloads to one subscriber until its outbox is closed
func (h *Hub) pump(topic string, ob *outbox) {
	for payload := range ob.queue {
		if err := ob.client.Send(payload); err != nil {
			ob.client.Close()
			h.Unregister(topic, ob.client)
			for range ob.queue {
			}
			return
		}
	}
}

// Register subscribes client to deploymentID, or to every deployment when it is empty
func (h *Hub) Register(deploymentID string, client Subscriber) {
	select {
	case h.register <- subscription{topic: deploymentID, client: client}:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a client.
func (h *Hub) Unregister(deploymentID string, client Subscriber) {
	select {
	case h.unreg <- subscription{topic: deploymentID, client: client}:
	case <-h.done:
	}
}

// Subscribers returns the number of registered clients
func (h *Hub) Subscribers() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// OnDeploymentEvent implements deploy.Observer. Events are dropped when the
// hub is stopped or its buffer is full.
func (h *Hub) OnDeploymentEvent(_ context.Context, event domain.DeploymentEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("Failed to encode deployment event", "layer", "ws", "operation", "broadcast", "error", err)
		return
	}

	select {
	case h.broadcast <- message{topic: event.DeploymentID.String(), payload: payload}:
	case <-h.done:
	default:
		slog.Warn("Dropping deployment event, subscribers are too slow",
			"layer", "ws",
			"operation", "broadcast",
			"deployment_id", event.DeploymentID)
	}
}
