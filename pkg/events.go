package soaprouter

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// NoopEventBroadcaster discards every sample. It is the Router's
// default EventBroadcaster so dispatch never blocks on an observer
// that was never configured.
type NoopEventBroadcaster struct{}

func (NoopEventBroadcaster) Broadcast(DispatchSample) {}
func (NoopEventBroadcaster) Close() error             { return nil }

// wsEventBroadcaster fans DispatchSamples out as JSON text frames to
// every connected WebSocket client. It also implements http.Handler,
// so mounting it at a path (conventionally "/_events") upgrades
// incoming connections and registers them as subscribers.
//
// Each subscriber gets its own buffered write channel and write pump
// goroutine, the same per-connection ownership model the ambient
// framework's wsConnection uses, so one slow reader can never block
// Broadcast for the others.
type wsEventBroadcaster struct {
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[*eventSubscriber]struct{}
}

type eventSubscriber struct {
	conn    *websocket.Conn
	send    chan []byte
	closeCh chan struct{}
	once    sync.Once
}

// NewEventBroadcaster returns a wsEventBroadcaster accepting
// connections from any origin. Callers that need origin restrictions
// should wrap the returned http.Handler with their own check before
// mounting it.
func NewEventBroadcaster() EventBroadcaster {
	return &wsEventBroadcaster{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subscribers: make(map[*eventSubscriber]struct{}),
	}
}

func (b *wsEventBroadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sub := &eventSubscriber{
		conn:    conn,
		send:    make(chan []byte, 64),
		closeCh: make(chan struct{}),
	}

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()

	go b.writePump(sub)
	go b.readPump(sub)
}

// readPump discards inbound frames but detects disconnects: the
// stream is observe-only from the subscriber's perspective.
func (b *wsEventBroadcaster) readPump(sub *eventSubscriber) {
	defer b.remove(sub)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *wsEventBroadcaster) writePump(sub *eventSubscriber) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			sub.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sub.closeCh:
			return
		}
	}
}

func (b *wsEventBroadcaster) remove(sub *eventSubscriber) {
	b.mu.Lock()
	delete(b.subscribers, sub)
	b.mu.Unlock()
	sub.once.Do(func() { close(sub.closeCh) })
}

// Broadcast encodes sample as JSON and enqueues it for every current
// subscriber. A subscriber whose send buffer is full is dropped
// rather than allowed to stall the others.
func (b *wsEventBroadcaster) Broadcast(sample DispatchSample) {
	data, err := json.Marshal(sample)
	if err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subscribers {
		select {
		case sub.send <- data:
		default:
			delete(b.subscribers, sub)
			sub.once.Do(func() { close(sub.closeCh) })
		}
	}
}

func (b *wsEventBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subscribers {
		sub.once.Do(func() { close(sub.closeCh) })
		delete(b.subscribers, sub)
	}
	return nil
}
