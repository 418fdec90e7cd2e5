// Package live streams parsed samples to websocket clients as they arrive.
package live

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/netwatch/netwatch/pkg/ping/model"
)

// Broadcaster upgrades HTTP requests to websocket connections and writes
// every observed sample to all connected clients.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the request and registers the client.
func (b *Broadcaster) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	conn, err := b.upgrader.Upgrade(rw, req, nil)
	if err != nil {
		log.Info("Websocket upgrade failed", "source", req.RemoteAddr,
			"error", err)
		return
	}
	b.mu.Lock()
	b.clients[conn] = true
	b.mu.Unlock()
	log.Debug("Live client connected", "source", req.RemoteAddr)
}

// ObserveSession is a no-op: session boundaries are not surfaced to live
// clients.
func (b *Broadcaster) ObserveSession(string) {}

// ObserveSample writes the sample as one JSON message to every client.
// Clients whose write fails are dropped.
func (b *Broadcaster) ObserveSample(s model.Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		if err := conn.WriteJSON(s); err != nil {
			log.Debug("Dropping live client", "error", err)
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

// Close disconnects all clients.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}
