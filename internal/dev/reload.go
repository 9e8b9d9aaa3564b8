package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ReloadPath is the WebSocket endpoint the client script connects to.
const ReloadPath = "/_loom/reload"

// MessageType is the kind of reload message.
type MessageType string

const (
	MessageReload MessageType = "reload"
	MessageError  MessageType = "error"
	MessageClear  MessageType = "clear"
)

// Message is sent to browsers over the reload socket.
type Message struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error,omitempty"`
}

// Hub tracks reload sockets and broadcasts to them.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and holds the socket until the browser
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Reload tells every browser to reload.
func (h *Hub) Reload() {
	h.broadcast(Message{Type: MessageReload})
}

// Error shows msg in every browser's overlay.
func (h *Hub) Error(msg string) {
	h.broadcast(Message{Type: MessageError, Error: msg})
}

// Clear hides the overlay.
func (h *Hub) Clear() {
	h.broadcast(Message{Type: MessageClear})
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, c)
			h.mu.Unlock()
			c.Close()
		}
	}
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}

// ClientScript connects to ReloadPath and reacts to Messages.
const ClientScript = `<script>
(function() {
    'use strict';
    var delay = 1000;

    function connect() {
        var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(proto + '//' + location.host + '` + ReloadPath + `');
        ws.onopen = function() { delay = 1000; };
        ws.onmessage = function(e) {
            var msg;
            try { msg = JSON.parse(e.data); } catch (err) { return; }
            if (msg.type === 'reload') location.reload();
            if (msg.type === 'error') show(msg.error);
            if (msg.type === 'clear') hide();
        };
        ws.onclose = function() {
            setTimeout(function() { delay = Math.min(delay * 2, 30000); connect(); }, delay);
        };
    }

    function show(text) {
        hide();
        var o = document.createElement('pre');
        o.id = 'loom-error-overlay';
        o.style.cssText = 'position:fixed;inset:0;margin:0;padding:24px;background:rgba(0,0,0,0.9);color:#ff7777;font:14px monospace;white-space:pre-wrap;z-index:999999;';
        o.textContent = text;
        document.body.appendChild(o);
    }

    function hide() {
        var o = document.getElementById('loom-error-overlay');
        if (o) o.remove();
    }

    connect();
})();
</script>`
