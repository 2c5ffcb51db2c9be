// Package livereload reloads browsers after the development server restarts.
//
// Every process gets a boot id. Pages rendered in dev mode carry a small
// client that connects to Path; the server greets each connection with
// its boot id, and the client reloads the page when the id differs from
// the one it was rendered with. Restarting the process is therefore
// enough to refresh every open tab. The route registry itself is never
// reloaded in place.
package livereload

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Path is the websocket endpoint served in dev mode.
const Path = "/_pagetree/reload"

// MessageType represents the type of reload message.
type MessageType string

const (
	TypeHello  MessageType = "hello"
	TypeReload MessageType = "reload"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type MessageType `json:"type"`
	Boot string      `json:"boot,omitempty"`
}

// Server manages WebSocket connections for live reload.
type Server struct {
	boot     string
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// New creates a reload server with a fresh boot id.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		boot:    uuid.NewString(),
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // dev only
			},
		},
		logger: logger,
	}
}

// BootID returns the id of this process.
func (s *Server) BootID() string { return s.boot }

// ServeHTTP upgrades the connection, sends the hello message and keeps the
// connection open until the client goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("reload upgrade failed", "error", err)
		return
	}

	data, _ := json.Marshal(Message{Type: TypeHello, Boot: s.boot})
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// NotifyReload asks every connected browser to reload.
func (s *Server) NotifyReload() {
	data, err := json.Marshal(Message{Type: TypeReload})
	if err != nil {
		return
	}

	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			s.mu.Lock()
			delete(s.clients, client)
			s.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close closes all client connections.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}

// ClientScript returns the browser client, without <script> tags.
func (s *Server) ClientScript() string {
	return `(function(){` +
		`var boot=` + strconv.Quote(s.boot) + `,delay=1000;` +
		`function connect(){` +
		`var ws=new WebSocket((location.protocol==='https:'?'wss:':'ws:')+'//'+location.host+'` + Path + `');` +
		`ws.onopen=function(){delay=1000};` +
		`ws.onmessage=function(e){var m;try{m=JSON.parse(e.data)}catch(_){return}` +
		`if(m.type==='reload'||(m.type==='hello'&&m.boot!==boot)){location.reload()}};` +
		`ws.onclose=function(){setTimeout(connect,delay);delay=Math.min(delay*2,30000)};` +
		`}connect()})();`
}
