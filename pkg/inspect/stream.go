package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vangotest/pkg/vtest"
)

// eventStream forwards registry events to websocket clients. Each client
// gets its own registry subscription.
type eventStream struct {
	registry *vtest.Registry
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]func()
}

func newEventStream(reg *vtest.Registry, logger *slog.Logger) *eventStream {
	return &eventStream{
		registry: reg,
		logger:   logger,
		clients:  make(map[*websocket.Conn]func()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool
			},
		},
	}
}

func (s *eventStream) handle(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	events, cancel := s.registry.Subscribe(64)
	s.mu.Lock()
	s.clients[conn] = cancel
	s.mu.Unlock()

	// The read loop only detects disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(conn)
				return
			}
		}
	}()

	for ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(conn)
			break
		}
	}
}

// drop unsubscribes and closes conn. It is safe to call more than once.
func (s *eventStream) drop(conn *websocket.Conn) {
	s.mu.Lock()
	cancel, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()

	if ok {
		cancel()
		conn.Close()
	}
}

func (s *eventStream) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *eventStream) close() {
	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		s.drop(conn)
	}
}
