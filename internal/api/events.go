package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"subburn/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The service binds to localhost or sits behind a proxy that enforces
	// origin policy.
	CheckOrigin: func(*http.Request) bool { return true },
}

const eventWriteTimeout = 10 * time.Second

// handleEvents streams job snapshots over a websocket until the job reaches
// a terminal state or the client disconnects. The current snapshot is sent
// first so late subscribers still see the final state.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snapshot, updates, cancel, err := s.manager.Subscribe(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	// Reader goroutine: unblocks the writer when the client goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(payload any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
		return conn.WriteJSON(payload) == nil
	}

	if !send(snapshot) {
		return
	}
	for {
		select {
		case <-done:
			return
		case job, ok := <-updates:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "job finished"))
				return
			}
			if !send(job) {
				return
			}
		}
	}
}
