package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"gyani-service/internal/app"
	"gyani-service/internal/domain"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option *int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type tickPayload struct {
	SessionID      string `json:"sessionId"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

// wsConn serialises writes to one websocket: only the writer goroutine
// touches the connection.
type wsConn struct {
	conn       *websocket.Conn
	send       chan outboundMessage[any]
	done       chan struct{}
	writerDone chan struct{}
}

func newWSConn(conn *websocket.Conn) *wsConn {
	c := &wsConn{
		conn:       conn,
		send:       make(chan outboundMessage[any], 16),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	go func() {
		defer close(c.writerDone)
		failed := false
		for msg := range c.send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				glog.V(2).Infof("ws write error: %v", err)
				failed = true
			}
		}
	}()
	return c
}

// emit queues a message unless the connection is shutting down.
func (c *wsConn) emit(typ string, payload any) bool {
	select {
	case c.send <- outboundMessage[any]{Type: typ, Payload: payload}:
		return true
	case <-c.done:
		return false
	}
}

func (c *wsConn) emitError(err error) {
	c.emit("error", errorPayload{Message: err.Error()})
}

// shutdown stops producers, waits for them, then drains the writer.
func (c *wsConn) shutdown(producers *sync.WaitGroup) {
	close(c.done)
	producers.Wait()
	close(c.send)
	<-c.writerDone
}

// ServeQuizWS runs one quiz session over a websocket. The client drives it
// with select/next/previous/restart and receives state, tick, completed
// and error messages.
func (s *Server) ServeQuizWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	profileID := q.Get("profileId")
	if profileID == "" {
		returnHTTPMessage(w, http.StatusBadRequest, "badrequest", "missing profileId")
		return
	}
	filter := domain.QuizFilter{
		Category:   q.Get("category"),
		Difficulty: domain.Difficulty(q.Get("difficulty")),
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	view, err := s.deps.Quiz.Start(ctx, profileID, filter)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	c := newWSConn(conn)
	var producers sync.WaitGroup

	var mu sync.Mutex
	sessionID := view.SessionID
	current := func() string {
		mu.Lock()
		defer mu.Unlock()
		return sessionID
	}

	follow := func(id string) error {
		updates, unsubscribe, err := s.deps.Quiz.Subscribe(ctx, id)
		if err != nil {
			return err
		}
		producers.Add(1)
		go func() {
			defer producers.Done()
			defer unsubscribe()
			for {
				select {
				case update, ok := <-updates:
					if !ok {
						return
					}
					typ := "state"
					if update.State == app.StateCompleted {
						typ = "completed"
					}
					if !c.emit(typ, update) {
						return
					}
				case <-c.done:
					return
				}
			}
		}()
		return nil
	}

	if err := follow(sessionID); err != nil {
		c.emitError(err)
		c.shutdown(&producers)
		return
	}

	producers.Add(1)
	go func() {
		defer producers.Done()
		ticker := time.NewTicker(s.deps.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				v, err := s.deps.Quiz.View(ctx, current())
				if err != nil || (v.State != app.StateAnswering && v.State != app.StateReviewing) {
					continue
				}
				if !c.emit("tick", tickPayload{SessionID: v.SessionID, ElapsedSeconds: v.ElapsedSeconds}) {
					return
				}
			case <-c.done:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		id := current()
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Option == nil {
				c.emit("error", errorPayload{Message: "invalid select payload"})
				continue
			}
			_, err = s.deps.Quiz.Select(ctx, id, *payload.Option)
		case "next":
			_, err = s.deps.Quiz.Advance(ctx, id)
		case "previous":
			_, err = s.deps.Quiz.Previous(ctx, id)
		case "restart":
			var next app.SessionView
			if next, err = s.deps.Quiz.Restart(ctx, id); err == nil {
				mu.Lock()
				sessionID = next.SessionID
				mu.Unlock()
				err = follow(next.SessionID)
			}
		default:
			c.emit("error", errorPayload{Message: "unsupported message type"})
			continue
		}
		if err != nil {
			c.emitError(err)
		}
	}

	s.deps.Quiz.Close(ctx, current())
	c.shutdown(&producers)
}
