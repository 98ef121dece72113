package http

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gyani-service/internal/app"
	"gyani-service/internal/chat"
	"gyani-service/internal/content"
	"gyani-service/internal/infra/memory"
	"gyani-service/internal/market"
	"gyani-service/internal/trading"

	"github.com/gorilla/websocket"
)

type testEnv struct {
	server   *httptest.Server
	progress *app.ProgressService
	market   *market.Broadcaster
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	progress := app.NewProgressService(memory.NewProgressBackend(), app.WithCatalog(content.ModuleIDs()))
	quiz := app.NewQuizService(
		memory.NewSessionStore(),
		memory.NewBankRepository(memory.NewStaticBankLoader(content.Banks()), time.Minute),
		progress,
		app.WithRand(rand.New(rand.NewSource(42))),
		app.WithMaxQuestions(2),
	)
	fixed := func() time.Time { return time.Date(2024, 11, 22, 9, 15, 0, 0, time.UTC) }
	feed := market.NewBroadcaster(market.NewFeed(rand.New(rand.NewSource(1)), fixed))

	srv := NewServer(Deps{
		Quiz:         quiz,
		Progress:     progress,
		Assessments:  app.NewAssessmentService(),
		Chat:         chat.NewRelay(nil),
		Market:       feed,
		Trading:      trading.NewRegistry(fixed),
		TickInterval: 20 * time.Millisecond,
	})
	server := httptest.NewServer(srv.Handler())
	t.Cleanup(server.Close)
	return &testEnv{server: server, progress: progress, market: feed}
}

func (e *testEnv) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(e.server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type quizState struct {
	SessionID      string  `json:"sessionId"`
	State          string  `json:"state"`
	Index          int     `json:"index"`
	TotalQuestions int     `json:"totalQuestions"`
	Selected       *int    `json:"selected"`
	ElapsedSeconds int     `json:"elapsedSeconds"`
	Result         *result `json:"result"`
}

type result struct {
	TotalQuestions int    `json:"totalQuestions"`
	Grade          string `json:"grade"`
}

// readUntil skips messages (ticks included) until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(wsMessage) bool) wsMessage {
	t.Helper()
	for i := 0; i < 50; i++ {
		var msg wsMessage
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
	t.Fatalf("expected message not received")
	return wsMessage{}
}

func stateIs(want string) func(wsMessage) bool {
	return func(m wsMessage) bool {
		if m.Type != "state" && m.Type != "completed" {
			return false
		}
		var s quizState
		_ = json.Unmarshal(m.Payload, &s)
		return s.State == want
	}
}

func decodeState(t *testing.T, m wsMessage) quizState {
	t.Helper()
	var s quizState
	if err := json.Unmarshal(m.Payload, &s); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return s
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func TestQuizWebSocketFlow(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/quiz?profileId=p-1")

	first := decodeState(t, readUntil(t, conn, stateIs(string(app.StateAnswering))))
	if first.TotalQuestions != 2 || first.SessionID == "" {
		t.Fatalf("unexpected initial state %+v", first)
	}

	send(t, conn, "next", nil)
	errMsg := readUntil(t, conn, func(m wsMessage) bool { return m.Type == "error" })
	if !strings.Contains(string(errMsg.Payload), "please select an answer") {
		t.Fatalf("expected answer required error, got %s", errMsg.Payload)
	}

	var completed *wsMessage
	for q := 0; q < 2; q++ {
		send(t, conn, "select", map[string]int{"option": 0})
		readUntil(t, conn, func(m wsMessage) bool {
			s := quizState{}
			_ = json.Unmarshal(m.Payload, &s)
			return m.Type == "state" && s.Selected != nil && s.Index == q
		})
		send(t, conn, "next", nil)
		msg := readUntil(t, conn, func(m wsMessage) bool {
			s := quizState{}
			_ = json.Unmarshal(m.Payload, &s)
			return m.Type == "completed" || (m.Type == "state" && (s.State == "reviewing" || s.Index == q+1))
		})
		switch {
		case msg.Type == "completed":
			completed = &msg
		case decodeState(t, msg).State == "reviewing":
			send(t, conn, "next", nil)
		}
	}
	if completed == nil {
		msg := readUntil(t, conn, func(m wsMessage) bool { return m.Type == "completed" })
		completed = &msg
	}

	done := decodeState(t, *completed)
	if done.Result == nil || done.Result.TotalQuestions != 2 || done.Result.Grade == "" {
		t.Fatalf("expected result on completion, got %+v", done)
	}

	// The completed push can overtake the history write.
	store, _ := env.progress.Open(context.Background(), "p-1")
	deadline := time.Now().Add(2 * time.Second)
	for len(store.History()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if len(store.History()) != 1 {
		t.Fatalf("expected the completed quiz in history")
	}
}

func TestQuizWebSocketTicksAndRestart(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/quiz?profileId=p-2&difficulty=easy")

	first := decodeState(t, readUntil(t, conn, stateIs(string(app.StateAnswering))))
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "tick" })

	send(t, conn, "restart", nil)
	restarted := decodeState(t, readUntil(t, conn, func(m wsMessage) bool {
		if m.Type != "state" {
			return false
		}
		var s quizState
		_ = json.Unmarshal(m.Payload, &s)
		return s.SessionID != "" && s.SessionID != first.SessionID
	}))
	if restarted.Index != 0 || restarted.Selected != nil {
		t.Fatalf("expected a fresh session, got %+v", restarted)
	}

	send(t, conn, "dance", nil)
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "error" })
}

func TestQuizWebSocketNoQuestions(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/quiz?profileId=p-3&category=Astrology")
	readUntil(t, conn, stateIs(string(app.StateNoQuestions)))
}

func TestMarketWebSocketStreamsSnapshots(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/market")

	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "market" })
	env.market.Refresh()
	msg := readUntil(t, conn, func(m wsMessage) bool { return m.Type == "market" })

	var snap market.Snapshot
	if err := json.Unmarshal(msg.Payload, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Stocks) != 10 {
		t.Fatalf("expected 10 stocks, got %d", len(snap.Stocks))
	}
}

func TestProgressWebSocketPushesSummaries(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/progress?profileId=p-4")
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "progress" })

	store, _ := env.progress.Open(context.Background(), "p-4")
	if _, err := store.MarkModuleComplete(context.Background(), "basics"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	msg := readUntil(t, conn, func(m wsMessage) bool { return m.Type == "progress" })
	if !strings.Contains(string(msg.Payload), `"completedCount":1`) {
		t.Fatalf("expected pushed summary, got %s", msg.Payload)
	}
}
