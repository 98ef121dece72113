package http

import (
	"net/http"
	"sync"

	"github.com/golang/glog"
)

// ServeMarketWS streams market snapshots until the client disconnects.
func (s *Server) ServeMarketWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	snapshots, unsubscribe := s.deps.Market.Subscribe()
	defer unsubscribe()

	c := newWSConn(conn)
	var producers sync.WaitGroup
	producers.Add(1)
	go func() {
		defer producers.Done()
		for {
			select {
			case snap := <-snapshots:
				if !c.emit("market", snap) {
					return
				}
			case <-c.done:
				return
			}
		}
	}()

	drain(conn)
	c.shutdown(&producers)
}

// ServeProgressWS pushes the profile's summary after every progress change.
func (s *Server) ServeProgressWS(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	store, err := s.deps.Progress.Open(r.Context(), profileID)
	if err != nil {
		returnError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	summaries, unsubscribe := store.Subscribe()

	c := newWSConn(conn)
	var producers sync.WaitGroup
	producers.Add(1)
	go func() {
		defer producers.Done()
		for {
			select {
			case summary, ok := <-summaries:
				if !ok {
					return
				}
				if !c.emit("progress", summary) {
					return
				}
			case <-c.done:
				return
			}
		}
	}()

	drain(conn)
	unsubscribe()
	c.shutdown(&producers)
}

// drain reads and discards client frames until the connection closes.
func drain(conn interface{ ReadMessage() (int, []byte, error) }) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
