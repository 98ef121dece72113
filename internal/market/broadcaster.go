package market

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is how often the dashboard data refreshes.
const DefaultInterval = 30 * time.Second

// Broadcaster refreshes snapshots on a ticker and pushes them to subscribers.
type Broadcaster struct {
	feed *Feed

	mu          sync.RWMutex
	latest      Snapshot
	subscribers map[chan Snapshot]struct{}
}

func NewBroadcaster(feed *Feed) *Broadcaster {
	return &Broadcaster{
		feed:        feed,
		latest:      feed.Snapshot(),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// Latest returns the most recent snapshot.
func (b *Broadcaster) Latest() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest
}

// Refresh draws a new snapshot and publishes it.
func (b *Broadcaster) Refresh() Snapshot {
	snap := b.feed.Snapshot()

	b.mu.Lock()
	b.latest = snap
	subs := make([]chan Snapshot, 0, len(b.subscribers))
	for ch := range b.subscribers {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	for _, ch := range subs {
		// Drop the stale snapshot if the subscriber hasn't consumed it yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
	return snap
}

// Run refreshes every interval until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	glog.Infof("market feed refreshing every %s", interval)
	for {
		select {
		case <-ctx.Done():
			glog.Infof("market feed stopped")
			return
		case <-ticker.C:
			b.Refresh()
		}
	}
}

// Subscribe returns a channel that first carries the latest snapshot and
// then every refresh. The cancel func must be called to release it.
func (b *Broadcaster) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	ch <- b.latest
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, ch)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// Subscribers reports the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
