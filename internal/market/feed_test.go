package market

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 11, 22, 9, 15, 0, 0, time.UTC)

func newTestFeed(seed int64) *Feed {
	return NewFeed(rand.New(rand.NewSource(seed)), func() time.Time { return fixedNow })
}

func TestSnapshotIsDeterministicForSeed(t *testing.T) {
	a := newTestFeed(7).Snapshot()
	b := newTestFeed(7).Snapshot()
	assert.Equal(t, a, b)

	c := newTestFeed(8).Snapshot()
	assert.NotEqual(t, a.Stocks, c.Stocks)
}

func TestSnapshotShape(t *testing.T) {
	snap := newTestFeed(1).Snapshot()

	require.Len(t, snap.Indices, 4)
	require.Len(t, snap.Stocks, 10)
	require.Len(t, snap.News, 5)
	assert.Equal(t, fixedNow, snap.Timestamp)

	names := []string{"NIFTY 50", "SENSEX", "NIFTY BANK", "NIFTY IT"}
	for i, idx := range snap.Indices {
		def := indexDefs[i]
		assert.Equal(t, names[i], idx.Name)
		assert.InDelta(t, def.base, idx.Value, def.valueSwing/2)
		assertTwoDecimals(t, idx.Value)
	}

	for i, st := range snap.Stocks {
		def := stockDefs[i]
		assert.Equal(t, def.symbol, st.Symbol)
		assert.InDelta(t, def.base, st.Price, 25)
		assert.InDelta(t, st.Price-def.base, st.Change, 0.011)
		assert.GreaterOrEqual(t, st.Volume, 100000)
		assert.Less(t, st.Volume, 1100000)
		assert.GreaterOrEqual(t, st.PE, 10.0)
		assert.LessOrEqual(t, st.Low52w, st.Price)
		assert.GreaterOrEqual(t, st.High52w, st.Price)
		assertTwoDecimals(t, st.Price)
		assertTwoDecimals(t, st.ChangePercent)
	}

	for i, item := range snap.News {
		assert.False(t, item.Timestamp.After(fixedNow))
		assert.True(t, fixedNow.Sub(item.Timestamp) < newsDefs[i].maxAge)
	}
	assert.Empty(t, snap.News[3].RelatedStocks)
}

func TestSnapshotQuote(t *testing.T) {
	snap := newTestFeed(1).Snapshot()
	st, ok := snap.Quote("TCS")
	require.True(t, ok)
	assert.Equal(t, "Tata Consultancy Services", st.Name)

	_, ok = snap.Quote("ACME")
	assert.False(t, ok)
}

func TestBroadcasterPushesRefreshes(t *testing.T) {
	b := NewBroadcaster(newTestFeed(3))
	ch, cancel := b.Subscribe()
	defer cancel()

	initial := <-ch
	assert.Equal(t, b.Latest(), initial)

	next := b.Refresh()
	select {
	case got := <-ch:
		assert.Equal(t, next, got)
	case <-time.After(time.Second):
		t.Fatal("expected refresh push")
	}

	cancel()
	assert.Zero(t, b.Subscribers())
}

func TestBroadcasterKeepsOnlyNewestForSlowSubscriber(t *testing.T) {
	b := NewBroadcaster(newTestFeed(3))
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Refresh()
	last := b.Refresh()
	assert.Equal(t, last, <-ch)
}

func TestBroadcasterRunStopsOnCancel(t *testing.T) {
	b := NewBroadcaster(newTestFeed(4))
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()
	<-ch

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a tick")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
}

func assertTwoDecimals(t *testing.T, v float64) {
	t.Helper()
	assert.InDelta(t, v, math.Round(v*100)/100, 1e-9)
}
