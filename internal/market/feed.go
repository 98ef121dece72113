// Package market produces synthetic Indian market snapshots for the
// learning dashboards. Nothing here touches a real exchange.
package market

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Index is a market index reading.
type Index struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        string  `json:"volume"`
}

// Stock is a quote for one listed company.
type Stock struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int     `json:"volume"`
	MarketCap     string  `json:"marketCap"`
	Sector        string  `json:"sector"`
	PE            float64 `json:"pe"`
	High52w       float64 `json:"high52w"`
	Low52w        float64 `json:"low52w"`
}

// NewsItem is a market headline.
type NewsItem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Category      string    `json:"category"`
	Timestamp     time.Time `json:"timestamp"`
	Impact        string    `json:"impact"`
	RelatedStocks []string  `json:"relatedStocks,omitempty"`
}

// Snapshot is one refresh of the whole market view.
type Snapshot struct {
	Indices   []Index    `json:"indices"`
	Stocks    []Stock    `json:"stocks"`
	News      []NewsItem `json:"news"`
	Timestamp time.Time  `json:"timestamp"`
}

// Quote returns the stock with the given symbol.
func (s Snapshot) Quote(symbol string) (Stock, bool) {
	for _, st := range s.Stocks {
		if st.Symbol == symbol {
			return st, true
		}
	}
	return Stock{}, false
}

type indexDef struct {
	name       string
	base       float64
	valueSwing float64
	delta      float64
	pctSwing   float64
	high, low  float64
	volume     string
}

var indexDefs = []indexDef{
	{"NIFTY 50", 19500, 400, 100, 2, 19800, 19200, "₹45,230 Cr"},
	{"SENSEX", 65000, 1000, 300, 2, 65800, 64200, "₹38,450 Cr"},
	{"NIFTY BANK", 43500, 800, 200, 3, 44200, 42800, "₹12,340 Cr"},
	{"NIFTY IT", 31200, 600, 150, 2.5, 31800, 30600, "₹8,920 Cr"},
}

type stockDef struct {
	symbol, name, sector string
	base                 float64
}

var stockDefs = []stockDef{
	{"RELIANCE", "Reliance Industries Ltd", "Energy", 2450},
	{"TCS", "Tata Consultancy Services", "IT", 3890},
	{"HDFCBANK", "HDFC Bank Ltd", "Banking", 1680},
	{"INFY", "Infosys Ltd", "IT", 1535},
	{"ICICIBANK", "ICICI Bank Ltd", "Banking", 1145},
	{"HINDUNILVR", "Hindustan Unilever Ltd", "FMCG", 2400},
	{"ITC", "ITC Ltd", "FMCG", 487},
	{"SBIN", "State Bank of India", "Banking", 623},
	{"BHARTIARTL", "Bharti Airtel Ltd", "Telecom", 1156},
	{"ASIANPAINT", "Asian Paints Ltd", "Paints", 3245},
}

type newsDef struct {
	title, summary, category, impact string
	maxAge                           time.Duration
	related                          []string
}

var newsDefs = []newsDef{
	{"RBI Keeps Repo Rate Unchanged at 6.5%", "Reserve Bank of India maintains status quo on policy rates, citing inflation concerns and growth stability.", "policy", "neutral", time.Hour, []string{"HDFCBANK", "ICICIBANK", "SBIN"}},
	{"IT Sector Shows Strong Q3 Results", "Major IT companies report better-than-expected earnings with strong guidance for next quarter.", "company", "positive", 2 * time.Hour, []string{"TCS", "INFY"}},
	{"Oil Prices Surge on Global Supply Concerns", "Crude oil prices jump 3% amid geopolitical tensions, benefiting energy sector stocks.", "market", "positive", 3 * time.Hour, []string{"RELIANCE"}},
	{"SEBI Introduces New Regulations for F&O Trading", "Market regulator announces stricter norms for derivatives trading to protect retail investors.", "policy", "neutral", 4 * time.Hour, nil},
	{"Telecom Sector Faces Revenue Pressure", "Industry analysts predict challenging times ahead due to intense competition and regulatory changes.", "company", "negative", 5 * time.Hour, []string{"BHARTIARTL"}},
}

// Feed generates snapshots. It is safe for concurrent use.
type Feed struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewFeed(rnd *rand.Rand, now func() time.Time) *Feed {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Feed{rnd: rnd, now: now}
}

// Snapshot draws a fresh market view.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now().UTC()
	snap := Snapshot{
		Indices:   make([]Index, 0, len(indexDefs)),
		Stocks:    make([]Stock, 0, len(stockDefs)),
		News:      make([]NewsItem, 0, len(newsDefs)),
		Timestamp: now,
	}

	for _, def := range indexDefs {
		snap.Indices = append(snap.Indices, Index{
			Name:          def.name,
			Value:         round2(def.base + f.swing(def.valueSwing)),
			Change:        round2(f.swing(def.delta)),
			ChangePercent: round2(f.swing(def.pctSwing)),
			High:          def.high,
			Low:           def.low,
			Volume:        def.volume,
		})
	}

	for _, def := range stockDefs {
		change := f.swing(50)
		price := def.base + change
		snap.Stocks = append(snap.Stocks, Stock{
			Symbol:        def.symbol,
			Name:          def.name,
			Price:         round2(price),
			Change:        round2(change),
			ChangePercent: round2(change / def.base * 100),
			Volume:        f.rnd.Intn(1000000) + 100000,
			MarketCap:     fmt.Sprintf("₹%d Cr", f.rnd.Intn(500000)+50000),
			Sector:        def.sector,
			PE:            round2(f.rnd.Float64()*30 + 10),
			High52w:       round2(price * (1 + f.rnd.Float64()*0.3)),
			Low52w:        round2(price * (1 - f.rnd.Float64()*0.3)),
		})
	}

	for i, def := range newsDefs {
		age := time.Duration(f.rnd.Int63n(int64(def.maxAge)))
		snap.News = append(snap.News, NewsItem{
			ID:            fmt.Sprintf("%d", i+1),
			Title:         def.title,
			Summary:       def.summary,
			Category:      def.category,
			Timestamp:     now.Add(-age),
			Impact:        def.impact,
			RelatedStocks: append([]string(nil), def.related...),
		})
	}
	return snap
}

// swing returns a value uniformly drawn from [-width/2, width/2).
func (f *Feed) swing(width float64) float64 {
	return (f.rnd.Float64() - 0.5) * width
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
