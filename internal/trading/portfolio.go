// Package trading runs paper-money portfolios against the synthetic market.
package trading

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"gyani-service/internal/domain"
)

// StartingCash is the virtual balance every portfolio opens with (₹1,00,000).
const StartingCash = 100000.0

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Holding is a position in one stock.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Quantity     int     `json:"quantity"`
	AvgPrice     float64 `json:"avgPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	TotalValue   float64 `json:"totalValue"`
	PnL          float64 `json:"pnl"`
	PnLPercent   float64 `json:"pnlPercent"`
}

func (h *Holding) revalue(price float64) {
	h.CurrentPrice = price
	h.TotalValue = float64(h.Quantity) * price
	h.PnL = h.TotalValue - float64(h.Quantity)*h.AvgPrice
	if h.AvgPrice > 0 {
		h.PnLPercent = (price - h.AvgPrice) / h.AvgPrice * 100
	}
}

// Trade is an executed order.
type Trade struct {
	Side      Side      `json:"side"`
	Symbol    string    `json:"symbol"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// Analytics summarises a portfolio.
type Analytics struct {
	Cash           float64 `json:"cash"`
	PortfolioValue float64 `json:"portfolioValue"`
	TotalInvested  float64 `json:"totalInvested"`
	TotalPnL       float64 `json:"totalPnl"`
	PnLPercent     float64 `json:"pnlPercent"`
	WinRate        int     `json:"winRate"`
	BestPerformer  string  `json:"bestPerformer,omitempty"`
	Holdings       int     `json:"holdings"`
	Trades         int     `json:"trades"`
}

// View is the full portfolio as returned to clients.
type View struct {
	Cash      float64   `json:"cash"`
	Holdings  []Holding `json:"holdings"`
	Trades    []Trade   `json:"trades"`
	Analytics Analytics `json:"analytics"`
}

// Portfolio is one profile's paper account.
type Portfolio struct {
	mu       sync.RWMutex
	cash     float64
	holdings map[string]*Holding
	trades   []Trade
	now      func() time.Time
}

func NewPortfolio(now func() time.Time) *Portfolio {
	if now == nil {
		now = time.Now
	}
	return &Portfolio{
		cash:     StartingCash,
		holdings: make(map[string]*Holding),
		now:      now,
	}
}

// Buy adds quantity shares at price, averaging into an existing holding.
func (p *Portfolio) Buy(symbol string, quantity int, price float64) (Trade, error) {
	if quantity <= 0 {
		return Trade{}, domain.ErrInvalidQuantity
	}
	total := price * float64(quantity)

	p.mu.Lock()
	defer p.mu.Unlock()

	if total > p.cash {
		return Trade{}, fmt.Errorf("%w: need %.2f, have %.2f", domain.ErrInsufficientFunds, total, p.cash)
	}
	p.cash -= total

	h, ok := p.holdings[symbol]
	if !ok {
		h = &Holding{Symbol: symbol}
		p.holdings[symbol] = h
	}
	newQty := h.Quantity + quantity
	h.AvgPrice = (h.AvgPrice*float64(h.Quantity) + total) / float64(newQty)
	h.Quantity = newQty
	h.revalue(price)

	return p.record(SideBuy, symbol, quantity, price, total), nil
}

// Sell closes quantity shares at price. A holding sold down to zero is removed.
func (p *Portfolio) Sell(symbol string, quantity int, price float64) (Trade, error) {
	if quantity <= 0 {
		return Trade{}, domain.ErrInvalidQuantity
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	h, ok := p.holdings[symbol]
	if !ok || h.Quantity < quantity {
		held := 0
		if ok {
			held = h.Quantity
		}
		return Trade{}, fmt.Errorf("%w: %s held %d, selling %d", domain.ErrInsufficientShares, symbol, held, quantity)
	}

	total := price * float64(quantity)
	p.cash += total
	h.Quantity -= quantity
	if h.Quantity == 0 {
		delete(p.holdings, symbol)
	} else {
		h.revalue(price)
	}
	return p.record(SideSell, symbol, quantity, price, total), nil
}

func (p *Portfolio) record(side Side, symbol string, quantity int, price, total float64) Trade {
	t := Trade{
		Side:      side,
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		Total:     total,
		Timestamp: p.now().UTC(),
	}
	p.trades = append(p.trades, t)
	return t
}

// Reprice marks holdings to the given prices. Unknown symbols are ignored.
func (p *Portfolio) Reprice(prices map[string]float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for symbol, h := range p.holdings {
		if price, ok := prices[symbol]; ok {
			h.revalue(price)
		}
	}
}

// Analytics computes the portfolio summary. Win rate is 0 without holdings.
func (p *Portfolio) Analytics() Analytics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.analyticsLocked()
}

func (p *Portfolio) analyticsLocked() Analytics {
	a := Analytics{
		Cash:          p.cash,
		TotalInvested: StartingCash - p.cash,
		Holdings:      len(p.holdings),
		Trades:        len(p.trades),
	}
	value := p.cash
	winners := 0
	best := math.Inf(-1)
	for _, symbol := range p.sortedSymbols() {
		h := p.holdings[symbol]
		value += h.TotalValue
		a.TotalPnL += h.PnL
		if h.PnL > 0 {
			winners++
		}
		if h.PnLPercent > best {
			best = h.PnLPercent
			a.BestPerformer = symbol
		}
	}
	a.PortfolioValue = value
	if a.TotalInvested > 0 {
		a.PnLPercent = a.TotalPnL / a.TotalInvested * 100
	}
	if len(p.holdings) > 0 {
		a.WinRate = int(math.Round(float64(winners) / float64(len(p.holdings)) * 100))
	}
	return a
}

// View snapshots the portfolio.
func (p *Portfolio) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()

	holdings := make([]Holding, 0, len(p.holdings))
	for _, symbol := range p.sortedSymbols() {
		holdings = append(holdings, *p.holdings[symbol])
	}
	return View{
		Cash:      p.cash,
		Holdings:  holdings,
		Trades:    append([]Trade{}, p.trades...),
		Analytics: p.analyticsLocked(),
	}
}

func (p *Portfolio) sortedSymbols() []string {
	symbols := make([]string, 0, len(p.holdings))
	for s := range p.holdings {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
