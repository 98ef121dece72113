package trading

import (
	"sync"
	"time"

	"gyani-service/internal/domain"
)

// Registry hands out one portfolio per profile.
type Registry struct {
	mu         sync.Mutex
	portfolios map[string]*Portfolio
	now        func() time.Time
}

func NewRegistry(now func() time.Time) *Registry {
	return &Registry{portfolios: make(map[string]*Portfolio), now: now}
}

// Portfolio returns the profile's portfolio, opening it on first use.
func (r *Registry) Portfolio(profileID string) (*Portfolio, error) {
	if profileID == "" {
		return nil, domain.ErrProfileRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.portfolios[profileID]
	if !ok {
		p = NewPortfolio(r.now)
		r.portfolios[profileID] = p
	}
	return p, nil
}

// Len reports the number of open portfolios.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.portfolios)
}
