package view

import (
	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/pagination"
)

// Option configures the paged views.
type Option func(*pager)

// WithPageSize overrides the default of 12 movies per page.
func WithPageSize(n int) Option {
	return func(p *pager) {
		if n > 0 {
			p.size = n
		}
	}
}

// OnPageChange registers a hook run after the visible page changes.
// It is called without the view lock held.
func OnPageChange(fn func(page int)) Option {
	return func(p *pager) { p.onChange = fn }
}

// pager holds a whole result set and the selected page.
type pager struct {
	items    []models.MovieSummary
	number   int
	size     int
	onChange func(page int)
}

func newPager(opts []Option) pager {
	p := pager{number: 1, size: pagination.DefaultPageSize}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p *pager) reset(items []models.MovieSummary) {
	p.items = items
	p.number = 1
}

func (p *pager) page() pagination.Page[models.MovieSummary] {
	return pagination.Slice(p.items, p.number, p.size)
}

// set selects page n under b's lock and runs the page-change hook.
func (p *pager) set(b *base, n int) {
	n = max(n, 1)
	var hook func(int)
	if !b.apply(func() {
		p.number = n
		hook = p.onChange
	}) {
		return
	}
	if hook != nil {
		hook(n)
	}
}
