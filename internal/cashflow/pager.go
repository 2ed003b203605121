package cashflow

import "sync"

// Pager tracks the current ledger page. Requests outside [1, Total] are
// ignored and leave the current page unchanged.
type Pager struct {
	mu      sync.Mutex
	current int
	total   int
}

func NewPager() *Pager {
	return &Pager{current: 1, total: 1}
}

func (p *Pager) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Go moves to page and reports whether it did.
func (p *Pager) Go(page int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if page < 1 || page > p.total {
		return false
	}
	p.current = page
	return true
}

func (p *Pager) Next() bool { return p.Go(p.Current() + 1) }
func (p *Pager) Prev() bool { return p.Go(p.Current() - 1) }

// SetTotal records a fresh page count, pulling the current page back in range.
func (p *Pager) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if total < 1 {
		total = 1
	}
	p.total = total
	if p.current > total {
		p.current = total
	}
}

// TotalPages is ceil(count/size) with a floor of one page.
func TotalPages(count int64, size int) int {
	if size <= 0 || count <= 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}
