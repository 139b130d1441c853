package translator

import "sync"

// ProgressFunc receives the completed-record count, the total, and the
// derived percentage after every update.
type ProgressFunc func(done, total int, percent float64)

// Progress is a thread-safe completion counter shared by all workers. The
// lock covers the read, the increment, and the report as one unit so
// concurrent updates can never lose a count.
type Progress struct {
	mu     sync.Mutex
	total  int
	done   int
	report ProgressFunc
}

func NewProgress(total int, report ProgressFunc) *Progress {
	return &Progress{
		total:  total,
		report: report,
	}
}

// Update adds n completed records and reports the new state.
func (p *Progress) Update(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done += n
	percent := 0.0
	if p.total > 0 {
		percent = float64(p.done) / float64(p.total) * 100
	}
	if p.report != nil {
		p.report(p.done, p.total, percent)
	}
}

// Done returns the current completed-record count.
func (p *Progress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
