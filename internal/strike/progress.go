// Package strike counts hits on yes markers and produces the feedback
// effects that go with them.
package strike

import "fmt"

// Progress is a bounded monotonic counter.
type Progress struct {
	count    int
	required int
	reached  bool
}

func NewProgress(required int) *Progress {
	if required < 1 {
		required = 1
	}
	return &Progress{required: required}
}

// Increment adds one hit and reports whether this hit is the one that first
// reached the bound. Hits past the bound are ignored.
func (p *Progress) Increment() bool {
	if p.count >= p.required {
		return false
	}
	p.count++
	if p.count == p.required && !p.reached {
		p.reached = true
		return true
	}
	return false
}

func (p *Progress) Count() int    { return p.count }
func (p *Progress) Required() int { return p.required }
func (p *Progress) Done() bool    { return p.reached }

func (p *Progress) String() string {
	return fmt.Sprintf("%d/%d", p.count, p.required)
}
