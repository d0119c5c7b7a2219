package runtime

import (
	"chat-relay/contract"

	"golang.org/x/sync/errgroup"
)

var _ contract.Pool = (*Pool)(nil)

// Pool runs one task per accepted stream connection.
// With a limit <= 0 it never refuses a task.
type Pool struct {
	group errgroup.Group
}

func NewPool(limit int) *Pool {
	p := &Pool{}
	if limit > 0 {
		p.group.SetLimit(limit)
	}
	return p
}

// TryGo starts task unless the limit of running tasks is reached.
func (p *Pool) TryGo(task func()) bool {
	return p.group.TryGo(func() error {
		task()
		return nil
	})
}

// Wait blocks until every started task has returned.
func (p *Pool) Wait() {
	_ = p.group.Wait()
}
