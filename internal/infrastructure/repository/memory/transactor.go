package memory

import (
	"context"
	"fmt"
	"sync"
)

type journalKey struct{}

// journal collects undo steps for writes made inside a league transaction.
type journal struct {
	mu    sync.Mutex
	steps []func()
}

func (j *journal) add(undo func()) {
	j.mu.Lock()
	j.steps = append(j.steps, undo)
	j.mu.Unlock()
}

func (j *journal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.steps) - 1; i >= 0; i-- {
		j.steps[i]()
	}
	j.steps = nil
}

// remember registers undo on the journal carried by ctx, if any. undo runs
// without the repository lock held and must take it itself.
func remember(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok && j != nil {
		j.add(undo)
	}
}

// Transactor serializes work per league and undoes repository writes when
// the unit of work fails.
type Transactor struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTransactor() *Transactor {
	return &Transactor{locks: make(map[string]*sync.Mutex)}
}

func (t *Transactor) InLeagueTx(ctx context.Context, leagueID string, fn func(ctx context.Context) error) (err error) {
	if fn == nil {
		return fmt.Errorf("transaction func is required")
	}

	if _, nested := ctx.Value(journalKey{}).(*journal); nested {
		return fn(ctx)
	}

	lock := t.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	j := &journal{}
	defer func() {
		if rec := recover(); rec != nil {
			j.rollback()
			panic(rec)
		}
		if err != nil {
			j.rollback()
		}
	}()

	return fn(context.WithValue(ctx, journalKey{}, j))
}

func (t *Transactor) leagueLock(leagueID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	lock, ok := t.locks[leagueID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[leagueID] = lock
	}
	return lock
}
