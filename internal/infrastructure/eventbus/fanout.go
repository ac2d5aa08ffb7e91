package eventbus

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	"github.com/sourcegraph/conc/pool"
)

// FanOut hands the same events to every sink concurrently. A failing sink
// does not stop the others; their errors are joined.
type FanOut struct {
	sinks []event.Publisher
}

func NewFanOut(sinks ...event.Publisher) *FanOut {
	out := make([]event.Publisher, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			out = append(out, sink)
		}
	}
	return &FanOut{sinks: out}
}

func (f *FanOut) Publish(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 || len(f.sinks) == 0 {
		return nil
	}

	p := pool.New().WithErrors().WithContext(ctx)
	for _, sink := range f.sinks {
		p.Go(func(ctx context.Context) error {
			if err := sink.Publish(ctx, events...); err != nil {
				return errors.Wrapf(err, "publish to %T", sink)
			}
			return nil
		})
	}
	return p.Wait()
}
