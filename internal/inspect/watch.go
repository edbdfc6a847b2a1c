package inspect

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/pranshuparmar/witr/internal/logger"
	"github.com/pranshuparmar/witr/pkg/model"
)

// Frame is one tick of a watch.
type Frame struct {
	Tick   int
	At     time.Time
	Result model.Result
	// Lost is set once the target no longer exists. Result then holds the
	// last successful inspection.
	Lost bool
	Err  error
}

// Watch re-inspects pid every interval until ctx is done, calling emit
// after each inspection. Inspections never overlap: ticks that fire while
// one is running are dropped. A vanished target is reported through
// Frame.Lost and the loop keeps running.
func (i *Inspector) Watch(ctx context.Context, t model.Target, pid int, interval time.Duration, emit func(Frame)) error {
	if interval <= 0 {
		return errors.Errorf("invalid watch interval %s", interval)
	}

	var last model.Result
	tick := 0
	run := func() {
		tick++
		i.snapshot.Refresh(ctx)
		res, err := i.inspect(ctx, t, pid)
		frame := Frame{Tick: tick, At: i.now(), Err: err}
		switch {
		case err == nil:
			last = res
			frame.Result = res
		case errors.Is(err, ErrProcessNotFound):
			frame.Lost = true
			frame.Result = last
		default:
			logger.Logger(ctx).Debug().Err(err).Int("pid", pid).Msg("watch tick failed")
			frame.Result = last
		}
		emit(frame)
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			run()
		}
	}
}
