package serialmux

import (
	"context"
	"errors"
	"time"

	"github.com/banshee-data/motion.report/internal/features"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/timeutil"
)

var logf = monitoring.Component("collector")

// BatchHandler receives each completed batch of readings.
type BatchHandler func(ctx context.Context, batch []features.Reading) error

// Collector parses reading lines from a mux subscription and groups them into
// batches. A batch is handed off when it reaches Size readings or when Timeout
// has passed since its first reading, whichever comes first.
type Collector struct {
	Mux     SerialMuxInterface
	Size    int
	Timeout time.Duration
	Handle  BatchHandler
	Clock   timeutil.Clock
}

// NewCollector returns a Collector. Non-positive size or timeout fall back to
// 500 readings and 2 seconds.
func NewCollector(mux SerialMuxInterface, size int, timeout time.Duration, handle BatchHandler) *Collector {
	if size <= 0 {
		size = 500
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Collector{Mux: mux, Size: size, Timeout: timeout, Handle: handle, Clock: timeutil.RealClock{}}
}

// Run consumes lines until ctx is cancelled or the mux closes the
// subscription. A partial batch pending at that point is still handed off.
func (c *Collector) Run(ctx context.Context) error {
	id, lines := c.Mux.Subscribe()
	defer c.Mux.Unsubscribe(id)

	var (
		pending []features.Reading
		timer   timeutil.Timer
		timeout <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timer, timeout = nil, nil
	}
	flush := func(ctx context.Context) {
		stopTimer()
		if len(pending) == 0 {
			return
		}
		batch := pending
		pending = nil
		if err := c.Handle(ctx, batch); err != nil {
			logf("failed to handle batch of %d readings: %v", len(batch), err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush(context.WithoutCancel(ctx))
			return ctx.Err()

		case <-timeout:
			flush(ctx)

		case line, ok := <-lines:
			if !ok {
				flush(ctx)
				return nil
			}
			r, err := ParseReading(line)
			if errors.Is(err, ErrNotReading) {
				if ClassifyPayload(line) == EventTypeStatus {
					logf("hub status: %s", line)
				}
				continue
			}
			if err != nil {
				logf("dropping line: %v", err)
				continue
			}
			pending = append(pending, r)
			if len(pending) == 1 {
				timer = c.Clock.NewTimer(c.Timeout)
				timeout = timer.C()
			}
			if len(pending) >= c.Size {
				flush(ctx)
			}
		}
	}
}
