package tui

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// LogObserver reports progress as structured log lines, for runs without a
// terminal.
type LogObserver struct {
	logger   log.Logger
	interval time.Duration
	start    time.Time
	last     time.Time
	now      func() time.Time
}

func NewLogObserver(logger log.Logger, interval time.Duration) *LogObserver {
	now := time.Now()
	return &LogObserver{
		logger:   log.With(logger, "component", "progress"),
		interval: interval,
		start:    now,
		last:     now,
		now:      time.Now,
	}
}

func (o *LogObserver) OnStep(step, total int) {
	now := o.now()
	if step != total && now.Sub(o.last) < o.interval {
		return
	}
	o.last = now

	elapsed := now.Sub(o.start).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(step) / elapsed
	}
	pct := 100.0
	if total > 0 {
		pct = 100 * float64(step) / float64(total)
	}

	level.Info(o.logger).Log(
		"msg", "progress",
		"step", step,
		"total", total,
		"pct", fmt.Sprintf("%.1f", pct),
		"steps_per_sec", formatRate(rate),
	)
}
