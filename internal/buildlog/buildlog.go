// Package buildlog provides structured logging and stage timing for the
// navmesh build pipeline, standing in for the ad hoc message list and
// timer array a build context would otherwise carry.
package buildlog

import (
	"time"

	"go.uber.org/zap"
)

// Build wraps a zap.Logger with named, accumulating stage timers. The zero
// value is not usable; construct with New.
type Build struct {
	log   *zap.Logger
	start map[string]time.Time
	acc   map[string]time.Duration
}

// New returns a Build backed by log, or a no-op logger if log is nil.
func New(log *zap.Logger) *Build {
	if log == nil {
		log = zap.NewNop()
	}
	return &Build{
		log:   log,
		start: make(map[string]time.Time),
		acc:   make(map[string]time.Duration),
	}
}

// Progress logs a progress-level message with optional structured fields.
func (b *Build) Progress(msg string, fields ...zap.Field) {
	b.log.Info(msg, fields...)
}

// Warn logs a warning-level message.
func (b *Build) Warn(msg string, fields ...zap.Field) {
	b.log.Warn(msg, fields...)
}

// Error logs an error-level message.
func (b *Build) Error(msg string, fields ...zap.Field) {
	b.log.Error(msg, fields...)
}

// StartTimer marks the start of label. A label already running is
// restarted from now.
func (b *Build) StartTimer(label string) {
	b.start[label] = time.Now()
}

// StopTimer accumulates the elapsed time since the matching StartTimer call
// into label's running total. Calling it without a matching start is a
// no-op.
func (b *Build) StopTimer(label string) {
	t0, ok := b.start[label]
	if !ok {
		return
	}
	b.acc[label] += time.Since(t0)
	delete(b.start, label)
}

// AccumulatedTime returns the running total time spent under label across
// every StartTimer/StopTimer pair so far.
func (b *Build) AccumulatedTime(label string) time.Duration {
	return b.acc[label]
}

// Timed runs fn, logging its duration under label and accumulating it, and
// returns fn's error.
func (b *Build) Timed(label string, fn func() error) error {
	before := b.AccumulatedTime(label)
	b.StartTimer(label)
	err := fn()
	b.StopTimer(label)
	fields := []zap.Field{zap.Duration("elapsed", b.AccumulatedTime(label)-before)}
	if err != nil {
		b.Error(label+" failed", append(fields, zap.Error(err))...)
	} else {
		b.Progress(label+" done", fields...)
	}
	return err
}
