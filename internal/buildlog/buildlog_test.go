package buildlog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUsableWithNilLogger(t *testing.T) {
	b := New(nil)
	require.NotNil(t, b)
	assert.NotPanics(t, func() {
		b.Progress("hello")
		b.Warn("careful")
		b.Error("oops")
	})
}

func TestStartStopTimerAccumulates(t *testing.T) {
	b := New(nil)
	b.StartTimer("rasterize")
	time.Sleep(time.Millisecond)
	b.StopTimer("rasterize")
	first := b.AccumulatedTime("rasterize")
	assert.Greater(t, first, time.Duration(0))

	b.StartTimer("rasterize")
	time.Sleep(time.Millisecond)
	b.StopTimer("rasterize")
	assert.Greater(t, b.AccumulatedTime("rasterize"), first)
}

func TestStopTimerWithoutStartIsNoop(t *testing.T) {
	b := New(nil)
	assert.NotPanics(t, func() { b.StopTimer("never-started") })
	assert.Equal(t, time.Duration(0), b.AccumulatedTime("never-started"))
}

func TestTimedReturnsFnError(t *testing.T) {
	b := New(nil)
	sentinel := errors.New("boom")
	err := b.Timed("stage", func() error { return sentinel })
	assert.Equal(t, sentinel, err)
	assert.Greater(t, b.AccumulatedTime("stage"), time.Duration(-1))
}

func TestTimedSucceeds(t *testing.T) {
	b := New(nil)
	called := false
	err := b.Timed("stage", func() error { called = true; return nil })
	require.NoError(t, err)
	assert.True(t, called)
}
