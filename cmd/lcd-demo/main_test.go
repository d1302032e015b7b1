package main

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callebjorkell/lcd4bit/internal/lcd"
	"github.com/callebjorkell/lcd4bit/internal/lcd/sim"
)

func TestPrintText_LeavesTextAndReleases(t *testing.T) {
	ctrl := sim.NewController()
	nodelay := lcd.DelayFunc(func(time.Duration) {})
	d, err := lcd.New(ctrl, nodelay)
	require.NoError(t, err)
	require.NoError(t, d.Init())

	require.NoError(t, printText(d, 1, 2, "hey"))
	assert.Equal(t, [2]string{"        ", "  hey   "}, ctrl.Lines(8))
	assert.True(t, ctrl.State().On)

	again, err := lcd.New(ctrl, nodelay)
	require.NoError(t, err, "bus still claimed after print")
	require.NoError(t, again.Release())
}

func TestPrintText_BadCursorStillReleases(t *testing.T) {
	ctrl := sim.NewController()
	d, err := lcd.New(ctrl, lcd.DelayFunc(func(time.Duration) {}))
	require.NoError(t, err)

	err = printText(d, 7, 0, "x")
	assert.True(t, errors.IsNotValid(err), "got %v", err)

	again, err := lcd.New(ctrl, nil)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}
