package lcd

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/callebjorkell/lcd4bit/internal/lcd/sim"
)

func newTestPins() (rs, e *gpiotest.Pin, data [4]*gpiotest.Pin) {
	rs = &gpiotest.Pin{N: "RS", Num: 4, L: gpio.High}
	e = &gpiotest.Pin{N: "E", Num: 17, L: gpio.High}
	for i, num := range []int{25, 22, 23, 24} {
		data[i] = &gpiotest.Pin{N: "D" + string(rune('4'+i)), Num: num, L: gpio.High}
	}
	return
}

func TestPinBus(t *testing.T) {
	rs, e, data := newTestPins()
	bus, err := NewPinBus(rs, e, [4]gpio.PinOut{data[0], data[1], data[2], data[3]})
	require.NoError(t, err)

	require.NoError(t, bus.Configure())
	assert.Equal(t, gpio.Low, rs.L)
	assert.Equal(t, gpio.Low, e.L)
	for _, p := range data {
		assert.Equal(t, gpio.Low, p.L, p.N)
	}

	require.NoError(t, bus.SetData(0x0a))
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.High, gpio.Low, gpio.High},
		[]gpio.Level{data[0].L, data[1].L, data[2].L, data[3].L})

	require.NoError(t, bus.SetRS(gpio.High))
	require.NoError(t, bus.SetEnable(gpio.High))
	assert.Equal(t, gpio.High, rs.L)
	assert.Equal(t, gpio.High, e.L)

	require.NoError(t, bus.Halt())
	assert.Equal(t, gpio.Low, rs.L)
	assert.Equal(t, gpio.Low, data[3].L)

	assert.Contains(t, bus.String(), "RS")
}

func TestNewPinBus_NilPin(t *testing.T) {
	rs, e, data := newTestPins()
	_, err := NewPinBus(rs, nil, [4]gpio.PinOut{data[0], data[1], data[2], data[3]})
	assert.True(t, errors.IsNotValid(err))

	_, err = NewPinBus(rs, e, [4]gpio.PinOut{data[0], nil, data[2], data[3]})
	assert.True(t, errors.IsNotValid(err))
}

func TestClaim(t *testing.T) {
	bus := &sim.Recorder{}
	first, err := New(bus, bus)
	require.NoError(t, err)

	_, err = New(bus, bus)
	assert.True(t, errors.IsAlreadyExists(err), "got %v", err)

	other := &sim.Recorder{}
	second, err := New(other, other)
	require.NoError(t, err)
	require.NoError(t, second.Close())

	require.NoError(t, first.Close())
	again, err := New(bus, bus)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

// traceBus is a value type Bus with a slice inside, so it cannot be a map key.
type traceBus struct {
	trace []string
}

func (b traceBus) String() string               { return "trace" }
func (b traceBus) Halt() error                  { return nil }
func (b traceBus) Configure() error             { return nil }
func (b traceBus) SetRS(l gpio.Level) error     { return nil }
func (b traceBus) SetEnable(l gpio.Level) error { return nil }
func (b traceBus) SetData(nibble byte) error    { return nil }

func TestClaim_UncomparableBus(t *testing.T) {
	var l *LCD
	var err error
	assert.NotPanics(t, func() {
		l, err = New(traceBus{trace: []string{"x"}}, nil)
	})
	assert.Nil(t, l)
	assert.True(t, errors.IsNotValid(err), "got %v", err)

	// The same type behind a pointer is fine.
	p := &traceBus{}
	l, err = New(p, nil)
	require.NoError(t, err)
	require.NoError(t, l.Release())
}

func TestNew_NilBus(t *testing.T) {
	_, err := New(nil, nil)
	assert.True(t, errors.IsNotValid(err))
}
