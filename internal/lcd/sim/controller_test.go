package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

func latch(t *testing.T, b Bus, rs gpio.Level, nibble byte) {
	require.NoError(t, b.SetRS(rs))
	require.NoError(t, b.SetEnable(gpio.High))
	require.NoError(t, b.SetData(nibble))
	require.NoError(t, b.SetEnable(gpio.Low))
}

func send(t *testing.T, b Bus, rs gpio.Level, v byte) {
	latch(t, b, rs, v>>4)
	latch(t, b, rs, v&0x0f)
}

// ready brings the controller into 4-bit, 2-line mode with the display on.
func ready(t *testing.T) *Controller {
	c := NewController()
	latch(t, c, gpio.Low, 0x2)
	for _, op := range []byte{0x28, 0x0c, 0x01, 0x06} {
		send(t, c, gpio.Low, op)
	}
	return c
}

func write(t *testing.T, c *Controller, s string) {
	for i := 0; i < len(s); i++ {
		send(t, c, gpio.High, s[i])
	}
}

func TestController_EightBitUntilSwitched(t *testing.T) {
	c := NewController()
	latch(t, c, gpio.Low, 0x3)
	assert.False(t, c.State().FourBit)

	latch(t, c, gpio.Low, 0x2)
	assert.True(t, c.State().FourBit)

	send(t, c, gpio.Low, 0x28)
	assert.True(t, c.State().TwoLines)
}

func TestController_AddressWraps(t *testing.T) {
	c := ready(t)

	send(t, c, gpio.Low, 0x80|0x26)
	write(t, c, "xyz")
	assert.Equal(t, byte(0x41), c.State().Address)
	assert.Equal(t, "xy", c.DDRAM()[0][38:])
	assert.Equal(t, "z", c.DDRAM()[1][:1])

	send(t, c, gpio.Low, 0x04) // decrement
	send(t, c, gpio.Low, 0x80)
	write(t, c, "ab")
	assert.Equal(t, byte(0x66), c.State().Address)
	assert.Equal(t, "b", c.DDRAM()[1][39:])
}

func TestController_AutoShiftKeepsCursorInView(t *testing.T) {
	c := ready(t)

	send(t, c, gpio.Low, 0x80|16)
	send(t, c, gpio.Low, 0x07) // increment and shift
	write(t, c, "abcd")

	assert.Equal(t, 4, c.State().Shift)
	assert.Equal(t, strings.Repeat(" ", 12)+"abcd", c.Lines(16)[0])
}

func TestController_CursorShiftMovesAddressOnly(t *testing.T) {
	c := ready(t)

	send(t, c, gpio.Low, 0x14) // cursor right
	send(t, c, gpio.Low, 0x14)
	send(t, c, gpio.Low, 0x10) // cursor left
	assert.Equal(t, byte(1), c.State().Address)
	assert.Equal(t, 0, c.State().Shift)
}

func TestController_CGRAMWritesLeaveDDRAMAlone(t *testing.T) {
	c := ready(t)

	send(t, c, gpio.Low, 0x40)
	write(t, c, "\x1f\x11")
	send(t, c, gpio.Low, 0x80)
	write(t, c, "A")

	assert.Equal(t, byte(0x1f), c.cgram[0])
	assert.Equal(t, byte(0x11), c.cgram[1])
	assert.Equal(t, "A   ", c.Lines(4)[0])
}

func TestController_OnUpdate(t *testing.T) {
	c := ready(t)
	updates := 0
	c.OnUpdate = func(*Controller) { updates++ }

	write(t, c, "hi")
	assert.Equal(t, 2, updates)

	// half a byte is not an update
	latch(t, c, gpio.High, 0x4)
	assert.Equal(t, 2, updates)
}

func TestRecorder_Forwards(t *testing.T) {
	c := NewController()
	r := &Recorder{Next: c}

	require.NoError(t, r.Configure())
	latch(t, r, gpio.Low, 0x2)
	send(t, r, gpio.Low, 0x0c)
	send(t, r, gpio.High, 'Q')
	r.Delay(5 * time.Microsecond)

	assert.Equal(t, "Q", c.Lines(1)[0])
	assert.Equal(t, []Transfer{
		{RS: gpio.Low, Nibble: 0x2},
		{RS: gpio.Low, Nibble: 0x0},
		{RS: gpio.Low, Nibble: 0xc},
		{RS: gpio.High, Nibble: 0x5},
		{RS: gpio.High, Nibble: 0x1},
	}, r.Transfers())
	assert.Equal(t, []time.Duration{5 * time.Microsecond}, r.Delays(0))
	assert.Equal(t, "configure", r.Events[0].String())
	assert.Equal(t, KindDelay, r.Events[len(r.Events)-1].Kind)
	assert.Equal(t, "D=1", r.Events[len(r.Events)-3].String())
	assert.Equal(t, "E=High", r.Events[len(r.Events)-4].String())

	r.Reset()
	assert.Empty(t, r.Events)
}
