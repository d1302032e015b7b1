// Package sim contains a software HD44780 and a recording bus, for tests and
// for running without hardware.
package sim

import (
	"bytes"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

const (
	lineWidth  = 40
	secondLine = 0x40
)

// Controller decodes the 4-bit bus protocol the way the chip does and keeps
// DDRAM, the address counter and the display flags. It latches RS and the
// data nibble on the falling edge of E. It powers up in 8-bit mode, where
// each latch is a whole instruction with only the upper four bits wired.
type Controller struct {
	mu sync.Mutex

	rs     gpio.Level
	enable gpio.Level
	data   byte

	fourBit bool
	pending bool
	high    byte

	ddram     [2][lineWidth]byte
	cgram     [64]byte
	addr      byte
	cgramMode bool
	increment bool
	autoShift bool
	shift     int
	on        bool
	cursor    bool
	blink     bool
	twoLines  bool

	// OnUpdate, when set, is called after every instruction or character
	// with the controller unlocked.
	OnUpdate func(c *Controller)
}

func NewController() *Controller {
	c := &Controller{increment: true}
	c.clear()
	return c
}

func (c *Controller) String() string {
	return "sim.Controller"
}

func (c *Controller) Halt() error {
	return c.Configure()
}

func (c *Controller) Configure() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rs, c.enable, c.data = gpio.Low, gpio.Low, 0
	return nil
}

func (c *Controller) SetRS(l gpio.Level) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rs = l
	return nil
}

func (c *Controller) SetData(nibble byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = nibble & 0x0f
	return nil
}

func (c *Controller) SetEnable(l gpio.Level) error {
	c.mu.Lock()
	falling := c.enable == gpio.High && l == gpio.Low
	c.enable = l
	done := false
	if falling {
		done = c.latch()
	}
	hook := c.OnUpdate
	c.mu.Unlock()

	if done && hook != nil {
		hook(c)
	}
	return nil
}

func (c *Controller) latch() bool {
	if !c.fourBit {
		c.exec(c.data<<4, c.rs)
		return true
	}
	if !c.pending {
		c.high = c.data
		c.pending = true
		return false
	}
	c.pending = false
	c.exec(c.high<<4|c.data, c.rs)
	return true
}

func (c *Controller) exec(b byte, rs gpio.Level) {
	if rs == gpio.High {
		c.writeData(b)
		return
	}
	switch {
	case b&0x80 != 0:
		c.addr = b & 0x7f
		c.cgramMode = false
	case b&0x40 != 0:
		c.addr = b & 0x3f
		c.cgramMode = true
	case b&0x20 != 0:
		c.fourBit = b&0x10 == 0
		c.twoLines = b&0x08 != 0
		c.pending = false
	case b&0x10 != 0:
		right := b&0x04 != 0
		if b&0x08 != 0 {
			c.shiftDisplay(right)
		} else {
			c.addr = c.step(c.addr, right)
		}
	case b&0x08 != 0:
		c.on = b&0x04 != 0
		c.cursor = b&0x02 != 0
		c.blink = b&0x01 != 0
	case b&0x04 != 0:
		c.increment = b&0x02 != 0
		c.autoShift = b&0x01 != 0
	case b&0x02 != 0:
		c.addr = 0
		c.shift = 0
		c.cgramMode = false
	case b&0x01 != 0:
		c.clear()
	}
}

func (c *Controller) clear() {
	for i := range c.ddram {
		copy(c.ddram[i][:], bytes.Repeat([]byte{' '}, lineWidth))
	}
	c.addr = 0
	c.shift = 0
	c.increment = true
	c.cgramMode = false
}

func (c *Controller) writeData(b byte) {
	if c.cgramMode {
		c.cgram[c.addr&0x3f] = b
		c.addr = (c.addr + 1) & 0x3f
		return
	}
	line, col := c.cell(c.addr)
	c.ddram[line][col] = b
	c.addr = c.step(c.addr, c.increment)
	if c.autoShift {
		// Writing with increment shifts the display left, so the cursor
		// appears to stand still.
		c.shiftDisplay(!c.increment)
	}
}

func (c *Controller) cell(addr byte) (line, col int) {
	if addr >= secondLine {
		line = 1
		addr -= secondLine
	}
	col = int(addr) % lineWidth
	return
}

// step moves the address counter one cell, wrapping from the end of the
// first line into the second and from the end of the second back to zero.
func (c *Controller) step(addr byte, forward bool) byte {
	line, col := c.cell(addr)
	if forward {
		col++
		if col == lineWidth {
			col = 0
			line = 1 - line
		}
	} else {
		col--
		if col < 0 {
			col = lineWidth - 1
			line = 1 - line
		}
	}
	return byte(line*secondLine + col)
}

func (c *Controller) shiftDisplay(right bool) {
	if right {
		c.shift = (c.shift + lineWidth - 1) % lineWidth
	} else {
		c.shift = (c.shift + 1) % lineWidth
	}
}

// Lines returns what a panel with cols columns shows on both lines. A
// display that is switched off shows blanks.
func (c *Controller) Lines(cols int) [2]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out [2]string
	for line := range out {
		buf := make([]byte, cols)
		for i := range buf {
			buf[i] = ' '
			if c.on {
				buf[i] = c.ddram[line][(c.shift+i)%lineWidth]
			}
		}
		out[line] = string(buf)
	}
	return out
}

// DDRAM returns the full content of both lines, ignoring the display shift.
func (c *Controller) DDRAM() [2]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return [2]string{string(c.ddram[0][:]), string(c.ddram[1][:])}
}

// State is a snapshot of the controller registers.
type State struct {
	FourBit   bool
	TwoLines  bool
	On        bool
	Cursor    bool
	Blink     bool
	Increment bool
	AutoShift bool
	Address   byte
	Shift     int
}

func (s State) String() string {
	return fmt.Sprintf("addr=0x%02x shift=%d on=%v cursor=%v blink=%v inc=%v autoshift=%v",
		s.Address, s.Shift, s.On, s.Cursor, s.Blink, s.Increment, s.AutoShift)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		FourBit:   c.fourBit,
		TwoLines:  c.twoLines,
		On:        c.on,
		Cursor:    c.cursor,
		Blink:     c.blink,
		Increment: c.increment,
		AutoShift: c.autoShift,
		Address:   c.addr,
		Shift:     c.shift,
	}
}
