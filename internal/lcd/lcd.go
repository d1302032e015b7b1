package lcd

import (
	"fmt"
	"io"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

const (
	command   = gpio.Low
	character = gpio.High
)

// LCD drives an HD44780 compatible controller in 4-bit mode. R/W is expected
// to be tied to ground, so there is no busy flag and every operation simply
// waits out the worst case time the controller needs.
//
// An LCD is not safe for concurrent use.
type LCD struct {
	bus   Bus
	delay Delayer
}

// New claims bus for the returned driver. Only one driver can own a bus at a
// time; Close gives it back. A nil delay means BusyWait.
func New(bus Bus, delay Delayer) (*LCD, error) {
	if bus == nil {
		return nil, errors.NotValidf("nil bus")
	}
	if delay == nil {
		delay = BusyWait
	}
	if err := claim(bus); err != nil {
		return nil, err
	}
	return &LCD{bus: bus, delay: delay}, nil
}

func (l *LCD) String() string {
	return fmt.Sprintf("HD44780 on %s", l.bus)
}

// Init runs the power-on reset sequence from the datasheet and leaves the
// display on, cleared, with the cursor hidden at home. The controller may be
// in any state, even halfway through a 4-bit transfer, so the 8-bit function
// set is repeated until it is in sync.
func (l *LCD) Init() error {
	log.Debugf("Initializing LCD on %s", l.bus)
	if err := l.bus.Configure(); err != nil {
		return errors.Annotate(err, "configure bus")
	}
	l.delay.Delay(powerOnDelay)

	wakeup := FunctionSet(true, true, false)
	steps := []Command{
		{Op: wakeup.Op, Settle: wakeup.Settle + 4100*time.Microsecond},
		{Op: wakeup.Op, Settle: wakeup.Settle + 100*time.Microsecond},
		wakeup,
		FunctionSet(false, true, false),
	}
	for i, c := range steps {
		if err := l.command8(c); err != nil {
			return errors.Annotatef(err, "reset step %d", i+1)
		}
	}

	for _, c := range []Command{
		FunctionSet(false, true, false),
		DisplayControl(false, false, false),
		ClearDisplay,
		EntryModeSet(true, false),
		DisplayControl(true, false, false),
	} {
		if err := l.Command(c); err != nil {
			return errors.Annotatef(err, "init %v", c)
		}
	}
	return nil
}

// command8 sends only the high nibble, which is how an 8-bit instruction
// looks to a controller that is wired for 4 bits.
func (l *LCD) command8(c Command) error {
	if err := l.bus.SetRS(command); err != nil {
		return errors.Trace(err)
	}
	l.delay.Delay(registerSetup)
	if err := l.pulse(c.Op >> 4); err != nil {
		return errors.Trace(err)
	}
	l.delay.Delay(c.Settle)
	return nil
}

// Command sends an instruction and waits for c.Settle.
func (l *LCD) Command(c Command) error {
	if err := l.send(c.Op, command); err != nil {
		return errors.Annotatef(err, "command %v", c)
	}
	l.delay.Delay(c.Settle)
	return nil
}

// WriteByte writes one character at the cursor. The controller moves the
// cursor according to the current entry mode.
func (l *LCD) WriteByte(c byte) error {
	if err := l.send(c, character); err != nil {
		return errors.Annotatef(err, "character %q", c)
	}
	l.delay.Delay(characterDelay)
	return nil
}

func (l *LCD) Write(p []byte) (n int, err error) {
	for _, c := range p {
		if err = l.WriteByte(c); err != nil {
			return
		}
		n++
	}
	return
}

func (l *LCD) WriteString(s string) (n int, err error) {
	for i := 0; i < len(s); i++ {
		if err = l.WriteByte(s[i]); err != nil {
			return
		}
		n++
	}
	return
}

func (l *LCD) send(b byte, mode gpio.Level) error {
	if err := l.bus.SetRS(mode); err != nil {
		return err
	}
	l.delay.Delay(registerSetup)
	if err := l.pulse(b >> 4); err != nil {
		return err
	}
	return l.pulse(b & 0x0f)
}

// pulse latches one nibble. The controller samples the data lines on the
// falling edge of E, and both phases of the pulse need at least 500ns. A
// failed strobe still tries to leave E low.
func (l *LCD) pulse(nibble byte) error {
	if err := l.bus.SetEnable(gpio.High); err != nil {
		l.enableLow()
		return err
	}
	if err := l.bus.SetData(nibble); err != nil {
		l.enableLow()
		return err
	}
	l.delay.Delay(enablePulse)
	if err := l.bus.SetEnable(gpio.Low); err != nil {
		l.enableLow()
		return err
	}
	l.delay.Delay(enablePulse)
	return nil
}

func (l *LCD) enableLow() {
	if err := l.bus.SetEnable(gpio.Low); err != nil {
		log.Warnf("Unable to drop E on %s: %v", l.bus, err)
	}
}

// SetCursor moves the cursor to the given row and column. Rows above 3 and
// columns past the end of a DDRAM line are rejected without touching the
// display.
func (l *LCD) SetCursor(row, col uint8) error {
	if row >= Rows {
		return errors.NotValidf("row %d", row)
	}
	if col >= LineWidth {
		return errors.NotValidf("column %d", col)
	}
	return l.Command(SetDDRAMAddress(rowOffsets[row] + col))
}

func (l *LCD) Clear() error {
	return l.Command(ClearDisplay)
}

func (l *LCD) Home() error {
	return l.Command(ReturnHome)
}

func (l *LCD) EntryMode(increment, shift bool) error {
	return l.Command(EntryModeSet(increment, shift))
}

func (l *LCD) Display(on, cursor, blink bool) error {
	return l.Command(DisplayControl(on, cursor, blink))
}

// Shift moves the cursor, or the whole display when display is set, one
// position left or right.
func (l *LCD) Shift(display, right bool) error {
	return l.Command(CursorDisplayShift(display, right))
}

// Halt clears and switches off the display and leaves the bus lines low.
func (l *LCD) Halt() error {
	if err := l.Clear(); err != nil {
		return err
	}
	if err := l.Display(false, false, false); err != nil {
		return err
	}
	return l.bus.Halt()
}

// Close halts the display and releases the bus.
func (l *LCD) Close() error {
	err := l.Halt()
	if rerr := l.Release(); err == nil {
		err = rerr
	}
	return err
}

// Release closes the bus and gives up ownership without touching the
// display, which keeps showing whatever was written last.
func (l *LCD) Release() error {
	defer release(l.bus)
	if c, ok := l.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ conn.Resource = &LCD{}
var _ io.Writer = &LCD{}
var _ io.ByteWriter = &LCD{}
var _ io.StringWriter = &LCD{}
