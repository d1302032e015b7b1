package lcd

import (
	"fmt"
	"time"
)

// Command is a controller instruction together with the time the controller
// needs before it accepts the next one.
type Command struct {
	Op     byte
	Settle time.Duration
}

func (c Command) String() string {
	return fmt.Sprintf("0x%02x/%v", c.Op, c.Settle)
}

const (
	shortSettle = 50 * time.Microsecond
	longSettle  = 1600 * time.Microsecond
)

var (
	ClearDisplay = Command{Op: 0x01, Settle: longSettle}
	ReturnHome   = Command{Op: 0x02, Settle: longSettle}
)

func bit(b bool, shift uint) byte {
	if b {
		return 1 << shift
	}
	return 0
}

// EntryModeSet selects whether the address counter increments or decrements
// after each character and whether the display shifts along with it.
func EntryModeSet(increment, shift bool) Command {
	return Command{Op: 0x04 | bit(increment, 1) | bit(shift, 0), Settle: shortSettle}
}

func DisplayControl(display, cursor, blink bool) Command {
	return Command{Op: 0x08 | bit(display, 2) | bit(cursor, 1) | bit(blink, 0), Settle: shortSettle}
}

// CursorDisplayShift moves the cursor, or the whole display when display is
// set, one position without touching DDRAM.
func CursorDisplayShift(display, right bool) Command {
	return Command{Op: 0x10 | bit(display, 3) | bit(right, 2), Settle: shortSettle}
}

func FunctionSet(eightBit, twoLines, font5x10 bool) Command {
	return Command{Op: 0x20 | bit(eightBit, 4) | bit(twoLines, 3) | bit(font5x10, 2), Settle: shortSettle}
}

func SetCGRAMAddress(addr byte) Command {
	return Command{Op: 0x40 | addr&0x3f, Settle: shortSettle}
}

func SetDDRAMAddress(addr byte) Command {
	return Command{Op: 0x80 | addr&0x7f, Settle: shortSettle}
}
