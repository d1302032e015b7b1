package lcd

import (
	"time"
)

const (
	defaultRegisterSelectPin = "GPIO4"
	defaultEnablePin         = "GPIO17"
	defaultData4Pin          = "GPIO25"
	defaultData5Pin          = "GPIO22"
	defaultData6Pin          = "GPIO23"
	defaultData7Pin          = "GPIO24"

	// Rows is the number of rows the DDRAM addressing knows about.
	Rows = 4
	// LineWidth is the number of DDRAM cells per line in 2-line mode.
	LineWidth = 40

	powerOnDelay   = 16000 * time.Microsecond
	registerSetup  = 1 * time.Microsecond
	enablePulse    = 1 * time.Microsecond
	characterDelay = 60 * time.Microsecond
)

var rowOffsets = [Rows]byte{0x00, 0x40, 0x14, 0x54}
