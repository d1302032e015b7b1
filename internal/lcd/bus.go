package lcd

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/juju/errors"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Bus is the six line interface to the controller: D4..D7, RS and E. Every
// call changes the physical outputs right away.
//
// New keys its ownership registry on the Bus value, so implementations must
// be comparable. Pointer receivers always are.
type Bus interface {
	conn.Resource
	// Configure switches the lines to digital outputs and drives them low.
	Configure() error
	SetRS(l gpio.Level) error
	SetEnable(l gpio.Level) error
	// SetData puts the low four bits of nibble on D4..D7.
	SetData(nibble byte) error
}

// PinBus drives the controller through six discrete GPIO lines.
type PinBus struct {
	rs     gpio.PinOut
	enable gpio.PinOut
	data   [4]gpio.PinOut
}

// NewPinBus binds the lines. data[0] is D4 and data[3] is D7.
func NewPinBus(rs, enable gpio.PinOut, data [4]gpio.PinOut) (*PinBus, error) {
	if rs == nil || enable == nil {
		return nil, errors.NotValidf("nil control pin")
	}
	for i, p := range data {
		if p == nil {
			return nil, errors.NotValidf("nil data pin D%d", i+4)
		}
	}
	return &PinBus{rs: rs, enable: enable, data: data}, nil
}

func (b *PinBus) String() string {
	return fmt.Sprintf("PinBus{RS: %s, E: %s, D4-D7: %s,%s,%s,%s}",
		b.rs, b.enable, b.data[0], b.data[1], b.data[2], b.data[3])
}

// Configure drives every line low. With periph a pin becomes an output on
// its first Out call, so this also takes care of the direction.
func (b *PinBus) Configure() error {
	return b.allLow()
}

// Halt leaves all lines low.
func (b *PinBus) Halt() error {
	return b.allLow()
}

func (b *PinBus) allLow() error {
	if err := b.rs.Out(gpio.Low); err != nil {
		return errors.Annotate(err, "RS")
	}
	if err := b.enable.Out(gpio.Low); err != nil {
		return errors.Annotate(err, "E")
	}
	return b.SetData(0)
}

func (b *PinBus) SetRS(l gpio.Level) error {
	return b.rs.Out(l)
}

func (b *PinBus) SetEnable(l gpio.Level) error {
	return b.enable.Out(l)
}

func (b *PinBus) SetData(nibble byte) error {
	for i, pin := range b.data {
		if err := pin.Out(nibble&(1<<uint(i)) != 0); err != nil {
			return errors.Annotatef(err, "D%d", i+4)
		}
	}
	return nil
}

var (
	claimsMu sync.Mutex
	claims   = map[Bus]struct{}{}
)

func claim(b Bus) error {
	if !reflect.TypeOf(b).Comparable() {
		return errors.NotValidf("bus of uncomparable type %T", b)
	}

	claimsMu.Lock()
	defer claimsMu.Unlock()

	if _, ok := claims[b]; ok {
		return errors.AlreadyExistsf("driver for %s", b)
	}
	claims[b] = struct{}{}
	return nil
}

func release(b Bus) {
	claimsMu.Lock()
	defer claimsMu.Unlock()

	delete(claims, b)
}

var _ Bus = &PinBus{}
