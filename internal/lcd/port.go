package lcd

import (
	"fmt"
	"io"

	"github.com/juju/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

// Port is an 8-bit output register the six lines are wired to.
type Port interface {
	WritePort(v byte) error
}

// OutputConfigurer is implemented by ports that need their lines switched to
// digital outputs, such as a microcontroller port with separate direction and
// analog-select registers. mask has a bit set for every line in use.
type OutputConfigurer interface {
	ConfigureOutputs(mask byte) error
}

// Layout places the lines inside the port register. D4..D7 occupy bits
// Data..Data+3 in order. Hold bits are always driven high, e.g. a backlight.
type Layout struct {
	Data uint8 `yaml:"data"`
	RS   uint8 `yaml:"rs"`
	E    uint8 `yaml:"e"`
	Hold byte  `yaml:"hold"`
}

// PCF8574Layout is the wiring of the common PCF8574 LCD backpacks.
var PCF8574Layout = Layout{Data: 4, RS: 0, E: 2, Hold: 0x08}

func (l Layout) dataMask() byte {
	return 0x0f << l.Data
}

func (l Layout) mask() byte {
	return l.dataMask() | 1<<l.RS | 1<<l.E
}

// Validate checks that all lines fit in the register without overlapping.
func (l Layout) Validate() error {
	if l.Data > 4 {
		return errors.NotValidf("data shift %d", l.Data)
	}
	if l.RS > 7 || l.E > 7 {
		return errors.NotValidf("RS bit %d, E bit %d", l.RS, l.E)
	}
	if l.RS == l.E {
		return errors.NotValidf("RS and E on the same bit %d", l.RS)
	}
	if l.dataMask()&(1<<l.RS|1<<l.E) != 0 {
		return errors.NotValidf("RS or E inside the data nibble")
	}
	if l.Hold&l.mask() != 0 {
		return errors.NotValidf("hold bits %#02x overlapping the bus", l.Hold)
	}
	return nil
}

// PortBus drives the controller through a single register. It keeps a shadow
// copy so each line change is one register write.
type PortBus struct {
	port   Port
	layout Layout
	shadow byte
}

func NewPortBus(port Port, layout Layout) (*PortBus, error) {
	if err := layout.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &PortBus{port: port, layout: layout, shadow: layout.Hold}, nil
}

func (b *PortBus) String() string {
	return fmt.Sprintf("PortBus{%v, D4@%d RS@%d E@%d}", b.port, b.layout.Data, b.layout.RS, b.layout.E)
}

func (b *PortBus) Configure() error {
	if oc, ok := b.port.(OutputConfigurer); ok {
		if err := oc.ConfigureOutputs(b.layout.mask()); err != nil {
			return errors.Annotate(err, "configure outputs")
		}
	}
	b.shadow = b.layout.Hold
	return b.flush()
}

func (b *PortBus) Halt() error {
	b.shadow = b.layout.Hold
	return b.flush()
}

// Close closes the port when it owns a closable transport.
func (b *PortBus) Close() error {
	if c, ok := b.port.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *PortBus) SetRS(l gpio.Level) error {
	return b.set(1<<b.layout.RS, l)
}

func (b *PortBus) SetEnable(l gpio.Level) error {
	return b.set(1<<b.layout.E, l)
}

func (b *PortBus) SetData(nibble byte) error {
	b.shadow = b.shadow&^b.layout.dataMask() | (nibble&0x0f)<<b.layout.Data
	return b.flush()
}

func (b *PortBus) set(bit byte, l gpio.Level) error {
	if l {
		b.shadow |= bit
	} else {
		b.shadow &^= bit
	}
	return b.flush()
}

func (b *PortBus) flush() error {
	return b.port.WritePort(b.shadow)
}

// I2CPort is a quasi-bidirectional I2C expander like the PCF8574, where a
// single byte write sets all eight outputs.
type I2CPort struct {
	dev    i2c.Dev
	closer io.Closer
}

// NewI2CPort talks to the expander at addr. When bus is also an io.Closer it
// is closed together with the port.
func NewI2CPort(bus i2c.Bus, addr uint16) *I2CPort {
	p := &I2CPort{dev: i2c.Dev{Bus: bus, Addr: addr}}
	if c, ok := bus.(io.Closer); ok {
		p.closer = c
	}
	return p
}

func (p *I2CPort) String() string {
	return p.dev.String()
}

func (p *I2CPort) WritePort(v byte) error {
	return p.dev.Tx([]byte{v}, nil)
}

func (p *I2CPort) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

var _ Bus = &PortBus{}
var _ Port = &I2CPort{}
