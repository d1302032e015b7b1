//go:build pi

package lcd

import (
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func init() {
	if _, err := host.Init(); err != nil {
		log.Fatalln("Unable to initialize periph:", err)
	}
}

// OpenBus looks up the configured lines in the host registries.
func OpenBus(c BusConfig) (Bus, error) {
	if err := c.Normalize(); err != nil {
		return nil, err
	}

	switch c.Type {
	case BusI2C:
		log.Infof("Opening LCD on I2C bus %q at 0x%02x", c.I2C.Bus, c.I2C.Address)
		b, err := i2creg.Open(c.I2C.Bus)
		if err != nil {
			return nil, errors.Annotate(err, "open i2c bus")
		}
		bus, err := NewPortBus(NewI2CPort(b, c.I2C.Address), *c.I2C.Layout)
		if err != nil {
			b.Close()
			return nil, err
		}
		return bus, nil
	default:
		log.Infof("Opening LCD on GPIO lines %+v", c.Pins)
		var pins [6]gpio.PinOut
		for i, name := range c.Pins.names() {
			p := gpioreg.ByName(name)
			if p == nil {
				return nil, errors.NotFoundf("gpio pin %q", name)
			}
			pins[i] = p
		}
		bus, err := NewPinBus(pins[0], pins[1], [4]gpio.PinOut{pins[2], pins[3], pins[4], pins[5]})
		if err != nil {
			return nil, err
		}
		return bus, nil
	}
}
