package lcd

import (
	"github.com/juju/errors"
)

const (
	BusGPIO = "gpio"
	BusI2C  = "i2c"

	defaultI2CAddress = 0x27
	defaultColumns    = 16
)

// PinMap names the GPIO lines of a PinBus as known to the host registry.
type PinMap struct {
	RS string `yaml:"rs"`
	E  string `yaml:"e"`
	D4 string `yaml:"d4"`
	D5 string `yaml:"d5"`
	D6 string `yaml:"d6"`
	D7 string `yaml:"d7"`
}

func (m PinMap) names() [6]string {
	return [6]string{m.RS, m.E, m.D4, m.D5, m.D6, m.D7}
}

// BusConfig selects and describes the bus that OpenBus returns.
type BusConfig struct {
	Type string `yaml:"type"`
	// Columns is the visible width of the panel.
	Columns int    `yaml:"columns"`
	Pins    PinMap `yaml:"pins"`
	I2C     struct {
		Bus     string  `yaml:"bus"`
		Address uint16  `yaml:"address"`
		Layout  *Layout `yaml:"layout"`
	} `yaml:"i2c"`
}

// Normalize fills in the defaults and checks the result.
func (c *BusConfig) Normalize() error {
	if c.Type == "" {
		c.Type = BusGPIO
	}
	if c.Columns == 0 {
		c.Columns = defaultColumns
	}
	if c.Columns < 0 || c.Columns > LineWidth {
		return errors.NotValidf("columns %d", c.Columns)
	}
	switch c.Type {
	case BusGPIO:
		defaults := [6]string{
			defaultRegisterSelectPin, defaultEnablePin,
			defaultData4Pin, defaultData5Pin, defaultData6Pin, defaultData7Pin,
		}
		fields := [6]*string{&c.Pins.RS, &c.Pins.E, &c.Pins.D4, &c.Pins.D5, &c.Pins.D6, &c.Pins.D7}
		seen := make(map[string]bool)
		for i, f := range fields {
			if *f == "" {
				*f = defaults[i]
			}
			if seen[*f] {
				return errors.NotValidf("pin %s used twice", *f)
			}
			seen[*f] = true
		}
	case BusI2C:
		if c.I2C.Address == 0 {
			c.I2C.Address = defaultI2CAddress
		}
		if c.I2C.Layout == nil {
			l := PCF8574Layout
			c.I2C.Layout = &l
		}
		if err := c.I2C.Layout.Validate(); err != nil {
			return errors.Annotate(err, "i2c layout")
		}
	default:
		return errors.NotSupportedf("bus type %q", c.Type)
	}
	return nil
}
