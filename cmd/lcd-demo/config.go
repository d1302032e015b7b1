package main

import (
	"os"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/callebjorkell/lcd4bit/internal/demo"
	"github.com/callebjorkell/lcd4bit/internal/lcd"
)

type Config struct {
	LCD    lcd.BusConfig `yaml:"lcd"`
	Delay  string        `yaml:"delay"`
	Button string        `yaml:"button"`
	Demo   demo.Config   `yaml:"demo"`
}

func (c Config) Delayer() lcd.Delayer {
	d, _ := lcd.DelayerByName(c.Delay)
	return d
}

func parseConfig(content []byte) (*Config, error) {
	c := &Config{Demo: demo.DefaultConfig()}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, errors.Annotate(err, "parse config")
	}

	if err := c.LCD.Normalize(); err != nil {
		return nil, errors.Annotate(err, "lcd")
	}
	if _, ok := lcd.DelayerByName(c.Delay); !ok {
		return nil, errors.NotValidf("delay %q", c.Delay)
	}
	if c.Delay == "" {
		c.Delay = "busywait"
	}
	c.Demo.Columns = c.LCD.Columns
	if err := c.Demo.Validate(); err != nil {
		return nil, errors.Annotate(err, "demo")
	}

	return c, nil
}

// readConfig falls back to the defaults when the file is missing.
func readConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Warnf("No config at %s, using defaults", path)
		return parseConfig(nil)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	return parseConfig(content)
}
