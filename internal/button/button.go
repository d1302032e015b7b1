//go:build pi

package button

import (
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"time"
)

// Open starts watching the button on the named pin. The button pulls the pin
// to ground when pressed.
func Open(pin string) (<-chan Event, error) {
	log.Infof("Initializing button handler on %s", pin)
	b := gpioreg.ByName(pin)
	if b == nil {
		return nil, errors.NotFoundf("gpio pin %q", pin)
	}
	if err := b.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, errors.Annotatef(err, "button %s", pin)
	}

	c := make(chan Event, 5)
	go handleButton(b, c)
	return c, nil
}

func handleButton(b gpio.PinIn, c chan<- Event) {
	last := b.Read()
	for {
		// wait for the edge
		if !b.WaitForEdge(time.Second) {
			continue
		}

		// debounce
		l := b.Read()
		if l == last {
			continue
		}

		time.Sleep(debounce)
		if l == b.Read() {
			last = l
			c <- Event{
				Pressed: l == gpio.Low,
			}
		}
	}
}
