//go:build !pi

package button

import (
	log "github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"syscall"
)

// Open simulates the button with SIGHUP, one press per signal.
func Open(pin string) (<-chan Event, error) {
	log.Infof("Simulating button %s, send SIGHUP to press", pin)

	c := make(chan Event, 5)
	go simulateButton(c)
	return c, nil
}

func simulateButton(c chan<- Event) {
	hupChan := make(chan os.Signal, 1)
	signal.Notify(hupChan, syscall.SIGHUP)

	for range hupChan {
		c <- Event{Pressed: true}
		c <- Event{Pressed: false}
	}
}
