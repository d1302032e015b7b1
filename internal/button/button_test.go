package button

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventString(t *testing.T) {
	assert.Equal(t, "Button was pressed", Event{Pressed: true}.String())
	assert.Equal(t, "Button was released", Event{}.String())
}

func TestPresses(t *testing.T) {
	events := make(chan Event)
	presses := Presses(events)

	// presses nobody waits for are dropped, so keep pressing until one lands
	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case events <- Event{Pressed: false}:
			case <-stop:
				return
			}
			select {
			case events <- Event{Pressed: true}:
			case <-stop:
				return
			}
		}
	}()

	select {
	case <-presses:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for press")
	}
	close(stop)
	<-stopped

	close(events)
	for range presses {
	}
	_, open := <-presses
	assert.False(t, open)
}
