// Package button reads the push button that pauses and resumes the demo.
package button

import (
	"fmt"
	"time"
)

const debounce = 15 * time.Millisecond

type Event struct {
	Pressed bool
}

func (e Event) String() string {
	action := "pressed"
	if !e.Pressed {
		action = "released"
	}
	return fmt.Sprintf("Button was %v", action)
}

// Presses turns button events into one value per press, dropping presses
// nobody is waiting for.
func Presses(events <-chan Event) <-chan struct{} {
	c := make(chan struct{})
	go func() {
		defer close(c)
		for e := range events {
			if !e.Pressed {
				continue
			}
			select {
			case c <- struct{}{}:
			default:
			}
		}
	}()
	return c
}
