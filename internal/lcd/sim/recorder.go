package sim

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
)

type Kind int

const (
	KindConfigure Kind = iota
	KindHalt
	KindRS
	KindEnable
	KindData
	KindDelay
)

func (k Kind) String() string {
	switch k {
	case KindConfigure:
		return "configure"
	case KindHalt:
		return "halt"
	case KindRS:
		return "RS"
	case KindEnable:
		return "E"
	case KindData:
		return "D"
	case KindDelay:
		return "delay"
	}
	return "N/A"
}

// Bus is the set of line operations the recorder can forward.
type Bus interface {
	Configure() error
	Halt() error
	SetRS(l gpio.Level) error
	SetEnable(l gpio.Level) error
	SetData(nibble byte) error
}

// Event is one recorded bus call or delay.
type Event struct {
	Kind  Kind
	Level gpio.Level
	Data  byte
	Delay time.Duration
}

func (e Event) String() string {
	switch e.Kind {
	case KindRS, KindEnable:
		return fmt.Sprintf("%v=%v", e.Kind, e.Level)
	case KindData:
		return fmt.Sprintf("D=%x", e.Data)
	case KindDelay:
		return fmt.Sprintf("delay %v", e.Delay)
	}
	return e.Kind.String()
}

// Recorder keeps every bus call and delay in order. It can be handed to the
// driver as both the bus and the delay. Calls are forwarded to Next when set.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
	Next   Bus
}

func (r *Recorder) String() string {
	return "sim.Recorder"
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Events = append(r.Events, e)
}

func (r *Recorder) Configure() error {
	r.add(Event{Kind: KindConfigure})
	if r.Next != nil {
		return r.Next.Configure()
	}
	return nil
}

func (r *Recorder) Halt() error {
	r.add(Event{Kind: KindHalt})
	if r.Next != nil {
		return r.Next.Halt()
	}
	return nil
}

func (r *Recorder) SetRS(l gpio.Level) error {
	r.add(Event{Kind: KindRS, Level: l})
	if r.Next != nil {
		return r.Next.SetRS(l)
	}
	return nil
}

func (r *Recorder) SetEnable(l gpio.Level) error {
	r.add(Event{Kind: KindEnable, Level: l})
	if r.Next != nil {
		return r.Next.SetEnable(l)
	}
	return nil
}

func (r *Recorder) SetData(nibble byte) error {
	r.add(Event{Kind: KindData, Data: nibble & 0x0f})
	if r.Next != nil {
		return r.Next.SetData(nibble)
	}
	return nil
}

// Delay records d without waiting.
func (r *Recorder) Delay(d time.Duration) {
	r.add(Event{Kind: KindDelay, Delay: d})
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Events = nil
}

// Transfer is what the controller latched on one falling edge of E.
type Transfer struct {
	RS     gpio.Level
	Nibble byte
}

// Transfers replays the recorded events and returns every latched nibble.
func (r *Recorder) Transfers() []Transfer {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		out    []Transfer
		rs, e  gpio.Level
		nibble byte
	)
	for _, ev := range r.Events {
		switch ev.Kind {
		case KindRS:
			rs = ev.Level
		case KindData:
			nibble = ev.Data
		case KindEnable:
			if e == gpio.High && ev.Level == gpio.Low {
				out = append(out, Transfer{RS: rs, Nibble: nibble})
			}
			e = ev.Level
		}
	}
	return out
}

// Delays returns the recorded delays of atLeast or longer.
func (r *Recorder) Delays(atLeast time.Duration) []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []time.Duration
	for _, ev := range r.Events {
		if ev.Kind == KindDelay && ev.Delay >= atLeast {
			out = append(out, ev.Delay)
		}
	}
	return out
}
