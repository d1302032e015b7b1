// Package demo runs the scrolling text animation on a character LCD.
package demo

import (
	"context"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/callebjorkell/lcd4bit/internal/lcd"
)

// Display is the part of the LCD driver the animation uses.
type Display interface {
	Clear() error
	EntryMode(increment, shift bool) error
	SetCursor(row, col uint8) error
	WriteByte(c byte) error
	WriteString(s string) (int, error)
	Display(on, cursor, blink bool) error
	Shift(display, right bool) error
}

// Config holds the texts, geometry and pauses of the animation. Pauses are in
// milliseconds.
type Config struct {
	Greeting string `yaml:"greeting"`
	Digits   string `yaml:"digits"`
	Surprise string `yaml:"surprise"`

	// Columns is the visible width, taken from the panel configuration.
	Columns     int `yaml:"-"`
	LineColumns int `yaml:"lineColumns"`

	Settle  int `yaml:"settle"`
	Message int `yaml:"message"`
	Step    int `yaml:"step"`
	Blink   int `yaml:"blink"`
	Scroll  int `yaml:"scroll"`
}

func DefaultConfig() Config {
	return Config{
		Greeting:    "Hello World",
		Digits:      "1234567890",
		Surprise:    "Surprise! ",
		Columns:     16,
		LineColumns: 40,
		Settle:      500,
		Message:     1000,
		Step:        250,
		Blink:       500,
		Scroll:      200,
	}
}

const textColumn = 3

// Validate checks that the animation fits the DDRAM lines.
func (c Config) Validate() error {
	if c.LineColumns <= 0 || c.LineColumns > lcd.LineWidth {
		return errors.NotValidf("lineColumns %d", c.LineColumns)
	}
	if c.Columns <= 0 || 2*c.Columns > c.LineColumns {
		return errors.NotValidf("columns %d with lineColumns %d", c.Columns, c.LineColumns)
	}
	for _, s := range []string{c.Greeting, c.Digits, c.Surprise} {
		if textColumn+len(s) > c.LineColumns {
			return errors.NotValidf("text %q longer than a line", s)
		}
	}
	for _, p := range []int{c.Settle, c.Message, c.Step, c.Blink, c.Scroll} {
		if p < 0 {
			return errors.NotValidf("pause %d", p)
		}
	}
	return nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Demo plays the animation. A value on the pause channel pauses it at the
// next step, and the following value resumes it.
type Demo struct {
	lcd   Display
	conf  Config
	pause <-chan struct{}
}

func New(display Display, conf Config, pause <-chan struct{}) (*Demo, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Demo{lcd: display, conf: conf, pause: pause}, nil
}

// Run repeats the animation until ctx is done or the display fails.
func (d *Demo) Run(ctx context.Context) error {
	for round := 1; ; round++ {
		log.Debugf("Starting round %d", round)
		if err := d.Once(ctx); err != nil {
			return err
		}
	}
}

// Once plays the animation a single time.
func (d *Demo) Once(ctx context.Context) error {
	c := d.conf
	visible, line := c.Columns, c.LineColumns
	steps := []func() error{
		d.lcd.Clear,
		func() error { return d.lcd.EntryMode(true, false) },
		d.wait(ctx, c.Settle),

		d.print(0, textColumn, c.Greeting),
		d.wait(ctx, c.Message),
		d.print(1, textColumn, c.Digits),
		d.wait(ctx, c.Message),

		// Right after the last visible cell, scroll along while writing
		// towards the end of the line.
		func() error { return d.lcd.SetCursor(0, uint8(visible)) },
		func() error { return d.lcd.EntryMode(true, true) },
		d.letters(ctx, line-visible, func(i int) byte { return 'a' + byte(i) }),

		// Back from the end of the second line without scrolling.
		func() error { return d.lcd.EntryMode(false, false) },
		func() error { return d.lcd.SetCursor(1, uint8(line-1)) },
		d.letters(ctx, visible, func(i int) byte { return 'A' + byte(line-visible-1-i) }),

		// Scroll left while going further back.
		func() error { return d.lcd.EntryMode(false, true) },
		d.letters(ctx, line-2*visible, func(i int) byte { return 'A' + byte(line-2*visible-1-i) }),

		d.wait(ctx, c.Message),
		func() error { return d.lcd.Display(false, false, false) },
		d.wait(ctx, c.Blink),
		func() error { return d.lcd.Display(true, false, false) },
		d.wait(ctx, c.Blink),

		// Overwrite the digits while they are scrolled out of view.
		func() error { return d.lcd.SetCursor(1, textColumn) },
		func() error { return d.lcd.EntryMode(true, false) },
		func() error { _, err := d.lcd.WriteString(c.Surprise); return err },
		d.scrollBack(ctx, visible),
		d.wait(ctx, c.Message),
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Demo) print(row, col uint8, s string) func() error {
	return func() error {
		if err := d.lcd.SetCursor(row, col); err != nil {
			return err
		}
		_, err := d.lcd.WriteString(s)
		return err
	}
}

func (d *Demo) letters(ctx context.Context, n int, letter func(i int) byte) func() error {
	return func() error {
		for i := 0; i < n; i++ {
			if err := d.lcd.WriteByte(letter(i)); err != nil {
				return err
			}
			if err := d.wait(ctx, d.conf.Step)(); err != nil {
				return err
			}
		}
		return nil
	}
}

func (d *Demo) scrollBack(ctx context.Context, n int) func() error {
	return func() error {
		for i := 0; i < n; i++ {
			if err := d.lcd.Shift(true, true); err != nil {
				return err
			}
			if err := d.wait(ctx, d.conf.Scroll)(); err != nil {
				return err
			}
		}
		return nil
	}
}

func (d *Demo) wait(ctx context.Context, millis int) func() error {
	return func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := time.NewTimer(ms(millis))
		defer t.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.pause:
			log.Info("Demo paused")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-d.pause:
				log.Info("Demo resumed")
			}
		case <-t.C:
		}
		return nil
	}
}
