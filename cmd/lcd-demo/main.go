package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/callebjorkell/lcd4bit/internal/button"
	"github.com/callebjorkell/lcd4bit/internal/demo"
	"github.com/callebjorkell/lcd4bit/internal/lcd"
)

var (
	app        = kingpin.New("lcd-demo", "HD44780 4-bit LCD demo")
	debug      = app.Flag("debug", "Turn on debug logging.").Bool()
	configPath = app.Flag("config", "Configuration file.").Default("lcd.yaml").String()

	demoCmd = app.Command("demo", "Run the scrolling text demo until interrupted.")

	printCmd = app.Command("print", "Initialize the display and print a text.")
	printRow = printCmd.Arg("row", "Row, 0-3.").Required().Uint8()
	printCol = printCmd.Arg("col", "Column, 0-39.").Required().Uint8()
	printMsg = printCmd.Arg("text", "Text to print.").Required().String()

	clearCmd = app.Command("clear", "Initialize and clear the display.")
	version  = app.Command("version", "Show current version.")
)

func main() {
	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("%v: Try --help\n", err.Error())
		os.Exit(1)
	}

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if *debug {
		log.Info("Enabling debug output...")
		log.SetLevel(log.DebugLevel)
	}

	switch cmd {
	case demoCmd.FullCommand():
		err = withLCD(runDemo)
	case printCmd.FullCommand():
		err = withLCD(func(d *lcd.LCD, _ *Config) error {
			return printText(d, *printRow, *printCol, *printMsg)
		})
	case clearCmd.FullCommand():
		err = withLCD(func(d *lcd.LCD, _ *Config) error {
			release(d)
			return nil
		})
	case version.FullCommand():
		showVersion()
	default:
		kingpin.FatalUsage("Unrecognized command")
	}

	if err != nil {
		log.Debug(errors.ErrorStack(err))
		log.Fatal(err)
	}
}

// withLCD opens and initializes the display before calling fn.
func withLCD(fn func(d *lcd.LCD, conf *Config) error) error {
	conf, err := readConfig(*configPath)
	if err != nil {
		return err
	}

	bus, err := lcd.OpenBus(conf.LCD)
	if err != nil {
		return errors.Annotate(err, "open bus")
	}
	d, err := lcd.New(bus, conf.Delayer())
	if err != nil {
		return err
	}
	if err := d.Init(); err != nil {
		release(d)
		return errors.Annotate(err, "init display")
	}
	log.Infof("Initialized %s", d)

	return fn(d, conf)
}

// printText writes text at row and col and releases the display with the
// text still showing.
func printText(d *lcd.LCD, row, col uint8, text string) error {
	defer release(d)
	if err := d.SetCursor(row, col); err != nil {
		return err
	}
	_, err := d.WriteString(text)
	return err
}

// release lets go of the bus and leaves the text on the panel.
func release(d *lcd.LCD) {
	if err := d.Release(); err != nil {
		log.Warn("Unable to release the display: ", err)
	}
}

func runDemo(d *lcd.LCD, conf *Config) error {
	defer func() {
		if err := d.Close(); err != nil {
			log.Warn("Unable to close the display: ", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pause <-chan struct{}
	if conf.Button != "" {
		events, err := button.Open(conf.Button)
		if err != nil {
			return err
		}
		pause = button.Presses(events)
	}

	dm, err := demo.New(d, conf.Demo, pause)
	if err != nil {
		return err
	}
	err = dm.Run(ctx)
	if err != context.Canceled {
		return err
	}

	log.Info("Shutting down...")
	if err := d.Clear(); err != nil {
		return err
	}
	if _, err := d.WriteString("  Good bye..."); err != nil {
		return err
	}
	<-time.After(time.Second)

	log.Info("Done...")
	return nil
}
