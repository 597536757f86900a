//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"stopwatch/app"
	"stopwatch/hal"
	"stopwatch/internal/statsview"
	"stopwatch/watch/display"
)

func main() {
	var (
		hcfg      hal.HeadlessConfig
		terminal  bool
		exclusive bool
		stats     bool
		statsAddr string
		cfg       app.Config
	)
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.BoolVar(&terminal, "terminal", false, "Run in the current terminal.")
	flag.IntVar(&hcfg.Hz, "hz", 0, "Main loop rate (0 = derived from -loop-delay).")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N loop iterations in headless mode (0 = run forever).")
	flag.StringVar(&hcfg.Script, "script", "", "Headless button script, e.g. SW0@10,SW1@300,SW2@500-520.")
	flag.BoolVar(&exclusive, "exclusive", false, "Show only the display branch of the current mode.")
	flag.DurationVar(&cfg.LoopDelay, "loop-delay", app.DefaultLoopDelay, "Pause between main loop iterations.")
	flag.BoolVar(&cfg.Trace, "trace", false, "Log flags and display branches when they change.")
	flag.BoolVar(&stats, "statsview", false, "Serve runtime statistics over HTTP.")
	flag.StringVar(&statsAddr, "statsview-addr", statsview.Address, "Address of the statistics server.")
	flag.Parse()

	if exclusive {
		cfg.Policy = display.PolicyExclusive
	}
	if hcfg.Hz <= 0 {
		hcfg.Hz = loopHz(cfg.LoopDelay)
	}
	if stats {
		stop := statsview.Launch(statsAddr, os.Stderr)
		defer stop()
	}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case hcfg.Enabled:
		err = hal.RunHeadless(ctx, newApp, hcfg)
	case terminal:
		err = hal.RunTerminal(ctx, newApp, hal.TerminalConfig{Hz: hcfg.Hz})
	default:
		err = hal.RunWindow(newApp, hal.WindowConfig{Hz: hcfg.Hz})
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loopHz(d time.Duration) int {
	if d <= 0 {
		return hal.DefaultLoopHz
	}
	hz := int(time.Second / d)
	if hz < 1 {
		hz = 1
	}
	return hz
}
