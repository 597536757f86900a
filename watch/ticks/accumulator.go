// Package ticks keeps elapsed stopwatch time at 1/100 s resolution.
//
// The tick callback and the main loop share a single packed word. All
// mutation goes through compare-and-swap, so a reader always observes the
// three counters and the two threshold flags from the same tick.
package ticks

import (
	"sync/atomic"

	"stopwatch/hal"
)

// Rate is the fixed tick frequency in Hz.
const Rate = hal.TickRate

const (
	hundredthsShift = 0
	secondsShift    = 8
	minutesShift    = 16

	pastTenSecondsBit = 1 << 24
	pastTenMinutesBit = 1 << 25

	counterMask = 0x00FFFFFF
)

// Elapsed is a minutes/seconds/hundredths reading.
//
// Minutes wrap at 256; there is no hour field.
type Elapsed struct {
	Minutes    uint8
	Seconds    uint8
	Hundredths uint8
}

// Thresholds control leading-zero handling in the formatter. They are
// recomputed on every tick, never on Reset.
type Thresholds struct {
	PastTenSeconds bool
	PastTenMinutes bool
}

// Snapshot is one consistent read of the accumulator.
type Snapshot struct {
	Elapsed
	Thresholds
}

// Accumulator owns the elapsed-time counters.
type Accumulator struct {
	word  atomic.Uint32
	total atomic.Uint64
}

// OnTick advances the counters by one hundredth.
func (a *Accumulator) OnTick() {
	for {
		old := a.word.Load()
		if a.word.CompareAndSwap(old, advance(old)) {
			a.total.Add(1)
			return
		}
	}
}

// Reset zeroes minutes, seconds and hundredths. The threshold flags keep their
// last computed values until the next tick.
func (a *Accumulator) Reset() {
	for {
		old := a.word.Load()
		if a.word.CompareAndSwap(old, old&^counterMask) {
			return
		}
	}
}

// Snapshot returns the counters and thresholds from a single load.
func (a *Accumulator) Snapshot() Snapshot {
	return unpack(a.word.Load())
}

// Ticks reports how many ticks were accepted since power-on.
func (a *Accumulator) Ticks() uint64 {
	return a.total.Load()
}

// Handler returns the tick callback for src: it advances the counters and
// acknowledges the pending tick before returning.
func (a *Accumulator) Handler(src hal.TickSource) func() {
	return func() {
		a.OnTick()
		if src != nil {
			src.Ack()
		}
	}
}

func advance(w uint32) uint32 {
	s := unpack(w)
	e := s.Elapsed

	e.Hundredths++
	if e.Hundredths == 100 {
		e.Hundredths = 0
		e.Seconds++
	}
	if e.Seconds == 60 {
		e.Seconds = 0
		e.Minutes++
	}

	return pack(Snapshot{
		Elapsed: e,
		Thresholds: Thresholds{
			PastTenSeconds: e.Seconds >= 10,
			PastTenMinutes: e.Minutes >= 10,
		},
	})
}

func pack(s Snapshot) uint32 {
	w := uint32(s.Hundredths)<<hundredthsShift |
		uint32(s.Seconds)<<secondsShift |
		uint32(s.Minutes)<<minutesShift
	if s.PastTenSeconds {
		w |= pastTenSecondsBit
	}
	if s.PastTenMinutes {
		w |= pastTenMinutesBit
	}
	return w
}

func unpack(w uint32) Snapshot {
	return Snapshot{
		Elapsed: Elapsed{
			Minutes:    uint8(w >> minutesShift),
			Seconds:    uint8(w >> secondsShift),
			Hundredths: uint8(w >> hundredthsShift),
		},
		Thresholds: Thresholds{
			PastTenSeconds: w&pastTenSecondsBit != 0,
			PastTenMinutes: w&pastTenMinutesBit != 0,
		},
	}
}
