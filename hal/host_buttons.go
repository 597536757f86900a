//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
	"sync/atomic"

	ring "github.com/randomizedcoder/go-lock-free-ring"
)

// Producers of button events. Each one writes to its own ring shard, so
// events from one source stay in order.
const (
	producerKeyboard uint64 = iota
	producerTerminal
	producerScript
	producerCount
)

const (
	buttonRingCapacity = 256
	buttonRingShards   = 4
)

type buttonAction uint8

const (
	buttonPress buttonAction = iota
	buttonRelease
	// buttonTap holds the button down for exactly one Poll.
	buttonTap
)

type buttonEvent struct {
	button int
	action buttonAction
}

// eventQueue is the part of the sharded ring the panel uses.
type eventQueue interface {
	Write(producerID uint64, value any) bool
	TryRead() (any, bool)
}

// buttonPanel simulates four push buttons to ground with pull-ups. Input
// sources queue events; Poll applies them to the pins on the loop goroutine.
type buttonPanel struct {
	queue eventQueue
	pins  [ButtonCount]*virtualPin

	mu      sync.Mutex
	held    [ButtonCount]bool
	tapped  [ButtonCount]bool
	dropped atomic.Uint64
	polls   atomic.Uint64
}

func newButtonPanel() *buttonPanel {
	r, err := ring.NewShardedRing(buttonRingCapacity, buttonRingShards)
	if err != nil {
		panic(fmt.Sprintf("hal: button ring: %v", err))
	}
	p := &buttonPanel{queue: r}
	for i := range p.pins {
		p.pins[i] = newVirtualPin(buttonNames[i], GPIOCapInput|GPIOCapPullUp)
	}
	return p
}

func (p *buttonPanel) Buttons() [ButtonCount]GPIOPin {
	var out [ButtonCount]GPIOPin
	for i, pin := range p.pins {
		out[i] = pin
	}
	return out
}

// Poll releases the buttons tapped during the previous sample and then
// applies every queued event.
func (p *buttonPanel) Poll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polls.Add(1)

	for i := range p.tapped {
		if p.tapped[i] {
			p.tapped[i] = false
			if !p.held[i] {
				p.pins[i].release()
			}
		}
	}

	for {
		v, ok := p.queue.TryRead()
		if !ok {
			return
		}
		ev, ok := v.(buttonEvent)
		if !ok || ev.button < 0 || ev.button >= ButtonCount {
			continue
		}
		switch ev.action {
		case buttonPress:
			p.held[ev.button] = true
			p.pins[ev.button].drive(false)
		case buttonRelease:
			p.held[ev.button] = false
			if !p.tapped[ev.button] {
				p.pins[ev.button].release()
			}
		case buttonTap:
			p.tapped[ev.button] = true
			p.pins[ev.button].drive(false)
		}
	}
}

func (p *buttonPanel) press(producer uint64, button int) bool {
	return p.enqueue(producer, buttonEvent{button: button, action: buttonPress})
}

func (p *buttonPanel) release(producer uint64, button int) bool {
	return p.enqueue(producer, buttonEvent{button: button, action: buttonRelease})
}

func (p *buttonPanel) tap(producer uint64, button int) bool {
	return p.enqueue(producer, buttonEvent{button: button, action: buttonTap})
}

func (p *buttonPanel) enqueue(producer uint64, ev buttonEvent) bool {
	if p.queue.Write(producer, ev) {
		return true
	}
	p.dropped.Add(1)
	return false
}

// pressed reports which buttons the last Poll left held down.
func (p *buttonPanel) pressed() [ButtonCount]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out [ButtonCount]bool
	for i := range out {
		out[i] = p.held[i] || p.tapped[i]
	}
	return out
}
