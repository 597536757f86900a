//go:build !tinygo

package hal

import (
	"sync"
	"testing"
)

func readLevels(t *testing.T, p *buttonPanel) [ButtonCount]bool {
	t.Helper()
	var out [ButtonCount]bool
	for i, pin := range p.Buttons() {
		level, err := pin.Read()
		if err != nil {
			t.Fatalf("%s: %v", pin.Name(), err)
		}
		out[i] = level
	}
	return out
}

func configuredPanel(t *testing.T) *buttonPanel {
	t.Helper()
	p := newButtonPanel()
	for _, pin := range p.Buttons() {
		if err := pin.Configure(GPIOModeInput, GPIOPullUp); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestButtonPanelTapHoldsForOneSample(t *testing.T) {
	p := configuredPanel(t)

	if !p.tap(producerScript, 1) {
		t.Fatal("tap rejected")
	}
	if got := readLevels(t, p); got != [ButtonCount]bool{true, true, true, true} {
		t.Fatalf("before Poll: %v", got)
	}

	p.Poll()
	if got := readLevels(t, p); got != [ButtonCount]bool{true, false, true, true} {
		t.Fatalf("after tap: %v", got)
	}

	p.Poll()
	if got := readLevels(t, p); got != [ButtonCount]bool{true, true, true, true} {
		t.Fatalf("tap lasted more than one sample: %v", got)
	}
}

func TestButtonPanelPressRelease(t *testing.T) {
	p := configuredPanel(t)

	p.press(producerKeyboard, 0)
	p.Poll()
	p.Poll()
	if got := readLevels(t, p); got[0] {
		t.Fatal("held button released without a release event")
	}
	if !p.pressed()[0] {
		t.Fatal("pressed() does not report the held button")
	}

	p.tap(producerTerminal, 0)
	p.Poll()
	p.Poll()
	if got := readLevels(t, p); got[0] {
		t.Fatal("tap expiry released a held button")
	}

	p.release(producerKeyboard, 0)
	p.Poll()
	if got := readLevels(t, p); !got[0] {
		t.Fatal("release did not restore the pull-up level")
	}
}

func TestButtonPanelConcurrentProducers(t *testing.T) {
	p := configuredPanel(t)

	var wg sync.WaitGroup
	for producer := uint64(0); producer < producerCount; producer++ {
		wg.Add(1)
		go func(producer uint64) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				p.tap(producer, int(producer))
			}
		}(producer)
	}
	wg.Wait()

	p.Poll()
	got := readLevels(t, p)
	for producer := 0; producer < int(producerCount); producer++ {
		if got[producer] {
			t.Errorf("SW%d not pressed after taps", producer)
		}
	}
	if !got[3] {
		t.Error("SW3 pressed without events")
	}
	if p.dropped.Load() != 0 {
		t.Fatalf("dropped %d events", p.dropped.Load())
	}
}
