package hal

import "testing"

func TestVirtualPinPullUpReadsHigh(t *testing.T) {
	pin := newVirtualPin("SW0", GPIOCapInput|GPIOCapPullUp)
	if pin == nil {
		t.Fatal("expected pin")
	}

	if _, err := pin.Read(); err == nil {
		t.Fatal("Read before Configure: err = nil, want error")
	}
	if err := pin.Configure(GPIOModeInput, GPIOPullUp); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	level, err := pin.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !level {
		t.Fatal("expected high with pull-up and nothing driving the pin")
	}

	pin.drive(false)
	if level, _ := pin.Read(); level {
		t.Fatal("expected low while driven low")
	}

	pin.release()
	if level, _ := pin.Read(); !level {
		t.Fatal("expected high after release")
	}
}

func TestVirtualPinRejectsUnsupportedConfig(t *testing.T) {
	pin := newVirtualPin("SW1", GPIOCapInput)
	if err := pin.Configure(GPIOModeOutput, GPIOPullNone); err == nil {
		t.Fatal("output on input-only pin: err = nil")
	}
	if err := pin.Configure(GPIOModeInput, GPIOPullUp); err == nil {
		t.Fatal("pull-up without capability: err = nil")
	}
	if err := pin.Write(true); err == nil {
		t.Fatal("Write on input pin: err = nil")
	}
	if newVirtualPin("  ", GPIOCapInput) != nil {
		t.Fatal("blank name: expected nil pin")
	}
}

type countingLED struct {
	high, low int
}

func (l *countingLED) High() { l.high++ }
func (l *countingLED) Low()  { l.low++ }

func TestPinPortReplacesWord(t *testing.T) {
	leds := make([]*countingLED, 4)
	pins := make([]GPIOPin, 4)
	for i := range leds {
		leds[i] = &countingLED{}
		pins[i] = newLEDPin("LED", leds[i])
	}
	port := newPinPort(pins...)
	if err := port.configure(); err != nil {
		t.Fatalf("configure: %v", err)
	}

	port.Write(0b0001)
	port.Write(0b1000)

	if got := port.Read(); got != 0b1000 {
		t.Fatalf("Read() = %04b, want 1000", got)
	}
	for i, want := range []bool{false, false, false, true} {
		level, _ := pins[i].Read()
		if level != want {
			t.Fatalf("pin %d level = %v, want %v", i, level, want)
		}
	}
	if leds[0].high != 1 || leds[0].low != 1 {
		t.Fatalf("bit0 transitions = %d high / %d low, want 1/1", leds[0].high, leds[0].low)
	}

	port.Write(0b1000)
	if leds[3].high != 1 {
		t.Fatalf("unchanged bit re-drove the LED: %d highs", leds[3].high)
	}
}
