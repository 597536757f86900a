//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"time"
)

// lcdAddr is the PCF8574 backpack address.
const lcdAddr = 0x27

type tinyGoHAL struct {
	logger  *uartLogger
	lcd     *i2cLCD
	buttons *latchedInput
	ind     *pinPort
	ticker  *tickSource
}

// New returns a Pico (RP2040/RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// LCD: I2C1 on GP18 (SDA) / GP19 (SCL).
// Buttons SW0..SW3: GP2..GP5 to ground. Indicators: GP6..GP9.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	bus := machine.I2C1
	if err := bus.Configure(machine.I2CConfig{
		SDA:       machine.GP18,
		SCL:       machine.GP19,
		Frequency: 100 * machine.KHz,
	}); err != nil {
		logger.WriteLineString(fmt.Sprintf("hal: i2c: %v", err))
	}
	lcd, err := newI2CLCD(bus, lcdAddr)
	if err != nil {
		logger.WriteLineString(fmt.Sprintf("hal: %v", err))
	}

	buttons := newLatchedInput([ButtonCount]*machinePin{
		newMachinePin(buttonNames[0], machine.GP2),
		newMachinePin(buttonNames[1], machine.GP3),
		newMachinePin(buttonNames[2], machine.GP4),
		newMachinePin(buttonNames[3], machine.GP5),
	})

	ind := newPinPort(
		newLEDPin(indicatorNames[0], &pinLED{pin: machine.GP6}),
		newLEDPin(indicatorNames[1], &pinLED{pin: machine.GP7}),
		newLEDPin(indicatorNames[2], &pinLED{pin: machine.GP8}),
		newLEDPin(indicatorNames[3], &pinLED{pin: machine.GP9}),
	)
	for _, p := range []machine.Pin{machine.GP6, machine.GP7, machine.GP8, machine.GP9} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	if err := ind.configure(); err != nil {
		logger.WriteLineString(fmt.Sprintf("hal: indicators: %v", err))
	}

	return &tinyGoHAL{
		logger:  logger,
		lcd:     lcd,
		buttons: buttons,
		ind:     ind,
		ticker:  newTickSource(time.Second/TickRate, time.Now),
	}
}

func (h *tinyGoHAL) Logger() Logger     { return h.logger }
func (h *tinyGoHAL) Display() Display   { return h.lcd }
func (h *tinyGoHAL) Input() Input       { return h.buttons }
func (h *tinyGoHAL) Indicators() Port   { return h.ind }
func (h *tinyGoHAL) Ticker() TickSource { return h.ticker }
