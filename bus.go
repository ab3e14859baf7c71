package lcd1602

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Timing of the enable pulse, from the HD44780 datasheet (figure 25).
const (
	pulseSetup  = 1 * time.Microsecond   // E low before rising edge
	pulseWidth  = 1 * time.Microsecond   // E high, must be >450ns
	pulseSettle = 100 * time.Microsecond // commands need >37µs to settle
)

// bus clocks nibbles into the controller over RS, E and D4..D7.
//
// The protocol is open loop: there is no busy flag to read back, so the first
// pin failure is latched in err and every later transfer becomes a no-op until
// the bus is reset.
type bus struct {
	rs    gpio.PinOut
	e     gpio.PinOut
	data  [4]gpio.PinOut // D4, D5, D6, D7
	sleep func(time.Duration)
	err   error
}

// out drives p to l unless a previous transfer already failed.
func (b *bus) out(p gpio.PinOut, l gpio.Level) {
	if b.err != nil {
		return
	}
	if err := p.Out(l); err != nil {
		b.err = fmt.Errorf("%w: %s: %w", ErrBusFault, p, err)
	}
}

// pulseEnable latches the nibble currently present on D4..D7.
func (b *bus) pulseEnable() {
	b.out(b.e, gpio.Low)
	b.sleep(pulseSetup)
	b.out(b.e, gpio.High)
	b.sleep(pulseWidth)
	b.out(b.e, gpio.Low)
	b.sleep(pulseSettle)
}

// writeNibble drives D4..D7 from the low four bits of v and pulses E.
func (b *bus) writeNibble(v byte) {
	for i, p := range b.data {
		b.out(p, gpio.Level(v&(1<<uint(i)) != 0))
	}
	b.pulseEnable()
}

// send transmits v as two nibbles, high first. RS selects the data register
// when data is true and the instruction register otherwise.
func (b *bus) send(v byte, data bool) {
	b.out(b.rs, gpio.Level(data))
	b.writeNibble(v >> 4)
	b.writeNibble(v)
}

func (b *bus) command(v byte) {
	b.send(v, false)
}

func (b *bus) write(v byte) {
	b.send(v, true)
}
