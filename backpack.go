package lcd1602

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultPCF8574Addr is the usual address of PCF8574 backpacks. PCF8574A
// based boards answer at 0x3F instead.
const DefaultPCF8574Addr uint16 = 0x27

// PCF8574 output bit of each LCD signal on common backpacks.
const (
	pcfRS        = 0
	pcfRW        = 1
	pcfE         = 2
	pcfBacklight = 3
	pcfD4        = 4
)

// NewPCF8574 creates a new display connected through a PCF8574 I²C
// backpack and initializes it. The expander's outputs carry the same 4-bit
// protocol as NewGPIO; each pin change is one I²C write.
//
// addr can be 0 to use DefaultPCF8574Addr. The backlight is driven by the
// backpack, so opts.Backlight is ignored.
func NewPCF8574(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if addr == 0 {
		addr = DefaultPCF8574Addr
	}
	if addr > 0x7F {
		return nil, fmt.Errorf("lcd1602: invalid I²C address %#x", addr)
	}
	x := &expander{c: &i2c.Dev{Bus: b, Addr: addr}}
	// R/W is wired on these boards; hold it low for writes.
	if err := x.pin(pcfRW).Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("lcd1602: backpack at %#x: %w", addr, err)
	}

	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	o.Backlight = x.pin(pcfBacklight)

	var data [4]gpio.PinOut
	for i := range data {
		data[i] = x.pin(pcfD4 + uint8(i))
	}
	return NewGPIO(x.pin(pcfRS), x.pin(pcfE), data, &o)
}

// expander is the output latch of a PCF8574 quasi-bidirectional port.
type expander struct {
	c     *i2c.Dev
	state byte
}

func (x *expander) pin(bit uint8) *expanderPin {
	return &expanderPin{x: x, bit: bit}
}

// set updates one output bit and writes the latch.
func (x *expander) set(bit uint8, l gpio.Level) error {
	if l {
		x.state |= 1 << bit
	} else {
		x.state &^= 1 << bit
	}
	return x.c.Tx([]byte{x.state}, nil)
}

// expanderPin is one output of the expander. It implements gpio.PinOut.
type expanderPin struct {
	x   *expander
	bit uint8
}

func (p *expanderPin) String() string {
	return fmt.Sprintf("%s.P%d", p.x.c, p.bit)
}

func (p *expanderPin) Halt() error {
	return nil
}

func (p *expanderPin) Name() string {
	return fmt.Sprintf("P%d", p.bit)
}

func (p *expanderPin) Number() int {
	return int(p.bit)
}

// Function returns the current pin function. Deprecated by periph.io but
// still part of pin.Pin.
func (p *expanderPin) Function() string {
	return "Out/" + gpio.Level(p.x.state&(1<<p.bit) != 0).String()
}

func (p *expanderPin) Out(l gpio.Level) error {
	return p.x.set(p.bit, l)
}

// PWM is not supported by the expander.
func (p *expanderPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("lcd1602: PWM not supported on PCF8574 outputs")
}

var _ gpio.PinOut = &expanderPin{}
