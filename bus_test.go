package lcd1602

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

// fakePin records levels and fires onFall on a high to low transition.
type fakePin struct {
	gpiotest.Pin
	level  gpio.Level
	levels []gpio.Level
	err    error
	duty   gpio.Duty
	freq   physic.Frequency
	onFall func()
}

func newFakePin(name string) *fakePin {
	return &fakePin{Pin: gpiotest.Pin{N: name}}
}

func (p *fakePin) Out(l gpio.Level) error {
	if p.err != nil {
		return p.err
	}
	prev := p.level
	p.level = l
	p.levels = append(p.levels, l)
	if prev == gpio.High && l == gpio.Low && p.onFall != nil {
		p.onFall()
	}
	return nil
}

func (p *fakePin) PWM(duty gpio.Duty, f physic.Frequency) error {
	if p.err != nil {
		return p.err
	}
	p.duty, p.freq = duty, f
	return nil
}

// nibble is what the controller latched on one falling edge of E.
type nibble struct {
	data bool
	v    byte
}

// transfer is one byte sent as two nibbles.
type transfer struct {
	data bool
	v    byte
}

func cmd(v byte) transfer  { return transfer{false, v} }
func data(v byte) transfer { return transfer{true, v} }

func (t transfer) String() string {
	if t.data {
		return fmt.Sprintf("data(%#02x)", t.v)
	}
	return fmt.Sprintf("cmd(%#02x)", t.v)
}

// recorder decodes the bus into nibbles and records every sleep.
type recorder struct {
	rs, e   *fakePin
	d       [4]*fakePin
	nibbles []nibble
	sleeps  []time.Duration
}

func newRecorder() *recorder {
	r := &recorder{rs: newFakePin("RS"), e: newFakePin("E")}
	for i := range r.d {
		r.d[i] = newFakePin(fmt.Sprintf("D%d", i+4))
	}
	r.e.onFall = r.latch
	return r
}

func (r *recorder) latch() {
	var v byte
	for i, p := range r.d {
		if p.level {
			v |= 1 << uint(i)
		}
	}
	r.nibbles = append(r.nibbles, nibble{data: bool(r.rs.level), v: v})
}

func (r *recorder) sleep(d time.Duration) {
	r.sleeps = append(r.sleeps, d)
}

func (r *recorder) dataPins() [4]gpio.PinOut {
	var pins [4]gpio.PinOut
	for i, p := range r.d {
		pins[i] = p
	}
	return pins
}

func (r *recorder) reset() {
	r.nibbles = nil
	r.sleeps = nil
}

// transfers pairs the recorded nibbles into bytes, skipping the first skip
// nibbles.
func (r *recorder) transfers(t *testing.T, skip int) []transfer {
	t.Helper()
	nibs := r.nibbles[skip:]
	if len(nibs)%2 != 0 {
		t.Fatalf("odd number of nibbles: %d", len(nibs))
	}
	var out []transfer
	for i := 0; i < len(nibs); i += 2 {
		hi, lo := nibs[i], nibs[i+1]
		if hi.data != lo.data {
			t.Fatalf("RS changed within byte at nibble %d", skip+i)
		}
		out = append(out, transfer{data: hi.data, v: hi.v<<4 | lo.v})
	}
	return out
}

// frames extracts the complete redraws of d from the recorded transfers and
// returns the text of each.
func (r *recorder) frames(t *testing.T, d *Dev) [][]string {
	t.Helper()
	tr := r.transfers(t, 0)
	var out [][]string
	for i := 0; i < len(tr); {
		frame, n := matchFrame(tr[i:], d)
		if n == 0 {
			i++
			continue
		}
		out = append(out, frame)
		i += n
	}
	return out
}

func matchFrame(tr []transfer, d *Dev) ([]string, int) {
	cols, rows := d.Cols(), d.Rows()
	need := rows * (cols + 1)
	if len(tr) < need {
		return nil, 0
	}
	var lines []string
	for y := 0; y < rows; y++ {
		base := y * (cols + 1)
		if tr[base] != cmd(cmdSetDDRAMAddr|d.rowOffsets[y]) {
			return nil, 0
		}
		line := make([]byte, cols)
		for x := 0; x < cols; x++ {
			c := tr[base+1+x]
			if !c.data {
				return nil, 0
			}
			line[x] = c.v
		}
		lines = append(lines, string(line))
	}
	return lines, need
}

// newTestDev returns an initialized device over a recorder, with the
// recorder reset after initialization.
func newTestDev(t *testing.T, opts *Opts) (*Dev, *recorder) {
	t.Helper()
	r := newRecorder()
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	o.Sleep = r.sleep
	d, err := NewGPIO(r.rs, r.e, r.dataPins(), &o)
	if err != nil {
		t.Fatalf("NewGPIO() error = %v", err)
	}
	r.reset()
	return d, r
}

func TestBusNibbleOrder(t *testing.T) {
	r := newRecorder()
	b := &bus{rs: r.rs, e: r.e, data: r.dataPins(), sleep: r.sleep}

	b.command(0xA5)
	b.write(0x3C)

	want := []nibble{{false, 0xA}, {false, 0x5}, {true, 0x3}, {true, 0xC}}
	if !slices.Equal(r.nibbles, want) {
		t.Errorf("nibbles = %v, want %v", r.nibbles, want)
	}
	if b.err != nil {
		t.Errorf("err = %v, want nil", b.err)
	}
}

func TestBusPulseTiming(t *testing.T) {
	r := newRecorder()
	b := &bus{rs: r.rs, e: r.e, data: r.dataPins(), sleep: r.sleep}

	b.writeNibble(0x0F)

	if len(r.nibbles) != 1 || r.nibbles[0].v != 0x0F {
		t.Fatalf("nibbles = %v, want one 0x0F", r.nibbles)
	}
	if len(r.sleeps) != 3 {
		t.Fatalf("sleeps = %v, want setup, width and settle", r.sleeps)
	}
	if r.sleeps[1] < 450*time.Nanosecond {
		t.Errorf("enable pulse width = %v, want >= 450ns", r.sleeps[1])
	}
	if r.sleeps[2] < 37*time.Microsecond {
		t.Errorf("settle = %v, want >= 37µs", r.sleeps[2])
	}
	if r.e.level != gpio.Low {
		t.Error("E should be left low")
	}
}

func TestBusPulseOrder(t *testing.T) {
	r := newRecorder()
	var during []gpio.Level
	sleep := func(d time.Duration) {
		during = append(during, r.e.level)
		r.sleep(d)
	}
	b := &bus{rs: r.rs, e: r.e, data: r.dataPins(), sleep: sleep}

	b.pulseEnable()

	want := []gpio.Level{gpio.Low, gpio.High, gpio.Low}
	if !slices.Equal(r.e.levels, want) {
		t.Errorf("E levels = %v, want %v", r.e.levels, want)
	}
	// setup while low, width while high, settle after the falling edge
	if !slices.Equal(during, want) {
		t.Errorf("E during sleeps = %v, want %v", during, want)
	}
	if !slices.Equal(r.sleeps, []time.Duration{pulseSetup, pulseWidth, pulseSettle}) {
		t.Errorf("sleeps = %v, want setup, width, settle", r.sleeps)
	}
}

func TestBusFaultLatches(t *testing.T) {
	r := newRecorder()
	b := &bus{rs: r.rs, e: r.e, data: r.dataPins(), sleep: r.sleep}
	pinErr := errors.New("gpio: write failed")
	r.d[2].err = pinErr

	b.command(0xFF)
	if !errors.Is(b.err, ErrBusFault) || !errors.Is(b.err, pinErr) {
		t.Fatalf("err = %v, want ErrBusFault wrapping the pin error", b.err)
	}

	// Nothing reaches the controller once the bus has faulted.
	r.d[2].err = nil
	r.reset()
	b.command(0x01)
	if len(r.nibbles) != 0 {
		t.Errorf("nibbles after fault = %v, want none", r.nibbles)
	}
}
