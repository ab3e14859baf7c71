// Package lcd1602 drives HD44780 compatible character displays over a 4-bit
// parallel bus and presents them as a small scrolling text terminal.
//
// See the examples for how to use this package.
package lcd1602

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/flavioheleno/lcd1602/glyph"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrHalted is returned by every operation after Halt until Init is
	// called again.
	ErrHalted = errors.New("lcd1602: halted")

	// ErrBusFault reports that a pin could not be driven. The controller
	// state is unknown afterwards, so the fault is returned by every
	// operation until Init succeeds.
	ErrBusFault = errors.New("lcd1602: bus fault")
)

// Controller timings.
const (
	delayPowerOn  = 50 * time.Millisecond   // datasheet asks >40ms after Vcc rises to 2.7V
	delayInitLong = 4500 * time.Microsecond // wait min 4.1ms
	delayInitLast = 150 * time.Microsecond  // wait min 100µs
	delaySlowCmd  = 2000 * time.Microsecond // clear and home take ~1.52ms
)

// backlightFreq is the PWM frequency used for dimmed backlight levels.
const backlightFreq = physic.KiloHertz

// Opts is the configuration for the display.
type Opts struct {
	// Display geometry in characters
	Cols int // Columns (default: 16, must be ≤40, or ≤20 with more than 2 rows)
	Rows int // Rows (default: 2, must be ≤4)

	TabWidth int  // Tab stop interval (default: 4)
	Font5x10 bool // 5×10 dot font, single row displays only

	// Optional backlight pin
	Backlight gpio.PinOut

	// Sleep blocks for at least the given duration (default: time.Sleep).
	Sleep func(time.Duration)

	// Logger receives driver diagnostics (default: discarded).
	Logger *slog.Logger
}

// DefaultOpts is the configuration of a 16×2 module.
var DefaultOpts = Opts{
	Cols:     16,
	Rows:     2,
	TabWidth: 4,
}

// validate fills in defaults and checks the geometry.
func (o *Opts) validate() error {
	if o.Cols == 0 {
		o.Cols = DefaultOpts.Cols
	}
	if o.Rows == 0 {
		o.Rows = DefaultOpts.Rows
	}
	if o.TabWidth == 0 {
		o.TabWidth = DefaultOpts.TabWidth
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if o.Rows < 1 || o.Rows > 4 {
		return errors.New("lcd1602: rows must be between 1 and 4")
	}
	if o.Cols < 1 || o.Cols > 40 {
		return errors.New("lcd1602: cols must be between 1 and 40")
	}
	if o.Rows > 2 && o.Cols > 20 {
		return errors.New("lcd1602: cols must be at most 20 with more than 2 rows")
	}
	if o.TabWidth < 1 {
		return errors.New("lcd1602: tab width must be positive")
	}
	if o.Font5x10 && o.Rows > 1 {
		return errors.New("lcd1602: 5x10 font requires a single row display")
	}
	return nil
}

// Dev is the device handle for the display.
//
// Dev is not safe for concurrent use. Every operation blocks for the
// duration of its bus transfers.
type Dev struct {
	// Communication
	bus       bus
	backlight gpio.PinOut
	log       *slog.Logger

	// Controller registers, as last sent
	function functionSet
	control  displayControl
	entry    entryMode

	// Row number to DDRAM base address
	rowOffsets [4]byte

	// Text buffer
	scr      *screen
	updating bool

	// State
	halted  bool
	faulted bool
}

// NewGPIO creates a new display connected over a 4-bit parallel bus and
// initializes it.
//
// rs is the register select pin, e the enable pin and data the D4..D7 pins,
// in that order. The R/W pin must be tied low. All pins must already be usable
// as outputs.
//
// opts can be nil to use defaults (16×2 display).
func NewGPIO(rs, e gpio.PinOut, data [4]gpio.PinOut, opts *Opts) (*Dev, error) {
	d, err := newDev(rs, e, data, opts)
	if err != nil {
		return nil, err
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// newDev validates opts and builds an uninitialized device.
func newDev(rs, e gpio.PinOut, data [4]gpio.PinOut, opts *Opts) (*Dev, error) {
	if rs == nil || e == nil {
		return nil, errors.New("lcd1602: rs and e pins are required")
	}
	for i, p := range data {
		if p == nil {
			return nil, fmt.Errorf("lcd1602: data pin D%d is required", i+4)
		}
	}

	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	c := byte(o.Cols)
	return &Dev{
		bus: bus{
			rs:    rs,
			e:     e,
			data:  data,
			sleep: o.Sleep,
		},
		backlight:  o.Backlight,
		log:        o.Logger,
		function:   functionSet{twoLine: o.Rows > 1, font5x10: o.Font5x10},
		rowOffsets: [4]byte{0x00, 0x40, c, 0x40 + c},
		scr:        newScreen(o.Cols, o.Rows, o.TabWidth),
	}, nil
}

// Init runs the 4-bit interface bring-up sequence of the controller and
// resets the text buffer.
//
// It is called by NewGPIO. Call it again to recover after Halt or after a bus
// fault.
func (d *Dev) Init() error {
	d.bus.err = nil
	d.faulted = false
	d.halted = false
	d.updating = false

	b := &d.bus
	b.sleep(delayPowerOn)

	// Pull RS and E low to begin commands.
	b.out(b.rs, gpio.Low)
	b.out(b.e, gpio.Low)

	// The controller may be in 8-bit mode or halfway through a 4-bit transfer;
	// three function sets put it in a known 8-bit state.
	b.writeNibble(0x03)
	b.sleep(delayInitLong)
	b.writeNibble(0x03)
	b.sleep(delayInitLong)
	b.writeNibble(0x03)
	b.sleep(delayInitLast)

	// Switch to the 4-bit interface.
	b.writeNibble(0x02)

	b.command(d.function.command())

	d.control = displayControl{display: true}
	b.command(d.control.command())

	d.clear()

	d.entry = entryMode{leftToRight: true}
	b.command(d.entry.command())

	if d.backlight != nil {
		b.out(d.backlight, gpio.High)
	}

	if err := d.fault(); err != nil {
		return err
	}
	d.log.Debug("lcd1602: initialized", "cols", d.scr.cols, "rows", d.scr.rows)
	return nil
}

// fault returns the latched bus error, logging it the first time.
func (d *Dev) fault() error {
	if d.bus.err != nil && !d.faulted {
		d.faulted = true
		d.log.Error("lcd1602: bus fault, reinitialize to recover", "err", d.bus.err)
	}
	return d.bus.err
}

// ready reports whether the device accepts operations.
func (d *Dev) ready() error {
	if d.halted {
		return ErrHalted
	}
	return d.bus.err
}

// clear sends the clear command and resets the text buffer once the
// controller is done with it.
func (d *Dev) clear() {
	d.bus.command(cmdClearDisplay)
	d.bus.sleep(delaySlowCmd)
	d.scr.reset()
}

// Clear blanks the display and the text buffer and moves the cursor to the
// origin.
func (d *Dev) Clear() error {
	if err := d.ready(); err != nil {
		return err
	}
	d.clear()
	return d.fault()
}

// Home moves the cursor to the origin and undoes any display shift. The text
// buffer is left unchanged.
func (d *Dev) Home() error {
	if err := d.ready(); err != nil {
		return err
	}
	d.bus.command(cmdReturnHome)
	d.bus.sleep(delaySlowCmd)
	d.scr.col, d.scr.row = 0, 0
	return d.fault()
}

// SetCursor moves the cursor to the given column and row, 0-indexed.
// Out of range coordinates are clamped to the last column or row.
func (d *Dev) SetCursor(col, row int) error {
	if err := d.ready(); err != nil {
		return err
	}
	col = min(max(col, 0), d.scr.cols-1)
	row = min(max(row, 0), d.scr.rows-1)
	d.bus.command(cmdSetDDRAMAddr | (byte(col) + d.rowOffsets[row]))
	d.scr.col, d.scr.row = col, row
	return d.fault()
}

// Position returns the text cursor. row equals Rows() while a line feed or a
// wrap on the last row is pending a scroll.
func (d *Dev) Position() (col, row int) {
	return d.scr.col, d.scr.row
}

// setControl updates the display control register.
func (d *Dev) setControl(c displayControl) error {
	if err := d.ready(); err != nil {
		return err
	}
	d.control = c
	d.bus.command(d.control.command())
	return d.fault()
}

// Display turns the display on or off. The controller keeps its DDRAM
// contents while off.
func (d *Dev) Display(on bool) error {
	c := d.control
	c.display = on
	return d.setControl(c)
}

// Cursor shows or hides the underline cursor.
func (d *Dev) Cursor(on bool) error {
	c := d.control
	c.cursor = on
	return d.setControl(c)
}

// Blink turns the blinking block cursor on or off.
func (d *Dev) Blink(on bool) error {
	c := d.control
	c.blink = on
	return d.setControl(c)
}

// ScrollDisplay shifts the visible window by one column. The text buffer
// and the cursor are left unchanged.
func (d *Dev) ScrollDisplay(dir Direction) error {
	if err := d.ready(); err != nil {
		return err
	}
	d.bus.command(cmdCursorShift | flagDisplayMove | byte(dir))
	return d.fault()
}

// setEntry updates the entry mode register.
func (d *Dev) setEntry(e entryMode) error {
	if err := d.ready(); err != nil {
		return err
	}
	d.entry = e
	d.bus.command(d.entry.command())
	return d.fault()
}

// TextDirection sets whether the controller advances its address counter
// left to right or right to left.
func (d *Dev) TextDirection(leftToRight bool) error {
	e := d.entry
	e.leftToRight = leftToRight
	return d.setEntry(e)
}

// Autoscroll makes the controller shift the display on every character
// written, instead of moving the cursor.
func (d *Dev) Autoscroll(on bool) error {
	e := d.entry
	e.shift = on
	return d.setEntry(e)
}

// CreateChar uploads a custom character to CGRAM. slot is masked to the
// range 0-7. The character is then printed by writing the slot number.
func (d *Dev) CreateChar(slot byte, b glyph.Bitmap) error {
	if err := d.ready(); err != nil {
		return err
	}
	slot &= 0x07
	d.bus.command(cmdSetCGRAMAddr | slot<<3)
	for _, row := range b {
		d.bus.write(row)
	}
	return d.fault()
}

// SetBacklight sets the backlight level. Full and zero duty drive the pin
// high and low, other levels use PWM. It is a no-op without a backlight pin.
func (d *Dev) SetBacklight(duty gpio.Duty) error {
	if err := d.ready(); err != nil {
		return err
	}
	if d.backlight == nil {
		return nil
	}
	var err error
	switch {
	case duty <= 0:
		err = d.backlight.Out(gpio.Low)
	case duty >= gpio.DutyMax:
		err = d.backlight.Out(gpio.High)
	default:
		err = d.backlight.PWM(duty, backlightFreq)
	}
	if err != nil {
		return fmt.Errorf("lcd1602: backlight: %w", err)
	}
	return nil
}

// Redraw pushes the whole text buffer to the display, row by row.
func (d *Dev) Redraw() error {
	if err := d.ready(); err != nil {
		return err
	}
	d.redraw()
	return d.fault()
}

func (d *Dev) redraw() {
	for y := 0; y < d.scr.rows; y++ {
		d.bus.command(cmdSetDDRAMAddr | d.rowOffsets[y])
		for _, c := range d.scr.cells[y] {
			if c == 0 {
				c = ' '
			}
			d.bus.write(c)
		}
	}
}

// Cols returns the number of columns.
func (d *Dev) Cols() int {
	if d.scr == nil {
		return 0
	}
	return d.scr.cols
}

// Rows returns the number of rows.
func (d *Dev) Rows() int {
	if d.scr == nil {
		return 0
	}
	return d.scr.rows
}

// Halt turns the display and the backlight off.
// After calling Halt, the display will not respond to further commands
// until the device is re-initialized.
func (d *Dev) Halt() error {
	c := d.control
	c.display = false
	if err := d.setControl(c); err != nil && !errors.Is(err, ErrHalted) {
		return err
	}
	if d.backlight != nil {
		if err := d.backlight.Out(gpio.Low); err != nil {
			return fmt.Errorf("lcd1602: backlight: %w", err)
		}
	}
	d.halted = true
	d.log.Debug("lcd1602: halted")
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("lcd1602.Dev{%dx%d}", d.Cols(), d.Rows())
}

var _ conn.Resource = &Dev{}
