// Package lcd1602 drives HD44780 compatible character displays over a 4-bit
// parallel bus and presents them as a small scrolling text terminal.
//
// The driver keeps the whole screen in memory. Text written to the device
// updates that buffer, and the buffer is then pushed to the controller row
// by row. The controller is write-only on this bus (R/W tied low), so the
// buffer is the only record of what is shown.
//
// # Hardware Connection
//
// Connect the display in 4-bit mode:
//
//	Display Pin → System Pin
//	VSS         → GND
//	VDD         → 5V (or 3.3V depending on module)
//	V0          → Contrast potentiometer wiper
//	RS          → GPIO
//	RW          → GND
//	E           → GPIO
//	D4..D7      → GPIO ×4
//	A/K         → Backlight (optionally through a GPIO driven transistor)
//
// PCF8574 I²C "backpacks" are supported through NewPCF8574; they carry the
// same 4-bit protocol over the expander's outputs.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/host/v3"
//		"github.com/flavioheleno/lcd1602"
//	)
//
//	func main() {
//		host.Init()
//
//		pin := func(name string) gpio.PinOut { return gpioreg.ByName(name) }
//		dev, _ := lcd1602.NewGPIO(
//			pin("GPIO25"), pin("GPIO24"),
//			[4]gpio.PinOut{pin("GPIO23"), pin("GPIO17"), pin("GPIO18"), pin("GPIO22")},
//			nil, // 16×2
//		)
//		defer dev.Halt()
//
//		dev.WriteString("Hello,\r\nworld!")
//	}
//
// # Terminal Semantics
//
// WriteByte, WriteString and Write interpret these control characters:
//
//	'\b'  cursor one column left, nothing is erased
//	'\r'  cursor to column 0
//	'\n'  cursor one row down, column kept
//	'\f'  clear the buffer, cursor to the origin
//	'\t'  spaces up to the next multiple of Opts.TabWidth
//
// Text running past the last column continues on the next row. Text running
// past the last row evicts the top row. A line feed on the last row does not
// scroll by itself: the scroll happens when the next character arrives, so a
// trailing "\n" never shows an empty bottom row.
//
// # Batched Updates
//
// Every WriteByte outside a batch redraws the whole display. Write and
// WriteString redraw once per call, and close any batch that is open. Group
// several WriteByte calls with BeginUpdate and EndUpdate to redraw only once:
//
//	dev.BeginUpdate()
//	for _, c := range bar {
//		dev.WriteByte(c)
//	}
//	dev.EndUpdate()
//
// # Custom Characters
//
// Eight 5×8 characters can be defined with CreateChar and the glyph package,
// then printed by writing their slot number. Slot 0 cannot be printed through
// the text buffer because byte 0 marks a blank cell, and its alias 8 is
// backspace; use slots 1 to 7.
//
// # Errors
//
// The bus gives no acknowledgement, so the driver only notices failures of
// the pins themselves. The first failure is latched and reported as
// ErrBusFault by every later call; only Init recovers. Out of range cursor
// positions are clamped and glyph slots are masked, never rejected.
//
// # Datasheet
//
// For the instruction set and the initialization sequence, see:
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package lcd1602
