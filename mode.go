package lcd1602

// Instruction set.
const (
	cmdClearDisplay   byte = 0x01
	cmdReturnHome     byte = 0x02
	cmdEntryModeSet   byte = 0x04
	cmdDisplayControl byte = 0x08
	cmdCursorShift    byte = 0x10
	cmdFunctionSet    byte = 0x20
	cmdSetCGRAMAddr   byte = 0x40
	cmdSetDDRAMAddr   byte = 0x80
)

// Entry mode flags.
const (
	flagEntryLeft           byte = 0x02
	flagEntryShiftIncrement byte = 0x01
)

// Display control flags.
const (
	flagDisplayOn byte = 0x04
	flagCursorOn  byte = 0x02
	flagBlinkOn   byte = 0x01
)

// Cursor/display shift flags.
const (
	flagDisplayMove byte = 0x08
	flagMoveRight   byte = 0x04
)

// Function set flags.
const (
	flag8BitMode byte = 0x10
	flag2Line    byte = 0x08
	flag5x10Dots byte = 0x04
)

// functionSet mirrors the function set register.
type functionSet struct {
	eightBit bool
	twoLine  bool
	font5x10 bool
}

func (f functionSet) command() byte {
	c := cmdFunctionSet
	if f.eightBit {
		c |= flag8BitMode
	}
	if f.twoLine {
		c |= flag2Line
	}
	if f.font5x10 {
		c |= flag5x10Dots
	}
	return c
}

// displayControl mirrors the display on/off control register.
type displayControl struct {
	display bool
	cursor  bool
	blink   bool
}

func (d displayControl) command() byte {
	c := cmdDisplayControl
	if d.display {
		c |= flagDisplayOn
	}
	if d.cursor {
		c |= flagCursorOn
	}
	if d.blink {
		c |= flagBlinkOn
	}
	return c
}

// entryMode mirrors the entry mode register.
type entryMode struct {
	leftToRight bool
	shift       bool // autoscroll
}

func (e entryMode) command() byte {
	c := cmdEntryModeSet
	if e.leftToRight {
		c |= flagEntryLeft
	}
	if e.shift {
		c |= flagEntryShiftIncrement
	}
	return c
}

// Direction selects which way ScrollDisplay moves the visible window.
type Direction byte

const (
	Left  Direction = 0x00
	Right Direction = Direction(flagMoveRight)
)

func (d Direction) String() string {
	if d == Right {
		return "Right"
	}
	return "Left"
}
