package lcd1602

// placement describes where the cursor stands relative to the grid before the
// next printable character is placed.
type placement int

const (
	// placeNormal means the cursor addresses a cell inside the grid.
	placeNormal placement = iota
	// placePendingWrap means the cursor ran past the last column.
	placePendingWrap
	// placePendingScroll means the cursor ran past the last row.
	placePendingScroll
)

func (p placement) String() string {
	switch p {
	case placePendingWrap:
		return "pending-wrap"
	case placePendingScroll:
		return "pending-scroll"
	default:
		return "normal"
	}
}

// screen is the in-memory character grid and text cursor.
//
// A zero cell is blank and renders as a space. row may equal rows after a
// line feed or a wrap on the last row; the next printable character or tab
// resolves it by scrolling.
type screen struct {
	cells    [][]byte
	cols     int
	rows     int
	tabWidth int
	col, row int
}

func newScreen(cols, rows, tabWidth int) *screen {
	backing := make([]byte, cols*rows)
	cells := make([][]byte, rows)
	for y := range cells {
		cells[y] = backing[y*cols : (y+1)*cols : (y+1)*cols]
	}
	return &screen{cells: cells, cols: cols, rows: rows, tabWidth: tabWidth}
}

// reset blanks every cell and homes the cursor.
func (s *screen) reset() {
	for _, line := range s.cells {
		clear(line)
	}
	s.col, s.row = 0, 0
}

// scroll evicts the top row and blanks the last one.
func (s *screen) scroll() {
	for y := 0; y < s.rows-1; y++ {
		copy(s.cells[y], s.cells[y+1])
	}
	clear(s.cells[s.rows-1])
}

func (s *screen) placement() placement {
	switch {
	case s.col >= s.cols:
		return placePendingWrap
	case s.row >= s.rows:
		return placePendingScroll
	default:
		return placeNormal
	}
}

// settle moves the cursor back onto the grid. A wrap on the last row leaves
// the cursor pending a scroll, so the bottom-right corner goes through both
// transitions in a single call.
func (s *screen) settle() {
	for {
		switch s.placement() {
		case placePendingWrap:
			s.col = 0
			if s.row < s.rows {
				s.row++
			}
		case placePendingScroll:
			s.scroll()
			s.row = s.rows - 1
		default:
			return
		}
	}
}

// put interprets c against the grid.
func (s *screen) put(c byte) {
	switch c {
	case '\b':
		if s.col > 0 {
			s.col--
		}
	case '\r':
		s.col = 0
	case '\n':
		if s.row < s.rows {
			s.row++
		}
	case '\f':
		s.reset()
	case '\t':
		s.settle()
		for n := s.tabWidth - s.col%s.tabWidth; n > 0 && s.col < s.cols; n-- {
			s.cells[s.row][s.col] = ' '
			s.col++
		}
	default:
		s.settle()
		s.cells[s.row][s.col] = c
		s.col++
	}
}

// line renders row y with blanks substituted by spaces.
func (s *screen) line(y int) []byte {
	out := make([]byte, s.cols)
	for x, c := range s.cells[y] {
		if c == 0 {
			c = ' '
		}
		out[x] = c
	}
	return out
}
