package lcd1602

import (
	"io"
	"strings"
)

// BeginUpdate defers redraws until EndUpdate. Text written in between only
// changes the buffer.
func (d *Dev) BeginUpdate() {
	d.updating = true
}

// EndUpdate ends a BeginUpdate scope and redraws the display once. It does
// nothing outside such a scope.
func (d *Dev) EndUpdate() error {
	if !d.updating {
		return nil
	}
	d.updating = false
	return d.Redraw()
}

// Updating reports whether a BeginUpdate scope is open.
func (d *Dev) Updating() bool {
	return d.updating
}

// WriteByte writes one character at the cursor.
//
// The control characters '\b', '\r', '\n', '\f' and '\t' move the cursor,
// clear the buffer or fill to the next tab stop. Every other byte is stored
// as is, so custom characters are written by their CGRAM slot number. Text
// running past the last column wraps, and text running past the last row
// scrolls the buffer up by one row.
//
// Outside a BeginUpdate scope the display is redrawn immediately.
func (d *Dev) WriteByte(c byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	d.scr.put(c)
	if d.updating {
		return nil
	}
	return d.Redraw()
}

// Write writes p as text with a single redraw at the end. It implements
// io.Writer.
//
// Write always ends with EndUpdate, so it also closes a BeginUpdate scope
// opened by the caller.
func (d *Dev) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := d.ready(); err != nil {
		return 0, err
	}
	d.BeginUpdate()
	for _, c := range p {
		d.scr.put(c)
	}
	if err := d.EndUpdate(); err != nil {
		return len(p), err
	}
	return len(p), nil
}

// WriteString is like Write but takes a string.
func (d *Dev) WriteString(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return d.Write([]byte(s))
}

// Lines returns the text buffer as it will be drawn, one string per row.
func (d *Dev) Lines() []string {
	lines := make([]string, d.scr.rows)
	for y := range lines {
		lines[y] = string(d.scr.line(y))
	}
	return lines
}

// Text returns the text buffer as rows joined by newlines, with trailing
// spaces removed from each row.
func (d *Dev) Text() string {
	lines := d.Lines()
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

var (
	_ io.Writer       = &Dev{}
	_ io.ByteWriter   = &Dev{}
	_ io.StringWriter = &Dev{}
)
