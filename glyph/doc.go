// Package glyph provides the 5×8 user-defined character format of HD44780
// compatible controllers.
//
// The controller keeps eight custom characters in CGRAM. Each one is eight
// rows of five dots. The low five bits of every row byte hold the dots, and
// bit 4 is the leftmost column:
//
//	Row byte  Dots
//	0x0E      .###.
//	0x11      #...#
//	0x1F      #####
//
// This package provides:
//
// - Dot: a lit/dark color type
// - DotModel: a color model converting standard Go colors to Dot
// - Bitmap: a draw.Image implementation holding one custom character
// - Parse: builds a Bitmap from '#'/'.' text rows
//
// Example usage:
//
//	heart := glyph.MustParse(
//		".....",
//		".#.#.",
//		"#####",
//		"#####",
//		".###.",
//		"..#..",
//	)
//	dev.CreateChar(1, heart)
//	dev.WriteByte(1)
//
//	// Use with standard Go image operations
//	var b glyph.Bitmap
//	draw.Draw(&b, b.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
package glyph
