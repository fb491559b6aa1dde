// Package layout turns positioned text fragments into plain text lines.
//
// A start list is a grid: every record is one visual row and its columns
// are separated by wide horizontal gaps. The [LineDetector] groups
// fragments by baseline, orders each row left to right and converts the
// horizontal gaps between fragments into runs of spaces, so that a column
// boundary becomes two or more spaces and an ordinary word break stays a
// single space:
//
//	d := layout.NewLineDetector()
//	lines := d.Lines(fragments)
//
// [PrintableRatio] measures how much of a page decoded to readable text and
// is used to flag pages whose fonts could not be decoded.
package layout
