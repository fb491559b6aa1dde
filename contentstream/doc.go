// Package contentstream parses PDF page content streams into operations.
//
// A content stream is a sequence of operands followed by an operator:
//
//	BT /F1 9 Tf 56.7 720 Td (113) Tj 40 0 Td (Edvard Strømsæther) Tj ET
//
// The [Parser] returns each operator together with the operands that
// preceded it:
//
//	ops, err := contentstream.NewParser(data).Parse()
//	for _, op := range ops {
//	    fmt.Println(op.Operator, op.Operands)
//	}
//
// # Operand Types
//
// Operands are one of [Int], [Real], [String], [Name], [Array], [Dict],
// [Bool] or [Null]. Strings are kept as raw bytes; decoding them to text
// depends on the font and is left to the text package.
//
// Comments are skipped and inline image data (BI ... ID ... EI) is passed
// over without being interpreted.
package contentstream
