package contentstream

import (
	"bytes"
	"fmt"
	"strconv"
)

// Operation is a content stream operator with the operands preceding it.
type Operation struct {
	Operator string   // The operator (e.g., "Tj", "Tm", "q")
	Operands []Object // The operands
}

// Parser parses PDF content streams into a sequence of operations.
type Parser struct {
	data     []byte
	pos      int
	operands []Object
	ops      []Operation
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse parses the content stream and returns all operations in order.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		p.skipWhitespaceAndComments()
		if p.pos >= len(p.data) {
			break
		}

		start := p.pos
		if err := p.parseNext(); err != nil {
			return nil, fmt.Errorf("at position %d: %w", start, err)
		}
	}

	return p.ops, nil
}

// parseNext parses the next token, which is either an operand (pushed onto the
// operand stack) or an operator (which consumes the stack).
func (p *Parser) parseNext() error {
	c := p.data[p.pos]

	if isLetter(c) || c == '\'' || c == '"' {
		return p.parseOperator()
	}

	// Stray closing delimiters carry no meaning outside an object.
	if c == ')' || c == '>' || c == ']' || c == '{' || c == '}' {
		p.pos++
		return nil
	}

	operand, err := p.parseOperand()
	if err != nil {
		return err
	}
	p.operands = append(p.operands, operand)
	return nil
}

// parseOperator reads an operator and emits an operation with the pending
// operands.
func (p *Parser) parseOperator() error {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		p.pos++
		// ' and " are complete operators on their own
		if c == '\'' || c == '"' {
			break
		}
	}

	operator := string(p.data[start:p.pos])

	switch operator {
	case "true":
		p.operands = append(p.operands, Bool(true))
		return nil
	case "false":
		p.operands = append(p.operands, Bool(false))
		return nil
	case "null":
		p.operands = append(p.operands, Null{})
		return nil
	case "BI":
		p.operands = nil
		return p.skipInlineImage()
	}

	p.ops = append(p.ops, Operation{Operator: operator, Operands: p.operands})
	p.operands = nil
	return nil
}

// skipInlineImage moves past the dictionary and binary data of an inline
// image, which ends with whitespace followed by EI.
func (p *Parser) skipInlineImage() error {
	id := bytes.Index(p.data[p.pos:], []byte("ID"))
	if id < 0 {
		return fmt.Errorf("inline image without ID")
	}
	p.pos += id + 2

	for i := p.pos; i+2 <= len(p.data); i++ {
		if p.data[i] == 'E' && p.data[i+1] == 'I' &&
			i > 0 && isWhitespace(p.data[i-1]) &&
			(i+2 == len(p.data) || isWhitespace(p.data[i+2])) {
			p.pos = i + 2
			return nil
		}
	}
	return fmt.Errorf("inline image without EI")
}

// parseOperand parses a single operand.
func (p *Parser) parseOperand() (Object, error) {
	p.skipWhitespaceAndComments()
	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("unexpected end of stream")
	}

	c := p.data[p.pos]
	switch {
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c == '(':
		return p.parseString()
	case c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<':
		return p.parseDict()
	case c == '<':
		return p.parseHexString()
	case c == '/':
		return p.parseName(), nil
	case c == '[':
		return p.parseArray()
	case isLetter(c):
		// keywords inside arrays and dictionaries
		start := p.pos
		for p.pos < len(p.data) && isLetter(p.data[p.pos]) {
			p.pos++
		}
		switch string(p.data[start:p.pos]) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "null":
			return Null{}, nil
		}
		return nil, fmt.Errorf("unexpected keyword %q", p.data[start:p.pos])
	}

	return nil, fmt.Errorf("unexpected character %q", c)
}

// parseNumber parses an integer or real number operand.
func (p *Parser) parseNumber() (Object, error) {
	start := p.pos
	hasDecimal := false

	if p.data[p.pos] == '+' || p.data[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
		} else if c == '.' && !hasDecimal {
			hasDecimal = true
			p.pos++
		} else {
			break
		}
	}

	s := string(p.data[start:p.pos])
	if s == "-" || s == "+" || s == "." || s == "-." || s == "+." {
		// producers occasionally write a lone sign for zero
		return Int(0), nil
	}

	if hasDecimal {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", s, err)
		}
		return Real(val), nil
	}

	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// out of range integers are still usable as reals
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", s, err)
		}
		return Real(f), nil
	}
	return Int(val), nil
}

// parseString parses a literal string (...) with escape sequence handling.
func (p *Parser) parseString() (Object, error) {
	p.pos++ // skip '('

	var out bytes.Buffer
	depth := 1

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		switch {
		case c == '\\' && p.pos < len(p.data):
			p.readEscape(&out)
		case c == '(':
			depth++
			out.WriteByte(c)
		case c == ')':
			depth--
			if depth == 0 {
				return String(out.String()), nil
			}
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}

	return nil, fmt.Errorf("unclosed string")
}

// readEscape decodes the escape sequence following a backslash.
func (p *Parser) readEscape(out *bytes.Buffer) {
	next := p.data[p.pos]
	p.pos++

	switch next {
	case 'n':
		out.WriteByte('\n')
	case 'r':
		out.WriteByte('\r')
	case 't':
		out.WriteByte('\t')
	case 'b':
		out.WriteByte('\b')
	case 'f':
		out.WriteByte('\f')
	case '\r':
		// line continuation
		if p.pos < len(p.data) && p.data[p.pos] == '\n' {
			p.pos++
		}
	case '\n':
		// line continuation
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := int(next - '0')
		for i := 0; i < 2 && p.pos < len(p.data); i++ {
			d := p.data[p.pos]
			if d < '0' || d > '7' {
				break
			}
			val = val*8 + int(d-'0')
			p.pos++
		}
		out.WriteByte(byte(val & 0xFF))
	default:
		// \( \) \\ and unknown escapes keep the character
		out.WriteByte(next)
	}
}

// parseHexString parses a hexadecimal string <...>.
func (p *Parser) parseHexString() (Object, error) {
	p.pos++ // skip '<'

	var digits []byte
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		if c == '>' {
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			for i := range out {
				out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
			}
			return String(out), nil
		}
		if isWhitespace(c) {
			continue
		}
		if !isHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit %q", c)
		}
		digits = append(digits, c)
	}

	return nil, fmt.Errorf("unclosed hex string")
}

// parseName parses a name object /Name with # escape handling.
func (p *Parser) parseName() Object {
	p.pos++ // skip '/'

	var out bytes.Buffer
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			out.WriteByte(hexValue(p.data[p.pos+1])<<4 | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		out.WriteByte(c)
		p.pos++
	}

	return Name(out.String())
}

// parseArray parses an array [...] of operands.
func (p *Parser) parseArray() (Object, error) {
	p.pos++ // skip '['

	arr := Array{}
	for {
		p.skipWhitespaceAndComments()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}

		obj, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// parseDict parses a dictionary <<...>>.
func (p *Parser) parseDict() (Object, error) {
	p.pos += 2 // skip '<<'

	dict := Dict{}
	for {
		p.skipWhitespaceAndComments()
		if p.pos+1 >= len(p.data) {
			return nil, fmt.Errorf("unclosed dictionary")
		}
		if p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			return dict, nil
		}
		if p.data[p.pos] != '/' {
			return nil, fmt.Errorf("dictionary key must be a name")
		}

		key := p.parseName().(Name)
		value, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		dict[string(key)] = value
	}
}

// skipWhitespaceAndComments advances past whitespace and % comments.
func (p *Parser) skipWhitespaceAndComments() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case isWhitespace(c):
			p.pos++
		case c == '%':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		default:
			return
		}
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isLetter reports whether c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

// isHexDigit reports whether c is a hexadecimal digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
