package contentstream

// Object is an operand in a content stream.
type Object interface{}

// Int is an integer operand.
type Int int64

// Real is a real-number operand.
type Real float64

// String is a literal or hexadecimal string operand holding raw bytes.
type String string

// Name is a name operand without its leading slash.
type Name string

// Array is an array operand.
type Array []Object

// Dict is a dictionary operand (marked-content properties).
type Dict map[string]Object

// Bool is a boolean operand.
type Bool bool

// Null is the null operand.
type Null struct{}

// Float returns the numeric value of an Int or Real operand.
func Float(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	default:
		return 0, false
	}
}
