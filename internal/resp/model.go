package resp

import "unicode/utf8"

const (
	TypeSimpleString = '+'
	TypeError        = '-'
	TypeInteger      = ':'
	TypeBulkString   = '$'
	TypeArray        = '*'

	// TypeNull never appears as a tag on the wire. Both "$-1" and "*-1" decode to it.
	TypeNull = '_'
)

// Value is a single decoded RESP unit. Type selects which payload field is meaningful
type Value struct {
	String  []byte  // SimpleString, Error, BulkString
	Array   []Value // Array
	Integer int64   // Integer
	Type    byte
}

// IsNull reports whether v is the null value
func (v Value) IsNull() bool {
	return v.Type == TypeNull
}

// Text returns the payload of a string-like value as a Go string
func (v Value) Text() string {
	return string(v.String)
}

func validText(b []byte) bool {
	return utf8.Valid(b)
}
