package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

// Decoder reads RESP values one at a time from a byte source.
//
// Nested arrays are decoded recursively and the nesting depth is not limited.
// Callers reading untrusted input must bound it themselves.
// A Decoder must not be used from several goroutines at once, and after any
// error the stream position is undefined.
type Decoder struct {
	rd     byteSource
	offset int64
	start  int64 // offset at which the current top-level value began
}

var _ Reader = (*Decoder)(nil)

type byteSource interface {
	io.Reader
	io.ByteReader
}

// NewDecoder returns a Decoder that owns rd.
// Sources that already implement io.ByteReader (bufio.Reader, bytes.Reader, ...) are read directly
func NewDecoder(rd io.Reader) *Decoder {
	if src, ok := rd.(byteSource); ok {
		return &Decoder{rd: src}
	}
	return &Decoder{rd: bufio.NewReader(rd)}
}

// Offset returns the number of bytes consumed from the source so far
func (d *Decoder) Offset() int64 {
	return d.offset
}

// Read decodes the next complete value from the source
func (d *Decoder) Read() (Value, error) {
	d.start = d.offset
	return d.next()
}

func (d *Decoder) next() (Value, error) {
	tag, err := d.readByte()
	if err != nil {
		return Value{}, err
	}

	switch tag {
	case TypeArray:
		return d.readArray()
	case TypeBulkString:
		return d.readBulkString()
	case TypeError:
		return d.readErrorValue()
	case TypeInteger:
		return d.readInteger()
	case TypeSimpleString:
		return d.readSimpleString()
	}

	return Value{}, &DecodeError{Kind: KindUnexpectedToken, Token: tag, Offset: d.offset}
}

// readArray reads the element count and then that many values
func (d *Decoder) readArray() (Value, error) {
	n, err := d.readLength()
	if err != nil {
		return Value{}, err
	}

	switch {
	case n == -1:
		return MakeNull(), nil
	case n < -1:
		return Value{}, d.violation(n)
	}

	// the count is untrusted, grow as elements actually arrive
	elems := make([]Value, 0, min(n, 1024))
	for i := int64(0); i < n; i++ {
		el, err := d.next()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, el)
	}

	return MakeArray(elems), nil
}

// readBulkString reads the declared length, exactly that many payload bytes and the trailing line
func (d *Decoder) readBulkString() (Value, error) {
	n, err := d.readLength()
	if err != nil {
		return Value{}, err
	}

	switch {
	case n == -1:
		return MakeNull(), nil
	case n < -1:
		return Value{}, d.violation(n)
	}

	var buf bytes.Buffer
	buf.Grow(int(min(n, 64*1024)))
	copied, err := io.CopyN(&buf, d.rd, n)
	d.offset += copied
	if err != nil {
		return Value{}, d.readErr(err)
	}

	// the terminator is consumed as a line, whatever precedes the LF is discarded
	if _, err := d.readLine(); err != nil {
		return Value{}, err
	}

	return MakeBulkBytes(buf.Bytes()), nil
}

func (d *Decoder) readErrorValue() (Value, error) {
	v, err := d.readSimpleString()
	if err != nil {
		return Value{}, err
	}

	v.Type = TypeError
	return v, nil
}

func (d *Decoder) readInteger() (Value, error) {
	n, err := d.readLength()
	if err != nil {
		return Value{}, err
	}
	return MakeInteger(n), nil
}

// readSimpleString read Simple String and Error from command
func (d *Decoder) readSimpleString() (Value, error) {
	line, err := d.readLine()
	if err != nil {
		return Value{}, err
	}

	if !validText(line) {
		return Value{}, &DecodeError{Kind: KindInvalidText, Offset: d.offset}
	}

	return Value{Type: TypeSimpleString, String: line}, nil
}

// readLength reads a line holding a signed base-10 integer
func (d *Decoder) readLength() (int64, error) {
	v, err := d.readSimpleString()
	if err != nil {
		return 0, err
	}

	// strconv accepts a leading '+', the protocol does not
	if len(v.String) > 0 && v.String[0] == '+' {
		return 0, &DecodeError{
			Kind:   KindInvalidInteger,
			Offset: d.offset,
			Err:    &strconv.NumError{Func: "ParseInt", Num: v.Text(), Err: strconv.ErrSyntax},
		}
	}

	n, err := strconv.ParseInt(v.Text(), 10, 64)
	if err != nil {
		return 0, &DecodeError{Kind: KindInvalidInteger, Offset: d.offset, Err: err}
	}

	return n, nil
}

// readLine reads up to and including the next LF.
// The LF is not returned and every CR before it is dropped, not only one directly preceding the LF
func (d *Decoder) readLine() ([]byte, error) {
	line := []byte{}
	for {
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}

		switch b {
		case '\n':
			return line, nil
		case '\r':
		default:
			line = append(line, b)
		}
	}
}

func (d *Decoder) readByte() (byte, error) {
	b, err := d.rd.ReadByte()
	if err != nil {
		return 0, d.readErr(err)
	}
	d.offset++
	return b, nil
}

// readErr maps a source error to a DecodeError.
// Running dry exactly at a top-level value boundary wraps io.EOF, anywhere else io.ErrUnexpectedEOF
func (d *Decoder) readErr(err error) error {
	if !errors.Is(err, io.EOF) {
		return &DecodeError{Kind: KindIO, Offset: d.offset, Err: err}
	}

	cause := io.ErrUnexpectedEOF
	if d.offset == d.start {
		cause = io.EOF
	}
	return &DecodeError{Kind: KindEndOfStream, Offset: d.offset, Err: cause}
}

func (d *Decoder) violation(n int64) error {
	return &DecodeError{
		Kind:   KindProtocolViolation,
		Offset: d.offset,
		Err:    errors.New("invalid length " + strconv.FormatInt(n, 10)),
	}
}
