package resp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decoding failure
type ErrorKind int

const (
	// KindInvalidInteger means a length, count or integer line is not a base-10 int64
	KindInvalidInteger ErrorKind = iota + 1
	// KindInvalidText means a simple string or error line is not valid UTF-8
	KindInvalidText
	// KindEndOfStream means the source ran out before a complete value was read
	KindEndOfStream
	// KindIO means the source reported a read error
	KindIO
	// KindUnexpectedToken means the leading byte of a value is not a known type tag
	KindUnexpectedToken
	// KindProtocolViolation means a decoded field has a shape the grammar does not allow
	KindProtocolViolation
)

var (
	ErrInvalidInteger    = errors.New("invalid integer")
	ErrInvalidText       = errors.New("invalid text")
	ErrEndOfStream       = errors.New("end of stream")
	ErrIO                = errors.New("io failure")
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrProtocolViolation = errors.New("protocol violation")
)

var kindErrors = map[ErrorKind]error{
	KindInvalidInteger:    ErrInvalidInteger,
	KindInvalidText:       ErrInvalidText,
	KindEndOfStream:       ErrEndOfStream,
	KindIO:                ErrIO,
	KindUnexpectedToken:   ErrUnexpectedToken,
	KindProtocolViolation: ErrProtocolViolation,
}

func (k ErrorKind) String() string {
	if err, ok := kindErrors[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// DecodeError is returned by Decoder.Read for every failure.
// errors.Is matches it against the sentinel of its Kind and against its cause
type DecodeError struct {
	Kind   ErrorKind
	Token  byte  // offending tag byte, KindUnexpectedToken only
	Offset int64 // bytes consumed from the source when the failure was detected
	Err    error // underlying cause, may be nil
}

func (e *DecodeError) Error() string {
	switch {
	case e.Kind == KindUnexpectedToken:
		return fmt.Sprintf("resp: %s %q at offset %d", e.Kind, e.Token, e.Offset)
	case e.Err != nil:
		return fmt.Sprintf("resp: %s at offset %d: %v", e.Kind, e.Offset, e.Err)
	default:
		return fmt.Sprintf("resp: %s at offset %d", e.Kind, e.Offset)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind
func (e *DecodeError) Is(target error) bool {
	return kindErrors[e.Kind] == target
}
