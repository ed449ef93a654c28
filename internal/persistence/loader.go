package persistence

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/eternalApril/respdump/internal/resp"
	"go.uber.org/multierr"
)

// TruncatedError reports a stream that ends in the middle of a value.
// Offset is where the last complete value ended, the file can be cut there to recover
type TruncatedError struct {
	Offset int64
	Err    error
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated value at offset %d: %v", e.Offset, e.Err)
}

func (e *TruncatedError) Unwrap() error {
	return e.Err
}

// Scan decodes values from r until it is exhausted and passes each one to fn
// together with the offset at which it started.
// A clean end between two values returns nil. An error returned by fn stops the scan and is returned as is
func Scan(r io.Reader, fn func(offset int64, v resp.Value) error) error {
	dec := resp.NewDecoder(r)

	for {
		start := dec.Offset()

		val, err := dec.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, resp.ErrEndOfStream) {
				return &TruncatedError{Offset: start, Err: err}
			}
			return err
		}

		if err := fn(start, val); err != nil {
			return err
		}
	}
}

// Load reads the file and returns all commands stored in it
func Load(filename string) (commands []resp.Value, err error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Fresh start
		}
		return nil, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(file))

	err = Scan(file, func(_ int64, v resp.Value) error {
		commands = append(commands, v)
		return nil
	})
	if err != nil {
		return commands, fmt.Errorf("load %s: %w", filename, err)
	}

	return commands, nil
}
