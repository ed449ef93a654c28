package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/eternalApril/respdump/internal/config"
	"github.com/eternalApril/respdump/internal/logger"
	"github.com/eternalApril/respdump/internal/persistence"
	"github.com/eternalApril/respdump/internal/resp"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// errLimitReached stops the scan once dump.limit values were printed
var errLimitReached = errors.New("limit reached")

// dump decodes every value in r and writes it to w in the configured format.
// It returns the number of values handled
func dump(ctx context.Context, r io.Reader, w io.Writer, cfg config.DumpConfig, log *zap.Logger) (int, error) {
	out := bufio.NewWriter(w)
	count := 0

	err := persistence.Scan(r, func(offset int64, v resp.Value) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch cfg.Format {
		case "log":
			log.Info("value",
				zap.Int64("offset", offset),
				zap.String("type", string(v.Type)),
				zap.String("value", resp.Inspect(v)),
			)
		default:
			if _, err := out.WriteString(resp.Inspect(v) + "\n"); err != nil {
				return err
			}
		}

		count++
		if cfg.Limit > 0 && count >= cfg.Limit {
			return errLimitReached
		}
		return nil
	})

	if errors.Is(err, errLimitReached) {
		err = nil
	}

	return count, multierr.Append(err, out.Flush())
}

// openInput returns the configured source, "-" means stdin.
// stdin is closed with the rest when it can be, so a cancelled run does not stay blocked on it
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		if rc, ok := stdin.(io.ReadCloser); ok {
			return rc, nil
		}
		return io.NopCloser(stdin), nil
	}
	return os.Open(path)
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, stdin io.Reader, stdout io.Writer) (err error) {
	src, err := openInput(cfg.Input.Path, stdin)
	if err != nil {
		return err
	}

	// closing the source is the only way to interrupt a blocked read
	closeOnCancel := context.AfterFunc(ctx, func() {
		src.Close() //nolint:errcheck
	})
	defer func() {
		if closeOnCancel() {
			err = multierr.Append(err, src.Close())
		}
	}()

	log.Debug("decoding",
		zap.String("input", cfg.Input.Path),
		zap.Int("buffer_size", cfg.Input.BufferSize),
		zap.String("format", cfg.Dump.Format),
	)

	count, err := dump(ctx, bufio.NewReaderSize(src, cfg.Input.BufferSize), stdout, cfg.Dump, log)
	if err != nil && ctx.Err() != nil {
		log.Info("interrupted", zap.Int("values", count))
		return ctx.Err()
	}

	var truncErr *persistence.TruncatedError
	if errors.As(err, &truncErr) {
		log.Warn("input ends inside a value",
			zap.Int64("last_complete_offset", truncErr.Offset),
			zap.Int("values", count),
		)
		return err
	}
	if err != nil {
		return err
	}

	log.Debug("done", zap.Int("values", count))
	return nil
}

// loadConfig parses args and loads the configuration they point at
func loadConfig(args []string) (*config.Config, error) {
	flags := config.Flags()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	configDir, _ := flags.GetString("config")
	return config.Load(configDir, flags)
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "respdump:", err)
		os.Exit(2)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	// after the first signal the default handling comes back, a second one kills the process
	context.AfterFunc(ctx, stop)

	err = run(ctx, cfg, log, os.Stdin, os.Stdout)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("decode failed", zap.Error(err))
	}
	log.Sync() //nolint:errcheck

	if err != nil {
		os.Exit(1)
	}
}
