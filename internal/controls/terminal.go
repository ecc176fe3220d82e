package controls

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// Terminal reads keys from a TTY in cbreak mode. On a non-interactive
// input it does nothing and Actions returns a nil channel.
type Terminal struct {
	file        *os.File
	saved       *unix.Termios
	interactive bool
}

// OpenTerminal switches f into cbreak mode (no line buffering, no echo) when
// it is a terminal. Call Restore to put the original settings back.
func OpenTerminal(f *os.File) (*Terminal, error) {
	t := &Terminal{file: f}
	if f == nil || !isatty.IsTerminal(f.Fd()) {
		return t, nil
	}

	fd := int(f.Fd())
	saved, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("read terminal settings: %w", err)
	}
	cbreak := *saved
	cbreak.Lflag &^= unix.ICANON | unix.ECHO
	// VMIN=0 with a 100ms VTIME lets the reader notice cancellation.
	cbreak.Cc[unix.VMIN] = 0
	cbreak.Cc[unix.VTIME] = 1
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &cbreak); err != nil {
		return nil, fmt.Errorf("enter cbreak mode: %w", err)
	}
	t.saved = saved
	t.interactive = true
	return t, nil
}

// Interactive reports whether keys will be read.
func (t *Terminal) Interactive() bool {
	return t != nil && t.interactive
}

// Actions starts reading keys until ctx ends.
func (t *Terminal) Actions(ctx context.Context) <-chan Action {
	if !t.Interactive() {
		return nil
	}
	return Listen(ctx, t.file, true)
}

// Restore puts the terminal settings back. Safe to call more than once.
func (t *Terminal) Restore() error {
	if t == nil || t.saved == nil {
		return nil
	}
	err := unix.IoctlSetTermios(int(t.file.Fd()), unix.TCSETS, t.saved)
	t.saved = nil
	t.interactive = false
	if err != nil {
		return fmt.Errorf("restore terminal settings: %w", err)
	}
	return nil
}

// Listen decodes key presses from r into actions. Unbound keys are ignored.
// When pollEOF is set an empty read is treated as a timeout rather than the
// end of input, matching a terminal with VMIN=0. The channel closes when ctx
// ends or r fails.
func Listen(ctx context.Context, r io.Reader, pollEOF bool) <-chan Action {
	out := make(chan Action, 8)
	go func() {
		defer close(out)
		buf := make([]byte, 16)
		for {
			if ctx.Err() != nil {
				return
			}
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				action := ForKey(rune(b))
				if action == ActionNone {
					continue
				}
				select {
				case out <- action:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if pollEOF && errors.Is(err, io.EOF) {
					continue
				}
				return
			}
		}
	}()
	return out
}
