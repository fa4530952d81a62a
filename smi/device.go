// Package smi drives an SMI RED eye tracker speaking the iViewX ASCII
// protocol over a serial line. Commands go out as tab+linefeed terminated
// text, events and gaze samples come back the same way.
package smi

import (
	"errors"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

// Config holds the session parameters for a Tracker.
type Config struct {
	// Port is the serial device the tracker is attached to, e.g. "COM1"
	// or "/dev/ttyUSB0".
	Port string
	// Baud defaults to 115200.
	Baud int

	// Width and Height are the experiment display size in pixels, sent to
	// the device during calibration setup.
	Width  int
	Height int

	// LogFile is the host-side log file name; SaveData derives the default
	// device data file name from its base name.
	LogFile string

	// Sound enables the audio cues during calibration.
	Sound bool

	// Settle is the pause after each command write, so the device input
	// buffer is not overrun. Defaults to 10ms.
	Settle time.Duration
	// ReadTimeout is the per-read timeout on the serial port. Defaults to
	// 500ms.
	ReadTimeout time.Duration
}

// Tracker is a single session with the eye tracker. It exclusively owns the
// underlying connection until Close. All operations are sequential; the
// Tracker itself does no locking.
type Tracker struct {
	conn io.ReadWriteCloser
	cfg  Config

	streaming bool

	// Display receives visual feedback during calibration. Optional.
	Display Display
	// Cancel is polled without blocking once per calibration iteration so
	// the operator can abort. Optional.
	Cancel CancelPoller
	// Cues plays audio feedback during calibration. Optional, and gated by
	// Config.Sound.
	Cues AudioCues
}

// Connect opens the serial port and returns a Tracker. Recording is stopped
// once right away so the session starts from a known idle state regardless
// of what the device was left doing.
func Connect(cfg Config) (*Tracker, error) {
	if cfg.Baud == 0 {
		cfg.Baud = 115200
	}
	if cfg.Settle == 0 {
		cfg.Settle = 10 * time.Millisecond
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 500 * time.Millisecond
	}

	p, err := serial.OpenPort(&serial.Config{Name: cfg.Port, Baud: cfg.Baud, ReadTimeout: cfg.ReadTimeout})
	if err != nil {
		return nil, err
	}
	log.Infof("connected to tracker on %s at %d baud", cfg.Port, cfg.Baud)

	t := &Tracker{conn: p, cfg: cfg}
	if err := t.StopRecording(); err != nil {
		p.Close()
		return nil, err
	}
	return t, nil
}

// Close releases the serial port. Must be called exactly once by the owner
// at end of session.
func (t *Tracker) Close() error {
	return t.conn.Close()
}

// writeLine frames msg with the tab+linefeed terminator and writes it.
func (t *Tracker) writeLine(msg string) error {
	b := []byte(msg + "\t\n")
	n, err := t.conn.Write(b)
	log.Debugf("write %q, n=%v, err=%v", msg, n, err)
	return err
}

// readByte returns one byte from the port. An expired read timeout is
// reported by tarm/serial as a zero-byte read (io.EOF on some platforms);
// both map to errReadTimeout and the caller keeps polling. Any other error
// means the channel is gone.
func (t *Tracker) readByte() (byte, error) {
	var buf [1]byte
	n, err := t.conn.Read(buf[:])
	if n == 1 {
		return buf[0], nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return 0, errReadTimeout
	}
	return 0, err
}

type flusher interface {
	Flush() error
}

// flushInput discards buffered unread input, trading the in-flight frame
// for freshness.
func (t *Tracker) flushInput() {
	f, ok := t.conn.(flusher)
	if !ok {
		return
	}
	if err := f.Flush(); err != nil {
		log.Warnf("flush: %v", err)
	}
}
