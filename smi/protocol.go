package smi

import (
	"errors"
	"strings"
	"time"
)

// Send writes a command to the tracker, framed with the tab+linefeed
// terminator, and pauses for the configured settle delay. Fire-and-forget;
// no acknowledgement is expected.
func (t *Tracker) Send(msg string) error {
	return t.sendSettle(msg, t.cfg.Settle)
}

func (t *Tracker) sendSettle(msg string, settle time.Duration) error {
	if err := t.writeLine(msg); err != nil {
		return err
	}
	time.Sleep(settle)
	return nil
}

// receive blocks until one full frame arrives and returns its content with
// the trailing tab stripped (the device pads the last character with a tab
// before its linefeed).
//
// A linefeed ends the current line, but lines with fewer than two
// accumulated characters are discarded and accumulation restarts: the
// device occasionally emits bare linefeeds as keep-alives, and the length
// filter absorbs them. Read timeouts are retried indefinitely; only a hard
// transport error ends the wait.
func (t *Tracker) receive() (string, error) {
	var buf strings.Builder
	for {
		c, err := t.readByte()
		if err != nil {
			if errors.Is(err, errReadTimeout) {
				continue
			}
			return "", &ChannelClosedError{Partial: buf.String(), Err: err}
		}
		if c == '\n' {
			if buf.Len() > 1 {
				break
			}
			buf.Reset()
			continue
		}
		buf.WriteByte(c)
	}
	s := buf.String()
	return s[:len(s)-1], nil
}
