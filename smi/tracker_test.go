package smi

import (
	"bytes"
	"io"
)

// scriptConn is an in-memory stand-in for the serial port. Reads hand out
// the scripted input one byte at a time, then fail hard, so a test that
// reads past its script surfaces a ChannelClosedError instead of hanging.
type scriptConn struct {
	input   []byte
	pos     int
	writes  bytes.Buffer
	reads   int
	flushes int
	closed  bool
}

func (c *scriptConn) Read(p []byte) (int, error) {
	c.reads++
	if c.pos >= len(c.input) {
		return 0, io.ErrClosedPipe
	}
	p[0] = c.input[c.pos]
	c.pos++
	return 1, nil
}

func (c *scriptConn) Write(p []byte) (int, error) {
	return c.writes.Write(p)
}

func (c *scriptConn) Close() error {
	c.closed = true
	return nil
}

func (c *scriptConn) Flush() error {
	c.flushes++
	return nil
}

// timeoutConn injects a timed-out read before every real byte, the way a
// half-idle serial port behaves.
type timeoutConn struct {
	scriptConn
	n int
}

func (c *timeoutConn) Read(p []byte) (int, error) {
	c.n++
	if c.n%2 == 1 {
		return 0, io.EOF
	}
	return c.scriptConn.Read(p)
}

func newTestTracker(input string) (*Tracker, *scriptConn) {
	conn := &scriptConn{input: []byte(input)}
	t := &Tracker{conn: conn, cfg: Config{Width: 1280, Height: 1024, Sound: true, LogFile: "subject01.csv"}}
	return t, conn
}
