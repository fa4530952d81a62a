package smi

import (
	"strconv"
	"strings"
)

// Sample blocks until the next gaze position arrives and returns it. With
// binocular data the first eye's coordinates are returned and the second
// eye's are discarded.
//
// Streaming must have been enabled via StartRecording first. Malformed or
// partial sample frames are skipped silently; the call waits for the next
// valid one. With clear set, buffered input is flushed first so a stale
// sample is not returned, at the cost of possibly missing the in-flight
// frame.
func (t *Tracker) Sample(clear bool) (int, int, error) {
	if !t.streaming {
		return 0, 0, ErrNotStreaming
	}
	if clear {
		t.flushInput()
	}

	for {
		line, err := t.receive()
		if err != nil {
			return 0, 0, err
		}
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != evSample {
			continue
		}

		x, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		ys := fields[2]
		if len(fields) == 5 {
			// Binocular: x1 x2 y1 y2, keep the first eye.
			ys = fields[3]
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			continue
		}
		return x, y, nil
	}
}
