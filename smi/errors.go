package smi

import (
	"errors"
	"fmt"
)

var (
	// errReadTimeout marks a single read that yielded no byte. Retried
	// transparently, never surfaced.
	errReadTimeout = errors.New("smi: read timed out")

	// ErrNotStreaming is returned by Sample when streaming was not enabled
	// via StartRecording.
	ErrNotStreaming = errors.New("smi: not streaming, call StartRecording with stream enabled before Sample")

	// ErrCalibrationOrder means the device announced a point change for a
	// point it never defined.
	ErrCalibrationOrder = errors.New("smi: something went wrong during the calibration, please try again")

	// ErrCalibrationCancelled means the operator aborted the calibration.
	// The session itself stays usable.
	ErrCalibrationCancelled = errors.New("smi: calibration cancelled by operator")
)

// ChannelClosedError means the channel failed mid-frame. It carries whatever
// partial content was buffered, for diagnostics.
type ChannelClosedError struct {
	Partial string
	Err     error
}

func (e *ChannelClosedError) Error() string {
	return fmt.Sprintf("smi: channel closed mid-frame (the tracker said %q): %v", e.Partial, e.Err)
}

func (e *ChannelClosedError) Unwrap() error { return e.Err }
