package smi

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Display renders visual feedback while the device steps through the
// calibration targets.
type Display interface {
	Clear()
	DrawFixation(x, y int)
	Present()
}

// CancelPoller reports an operator abort request. Cancelled must not block;
// it is checked once per calibration iteration, before the next frame is
// awaited.
type CancelPoller interface {
	Cancelled() bool
}

// AudioCues plays feedback sounds during calibration.
type AudioCues interface {
	CalibrationPointChanged()
	CalibrationSuccess()
}

// Point is a calibration target in screen coordinates.
type Point struct {
	X, Y int
}

// Calibrate runs the device-driven calibration procedure with the given
// number of points (9 if zero or negative). It configures the device, then
// consumes point-definition and point-change events until the device
// reports completion, invoking Display and Cues along the way.
//
// The device reports points with 1-based numbers in no guaranteed order;
// they are stored keyed by 0-based index, and a point change referencing an
// index that was never defined fails the whole calibration with
// ErrCalibrationOrder. Recording is left stopped on success.
func (t *Tracker) Calibrate(points int) error {
	if points <= 0 {
		points = 9
	}
	log.Infof("starting %d-point calibration at %dx%d", points, t.cfg.Width, t.cfg.Height)

	setup := []string{
		fmt.Sprintf("%s %d 1", cmdCalParam, paramWaitValid),
		fmt.Sprintf("%s %d 1", cmdCalParam, paramRandomize),
		fmt.Sprintf("%s %d 1", cmdCalParam, paramAutoAccept),
		fmt.Sprintf("%s %d", cmdCalLevel, calLevelMedium),
		fmt.Sprintf("%s %d %d", cmdScreenSize, t.cfg.Width, t.cfg.Height),
		cmdDefaultPoints,
		fmt.Sprintf("%s %d", cmdCalibrate, points),
	}
	for _, c := range setup {
		if err := t.Send(c); err != nil {
			return err
		}
	}

	pts := make(map[int]Point)
loop:
	for {
		// Check-then-block: once receive is entered the operator cannot
		// interrupt it, only prevent the next iteration.
		if t.Cancel != nil && t.Cancel.Cancelled() {
			return ErrCalibrationCancelled
		}

		line, err := t.receive()
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case evPoint:
			nr, pt, err := parsePointDefinition(fields)
			if err != nil {
				return err
			}
			pts[nr-1] = pt
			log.Debugf("calibration point %d at %d,%d", nr, pt.X, pt.Y)
		case evChange:
			if len(fields) < 2 {
				return fmt.Errorf("smi: bad point change %q", line)
			}
			nr, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("smi: bad point change %q: %w", line, err)
			}
			pt, ok := pts[nr-1]
			if !ok {
				return ErrCalibrationOrder
			}
			if t.Display != nil {
				t.Display.Clear()
				t.Display.DrawFixation(pt.X, pt.Y)
				t.Display.Present()
			}
			if t.cfg.Sound && t.Cues != nil {
				t.Cues.CalibrationPointChanged()
			}
		case evFinished:
			break loop
		default:
			// Unrecognized device event, ignore.
		}
	}

	// Calibration always leaves the device in a known non-recording state.
	if err := t.StopRecording(); err != nil {
		return err
	}
	if t.cfg.Sound && t.Cues != nil {
		t.Cues.CalibrationSuccess()
	}
	log.Info("calibration finished")
	return nil
}

func parsePointDefinition(fields []string) (int, Point, error) {
	if len(fields) < 4 {
		return 0, Point{}, fmt.Errorf("smi: bad point definition %q", strings.Join(fields, " "))
	}
	nr, err := strconv.Atoi(fields[1])
	if err == nil && nr < 1 {
		err = fmt.Errorf("point number %d out of range", nr)
	}
	x, errX := strconv.Atoi(fields[2])
	y, errY := strconv.Atoi(fields[3])
	if err == nil {
		err = errX
	}
	if err == nil {
		err = errY
	}
	if err != nil {
		return 0, Point{}, fmt.Errorf("smi: bad point definition %q: %w", strings.Join(fields, " "), err)
	}
	return nr, Point{X: x, Y: y}, nil
}
