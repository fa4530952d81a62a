package smi

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// StartRecording starts data acquisition. With stream enabled the device is
// additionally configured to push per-eye x/y sample frames, which Sample
// then decodes.
func (t *Tracker) StartRecording(stream bool) error {
	if err := t.Send(cmdRecord); err != nil {
		return err
	}
	if !stream {
		t.streaming = false
		return nil
	}
	t.streaming = true
	if err := t.Send(cmdFormat + ` "%SX %SY"`); err != nil {
		return err
	}
	if err := t.Send(cmdStartStream); err != nil {
		return err
	}
	log.Info("recording started, streaming enabled")
	return nil
}

// StopRecording stops data acquisition. When streaming, the end-streaming
// command goes out first so the push protocol drains before the generic
// stop. The streaming flag is cleared unconditionally.
func (t *Tracker) StopRecording() error {
	var err error
	if t.streaming {
		err = t.Send(cmdEndStream)
	}
	if err == nil {
		err = t.Send(cmdStop)
	}
	t.streaming = false
	return err
}

// Streaming reports whether sample streaming is currently enabled.
func (t *Tracker) Streaming() bool {
	return t.streaming
}

// SaveData asks the device to save its data file. An empty path derives a
// default from the log file's base name plus a timestamp.
func (t *Tracker) SaveData(path string) error {
	if path == "" {
		base := filepath.Base(t.cfg.LogFile)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		path = base + time.Now().Format("_01_02_2006_15_04") + ".idf"
	}
	log.Infof("saving tracker data to %q", path)
	return t.Send(fmt.Sprintf("%s \"%s\"", cmdSave, path))
}

// Log writes a remark into the device's log file.
func (t *Tracker) Log(msg string) error {
	return t.Send(fmt.Sprintf("%s \"%s\"", cmdRemark, msg))
}
