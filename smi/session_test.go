package smi

import (
	"strings"
	"testing"
)

func TestStartRecordingWithStream(t *testing.T) {
	tr, conn := newTestTracker("")
	if err := tr.StartRecording(true); err != nil {
		t.Fatalf("start recording: %v", err)
	}
	want := "ET_REC\t\nET_FRM \"%SX %SY\"\t\nET_STR\t\n"
	if got := conn.writes.String(); got != want {
		t.Fatalf("unexpected wire bytes:\ngot  %q\nwant %q", got, want)
	}
	if !tr.Streaming() {
		t.Fatalf("streaming flag not set")
	}
}

func TestStartRecordingWithoutStream(t *testing.T) {
	tr, conn := newTestTracker("")
	if err := tr.StartRecording(false); err != nil {
		t.Fatalf("start recording: %v", err)
	}
	if got := conn.writes.String(); got != "ET_REC\t\n" {
		t.Fatalf("unexpected wire bytes: %q", got)
	}
	if tr.Streaming() {
		t.Fatalf("streaming flag must stay off")
	}
}

func TestStopRecordingEndsStreamFirst(t *testing.T) {
	tr, conn := newTestTracker("")
	tr.streaming = true
	if err := tr.StopRecording(); err != nil {
		t.Fatalf("stop recording: %v", err)
	}
	want := "ET_EST\t\nET_STP\t\n"
	if got := conn.writes.String(); got != want {
		t.Fatalf("unexpected wire bytes:\ngot  %q\nwant %q", got, want)
	}
	if tr.Streaming() {
		t.Fatalf("streaming flag not cleared")
	}
}

func TestStopRecordingIdleSendsStopOnly(t *testing.T) {
	tr, conn := newTestTracker("")
	if err := tr.StopRecording(); err != nil {
		t.Fatalf("stop recording: %v", err)
	}
	if got := conn.writes.String(); got != "ET_STP\t\n" {
		t.Fatalf("unexpected wire bytes: %q", got)
	}
}

func TestSaveDataDerivesDefaultPath(t *testing.T) {
	tr, conn := newTestTracker("")
	if err := tr.SaveData(""); err != nil {
		t.Fatalf("save data: %v", err)
	}
	got := conn.writes.String()
	if !strings.HasPrefix(got, "ET_SAV \"subject01_") {
		t.Fatalf("default path must start with the log file base: %q", got)
	}
	if !strings.HasSuffix(got, ".idf\"\t\n") {
		t.Fatalf("default path must end in .idf: %q", got)
	}
}

func TestSaveDataExplicitPath(t *testing.T) {
	tr, conn := newTestTracker("")
	if err := tr.SaveData("run1.idf"); err != nil {
		t.Fatalf("save data: %v", err)
	}
	if got := conn.writes.String(); got != "ET_SAV \"run1.idf\"\t\n" {
		t.Fatalf("unexpected wire bytes: %q", got)
	}
}

func TestLogSendsQuotedRemark(t *testing.T) {
	tr, conn := newTestTracker("")
	if err := tr.Log("trial 1 start"); err != nil {
		t.Fatalf("log: %v", err)
	}
	if got := conn.writes.String(); got != "ET_REM \"trial 1 start\"\t\n" {
		t.Fatalf("unexpected wire bytes: %q", got)
	}
}
