package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDaemonConfigOverrides(t *testing.T) {
	cfg, err := loadDaemonConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Tracker.Port != "/dev/ttyUSB1" {
		t.Fatalf("unexpected port: %q", cfg.Tracker.Port)
	}
	if cfg.Tracker.Baud != 115200 {
		t.Fatalf("unexpected baud: %d", cfg.Tracker.Baud)
	}
	if cfg.Tracker.Width != 1920 || cfg.Tracker.Height != 1080 {
		t.Fatalf("unexpected display size: %dx%d", cfg.Tracker.Width, cfg.Tracker.Height)
	}
	if cfg.Tracker.LogFile != "subject01.csv" {
		t.Fatalf("unexpected log file: %q", cfg.Tracker.LogFile)
	}
	if cfg.Tracker.Sound {
		t.Fatalf("expected sound disabled")
	}
	if cfg.Tracker.Settle != 10*time.Millisecond {
		t.Fatalf("unexpected settle: %v", cfg.Tracker.Settle)
	}
	if cfg.Listen != "127.0.0.1:8448" {
		t.Fatalf("unexpected listen address: %q", cfg.Listen)
	}
	if cfg.MQTTBroker != "tcp://localhost:1883" || cfg.MQTTTopic != "smi/gaze" {
		t.Fatalf("unexpected mqtt settings: %q %q", cfg.MQTTBroker, cfg.MQTTTopic)
	}
}

func TestLoadDaemonConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.toml")
	if err := os.WriteFile(path, []byte("port = \"COM3\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadDaemonConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	def := defaultDaemonConfig()
	if cfg.Tracker.Port != "COM3" {
		t.Fatalf("unexpected port: %q", cfg.Tracker.Port)
	}
	if cfg.Tracker.Baud != def.Tracker.Baud {
		t.Fatalf("baud default lost: %d", cfg.Tracker.Baud)
	}
	if cfg.Tracker.Width != def.Tracker.Width || cfg.Tracker.Height != def.Tracker.Height {
		t.Fatalf("display size defaults lost: %dx%d", cfg.Tracker.Width, cfg.Tracker.Height)
	}
	if !cfg.Tracker.Sound {
		t.Fatalf("sound default lost")
	}
	if cfg.Listen != def.Listen {
		t.Fatalf("listen default lost: %q", cfg.Listen)
	}
	if cfg.MQTTBroker != "" {
		t.Fatalf("mqtt must stay disabled by default: %q", cfg.MQTTBroker)
	}
	if cfg.MQTTTopic != def.MQTTTopic {
		t.Fatalf("mqtt topic default lost: %q", cfg.MQTTTopic)
	}
}

func TestLoadDaemonConfigMissingFile(t *testing.T) {
	if _, err := loadDaemonConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
