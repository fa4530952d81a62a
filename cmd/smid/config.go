package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/smathot/libsmi/smi"
)

type daemonConfig struct {
	Tracker    smi.Config
	Listen     string
	MQTTBroker string
	MQTTTopic  string
}

func defaultDaemonConfig() daemonConfig {
	return daemonConfig{
		Tracker: smi.Config{
			Port:   "/dev/ttyUSB0",
			Baud:   115200,
			Width:  1280,
			Height: 1024,
			Sound:  true,
		},
		Listen:    "127.0.0.1:8448",
		MQTTTopic: "smi/gaze",
	}
}

type fileConfig struct {
	Port       string `toml:"port"`
	Baud       int    `toml:"baud"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	LogFile    string `toml:"log_file"`
	Sound      bool   `toml:"sound"`
	SettleMS   int64  `toml:"settle_ms"`
	Listen     string `toml:"listen"`
	MQTTBroker string `toml:"mqtt_broker"`
	MQTTTopic  string `toml:"mqtt_topic"`
}

func loadDaemonConfig(path string) (daemonConfig, error) {
	cfg := defaultDaemonConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return daemonConfig{}, fmt.Errorf("load smid config: %w", err)
	}

	if meta.IsDefined("port") {
		if p := strings.TrimSpace(raw.Port); p != "" {
			cfg.Tracker.Port = p
		}
	}
	if meta.IsDefined("baud") {
		cfg.Tracker.Baud = raw.Baud
	}
	if meta.IsDefined("width") {
		cfg.Tracker.Width = raw.Width
	}
	if meta.IsDefined("height") {
		cfg.Tracker.Height = raw.Height
	}
	if meta.IsDefined("log_file") {
		cfg.Tracker.LogFile = strings.TrimSpace(raw.LogFile)
	}
	if meta.IsDefined("sound") {
		cfg.Tracker.Sound = raw.Sound
	}
	if meta.IsDefined("settle_ms") {
		cfg.Tracker.Settle = time.Duration(raw.SettleMS) * time.Millisecond
	}
	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("mqtt_broker") {
		cfg.MQTTBroker = strings.TrimSpace(raw.MQTTBroker)
	}
	if meta.IsDefined("mqtt_topic") {
		cfg.MQTTTopic = strings.TrimSpace(raw.MQTTTopic)
	}

	return cfg, nil
}
