// Package config loads the host runner settings. Firmware builds use the
// compile-time defaults in package protocol instead.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	proto "github.com/ystepanoff/panicbutton/protocol"
)

// Config represents the complete configuration of the host sender
type Config struct {
	Serial  SerialConfig   `yaml:"serial"`
	Radio   RadioConfig    `yaml:"radio"`
	Timing  TimingConfig   `yaml:"timing"`
	Buttons []ButtonConfig `yaml:"buttons"`
	Log     LogConfig      `yaml:"log"`
}

// SerialConfig holds the UART link to the radio bridge
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// RadioConfig holds ESP-NOW addressing. An empty senderMac keeps the
// bridge's factory address.
type RadioConfig struct {
	SenderMAC string `yaml:"senderMac"`
	PeerMAC   string `yaml:"peerMac"`
	Channel   uint8  `yaml:"channel"`
}

// TimingConfig holds the poll loop timings
type TimingConfig struct {
	PollMs     int `yaml:"pollMs"`
	DebounceMs int `yaml:"debounceMs"`
}

// ButtonConfig binds a GPIO to a command. Toggle buttons alternate
// PANIC/DISARM and must not name a command.
type ButtonConfig struct {
	Name    string `yaml:"name"`
	Pin     string `yaml:"pin"`
	Command string `yaml:"command"`
	Toggle  bool   `yaml:"toggle"`
}

// LogConfig holds logging output settings. An empty file logs to stdout.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
}

// Default returns the settings of the reference single-button sender.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyUSB0",
			Baud: proto.DefaultBaudRate,
		},
		Radio: RadioConfig{
			SenderMAC: proto.DefaultSenderMAC.String(),
			PeerMAC:   proto.DefaultReceiverMAC.String(),
			Channel:   proto.DefaultChannel,
		},
		Timing: TimingConfig{
			PollMs:     int(proto.PollInterval / time.Millisecond),
			DebounceMs: int(proto.DebounceInterval / time.Millisecond),
		},
		Buttons: []ButtonConfig{
			{Name: "panic", Pin: "GPIO14", Toggle: true},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads path over the defaults and validates the result. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks every field; the first problem found is returned.
func (c *Config) Validate() error {
	if c.Serial.Port == "" {
		return errors.New("serial.port is required")
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud)
	}

	if _, _, err := c.Addresses(); err != nil {
		return err
	}
	if c.Radio.Channel > proto.MaxChannel {
		return fmt.Errorf("radio.channel %d: %w", c.Radio.Channel, proto.ErrInvalidChannel)
	}

	if c.Timing.PollMs <= 0 {
		return fmt.Errorf("timing.pollMs must be positive, got %d", c.Timing.PollMs)
	}
	if c.Timing.DebounceMs <= 0 {
		return fmt.Errorf("timing.debounceMs must be positive, got %d", c.Timing.DebounceMs)
	}

	if len(c.Buttons) == 0 {
		return errors.New("at least one button is required")
	}
	toggles := 0
	for i, b := range c.Buttons {
		if b.Name == "" || b.Pin == "" {
			return fmt.Errorf("buttons[%d]: name and pin are required", i)
		}
		if b.Toggle {
			if b.Command != "" {
				return fmt.Errorf("button %q: toggle buttons take no command", b.Name)
			}
			if toggles++; toggles > 1 {
				return fmt.Errorf("button %q: only one toggle button is allowed", b.Name)
			}
			continue
		}
		if _, err := proto.ParseCommand(b.Command); err != nil {
			return fmt.Errorf("button %q: %w %q", b.Name, err, b.Command)
		}
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// Addresses parses the sender and peer MACs. The sender is zero when unset.
func (c *Config) Addresses() (self, peer proto.MAC, err error) {
	if c.Radio.SenderMAC != "" {
		if self, err = proto.ParseMAC(c.Radio.SenderMAC); err != nil {
			return self, peer, fmt.Errorf("radio.senderMac %q: %w", c.Radio.SenderMAC, err)
		}
	}
	if peer, err = proto.ParseMAC(c.Radio.PeerMAC); err != nil {
		return self, peer, fmt.Errorf("radio.peerMac %q: %w", c.Radio.PeerMAC, err)
	}
	return self, peer, nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Timing.PollMs) * time.Millisecond
}

func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Timing.DebounceMs) * time.Millisecond
}
