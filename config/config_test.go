package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proto "github.com/ystepanoff/panicbutton/protocol"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	self, peer, err := cfg.Addresses()
	require.NoError(t, err)
	assert.Equal(t, proto.DefaultSenderMAC, self)
	assert.Equal(t, proto.DefaultReceiverMAC, peer)
	assert.Equal(t, proto.PollInterval, cfg.PollInterval())
	assert.Equal(t, proto.DebounceInterval, cfg.DebounceInterval())

	require.Len(t, cfg.Buttons, 1)
	assert.True(t, cfg.Buttons[0].Toggle)
	assert.Equal(t, "GPIO14", cfg.Buttons[0].Pin)
}

func TestLoadKeypad(t *testing.T) {
	cfg, err := Load("testdata/keypad.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyAMA0", cfg.Serial.Port)
	assert.Equal(t, uint8(1), cfg.Radio.Channel)
	require.Len(t, cfg.Buttons, 3)
	assert.Equal(t, "ARM", cfg.Buttons[0].Command)
	assert.Equal(t, "DISARM", cfg.Buttons[1].Command)
	assert.Equal(t, "PANIC", cfg.Buttons[2].Command)

	// untouched sections keep their defaults
	assert.Equal(t, 1000*time.Millisecond, cfg.DebounceInterval())
	assert.Equal(t, 3, cfg.Log.MaxBackups)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("non-existent-file.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "radio:\n  peerMac: \"02:00:00:AA:BB:02\"\n  encrypt: true\n"))
	assert.Error(t, err)
}

func TestEmptySenderKeepsFactoryAddress(t *testing.T) {
	cfg, err := Load(writeConfig(t, "radio:\n  senderMac: \"\"\n  peerMac: \"02:00:00:AA:BB:02\"\n"))
	require.NoError(t, err)

	self, _, err := cfg.Addresses()
	require.NoError(t, err)
	assert.True(t, self.IsZero())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no port", func(c *Config) { c.Serial.Port = "" }},
		{"bad baud", func(c *Config) { c.Serial.Baud = 0 }},
		{"bad peer", func(c *Config) { c.Radio.PeerMAC = "02:00:00:AA:BB" }},
		{"bad sender", func(c *Config) { c.Radio.SenderMAC = "zz:00:00:AA:BB:01" }},
		{"bad channel", func(c *Config) { c.Radio.Channel = 15 }},
		{"bad poll", func(c *Config) { c.Timing.PollMs = 0 }},
		{"bad debounce", func(c *Config) { c.Timing.DebounceMs = -1 }},
		{"no buttons", func(c *Config) { c.Buttons = nil }},
		{"no pin", func(c *Config) { c.Buttons[0].Pin = "" }},
		{"toggle with command", func(c *Config) { c.Buttons[0].Command = "ARM" }},
		{"two toggles", func(c *Config) {
			c.Buttons = append(c.Buttons, ButtonConfig{Name: "panic2", Pin: "GPIO15", Toggle: true})
		}},
		{"unknown command", func(c *Config) { c.Buttons = []ButtonConfig{{Name: "x", Pin: "GPIO1", Command: "RESET"}} }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
