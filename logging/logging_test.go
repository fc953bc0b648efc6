package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ystepanoff/panicbutton/config"
)

func TestNewStdout(t *testing.T) {
	log, err := New(config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.Level)
	assert.Equal(t, os.Stdout, log.Out)
}

func TestNewRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sender.log")
	log, err := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 2})
	require.NoError(t, err)

	lj, ok := log.Out.(*lumberjack.Logger)
	require.True(t, ok)
	defer lj.Close()

	log.Printf("[Poller] Sent %s\r\n", "PANIC")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Sent PANIC")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
