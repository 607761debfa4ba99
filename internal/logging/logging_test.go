// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

func TestConfigure(t *testing.T) {
	tests := []struct {
		name      string
		cfg       types.LoggingConfig
		wantLevel logrus.Level
		wantWarn  bool
	}{
		{"defaults", types.LoggingConfig{}, logrus.InfoLevel, false},
		{"debug", types.LoggingConfig{Level: "debug"}, logrus.DebugLevel, false},
		{"upper case", types.LoggingConfig{Level: "WARN"}, logrus.WarnLevel, false},
		{"invalid falls back", types.LoggingConfig{Level: "loud"}, logrus.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Configure(logrus.New(), tt.cfg, &buf)
			assert.Equal(t, tt.wantLevel, logger.GetLevel())
			assert.Equal(t, tt.wantWarn, bytes.Contains(buf.Bytes(), []byte("Invalid log level")))
		})
	}
}

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Configure(logrus.New(), types.LoggingConfig{Format: "json"}, &buf)
	logger.WithField("run_id", 7).Info("recorded run")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "recorded run", entry["msg"])
	assert.Equal(t, float64(7), entry["run_id"])
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot-trainer.log")
	logger, closer, err := New(types.LoggingConfig{Output: path})
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewBadFile(t *testing.T) {
	_, _, err := New(types.LoggingConfig{Output: filepath.Join(t.TempDir(), "missing", "x.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening log file")
}
