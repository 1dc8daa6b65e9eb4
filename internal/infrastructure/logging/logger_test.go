package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	logger, err := New(Config{Level: "info", OutputPaths: []string{out}})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Named("navigation").Info("Navigated", zap.String("url", "https://example.com"))
	logger.Sync()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"message":"Navigated"`)
	assert.Contains(t, string(data), `"logger":"navigation"`)
	assert.Contains(t, string(data), `"url":"https://example.com"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"ERROR", zapcore.ErrorLevel, false},
		{"", zapcore.InfoLevel, false},
		{"chatty", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestConfigFor(t *testing.T) {
	prod := ConfigFor("", false)
	assert.Equal(t, DefaultConfig(), prod)

	dev := ConfigFor("", true)
	assert.Equal(t, DevelopmentConfig(), dev)

	quiet := ConfigFor("warn", true)
	assert.Equal(t, "warn", quiet.Level)
	assert.True(t, quiet.Development)

	logger, err := New(ConfigFor("error", false))
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNop(t *testing.T) {
	nop := NewNop()
	assert.False(t, nop.Core().Enabled(zapcore.ErrorLevel))
}

func TestEncodingFormat(t *testing.T) {
	assert.Equal(t, "console", encodingFormat(true))
	assert.Equal(t, "json", encodingFormat(false))
}
