package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv(LevelEnv, "debug")
	var buf bytes.Buffer
	l := NewZerologLogger("test", &buf)
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
	assert.Contains(t, buf.String(), "info test")
}

func TestNewReturnsLogger(t *testing.T) {
	assert.NotNil(t, New("main"))
}

func TestZerologLoggerJSONComponent(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv(LevelEnv, "")
	var buf bytes.Buffer
	l := NewZerologLogger("config", &buf)
	l.Infof("loaded %s", "config.yaml")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "config", line["component"])
	assert.Equal(t, "loaded config.yaml", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestZerologLoggerLevelFiltering(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv(LevelEnv, "WARN")
	var buf bytes.Buffer
	l := NewZerologLogger("config", &buf)
	l.Debugf("hidden")
	l.Infof("hidden")
	l.Warnf("shown")
	out := strings.TrimSpace(buf.String())
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestZerologLoggerBadLevelDefaultsToInfo(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv(LevelEnv, "loud")
	var buf bytes.Buffer
	l := NewZerologLogger("config", &buf)
	l.Debugf("hidden")
	l.Infof("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
