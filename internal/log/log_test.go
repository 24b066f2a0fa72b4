package log

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToInfo(t *testing.T) {
	logger, closer, err := New(Config{Output: &bytes.Buffer{}})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: "debug", JSON: true, Output: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.WithField("component", ComponentWeb).Debug("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, ComponentWeb, line["component"])
	assert.Equal(t, "debug", line["level"])
}

func TestNew_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ytweb.log")

	logger, closer, err := New(Config{File: path, Output: &bytes.Buffer{}})
	require.NoError(t, err)
	logger.Info("written to file")
	require.NoError(t, closer.Close())

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{JSON: true, Output: &buf})
	require.NoError(t, err)

	previous := Default()
	SetDefault(logger)
	defer SetDefault(previous)

	WithComponent(ComponentEngine).Info("engine ready")
	assert.Contains(t, buf.String(), `"component":"engine"`)
}
