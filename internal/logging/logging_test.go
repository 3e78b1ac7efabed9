package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
)

func TestConfigureLevelAndFormat(t *testing.T) {
	logger := logrus.New()

	Configure(logger, config.LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	Configure(logger, config.LogConfig{Level: "nonsense", Format: "text"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestConfigureWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	logger := logrus.New()

	Configure(logger, config.LogConfig{Level: "info", File: path, MaxSizeMB: 1})
	logger.WithField("message_id", "m1").Info("delivery acknowledged")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message_id":"m1"`)
}
