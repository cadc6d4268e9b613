package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_ProductionWritesJSON(t *testing.T) {
	t.Cleanup(func() { Init("") })
	Init("production")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	var buf bytes.Buffer
	SetOutput(&buf)
	WithFields(Fields{"image": "a.png"}).Warn("failed to delete image")
	Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "a.png", entry["image"])
	assert.Equal(t, "warning", entry["level"])
}

func TestInit_DevelopmentIsVerbose(t *testing.T) {
	t.Cleanup(func() { Init("") })
	Init("development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	_, ok := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}
