package logger_test

import (
	"bytes"
	"testing"

	"github.com/stegoscope/mp3scope/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, logger.DebugLevel, logger.ParseLevel("DEBUG"))
	require.Equal(t, logger.WarnLevel, logger.ParseLevel("WARN"))
	require.Equal(t, logger.InfoLevel, logger.ParseLevel("unknown"))
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "ERROR", logger.ErrorLevel.String())
}

func TestLogger_FiltersBelowMinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, logger.WarnLevel)

	l.Debug("should not appear")
	l.Info("should not appear either")
	require.Empty(t, buf.String())

	l.Warn("visible warning")
	require.Contains(t, buf.String(), "visible warning")
}

func TestLogger_Formatf(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, logger.DebugLevel)

	l.Infof("count=%d", 3)
	require.Contains(t, buf.String(), "count=3")
}
