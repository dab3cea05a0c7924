package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies the string-to-level mapping, including the
// trimming and lower-casing of the input and the fallback for unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"info":   zapcore.InfoLevel,
		"warn":   zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		"dpanic": zapcore.DPanicLevel,
		"panic":  zapcore.PanicLevel,
		"fatal":  zapcore.FatalLevel,
		// Config values arrive in whatever shape the user typed them.
		"  WARN ": zapcore.WarnLevel,
		"Error":   zapcore.ErrorLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, "level %q", s)
		require.Equal(t, lvl, got)
	}

	// Unknown input reports failure and suggests the default.
	got, ok := ParseLogLevel("psychic")
	require.False(t, ok)
	require.Equal(t, zapcore.InfoLevel, got)
}

// TestNewAcceptsNilLevel covers the construction fallback.
func TestNewAcceptsNilLevel(t *testing.T) {
	t.Parallel()

	l := New(nil)
	require.NotNil(t, l)
}
