package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppendsStampedLineAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stage.txt")
	l := NewAt(path)

	l.Log("hello")
	l.Logf("screens=%d", 3)

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "["))
	assert.True(t, strings.HasSuffix(lines[0], "] hello"))
	assert.True(t, strings.HasSuffix(lines[1], "] screens=3"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, lines[0]+"\n"+lines[1]+"\n", string(data))
}

func TestLinesReturnsCopy(t *testing.T) {
	l := NewAt("")
	l.Log("a")
	got := l.Lines()
	got[0] = "changed"
	assert.NotEqual(t, "changed", l.Lines()[0])
}

func TestSlogHandlerFormatsAttrs(t *testing.T) {
	l := NewAt("")
	log := l.Slog().With("pkg", "scene").WithGroup("screen")

	log.Info("added", "name", "Screen 1", "index", 0)

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "INFO added pkg=scene screen.name=Screen 1 screen.index=0")
}

func TestSlogHandlerRespectsLevel(t *testing.T) {
	l := NewAt("")
	log := l.Slog()

	log.Debug("hidden")
	assert.Empty(t, l.Lines())

	l.SetLevel(slog.LevelDebug)
	log.Debug("shown")
	assert.Len(t, l.Lines(), 1)
}

func TestDefaultLoggerIsSilent(t *testing.T) {
	orig := L()
	t.Cleanup(func() { SetDefault(orig) })

	SetDefault(nil)
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		assert.False(t, L().Enabled(context.Background(), level))
	}

	l := NewAt("")
	SetDefault(l.Slog())
	L().Warn("lost source", "name", "cam1")
	require.Len(t, l.Lines(), 1)
	assert.Contains(t, l.Lines()[0], "WARN lost source name=cam1")
}
