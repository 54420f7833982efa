package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitDisabledDiscards(t *testing.T) {
	require.NoError(t, Init(Options{Enabled: false}))
	require.False(t, Enabled(slog.LevelError))
}

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &buf, Level: slog.LevelDebug}))
	t.Cleanup(func() { _ = Init(Options{}) })

	Debug("pool grown", "bytes", 640)
	require.Contains(t, buf.String(), "pool grown")
	require.Contains(t, buf.String(), "bytes=640")
	require.True(t, Enabled(slog.LevelDebug))
}

func TestInitLogDirWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Options{Enabled: true, LogDir: dir}))
	t.Cleanup(func() { _ = Init(Options{}) })

	Info("hello")
	name := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	_, err := os.Stat(name)
	require.NoError(t, err)
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	old := filepath.Join(dir, logPrefix+"2024-01-01"+logSuffix)
	fresh := filepath.Join(dir, logPrefix+"2024-02-25"+logSuffix)
	other := filepath.Join(dir, "unrelated.log")
	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	cleanOldLogs(dir, now)

	_, err := os.Stat(old)
	require.True(t, os.IsNotExist(err), "old log should be removed")
	_, err = os.Stat(fresh)
	require.NoError(t, err)
	_, err = os.Stat(other)
	require.NoError(t, err)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	require.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
