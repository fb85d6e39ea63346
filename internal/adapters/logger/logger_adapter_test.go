package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"listing-web/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestSlogAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelInfo})

	scoped := logger.WithFields(port.Fields{"use_case": "LoadListing"})
	scoped.Debug("hidden", nil)
	scoped.Info("Use case started", port.Fields{"listing_id": "abc"})
	scoped.Error("Document store read failed", errors.New("boom"), nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "Use case started", lines[0]["msg"])
	assert.Equal(t, "LoadListing", lines[0]["use_case"])
	assert.Equal(t, "abc", lines[0]["listing_id"])

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["err"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

type fakeFluent struct {
	tags   []string
	posts  []port.Fields
	closed bool
}

func (f *fakeFluent) Post(tag string, message interface{}) error {
	f.tags = append(f.tags, tag)
	f.posts = append(f.posts, message.(port.Fields))
	return nil
}

func (f *fakeFluent) Close() error {
	f.closed = true
	return nil
}

func TestFluentLoggerAdapter(t *testing.T) {
	client := &fakeFluent{}
	logger, err := NewFluentLoggerAdapter(client, slog.LevelInfo)
	require.NoError(t, err)

	scoped := logger.WithFields(port.Fields{"trace_id": "t-1"})
	scoped.Debug("dropped", nil)
	scoped.Warn("slow read", port.Fields{"ms": 1200})
	scoped.Error("failed", errors.New("boom"), nil)

	require.Equal(t, []string{"warn", "error"}, client.tags)
	assert.Equal(t, "t-1", client.posts[0]["trace_id"])
	assert.Equal(t, "slow read", client.posts[0]["message"])
	assert.Equal(t, 1200, client.posts[0]["ms"])
	assert.Equal(t, "boom", client.posts[1]["error"])
	assert.Equal(t, "ERROR", client.posts[1]["level"])

	// родительский логгер не получил полей дочернего
	logger.Info("plain", nil)
	assert.NotContains(t, client.posts[2], "trace_id")

	require.NoError(t, logger.Close())
	assert.True(t, client.closed)
}

func TestNewFluentLoggerAdapter_NilClient(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, nil)
	assert.Error(t, err)
}

type recordingLogger struct {
	msgs   *[]string
	fields port.Fields
}

func (r recordingLogger) Info(msg string, _ port.Fields)           { *r.msgs = append(*r.msgs, "info:"+msg) }
func (r recordingLogger) Warn(msg string, _ port.Fields)           { *r.msgs = append(*r.msgs, "warn:"+msg) }
func (r recordingLogger) Error(msg string, _ error, _ port.Fields) { *r.msgs = append(*r.msgs, "error:"+msg) }
func (r recordingLogger) Debug(msg string, _ port.Fields)          { *r.msgs = append(*r.msgs, "debug:"+msg) }
func (r recordingLogger) WithFields(f port.Fields) port.LoggerPort {
	return recordingLogger{msgs: r.msgs, fields: f}
}

func TestMultiLoggerAdapter(t *testing.T) {
	var a, b []string
	multi, err := NewMultiLoggerAdapter(recordingLogger{msgs: &a}, nil, recordingLogger{msgs: &b})
	require.NoError(t, err)

	multi.WithFields(port.Fields{"k": "v"}).Info("hello", nil)
	multi.Error("bad", nil, nil)

	assert.Equal(t, []string{"info:hello", "error:bad"}, a)
	assert.Equal(t, a, b)

	_, err = NewMultiLoggerAdapter(nil, nil)
	assert.Error(t, err)

	single, err := NewMultiLoggerAdapter(recordingLogger{msgs: &a})
	require.NoError(t, err)
	assert.IsType(t, recordingLogger{}, single)
}
