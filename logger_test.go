package xmlsql

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(LogConfig{Level: "debug", JSON: true}, &buf)
	require.NoError(t, err)

	logger.Debug("engine created", zap.String("dialect", "h2"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "engine created", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "xmlsql", entry["logger"])
	assert.Equal(t, "h2", entry["dialect"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := NewLogger(LogConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestEngine_LogsCompilation(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(LogConfig{Level: "debug", JSON: true}, &buf)
	require.NoError(t, err)

	e, err := ForDialect("sqlserver", WithLogger(logger), WithModel(testModel(t)))
	require.NoError(t, err)
	q := e.NewQuery().From("books", "t0")
	q.Select(q.Aggregate("xmlagg", Call{}, q.Call("xmlforest", q.Col("t0", "title"))), "x")
	_, err = q.Render()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "engine created")
	assert.Contains(t, out, "moving xmlagg argument into cross apply")
	assert.Contains(t, out, "query transformers applied")
}
