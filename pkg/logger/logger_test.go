package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandlerOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf).WithRunID("run-1")

	log.Stage("extract", 12, time.Now(), "columns", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "stage_done", line["msg"])
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "extract", line["stage"])
	assert.EqualValues(t, 12, line["records"])
	assert.EqualValues(t, 3, line["columns"])
}

func TestDevelopmentEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("Development", &buf).WithCommand("score")

	log.Debug("detail")

	out := buf.String()
	assert.True(t, strings.Contains(out, "msg=detail"), out)
	assert.True(t, strings.Contains(out, "command=score"), out)
}

func TestInfoHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("", &buf).Debug("hidden")
	assert.Empty(t, buf.String())
}
