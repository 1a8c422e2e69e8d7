package events

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"chatwin/internal/logger"
)

type sample struct {
	ID   string
	Body string
}

func TestBusLogsJSONPayload(t *testing.T) {
	buf := &bytes.Buffer{}
	bus := NewBus[sample]("feed.message", 1)
	bus.SetLogger(newBufferLogger(buf))
	_ = bus.Subscribe()

	require.NoError(t, bus.Publish(context.Background(), sample{ID: "m1", Body: "ping"}))

	out := buf.String()
	require.Contains(t, out, "[type=feed.message]")
	require.Contains(t, out, "payload=")
	require.Contains(t, out, "\"Body\"")
}

func TestEncodePayload_StringIsRaw(t *testing.T) {
	require.Equal(t, "user_input", encodePayload("user_input"))
}

func TestEncodePayload_ObjectIsPrettyJSON(t *testing.T) {
	got := encodePayload(map[string]any{"a": 1, "b": map[string]any{"c": 2}})
	require.True(t, json.Valid([]byte(got)), got)
	require.Contains(t, got, "\n", "pretty json spans lines")
}

func TestEncodePayload_JSONStringWithEscapedNewlines(t *testing.T) {
	in := "{\\n  \"a\": 1,\\n  \"b\": 2\\n}"
	got := encodePayload(in)
	require.NotContains(t, got, `\n`)
	require.True(t, json.Valid([]byte(got)), got)
	require.Contains(t, got, "\n")
}

func newBufferLogger(buf *bytes.Buffer) *logger.LogEntry {
	l := logrus.New()
	l.SetFormatter(logger.PlainFormatter{})
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(l)
}
