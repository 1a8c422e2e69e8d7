package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestPlainFormatter_TypePrefixAndFieldSkipping(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "with type",
			data: logrus.Fields{
				"component": "virtual",
				"type":      "truncate",
				"caller":    "x.go:1",
				"rows":      200,
				"side":      "top",
			},
			message: "evicted rows",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [virtual] [type=truncate] evicted rows rows=200 side=top\n",
		},
		{
			name: "without type",
			data: logrus.Fields{
				"component": "store",
				"caller":    "x.go:1",
				"foo":       "bar",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [store] hello foo=bar\n",
		},
		{
			name:    "bare",
			data:    logrus.Fields{},
			message: "plain",
			want:    "[2025-01-02T03:04:05Z] [INFO] plain\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			require.NoError(t, err)
			got := string(out)
			require.Equal(t, tc.want, got)
			if _, ok := tc.data["type"]; ok {
				require.Equal(t, 1, strings.Count(got, "type=truncate"), "type appears once")
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	l := logrus.New()
	SetRoot(l)
	defer SetRoot(nil)

	require.NoError(t, SetLevel("debug"))
	require.Equal(t, logrus.DebugLevel, l.GetLevel())
	require.NoError(t, SetLevel(""), "empty level is ignored")
	require.Error(t, SetLevel("chatty"))
}

func TestFetchLoggerWritesTypedLines(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(PlainFormatter{})
	l.SetLevel(logrus.DebugLevel)

	fl := NewFetchLogger(logrus.NewEntry(l).WithField("component", "fetch"))
	fl.Request("before", 42, 100)
	fl.Response("before", 100, 3*time.Millisecond)
	fl.Error("after", errors.New("disk\nfull"))

	out := buf.String()
	for _, want := range []string{
		"[fetch] [type=fetch] -> before cursor=42 limit=100",
		"<- before rows=100 elapsed=3ms",
		"[ERROR]",
		`!! after err=disk\nfull`,
	} {
		require.Contains(t, out, want)
	}
	require.Contains(t, out, "logger_test.go:", "caller is reported from outside the logger package")
}
