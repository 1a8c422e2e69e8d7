package logger

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// FetchLogger 记录列表向数据源发起的分页请求、结果与错误。
type FetchLogger interface {
	Request(direction string, cursor int64, limit int)
	Response(direction string, rows int, elapsed time.Duration)
	Error(direction string, err error)
}

// FetchLog 是全局唯一的分页日志器实例。
var FetchLog FetchLogger = NewFetchLogger(nil)

// SetGlobalFetchLogger 覆盖全局分页日志实例，传入 nil 将重置为默认实现。
func SetGlobalFetchLogger(l FetchLogger) {
	if l == nil {
		l = NewFetchLogger(nil)
	}
	FetchLog = l
}

// StdFetchLogger 使用 logrus 输出日志。
type StdFetchLogger struct {
	logger *logrus.Entry
}

// NewFetchLogger 构造默认的分页日志记录器，l 为空时使用全局 logger。
func NewFetchLogger(l *LogEntry) *StdFetchLogger {
	if l == nil {
		l = Named("fetch")
	}
	return &StdFetchLogger{logger: l}
}

func (l *StdFetchLogger) Request(direction string, cursor int64, limit int) {
	l.printf(logrus.DebugLevel, "-> %s cursor=%d limit=%d", direction, cursor, limit)
}

func (l *StdFetchLogger) Response(direction string, rows int, elapsed time.Duration) {
	l.printf(logrus.DebugLevel, "<- %s rows=%d elapsed=%s", direction, rows, elapsed.Round(time.Microsecond))
}

func (l *StdFetchLogger) Error(direction string, err error) {
	l.printf(logrus.ErrorLevel, "!! %s err=%v", direction, err)
}

// NoopFetchLogger 忽略所有日志输出。
type NoopFetchLogger struct{}

func (NoopFetchLogger) Request(string, int64, int)          {}
func (NoopFetchLogger) Response(string, int, time.Duration) {}
func (NoopFetchLogger) Error(string, error)                 {}

func (l *StdFetchLogger) printf(level logrus.Level, format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	if !l.logger.Logger.IsLevelEnabled(level) {
		return
	}
	entry := l.logger.WithField("type", "fetch")
	if caller := findCaller(); caller != "" {
		entry = entry.WithField("caller", caller)
	}
	entry.Log(level, sanitize(fmt.Sprintf(format, args...)))
}

func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	return strings.ReplaceAll(text, "\r", `\r`)
}

// findCaller 跳过日志包自身的栈帧，定位真正的调用点。
func findCaller() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.File != "" && !strings.HasSuffix(frame.File, "/logger/fetch.go") {
			return fmt.Sprintf("%s:%d", shortenFilePath(frame.File), frame.Line)
		}
		if !more {
			break
		}
	}
	return ""
}
