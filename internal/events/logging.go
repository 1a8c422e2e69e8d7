package events

import (
	"encoding/json"
	"io"
	"strings"

	"chatwin/internal/logger"
)

// DefaultBusLogPath 默认的总线日志文件路径。
const DefaultBusLogPath = "logs/bus.log"

// log 复用全局 logger，标记事件组件。
var log = logger.Named("events")

// NewFileLogger 为总线创建独立的日志文件，失败时回退到全局 logger。
func NewFileLogger(component, path string) (*logger.LogEntry, io.Closer) {
	if path == "" {
		return logger.Named(component), nil
	}
	entry, closer, _, err := logger.SetupComponentFile(component, path)
	if err != nil {
		log.Warnf("failed to set up %s log file (%s): %v", component, path, err)
		return logger.Named(component), nil
	}
	return entry, closer
}

// encodePayload 把载荷编码为便于阅读的文本：字符串原样输出，
// 看起来像转义过的 JSON 则还原后缩进，其余值编码为缩进 JSON。
func encodePayload(v any) string {
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			return s
		}
		unescaped := strings.ReplaceAll(trimmed, `\n`, "\n")
		var decoded any
		if err := json.Unmarshal([]byte(unescaped), &decoded); err != nil {
			return s
		}
		v = decoded
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
