// Package feed 读写 jsonl 格式的消息流，并在文件追加时实时推送新消息。
package feed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chatwin/internal/logger"
	"chatwin/internal/store"
)

var log = logger.Named("feed")

const maxLineSize = 1024 * 1024

// Log 是追加写的 jsonl 消息文件，每行一条 store.Message。
type Log struct {
	Path string
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".chatwin", "feed.jsonl"), nil
}

func (l *Log) ensureDir() error {
	if l == nil || strings.TrimSpace(l.Path) == "" {
		return errors.New("feed path is empty")
	}
	return os.MkdirAll(filepath.Dir(l.Path), 0o755)
}

// Append 追加一条消息，正文为空白时忽略。
func (l *Log) Append(msg store.Message) error {
	if l == nil {
		return errors.New("feed log is nil")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return nil
	}
	if err := l.ensureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	msg.Seq = 0
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// Load 读取全部消息，跳过无法解析的行。
func (l *Log) Load() ([]store.Message, error) {
	msgs, _, err := l.ReadFrom(0)
	return msgs, err
}

// ReadFrom 从字节偏移 offset 开始读取完整的行，返回解析出的消息以及下一次读取的偏移。
// 末尾尚未写完的半行不会被消费。
func (l *Log) ReadFrom(offset int64) ([]store.Message, int64, error) {
	if l == nil || strings.TrimSpace(l.Path) == "" {
		return nil, offset, errors.New("feed path is empty")
	}
	f, err := os.Open(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() < offset {
		log.WithField("type", "truncate").Infof("feed %s shrank, rereading from start", l.Path)
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, err
	}

	reader := bufio.NewReaderSize(f, 64*1024)
	var out []store.Message
	for {
		line, err := reader.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, offset, err
		}
		offset += int64(len(line))
		if len(line) > maxLineSize {
			continue
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var msg store.Message
		if err := json.Unmarshal(line, &msg); err != nil {
			log.Debugf("skipping malformed feed line: %v", err)
			continue
		}
		if strings.TrimSpace(msg.Body) == "" {
			continue
		}
		out = append(out, msg)
	}
	return out, offset, nil
}
