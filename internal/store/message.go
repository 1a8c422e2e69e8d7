package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message 是一条聊天消息。Seq 由存储分配，单调递增，决定展示顺序。
type Message struct {
	ID     string    `json:"id"`
	Seq    int64     `json:"seq,omitempty"`
	Author string    `json:"author"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// RowID 实现 virtual.Row。
func (m Message) RowID() string {
	return m.ID
}

// NewMessage 生成带随机 ID 的消息。
func NewMessage(author, body string) Message {
	return Message{
		ID:     uuid.NewString(),
		Author: strings.TrimSpace(author),
		Body:   body,
		SentAt: time.Now().UTC(),
	}
}

// normalize 补全缺失的 ID 与时间戳。
func (m Message) normalize() Message {
	if strings.TrimSpace(m.ID) == "" {
		m.ID = uuid.NewString()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}
	if m.Author == "" {
		m.Author = "anonymous"
	}
	return m
}
