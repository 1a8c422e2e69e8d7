// Package store 把聊天消息持久化到 SQLite，并按 seq 提供双向分页读取。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"chatwin/internal/logger"
)

var log = logger.Named("store")

var (
	ErrEmptyPath = errors.New("store path is empty")
	ErrNotFound  = errors.New("message not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
    seq     INTEGER PRIMARY KEY AUTOINCREMENT,
    id      TEXT NOT NULL UNIQUE,
    author  TEXT NOT NULL,
    body    TEXT NOT NULL,
    sent_at INTEGER NOT NULL,
    folded  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_messages_sent_at ON messages(sent_at);
`

const selectColumns = `SELECT seq, id, author, body, sent_at FROM messages`

// Store 是消息存储。SQLite 同一时刻只允许一个写者，因此连接池只保留一个连接。
type Store struct {
	db   *sql.DB
	path string
}

// Open 打开（必要时创建）path 处的数据库。
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	if err := migrateFolded(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate search column: %w", err)
	}
	log.Debugf("opened store at %s", path)
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append 写入消息，已存在的 ID 会被忽略。返回实际写入的消息（带 Seq）。
func (s *Store) Append(ctx context.Context, msgs ...Message) ([]Message, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO messages (id, author, body, sent_at, folded) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	inserted := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		m = m.normalize()
		res, err := stmt.ExecContext(ctx, m.ID, m.Author, m.Body, m.SentAt.UnixNano(), fold(m.Author, m.Body))
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", m.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		if m.Seq, err = res.LastInsertId(); err != nil {
			return nil, err
		}
		inserted = append(inserted, m)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.WithField("type", "append").Debugf("stored %d/%d messages", len(inserted), len(msgs))
	return inserted, nil
}

// Latest 返回最新的 n 条消息，按 seq 升序。
func (s *Store) Latest(ctx context.Context, n int) ([]Message, error) {
	rows, err := s.query(ctx, selectColumns+` ORDER BY seq DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	slices.Reverse(rows)
	return rows, nil
}

// Before 返回 seq 之前的 n 条消息，按 seq 升序。
func (s *Store) Before(ctx context.Context, seq int64, n int) ([]Message, error) {
	rows, err := s.query(ctx, selectColumns+` WHERE seq < ? ORDER BY seq DESC LIMIT ?`, seq, n)
	if err != nil {
		return nil, err
	}
	slices.Reverse(rows)
	return rows, nil
}

// After 返回 seq 之后的 n 条消息，按 seq 升序。
func (s *Store) After(ctx context.Context, seq int64, n int) ([]Message, error) {
	return s.query(ctx, selectColumns+` WHERE seq > ? ORDER BY seq ASC LIMIT ?`, seq, n)
}

// Around 返回以 seq 为中心的窗口：之前 before 条、该消息本身以及之后 after 条。
func (s *Store) Around(ctx context.Context, seq int64, before, after int) ([]Message, error) {
	head, err := s.Before(ctx, seq, before)
	if err != nil {
		return nil, err
	}
	tail, err := s.query(ctx, selectColumns+` WHERE seq >= ? ORDER BY seq ASC LIMIT ?`, seq, after+1)
	if err != nil {
		return nil, err
	}
	return append(head, tail...), nil
}

// Search 按正文或作者做不区分大小写的子串匹配，返回最新的 limit 条命中。
// SQLite 的 lower() 只折叠 ASCII，所以匹配的是写入时用 Go 折叠好的 folded 列。
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Message, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return s.query(ctx, selectColumns+` WHERE folded LIKE ? ESCAPE '\' ORDER BY seq DESC LIMIT ?`,
		pattern, limit)
}

// Get 按 ID 读取消息。
func (s *Store) Get(ctx context.Context, id string) (Message, error) {
	rows, err := s.query(ctx, selectColumns+` WHERE id = ?`, id)
	if err != nil {
		return Message{}, err
	}
	if len(rows) == 0 {
		return Message{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rows[0], nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n)
	return n, err
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var (
			m      Message
			sentAt int64
		)
		if err := rows.Scan(&m.Seq, &m.ID, &m.Author, &m.Body, &sentAt); err != nil {
			return nil, err
		}
		m.SentAt = time.Unix(0, sentAt).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// fold 生成搜索列：作者与正文各自转小写，用单元分隔符隔开，避免跨字段命中。
func fold(author, body string) string {
	return strings.ToLower(author) + "\x1f" + strings.ToLower(body)
}

// migrateFolded 为旧库补上 folded 列，并回填尚未折叠的行。
func migrateFolded(db *sql.DB) error {
	rows, err := db.Query(`SELECT name FROM pragma_table_info('messages')`)
	if err != nil {
		return err
	}
	hasFolded := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		if name == "folded" {
			hasFolded = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if !hasFolded {
		if _, err := db.Exec(`ALTER TABLE messages ADD COLUMN folded TEXT NOT NULL DEFAULT ''`); err != nil {
			return err
		}
	}

	type pending struct {
		seq          int64
		author, body string
	}
	var todo []pending
	rows, err = db.Query(`SELECT seq, author, body FROM messages WHERE folded = ''`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.seq, &p.author, &p.body); err != nil {
			rows.Close()
			return err
		}
		todo = append(todo, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(todo) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, p := range todo {
		if _, err := tx.Exec(`UPDATE messages SET folded = ? WHERE seq = ?`, fold(p.author, p.body), p.seq); err != nil {
			return err
		}
	}
	log.Infof("backfilled search column for %d message(s)", len(todo))
	return tx.Commit()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
