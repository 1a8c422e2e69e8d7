// Package sample 生成演示用的聊天消息，长度和格式各不相同，便于观察行高变化。
package sample

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatwin/internal/store"
)

var authors = []string{"ada", "grace", "linus", "ken", "barbara", "edsger", "margaret"}

var phrases = []string{
	"shipping the fix now",
	"can someone review the migration?",
	"the nightly build is green again",
	"I think the cache key is wrong",
	"benchmarks look better after the rewrite",
	"let's pair on this tomorrow",
	"logs are in the usual place",
	"that flaky test bit us again",
	"rolling back to the previous release",
	"docs updated, please take a look",
}

var links = []string{
	"https://example.com/runbook",
	"https://example.com/dashboards/latency",
	"https://example.com/issues/1024",
}

// Generator 产生确定性的消息序列：相同的 seed 得到相同的正文与作者。
type Generator struct {
	rnd  *rand.Rand
	now  time.Time
	step time.Duration
}

func New(seed uint64, start time.Time) *Generator {
	return &Generator{
		rnd:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:  start,
		step: 37 * time.Second,
	}
}

// Next 返回下一条消息。
func (g *Generator) Next() store.Message {
	author := authors[g.rnd.IntN(len(authors))]
	g.now = g.now.Add(g.step + time.Duration(g.rnd.IntN(90))*time.Second)
	return store.Message{
		ID:     uuid.NewString(),
		Author: author,
		Body:   g.body(),
		SentAt: g.now.UTC(),
	}
}

// Batch 返回 n 条消息。
func (g *Generator) Batch(n int) []store.Message {
	out := make([]store.Message, 0, max(n, 0))
	for range n {
		out = append(out, g.Next())
	}
	return out
}

func (g *Generator) body() string {
	sentences := 1 + g.rnd.IntN(4)
	parts := make([]string, 0, sentences+2)
	for range sentences {
		parts = append(parts, phrases[g.rnd.IntN(len(phrases))])
	}
	switch g.rnd.IntN(6) {
	case 0:
		parts = append(parts, "@"+authors[g.rnd.IntN(len(authors))])
	case 1:
		parts = append(parts, links[g.rnd.IntN(len(links))])
	case 2:
		parts = append(parts, fmt.Sprintf("see `job-%d`", g.rnd.IntN(1000)))
	}
	body := strings.Join(parts, ". ")
	if g.rnd.IntN(8) == 0 {
		body += "\n\n" + strings.Repeat("- checklist item\n", 1+g.rnd.IntN(3))
		body = strings.TrimRight(body, "\n")
	}
	return body
}
