// internal/pkg/idgen/idgen.go
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator 生成全局唯一的业务 ID，由调用方注入，方便测试控制 ID 序列
type Generator interface {
	NewID() string
}

// UUID 以 "<prefix>-<uuid>" 形式生成 ID
type UUID struct {
	Prefix string
}

func NewUUID(prefix string) *UUID {
	return &UUID{Prefix: prefix}
}

func (g *UUID) NewID() string {
	if g.Prefix == "" {
		return uuid.New().String()
	}
	return g.Prefix + "-" + uuid.New().String()
}

// Sequence 以单调递增计数器生成 "<prefix>-<n>"，并发安全
type Sequence struct {
	prefix string
	next   atomic.Int64
}

// NewSequence 创建从 start 开始计数的生成器
func NewSequence(prefix string, start int64) *Sequence {
	s := &Sequence{prefix: prefix}
	s.next.Store(start)
	return s
}

func (s *Sequence) NewID() string {
	n := s.next.Add(1) - 1
	return s.prefix + "-" + strconv.FormatInt(n, 10)
}
