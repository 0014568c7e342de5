package server

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Registry 在线连接表，增删与遍历都在自己的锁内完成
type Registry struct {
	mu     sync.RWMutex
	conns  map[int]*ClientConn
	nextID atomic.Int64
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[int]*ClientConn)}
}

// NextID 分配连接 id，从 0 开始递增
func (r *Registry) NextID() int {
	return int(r.nextID.Add(1) - 1)
}

func (r *Registry) Add(c *ClientConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID] = c
}

// Remove 移除连接，返回被移除的连接（不负责关闭）
func (r *Registry) Remove(id int) (*ClientConn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	return c, ok
}

func (r *Registry) Has(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[id]
	return ok
}

func (r *Registry) Get(id int) (*ClientConn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Snapshot 按 id 排序的连接列表，广播时在锁外遍历
func (r *Registry) Snapshot() []*ClientConn {
	r.mu.RLock()
	out := make([]*ClientConn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *ClientConn) int { return a.ID - b.ID })
	return out
}

// CloseAll 关闭并清空所有连接
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[int]*ClientConn)
	r.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}
