package engine

import "sync"

// TabuList 禁忌表（使用uint64哈希作为键提高性能）
type TabuList struct {
	items   map[uint64]struct{}
	order   []uint64
	maxSize int
	mu      sync.RWMutex
}

// NewTabuList 创建禁忌表
func NewTabuList(size int) *TabuList {
	return &TabuList{
		items:   make(map[uint64]struct{}),
		order:   make([]uint64, 0, size),
		maxSize: size,
	}
}

// Add 添加到禁忌表
func (t *TabuList) Add(key uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.items[key]; exists {
		return
	}

	// 超出容量时移除最旧的
	if len(t.order) >= t.maxSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.items, oldest)
	}

	t.items[key] = struct{}{}
	t.order = append(t.order, key)
}

// Contains 检查是否在禁忌表中
func (t *TabuList) Contains(key uint64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, exists := t.items[key]
	return exists
}

// Clear 清空禁忌表
func (t *TabuList) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = make(map[uint64]struct{})
	t.order = t.order[:0]
}
