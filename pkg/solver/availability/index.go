// Package availability 提供员工可用性的快速查询索引
package availability

import (
	"sort"

	"github.com/roster/roster/pkg/model"
)

// Index 可用性索引
// 以 (员工名, 日期) 为键的不可用集合，构建后只读，可安全并发查询
type Index struct {
	unavailable map[string]struct{}
	known       map[string]struct{}
	employees   []string // 已排序的去重员工名
}

// NewIndex 从可用性记录构建索引
// 没有任何明细的员工视为全程可用；非 UNAVAILABLE 状态的明细不影响可用性
func NewIndex(entries []*model.AvailabilityEntry) *Index {
	idx := &Index{
		unavailable: make(map[string]struct{}),
		known:       make(map[string]struct{}),
	}

	for _, entry := range entries {
		if _, seen := idx.known[entry.StaffName]; !seen {
			idx.known[entry.StaffName] = struct{}{}
			idx.employees = append(idx.employees, entry.StaffName)
		}
		for _, detail := range entry.Details {
			if detail.Status == model.StatusUnavailable {
				idx.unavailable[key(entry.StaffName, detail.Date)] = struct{}{}
			}
		}
	}

	sort.Strings(idx.employees)
	return idx
}

// key 构造 (员工名, 日期) 查询键
func key(name, date string) string {
	return name + "|" + date
}

// IsAvailable 检查员工在指定日期是否可用
// 仅当存在该 (员工, 日期) 的 UNAVAILABLE 记录时返回 false
func (idx *Index) IsAvailable(name, date string) bool {
	_, blocked := idx.unavailable[key(name, date)]
	return !blocked
}

// AvailableEmployees 返回指定日期可用的全部员工名（已排序，输出可复现）
func (idx *Index) AvailableEmployees(date string) []string {
	result := make([]string, 0, len(idx.employees))
	for _, name := range idx.employees {
		if idx.IsAvailable(name, date) {
			result = append(result, name)
		}
	}
	return result
}

// Employees 返回有可用性记录的全部员工名（已排序）
func (idx *Index) Employees() []string {
	result := make([]string, len(idx.employees))
	copy(result, idx.employees)
	return result
}

// UnavailableCount 返回不可用记录总数
func (idx *Index) UnavailableCount() int {
	return len(idx.unavailable)
}
