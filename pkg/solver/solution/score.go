package solution

import "fmt"

// Score 字典序 (硬约束, 软约束) 得分
// 两项均为非正整数，越接近0越好；硬约束为0表示可行解
type Score struct {
	Hard int `json:"hard"`
	Soft int `json:"soft"`
}

// Feasible 检查得分是否对应可行解
func (s Score) Feasible() bool {
	return s.Hard == 0
}

// Compare 字典序比较: 先比较硬约束，再比较软约束
// 返回 <0 表示 s 更差, 0 表示相等, >0 表示 s 更优
func (s Score) Compare(other Score) int {
	if s.Hard != other.Hard {
		if s.Hard < other.Hard {
			return -1
		}
		return 1
	}
	if s.Soft != other.Soft {
		if s.Soft < other.Soft {
			return -1
		}
		return 1
	}
	return 0
}

// Better 检查 s 是否严格优于 other
func (s Score) Better(other Score) bool {
	return s.Compare(other) > 0
}

// String 返回得分的文本表示，如 "0hard/-2soft"
func (s Score) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}
