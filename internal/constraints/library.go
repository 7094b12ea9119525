// Package constraints 约束系统
package constraints

// ConstraintDefinition 约束定义
// 描述求解引擎内置的评分规则，供前端展示和排查使用
type ConstraintDefinition struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"` // hard 硬约束, soft 软约束
	Weight      int    `json:"weight"`
	Description string `json:"description"`
}

// LibraryResponse 约束库响应
type LibraryResponse struct {
	Library []ConstraintDefinition `json:"library"`
}

// GetLibrary 返回求解引擎内置的约束库
// 顺序与评分函数的计算顺序一致
func GetLibrary() []ConstraintDefinition {
	return []ConstraintDefinition{
		{
			Name:        "unavailable_day",
			DisplayName: "不可用日分配",
			Type:        "hard",
			Weight:      -1,
			Description: "员工被分配到其声明不可用的日期，每条分配扣1分。",
		},
		{
			Name:        "overlapping_shifts",
			DisplayName: "班次时间重叠",
			Type:        "hard",
			Weight:      -1,
			Description: "同一员工被分配到时间重叠的班次，每个重叠对扣1分。跨夜班次按实际时间区间判断。",
		},
		{
			Name:        "unassigned_shift",
			DisplayName: "未分配班次",
			Type:        "soft",
			Weight:      -1,
			Description: "具体班次没有分配员工，每个空班次扣1分。",
		},
		{
			Name:        "target_shift_deviation",
			DisplayName: "目标班次数偏差",
			Type:        "soft",
			Weight:      -1,
			Description: "员工实际分配班次数与目标班次数的差值，每偏差1个班次扣1分。",
		},
	}
}
