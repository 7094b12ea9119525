package model

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus 排班提案状态
type ProposalStatus string

const (
	// ProposalFeasible 可行解（硬约束得分为0）
	ProposalFeasible ProposalStatus = "FEASIBLE"
	// ProposalInfeasible 不可行解（存在硬约束违反，仍作为有效输出供人工复核）
	ProposalInfeasible ProposalStatus = "INFEASIBLE"
)

// ScheduleProposal 一次求解产出的排班提案
// 创建后不再修改，新的求解产生新的提案取代旧提案
type ScheduleProposal struct {
	BaseModel
	SchemaID    uuid.UUID       `json:"schema_id" db:"schema_id"`
	GeneratedAt time.Time       `json:"generated_at" db:"generated_at"`
	Status      ProposalStatus  `json:"status" db:"status"`
	HardScore   int             `json:"hard_score" db:"hard_score"`
	SoftScore   int             `json:"soft_score" db:"soft_score"`
	Shifts      []ProposalShift `json:"proposal_shifts,omitempty" db:"-"`
}

// IsFeasible 检查提案是否可行
func (p *ScheduleProposal) IsFeasible() bool {
	return p.Status == ProposalFeasible
}

// ProposalShift 提案中的单行班次
// 每个具体班次恰好一行，未分配的班次也保留（员工名为空）
type ProposalShift struct {
	BaseModel
	ProposalID        uuid.UUID `json:"proposal_id" db:"proposal_id"`
	Date              string    `json:"date" db:"date"` // YYYY-MM-DD
	BaseShiftID       uuid.UUID `json:"base_shift_id" db:"base_shift_id"`
	BaseShiftName     string    `json:"base_shift_name" db:"base_shift_name"`
	PositionName      string    `json:"position_name" db:"position_name"`
	AssignedStaffName *string   `json:"assigned_staff_name" db:"assigned_staff_name"` // nil 表示未分配
}

// IsAssigned 检查该行是否已分配员工
func (ps *ProposalShift) IsAssigned() bool {
	return ps.AssignedStaffName != nil && *ps.AssignedStaffName != ""
}
