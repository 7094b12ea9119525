// Package mapper 将求解完成的分配模型转换为排班提案
package mapper

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/errors"
	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/engine"
)

// ShiftCatalog 基础班次目录的只读查询
type ShiftCatalog interface {
	FindShiftByID(ctx context.Context, id uuid.UUID) (*model.Shift, error)
}

// Mapper 解到提案的转换器
type Mapper struct {
	shifts ShiftCatalog
}

// New 创建转换器
func New(shifts ShiftCatalog) *Mapper {
	return &Mapper{shifts: shifts}
}

// ToProposal 遍历最终分配模型，为每个具体班次生成一行提案班次
// 未分配的班次保留为空员工行，不会被省略
// 基础班次回链无法解析属于模板/目录数据不一致，按不变量违反中止转换
func (m *Mapper) ToProposal(ctx context.Context, schemaID uuid.UUID, result *engine.Result) (*model.ScheduleProposal, error) {
	proposal := &model.ScheduleProposal{
		SchemaID:    schemaID,
		GeneratedAt: time.Now(),
		Status:      statusForScore(result),
		HardScore:   result.Score.Hard,
		SoftScore:   result.Score.Soft,
	}

	// 目录查询按基础班次ID缓存，同一基础班次只解析一次
	resolved := make(map[uuid.UUID]*model.Shift)

	for _, a := range result.Solution.Assignments() {
		base, ok := resolved[a.Shift.BaseShiftID]
		if !ok {
			var err error
			base, err = m.shifts.FindShiftByID(ctx, a.Shift.BaseShiftID)
			if err != nil {
				return nil, errors.InvariantViolation(
					schemaID.String(), a.Shift.ID.String(),
					"具体班次的基础班次无法解析",
				).WithCause(err)
			}
			resolved[a.Shift.BaseShiftID] = base
		}

		row := model.ProposalShift{
			Date:          a.Shift.Date,
			BaseShiftID:   base.ID,
			BaseShiftName: base.Name,
			PositionName:  a.Shift.PositionName,
		}
		if a.Employee != nil {
			name := a.Employee.Name
			row.AssignedStaffName = &name
		}
		proposal.Shifts = append(proposal.Shifts, row)
	}

	return proposal, nil
}

// statusForScore 由最终硬约束得分决定提案状态
// 不可行解不是错误，仍作为有效输出供人工复核
func statusForScore(result *engine.Result) model.ProposalStatus {
	if result.Score.Feasible() {
		return model.ProposalFeasible
	}
	return model.ProposalInfeasible
}
