package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/errors"
	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/availability"
)

// RosterCell 网格中的单个班次格
type RosterCell struct {
	BaseShiftID       uuid.UUID `json:"base_shift_id"`
	BaseShiftName     string    `json:"base_shift_name"`
	PositionName      string    `json:"position_name"`
	AssignedStaffName *string   `json:"assigned_staff_name"`
}

// RosterDay 网格中的单日视图
type RosterDay struct {
	Date           string       `json:"date"`
	Shifts         []RosterCell `json:"shifts"`
	AvailableStaff []string     `json:"available_staff"`
}

// RosterGrid 日期×班次的排班网格视图
// 由最新提案渲染，附带每日可用员工列表供人工调整参考
type RosterGrid struct {
	SchemaID    uuid.UUID            `json:"schema_id"`
	ProposalID  uuid.UUID            `json:"proposal_id"`
	Status      model.ProposalStatus `json:"status"`
	GeneratedAt time.Time            `json:"generated_at"`
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	Days        []RosterDay          `json:"days"`
}

// BuildRoster 渲染方案的排班网格
// 覆盖方案的完整日期范围，没有班次的日期也保留空行
func (s *SolverService) BuildRoster(ctx context.Context, schemaID uuid.UUID) (*RosterGrid, error) {
	schema, err := s.schemas.GetByID(ctx, schemaID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "装载排班方案失败")
	}
	if schema == nil {
		return nil, errors.NotFound("排班方案", schemaID.String())
	}

	proposal, err := s.GetLatestProposal(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	entries, err := s.availability.ListBySchema(ctx, schemaID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "装载可用性记录失败")
	}
	index := availability.NewIndex(entries)

	dates, err := schema.Range().Dates()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidTimeRange, "方案日期范围无效")
	}

	byDate := make(map[string][]RosterCell)
	for _, ps := range proposal.Shifts {
		byDate[ps.Date] = append(byDate[ps.Date], RosterCell{
			BaseShiftID:       ps.BaseShiftID,
			BaseShiftName:     ps.BaseShiftName,
			PositionName:      ps.PositionName,
			AssignedStaffName: ps.AssignedStaffName,
		})
	}

	grid := &RosterGrid{
		SchemaID:    schemaID,
		ProposalID:  proposal.ID,
		Status:      proposal.Status,
		GeneratedAt: proposal.GeneratedAt,
		StartDate:   schema.StartDate,
		EndDate:     schema.EndDate,
	}
	for _, date := range dates {
		grid.Days = append(grid.Days, RosterDay{
			Date:           date,
			Shifts:         byDate[date],
			AvailableStaff: index.AvailableEmployees(date),
		})
	}

	return grid, nil
}
