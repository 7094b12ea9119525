// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/model"
)

// ProposalRepository 排班提案仓储
// 提案创建后不再修改，新提案取代旧提案（最新一条为当前有效提案）
type ProposalRepository struct {
	db DB
}

// NewProposalRepository 创建排班提案仓储
func NewProposalRepository(db DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create 持久化提案及其全部班次行
// 提案和班次行的ID在持久化时分配，转换器产出的内存提案不携带ID
func (r *ProposalRepository) Create(ctx context.Context, proposal *model.ScheduleProposal) error {
	if proposal.ID == uuid.Nil {
		proposal.ID = uuid.New()
	}
	now := time.Now()
	proposal.CreatedAt = now
	proposal.UpdatedAt = now

	query := `
		INSERT INTO schedule_proposals (
			id, schema_id, generated_at, status, hard_score, soft_score, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if _, err := r.db.ExecContext(ctx, query,
		proposal.ID, proposal.SchemaID, proposal.GeneratedAt, proposal.Status,
		proposal.HardScore, proposal.SoftScore, proposal.CreatedAt, proposal.UpdatedAt,
	); err != nil {
		return fmt.Errorf("创建排班提案失败: %w", err)
	}

	shiftQuery := `
		INSERT INTO proposal_shifts (
			id, proposal_id, date, base_shift_id, base_shift_name, position_name,
			assigned_staff_name, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for i := range proposal.Shifts {
		ps := &proposal.Shifts[i]
		if ps.ID == uuid.Nil {
			ps.ID = uuid.New()
		}
		ps.ProposalID = proposal.ID
		ps.CreatedAt = now
		ps.UpdatedAt = now

		if _, err := r.db.ExecContext(ctx, shiftQuery,
			ps.ID, ps.ProposalID, ps.Date, ps.BaseShiftID, ps.BaseShiftName,
			ps.PositionName, ps.AssignedStaffName, ps.CreatedAt, ps.UpdatedAt,
		); err != nil {
			return fmt.Errorf("创建提案班次行失败: %w", err)
		}
	}

	return nil
}

// GetByID 根据ID获取提案（含班次行）
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleProposal, error) {
	query := `
		SELECT id, schema_id, generated_at, status, hard_score, soft_score, created_at, updated_at
		FROM schedule_proposals
		WHERE id = $1 AND deleted_at IS NULL
	`

	proposal := &model.ScheduleProposal{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proposal.ID, &proposal.SchemaID, &proposal.GeneratedAt, &proposal.Status,
		&proposal.HardScore, &proposal.SoftScore, &proposal.CreatedAt, &proposal.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询排班提案失败: %w", err)
	}

	shifts, err := r.getShifts(ctx, proposal.ID)
	if err != nil {
		return nil, err
	}
	proposal.Shifts = shifts

	return proposal, nil
}

// GetLatestBySchema 获取方案最近一次生成的提案（含班次行）
func (r *ProposalRepository) GetLatestBySchema(ctx context.Context, schemaID uuid.UUID) (*model.ScheduleProposal, error) {
	query := `
		SELECT id, schema_id, generated_at, status, hard_score, soft_score, created_at, updated_at
		FROM schedule_proposals
		WHERE schema_id = $1 AND deleted_at IS NULL
		ORDER BY generated_at DESC
		LIMIT 1
	`

	proposal := &model.ScheduleProposal{}
	err := r.db.QueryRowContext(ctx, query, schemaID).Scan(
		&proposal.ID, &proposal.SchemaID, &proposal.GeneratedAt, &proposal.Status,
		&proposal.HardScore, &proposal.SoftScore, &proposal.CreatedAt, &proposal.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询最新排班提案失败: %w", err)
	}

	shifts, err := r.getShifts(ctx, proposal.ID)
	if err != nil {
		return nil, err
	}
	proposal.Shifts = shifts

	return proposal, nil
}

// getShifts 加载提案的班次行
// 按日期和基础班次名排序，输出稳定
func (r *ProposalRepository) getShifts(ctx context.Context, proposalID uuid.UUID) ([]model.ProposalShift, error) {
	query := `
		SELECT id, proposal_id, date, base_shift_id, base_shift_name, position_name,
			assigned_staff_name, created_at, updated_at
		FROM proposal_shifts
		WHERE proposal_id = $1 AND deleted_at IS NULL
		ORDER BY date ASC, base_shift_name ASC, position_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("查询提案班次行失败: %w", err)
	}
	defer rows.Close()

	var shifts []model.ProposalShift
	for rows.Next() {
		var ps model.ProposalShift
		if err := rows.Scan(
			&ps.ID, &ps.ProposalID, &ps.Date, &ps.BaseShiftID, &ps.BaseShiftName,
			&ps.PositionName, &ps.AssignedStaffName, &ps.CreatedAt, &ps.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描提案班次行失败: %w", err)
		}
		shifts = append(shifts, ps)
	}

	return shifts, rows.Err()
}

// DeleteBySchema 软删除方案下的全部提案
func (r *ProposalRepository) DeleteBySchema(ctx context.Context, schemaID uuid.UUID) error {
	query := `UPDATE schedule_proposals SET deleted_at = $2 WHERE schema_id = $1 AND deleted_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, schemaID, time.Now()); err != nil {
		return fmt.Errorf("删除排班提案失败: %w", err)
	}

	return nil
}
