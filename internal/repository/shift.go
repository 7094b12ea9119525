// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/errors"
	"github.com/roster/roster/pkg/model"
)

// ShiftRepository 基础班次目录仓储
type ShiftRepository struct {
	db DB
}

// NewShiftRepository 创建基础班次仓储
func NewShiftRepository(db DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create 创建基础班次
func (r *ShiftRepository) Create(ctx context.Context, shift *model.Shift) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	now := time.Now()
	shift.CreatedAt = now
	shift.UpdatedAt = now

	query := `
		INSERT INTO shifts (id, name, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.Name, shift.StartTime, shift.EndTime,
		shift.CreatedAt, shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建基础班次失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取基础班次，不存在时返回 nil
func (r *ShiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	query := `
		SELECT id, name, start_time, end_time, created_at, updated_at
		FROM shifts
		WHERE id = $1 AND deleted_at IS NULL
	`

	shift := &model.Shift{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&shift.ID, &shift.Name, &shift.StartTime, &shift.EndTime,
		&shift.CreatedAt, &shift.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询基础班次失败: %w", err)
	}

	return shift, nil
}

// FindShiftByID 按ID解析基础班次，不存在时返回错误
// 用于求解结果回写时的目录查询
func (r *ShiftRepository) FindShiftByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	shift, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, errors.NotFound("基础班次", id.String())
	}
	return shift, nil
}

// ListAll 返回目录中全部基础班次
func (r *ShiftRepository) ListAll(ctx context.Context) ([]*model.Shift, error) {
	query := `
		SELECT id, name, start_time, end_time, created_at, updated_at
		FROM shifts
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询基础班次列表失败: %w", err)
	}
	defer rows.Close()

	var shifts []*model.Shift
	for rows.Next() {
		shift := &model.Shift{}
		if err := rows.Scan(
			&shift.ID, &shift.Name, &shift.StartTime, &shift.EndTime,
			&shift.CreatedAt, &shift.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描基础班次失败: %w", err)
		}
		shifts = append(shifts, shift)
	}

	return shifts, rows.Err()
}

// Delete 软删除基础班次
func (r *ShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shifts SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除基础班次失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("基础班次不存在")
	}

	return nil
}
