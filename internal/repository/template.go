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

// TemplateRepository 周模板仓储
type TemplateRepository struct {
	db DB
}

// NewTemplateRepository 创建周模板仓储
func NewTemplateRepository(db DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create 创建周模板（含班次槽位）
func (r *TemplateRepository) Create(ctx context.Context, template *model.WeeklyTemplate) error {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	now := time.Now()
	template.CreatedAt = now
	template.UpdatedAt = now

	query := `
		INSERT INTO weekly_templates (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query,
		template.ID, template.Name, template.CreatedAt, template.UpdatedAt,
	); err != nil {
		return fmt.Errorf("创建周模板失败: %w", err)
	}

	for i := range template.Shifts {
		ts := &template.Shifts[i]
		ts.TemplateID = template.ID
		if err := r.createTemplateShift(ctx, ts); err != nil {
			return err
		}
	}

	return nil
}

// createTemplateShift 创建模板班次槽位
func (r *TemplateRepository) createTemplateShift(ctx context.Context, ts *model.TemplateShift) error {
	if ts.ID == uuid.Nil {
		ts.ID = uuid.New()
	}
	now := time.Now()
	ts.CreatedAt = now
	ts.UpdatedAt = now

	query := `
		INSERT INTO template_shifts (id, template_id, shift_id, weekday, position_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := r.db.ExecContext(ctx, query,
		ts.ID, ts.TemplateID, ts.ShiftID, ts.Weekday, ts.PositionName,
		ts.CreatedAt, ts.UpdatedAt,
	); err != nil {
		return fmt.Errorf("创建模板班次槽位失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取周模板（含班次槽位）
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.WeeklyTemplate, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM weekly_templates
		WHERE id = $1 AND deleted_at IS NULL
	`

	template := &model.WeeklyTemplate{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&template.ID, &template.Name, &template.CreatedAt, &template.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询周模板失败: %w", err)
	}

	shifts, err := r.getTemplateShifts(ctx, id)
	if err != nil {
		return nil, err
	}
	template.Shifts = shifts

	return template, nil
}

// GetByIDs 批量获取周模板（含班次槽位），用于展开前装载
func (r *TemplateRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.WeeklyTemplate, error) {
	var templates []*model.WeeklyTemplate
	seen := make(map[uuid.UUID]bool, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		template, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if template != nil {
			templates = append(templates, template)
		}
	}

	return templates, nil
}

// getTemplateShifts 加载模板的班次槽位
func (r *TemplateRepository) getTemplateShifts(ctx context.Context, templateID uuid.UUID) ([]model.TemplateShift, error) {
	query := `
		SELECT id, template_id, shift_id, weekday, position_name, created_at, updated_at
		FROM template_shifts
		WHERE template_id = $1 AND deleted_at IS NULL
		ORDER BY weekday ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("查询模板班次槽位失败: %w", err)
	}
	defer rows.Close()

	var shifts []model.TemplateShift
	for rows.Next() {
		var ts model.TemplateShift
		if err := rows.Scan(
			&ts.ID, &ts.TemplateID, &ts.ShiftID, &ts.Weekday, &ts.PositionName,
			&ts.CreatedAt, &ts.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描模板班次槽位失败: %w", err)
		}
		shifts = append(shifts, ts)
	}

	return shifts, rows.Err()
}

// Delete 软删除周模板
func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE weekly_templates SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除周模板失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("周模板不存在")
	}

	return nil
}
