// Package repository 提供数据访问层
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/model"
)

// AvailabilityRepository 员工可用性仓储
type AvailabilityRepository struct {
	db DB
}

// NewAvailabilityRepository 创建可用性仓储
func NewAvailabilityRepository(db DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create 创建可用性记录（含单日明细）
func (r *AvailabilityRepository) Create(ctx context.Context, entry *model.AvailabilityEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `
		INSERT INTO availability_entries (id, schema_id, staff_name, target_shift_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.SchemaID, entry.StaffName, entry.TargetShiftCount,
		entry.CreatedAt, entry.UpdatedAt,
	); err != nil {
		return fmt.Errorf("创建可用性记录失败: %w", err)
	}

	for i := range entry.Details {
		d := &entry.Details[i]
		d.EntryID = entry.ID
		if err := r.createDetail(ctx, d); err != nil {
			return err
		}
	}

	return nil
}

// createDetail 创建单日可用性明细
func (r *AvailabilityRepository) createDetail(ctx context.Context, detail *model.AvailabilityDetail) error {
	if detail.ID == uuid.Nil {
		detail.ID = uuid.New()
	}
	now := time.Now()
	detail.CreatedAt = now
	detail.UpdatedAt = now

	query := `
		INSERT INTO availability_details (id, entry_id, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.db.ExecContext(ctx, query,
		detail.ID, detail.EntryID, detail.Date, detail.Status,
		detail.CreatedAt, detail.UpdatedAt,
	); err != nil {
		return fmt.Errorf("创建可用性明细失败: %w", err)
	}

	return nil
}

// ListBySchema 查询方案下全部可用性记录（含明细）
// 按员工名排序，保证求解输入的顺序可复现
func (r *AvailabilityRepository) ListBySchema(ctx context.Context, schemaID uuid.UUID) ([]*model.AvailabilityEntry, error) {
	query := `
		SELECT id, schema_id, staff_name, target_shift_count, created_at, updated_at
		FROM availability_entries
		WHERE schema_id = $1 AND deleted_at IS NULL
		ORDER BY staff_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, schemaID)
	if err != nil {
		return nil, fmt.Errorf("查询可用性记录失败: %w", err)
	}
	defer rows.Close()

	var entries []*model.AvailabilityEntry
	for rows.Next() {
		entry := &model.AvailabilityEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.SchemaID, &entry.StaffName, &entry.TargetShiftCount,
			&entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描可用性记录失败: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		details, err := r.getDetails(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		entry.Details = details
	}

	return entries, nil
}

// getDetails 加载可用性记录的单日明细
func (r *AvailabilityRepository) getDetails(ctx context.Context, entryID uuid.UUID) ([]model.AvailabilityDetail, error) {
	query := `
		SELECT id, entry_id, date, status, created_at, updated_at
		FROM availability_details
		WHERE entry_id = $1 AND deleted_at IS NULL
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("查询可用性明细失败: %w", err)
	}
	defer rows.Close()

	var details []model.AvailabilityDetail
	for rows.Next() {
		var d model.AvailabilityDetail
		if err := rows.Scan(
			&d.ID, &d.EntryID, &d.Date, &d.Status,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描可用性明细失败: %w", err)
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

// DeleteBySchema 软删除方案下的全部可用性记录
func (r *AvailabilityRepository) DeleteBySchema(ctx context.Context, schemaID uuid.UUID) error {
	query := `UPDATE availability_entries SET deleted_at = $2 WHERE schema_id = $1 AND deleted_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, schemaID, time.Now()); err != nil {
		return fmt.Errorf("删除可用性记录失败: %w", err)
	}

	return nil
}
