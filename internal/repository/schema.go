// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/model"
)

// SchemaRepository 排班方案仓储
type SchemaRepository struct {
	db DB
}

// NewSchemaRepository 创建排班方案仓储
func NewSchemaRepository(db DB) *SchemaRepository {
	return &SchemaRepository{db: db}
}

// Create 创建排班方案
func (r *SchemaRepository) Create(ctx context.Context, schema *model.Schema) error {
	if schema.ID == uuid.Nil {
		schema.ID = uuid.New()
	}
	now := time.Now()
	schema.CreatedAt = now
	schema.UpdatedAt = now

	query := `
		INSERT INTO schemas (id, name, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		schema.ID, schema.Name, schema.StartDate, schema.EndDate,
		schema.CreatedAt, schema.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建排班方案失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取排班方案（含模板绑定）
func (r *SchemaRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schema, error) {
	query := `
		SELECT id, name, start_date, end_date, created_at, updated_at
		FROM schemas
		WHERE id = $1 AND deleted_at IS NULL
	`

	schema := &model.Schema{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&schema.ID, &schema.Name, &schema.StartDate, &schema.EndDate,
		&schema.CreatedAt, &schema.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询排班方案失败: %w", err)
	}

	assignments, err := r.getTemplateAssignments(ctx, id)
	if err != nil {
		return nil, err
	}
	schema.TemplateAssignments = assignments

	return schema, nil
}

// getTemplateAssignments 加载方案的模板绑定
// 按创建顺序返回，展开时取第一个覆盖目标日期的绑定
func (r *SchemaRepository) getTemplateAssignments(ctx context.Context, schemaID uuid.UUID) ([]model.TemplateAssignment, error) {
	query := `
		SELECT id, schema_id, template_id, valid_from, valid_to, created_at, updated_at
		FROM template_assignments
		WHERE schema_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, schemaID)
	if err != nil {
		return nil, fmt.Errorf("查询模板绑定失败: %w", err)
	}
	defer rows.Close()

	var assignments []model.TemplateAssignment
	for rows.Next() {
		var ta model.TemplateAssignment
		if err := rows.Scan(
			&ta.ID, &ta.SchemaID, &ta.TemplateID, &ta.ValidFrom, &ta.ValidTo,
			&ta.CreatedAt, &ta.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描模板绑定失败: %w", err)
		}
		assignments = append(assignments, ta)
	}

	return assignments, rows.Err()
}

// AddTemplateAssignment 为方案添加模板绑定
func (r *SchemaRepository) AddTemplateAssignment(ctx context.Context, ta *model.TemplateAssignment) error {
	if ta.ID == uuid.Nil {
		ta.ID = uuid.New()
	}
	now := time.Now()
	ta.CreatedAt = now
	ta.UpdatedAt = now

	query := `
		INSERT INTO template_assignments (id, schema_id, template_id, valid_from, valid_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		ta.ID, ta.SchemaID, ta.TemplateID, ta.ValidFrom, ta.ValidTo,
		ta.CreatedAt, ta.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建模板绑定失败: %w", err)
	}

	return nil
}

// Update 更新排班方案
func (r *SchemaRepository) Update(ctx context.Context, schema *model.Schema) error {
	schema.UpdatedAt = time.Now()

	query := `
		UPDATE schemas SET name = $2, start_date = $3, end_date = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		schema.ID, schema.Name, schema.StartDate, schema.EndDate, schema.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新排班方案失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("排班方案不存在")
	}

	return nil
}

// Delete 软删除排班方案
func (r *SchemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE schemas SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除排班方案失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("排班方案不存在")
	}

	return nil
}

// List 查询排班方案列表
func (r *SchemaRepository) List(ctx context.Context, filter ListFilter) ([]*model.Schema, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("end_date >= $%d", argIndex))
		args = append(args, filter.StartDate)
		argIndex++
	}

	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", argIndex))
		args = append(args, filter.EndDate)
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM schemas WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计排班方案失败: %w", err)
	}

	orderBy := "created_at"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, name, start_date, end_date, created_at, updated_at
		FROM schemas
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, orderDir, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询排班方案列表失败: %w", err)
	}
	defer rows.Close()

	var schemas []*model.Schema
	for rows.Next() {
		schema := &model.Schema{}
		if err := rows.Scan(
			&schema.ID, &schema.Name, &schema.StartDate, &schema.EndDate,
			&schema.CreatedAt, &schema.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("扫描排班方案失败: %w", err)
		}
		schemas = append(schemas, schema)
	}

	return schemas, total, rows.Err()
}
