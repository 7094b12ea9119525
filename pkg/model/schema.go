package model

import (
	"github.com/google/uuid"
)

// 星期索引: 0=周一 .. 6=周日
const (
	WeekdayMonday = iota
	WeekdayTuesday
	WeekdayWednesday
	WeekdayThursday
	WeekdayFriday
	WeekdaySaturday
	WeekdaySunday
)

// Schema 排班方案定义（用户定义的排班问题实例）
type Schema struct {
	BaseModel
	Name                string               `json:"name" db:"name"`
	StartDate           string               `json:"start_date" db:"start_date"` // YYYY-MM-DD
	EndDate             string               `json:"end_date" db:"end_date"`     // YYYY-MM-DD
	TemplateAssignments []TemplateAssignment `json:"template_assignments,omitempty" db:"-"`
}

// Range 返回方案覆盖的日期范围
func (s *Schema) Range() DateRange {
	return DateRange{StartDate: s.StartDate, EndDate: s.EndDate}
}

// TemplateAssignment 周模板与有效期的绑定
// 同一方案下多个绑定的有效期不应重叠；若重叠，按发现顺序取第一个匹配（文档化策略）
type TemplateAssignment struct {
	BaseModel
	SchemaID   uuid.UUID `json:"schema_id" db:"schema_id"`
	TemplateID uuid.UUID `json:"template_id" db:"template_id"`
	ValidFrom  string    `json:"valid_from" db:"valid_from"` // YYYY-MM-DD（含）
	ValidTo    string    `json:"valid_to" db:"valid_to"`     // YYYY-MM-DD（含）
}

// Covers 检查绑定在指定日期是否有效
func (ta *TemplateAssignment) Covers(date string) bool {
	return date >= ta.ValidFrom && date <= ta.ValidTo
}

// WeeklyTemplate 周循环排班模板
type WeeklyTemplate struct {
	BaseModel
	Name   string          `json:"name" db:"name"`
	Shifts []TemplateShift `json:"shifts,omitempty" db:"-"`
}

// ShiftsOnWeekday 返回模板在指定星期的班次槽位
func (t *WeeklyTemplate) ShiftsOnWeekday(weekday int) []TemplateShift {
	var result []TemplateShift
	for _, ts := range t.Shifts {
		if ts.Weekday == weekday {
			result = append(result, ts)
		}
	}
	return result
}

// TemplateShift 模板中的单个班次槽位
type TemplateShift struct {
	BaseModel
	TemplateID   uuid.UUID `json:"template_id" db:"template_id"`
	ShiftID      uuid.UUID `json:"shift_id" db:"shift_id"` // 基础班次引用
	Weekday      int       `json:"weekday" db:"weekday"`   // 0=周一 .. 6=周日
	PositionName string    `json:"position_name" db:"position_name"`
}
