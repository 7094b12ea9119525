// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateFormat 日期格式
const DateFormat = "2006-01-02"

// TimeFormat 时刻格式 (HH:MM)
const TimeFormat = "15:04"

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JSONMap 用于存储 JSONB 数据
type JSONMap map[string]interface{}

// TimeRange 时间范围
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration 返回时间范围的持续时间
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Overlaps 检查两个时间范围是否重叠
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

// Contains 检查时间范围是否包含某个时间点
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// DateRange 日期范围（闭区间）
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Dates 返回范围内的所有日期（按时间顺序）
func (dr DateRange) Dates() ([]string, error) {
	start, err := time.Parse(DateFormat, dr.StartDate)
	if err != nil {
		return nil, fmt.Errorf("无效的开始日期 %q: %w", dr.StartDate, err)
	}
	end, err := time.Parse(DateFormat, dr.EndDate)
	if err != nil {
		return nil, fmt.Errorf("无效的结束日期 %q: %w", dr.EndDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("结束日期 %s 早于开始日期 %s", dr.EndDate, dr.StartDate)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateFormat))
	}
	return dates, nil
}

// ContainsDate 检查日期是否落在范围内
func (dr DateRange) ContainsDate(date string) bool {
	return date >= dr.StartDate && date <= dr.EndDate
}
