package model

import (
	"github.com/google/uuid"
)

// AvailabilityStatus 可用性状态
type AvailabilityStatus string

const (
	// StatusUnavailable 当日不可排班
	StatusUnavailable AvailabilityStatus = "UNAVAILABLE"
	// StatusPreferred 当日偏好排班（为未来偏好级别预留，当前不参与评分）
	StatusPreferred AvailabilityStatus = "PREFERRED"
)

// AvailabilityEntry 员工针对某个排班方案提交的可用性记录
// 每个员工每个方案一条，缺省（没有明细）视为完全可用
type AvailabilityEntry struct {
	BaseModel
	SchemaID         uuid.UUID            `json:"schema_id" db:"schema_id"`
	StaffName        string               `json:"staff_name" db:"staff_name"`
	TargetShiftCount int                  `json:"target_shift_count" db:"target_shift_count"`
	Details          []AvailabilityDetail `json:"details,omitempty" db:"-"`
}

// AvailabilityDetail 单日可用性明细
type AvailabilityDetail struct {
	BaseModel
	EntryID uuid.UUID          `json:"entry_id" db:"entry_id"`
	Date    string             `json:"date" db:"date"` // YYYY-MM-DD
	Status  AvailabilityStatus `json:"status" db:"status"`
}

// Employee 求解器视角的员工
// 身份和目标班次数在一次求解期间不可变
type Employee struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	TargetShiftCount int       `json:"target_shift_count"`
}

// EmployeeFromEntry 从可用性记录构造求解器员工
func EmployeeFromEntry(entry *AvailabilityEntry) *Employee {
	return &Employee{
		ID:               entry.ID,
		Name:             entry.StaffName,
		TargetShiftCount: entry.TargetShiftCount,
	}
}
