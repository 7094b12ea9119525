package model

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Shift 基础班次定义
type Shift struct {
	BaseModel
	Name      string `json:"name" db:"name"`
	StartTime string `json:"start_time" db:"start_time"` // HH:MM
	EndTime   string `json:"end_time" db:"end_time"`     // HH:MM
}

// IsOvernight 检查是否为跨夜班次（结束时刻不晚于开始时刻）
func (s *Shift) IsOvernight() bool {
	return s.EndTime <= s.StartTime
}

// ConcreteShift 具体化的班次实例（求解器视角）
// 由模板展开器为某个日历日期物化生成，回链到基础班次以便结果回写
type ConcreteShift struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"` // "基础班次名 (岗位名)"
	Date         string    `json:"date"` // YYYY-MM-DD
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	BaseShiftID  uuid.UUID `json:"base_shift_id"`
	PositionName string    `json:"position_name"`
}

// NewConcreteShift 从基础班次和模板槽位物化一个具体班次
func NewConcreteShift(base *Shift, position, date string) (*ConcreteShift, error) {
	start, err := time.Parse(DateFormat+" "+TimeFormat, date+" "+base.StartTime)
	if err != nil {
		return nil, fmt.Errorf("无效的班次开始时刻 %q: %w", base.StartTime, err)
	}
	end, err := time.Parse(DateFormat+" "+TimeFormat, date+" "+base.EndTime)
	if err != nil {
		return nil, fmt.Errorf("无效的班次结束时刻 %q: %w", base.EndTime, err)
	}
	// 跨夜班次的结束时间落在次日
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return &ConcreteShift{
		ID:           uuid.New(),
		Name:         fmt.Sprintf("%s (%s)", base.Name, position),
		Date:         date,
		Start:        start,
		End:          end,
		BaseShiftID:  base.ID,
		PositionName: position,
	}, nil
}

// Range 返回班次的时间范围
func (cs *ConcreteShift) Range() TimeRange {
	return TimeRange{Start: cs.Start, End: cs.End}
}

// Overlaps 检查两个具体班次是否时间重叠
func (cs *ConcreteShift) Overlaps(other *ConcreteShift) bool {
	return cs.Range().Overlaps(other.Range())
}

// SortConcreteShifts 按开始时间排序，开始时间相同时按基础班次ID排序
// 稳定的全序是下游求解确定性的前提
func SortConcreteShifts(shifts []*ConcreteShift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		if !shifts[i].Start.Equal(shifts[j].Start) {
			return shifts[i].Start.Before(shifts[j].Start)
		}
		return bytes.Compare(shifts[i].BaseShiftID[:], shifts[j].BaseShiftID[:]) < 0
	})
}
