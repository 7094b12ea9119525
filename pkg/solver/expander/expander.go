// Package expander 将周循环模板展开为具体日期的班次实例
package expander

import (
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/errors"
	"github.com/roster/roster/pkg/model"
)

// Expander 模板展开器
// 模板目录和基础班次目录在构造时一次性解析完成，展开阶段不做延迟加载
type Expander struct {
	templates map[uuid.UUID]*model.WeeklyTemplate
	shifts    map[uuid.UUID]*model.Shift
}

// New 创建模板展开器
func New(templates []*model.WeeklyTemplate, shifts []*model.Shift) *Expander {
	e := &Expander{
		templates: make(map[uuid.UUID]*model.WeeklyTemplate, len(templates)),
		shifts:    make(map[uuid.UUID]*model.Shift, len(shifts)),
	}
	for _, t := range templates {
		e.templates[t.ID] = t
	}
	for _, s := range shifts {
		e.shifts[s.ID] = s
	}
	return e
}

// Expand 将方案的模板绑定展开为覆盖整个日期范围的具体班次列表
// 无匹配模板绑定的日期不产生班次（方案允许存在未排班的空档）
// 有效期重叠时按绑定的发现顺序取第一个匹配
// 输出按开始时间全局排序，开始时间相同按基础班次ID排序
func (e *Expander) Expand(schema *model.Schema) ([]*model.ConcreteShift, error) {
	dates, err := schema.Range().Dates()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidTimeRange, "方案日期范围无效")
	}

	var concrete []*model.ConcreteShift
	for _, date := range dates {
		assignment := firstCovering(schema.TemplateAssignments, date)
		if assignment == nil {
			continue
		}

		template, ok := e.templates[assignment.TemplateID]
		if !ok {
			return nil, errors.NotFound("周模板", assignment.TemplateID.String())
		}

		weekday, err := weekdayIndex(date)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidTimeRange, "无效的日期")
		}

		for _, ts := range template.ShiftsOnWeekday(weekday) {
			base, ok := e.shifts[ts.ShiftID]
			if !ok {
				return nil, errors.NotFound("基础班次", ts.ShiftID.String())
			}
			cs, err := model.NewConcreteShift(base, ts.PositionName, date)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInvalidInput, "班次实例化失败")
			}
			concrete = append(concrete, cs)
		}
	}

	model.SortConcreteShifts(concrete)
	return concrete, nil
}

// firstCovering 按发现顺序返回第一个覆盖指定日期的模板绑定
func firstCovering(assignments []model.TemplateAssignment, date string) *model.TemplateAssignment {
	for i := range assignments {
		if assignments[i].Covers(date) {
			return &assignments[i]
		}
	}
	return nil
}

// weekdayIndex 将日期转换为星期索引 (0=周一 .. 6=周日)
func weekdayIndex(date string) (int, error) {
	t, err := time.Parse(model.DateFormat, date)
	if err != nil {
		return 0, err
	}
	return (int(t.Weekday()) + 6) % 7, nil
}
