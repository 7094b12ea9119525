// Package solution 定义求解器的可变工作状态（分配模型）
package solution

import (
	"github.com/google/uuid"
	"github.com/roster/roster/pkg/errors"
	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/availability"
)

// Assignment 一个具体班次与至多一名员工的配对
type Assignment struct {
	Shift    *model.ConcreteShift
	Employee *model.Employee // nil 表示未分配
}

// RosterSolution 一次求解的完整工作状态
// 由单个求解协程独占持有，求解期间不允许外部并发修改
// 每个具体班次恰好对应一条分配记录（1:1 不变量），员工可为空
type RosterSolution struct {
	employees []*model.Employee
	shifts    []*model.ConcreteShift // 已排序（开始时间 + 基础班次ID）
	index     *availability.Index

	assigned  map[uuid.UUID]uuid.UUID // shiftID -> employeeID
	shiftByID map[uuid.UUID]*model.ConcreteShift
	empByID   map[uuid.UUID]*model.Employee
	empByName map[string]*model.Employee
}

// New 构建分配模型，所有班次初始为未分配状态
// 入参在构造时快照，构造后对切片的外部修改不影响模型
func New(employees []*model.Employee, shifts []*model.ConcreteShift, index *availability.Index) *RosterSolution {
	s := &RosterSolution{
		employees: make([]*model.Employee, len(employees)),
		shifts:    make([]*model.ConcreteShift, len(shifts)),
		index:     index,
		assigned:  make(map[uuid.UUID]uuid.UUID, len(shifts)),
		shiftByID: make(map[uuid.UUID]*model.ConcreteShift, len(shifts)),
		empByID:   make(map[uuid.UUID]*model.Employee, len(employees)),
		empByName: make(map[string]*model.Employee, len(employees)),
	}
	copy(s.employees, employees)
	copy(s.shifts, shifts)
	model.SortConcreteShifts(s.shifts)

	for _, sh := range s.shifts {
		s.shiftByID[sh.ID] = sh
	}
	for _, e := range s.employees {
		s.empByID[e.ID] = e
		s.empByName[e.Name] = e
	}
	return s
}

// Employees 返回候选员工列表
func (s *RosterSolution) Employees() []*model.Employee {
	return s.employees
}

// Shifts 返回全部具体班次（按时间顺序）
func (s *RosterSolution) Shifts() []*model.ConcreteShift {
	return s.shifts
}

// Availability 返回只读的可用性索引
func (s *RosterSolution) Availability() *availability.Index {
	return s.index
}

// EmployeeByName 按员工名查找员工
func (s *RosterSolution) EmployeeByName(name string) (*model.Employee, bool) {
	e, ok := s.empByName[name]
	return e, ok
}

// Assign 将班次分配给员工
// 未知的班次或员工ID视为调用方错误
func (s *RosterSolution) Assign(shiftID, employeeID uuid.UUID) error {
	if _, ok := s.shiftByID[shiftID]; !ok {
		return errors.NotFound("具体班次", shiftID.String())
	}
	if _, ok := s.empByID[employeeID]; !ok {
		return errors.NotFound("员工", employeeID.String())
	}
	s.assigned[shiftID] = employeeID
	return nil
}

// Unassign 取消班次的分配
func (s *RosterSolution) Unassign(shiftID uuid.UUID) {
	delete(s.assigned, shiftID)
}

// AssignedEmployee 返回班次当前分配的员工
func (s *RosterSolution) AssignedEmployee(shiftID uuid.UUID) (*model.Employee, bool) {
	empID, ok := s.assigned[shiftID]
	if !ok {
		return nil, false
	}
	return s.empByID[empID], true
}

// UnassignedShifts 返回所有未分配的班次（按时间顺序）
func (s *RosterSolution) UnassignedShifts() []*model.ConcreteShift {
	var result []*model.ConcreteShift
	for _, sh := range s.shifts {
		if _, ok := s.assigned[sh.ID]; !ok {
			result = append(result, sh)
		}
	}
	return result
}

// AssignedShifts 返回所有已分配的班次（按时间顺序）
func (s *RosterSolution) AssignedShifts() []*model.ConcreteShift {
	var result []*model.ConcreteShift
	for _, sh := range s.shifts {
		if _, ok := s.assigned[sh.ID]; ok {
			result = append(result, sh)
		}
	}
	return result
}

// AssignedCount 返回员工当前被分配的班次数
func (s *RosterSolution) AssignedCount(employeeID uuid.UUID) int {
	count := 0
	for _, empID := range s.assigned {
		if empID == employeeID {
			count++
		}
	}
	return count
}

// Assignments 按班次时间顺序返回全部分配记录（含未分配行）
func (s *RosterSolution) Assignments() []Assignment {
	result := make([]Assignment, 0, len(s.shifts))
	for _, sh := range s.shifts {
		a := Assignment{Shift: sh}
		if empID, ok := s.assigned[sh.ID]; ok {
			a.Employee = s.empByID[empID]
		}
		result = append(result, a)
	}
	return result
}

// HasConflict 检查将班次分配给员工是否会与其现有分配产生时间重叠
func (s *RosterSolution) HasConflict(shift *model.ConcreteShift, employeeID uuid.UUID) bool {
	for _, other := range s.shifts {
		if other.ID == shift.ID {
			continue
		}
		if empID, ok := s.assigned[other.ID]; ok && empID == employeeID && shift.Overlaps(other) {
			return true
		}
	}
	return false
}

// Score 全量计算当前状态的得分
// 硬约束: 不可用日分配每条-1；同一员工时间重叠的班次每对-1
// 软约束: 未分配班次每个-1；每名员工 |实际班次数 - 目标班次数| 各-1
func (s *RosterSolution) Score() Score {
	var score Score

	// 每名员工的已分配班次（保持时间顺序）
	byEmployee := make(map[uuid.UUID][]*model.ConcreteShift, len(s.employees))
	assignedTotal := 0

	for _, sh := range s.shifts {
		empID, ok := s.assigned[sh.ID]
		if !ok {
			score.Soft-- // 未分配班次
			continue
		}
		assignedTotal++

		emp := s.empByID[empID]
		if !s.index.IsAvailable(emp.Name, sh.Date) {
			score.Hard--
		}
		byEmployee[empID] = append(byEmployee[empID], sh)
	}

	// 同一员工的时间重叠对
	for _, shifts := range byEmployee {
		for i := 0; i < len(shifts); i++ {
			for j := i + 1; j < len(shifts); j++ {
				if shifts[i].Overlaps(shifts[j]) {
					score.Hard--
				}
			}
		}
	}

	// 与目标班次数的偏差
	for _, e := range s.employees {
		deviation := len(byEmployee[e.ID]) - e.TargetShiftCount
		if deviation < 0 {
			deviation = -deviation
		}
		score.Soft -= deviation
	}

	return score
}

// Clone 深拷贝分配状态
// 班次、员工和可用性索引为只读快照，只复制引用
func (s *RosterSolution) Clone() *RosterSolution {
	clone := &RosterSolution{
		employees: s.employees,
		shifts:    s.shifts,
		index:     s.index,
		assigned:  make(map[uuid.UUID]uuid.UUID, len(s.assigned)),
		shiftByID: s.shiftByID,
		empByID:   s.empByID,
		empByName: s.empByName,
	}
	for k, v := range s.assigned {
		clone.assigned[k] = v
	}
	return clone
}

// CopyAssignmentsFrom 用另一个状态的分配覆盖当前分配
// 两个状态必须来自同一次构造（共享班次与员工快照）
func (s *RosterSolution) CopyAssignmentsFrom(other *RosterSolution) {
	s.assigned = make(map[uuid.UUID]uuid.UUID, len(other.assigned))
	for k, v := range other.assigned {
		s.assigned[k] = v
	}
}
