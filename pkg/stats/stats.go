// Package stats 提供排班结果的统计分析
package stats

import (
	"github.com/roster/roster/pkg/solver/solution"
)

// EmployeeLoad 单个员工的负载情况
type EmployeeLoad struct {
	EmployeeName string `json:"employee_name"`
	Assigned     int    `json:"assigned"`
	Target       int    `json:"target"`
	Deviation    int    `json:"deviation"` // |assigned - target|
}

// RosterStats 排班提案统计
type RosterStats struct {
	TotalShifts     int            `json:"total_shifts"`
	FilledShifts    int            `json:"filled_shifts"`
	UnfilledShifts  int            `json:"unfilled_shifts"`
	FillRate        float64        `json:"fill_rate"`
	TotalDeviation  int            `json:"total_deviation"` // 所有员工目标偏差之和
	EmployeeLoads   []EmployeeLoad `json:"employee_loads"`
}

// Analyze 对求解完成的分配模型计算统计指标
func Analyze(sol *solution.RosterSolution) *RosterStats {
	s := &RosterStats{}

	assignedCount := make(map[string]int)
	for _, a := range sol.Assignments() {
		s.TotalShifts++
		if a.Employee != nil {
			s.FilledShifts++
			assignedCount[a.Employee.Name]++
		} else {
			s.UnfilledShifts++
		}
	}

	if s.TotalShifts > 0 {
		s.FillRate = float64(s.FilledShifts) / float64(s.TotalShifts)
	}

	// 员工顺序跟随模型的员工快照，输出可复现
	for _, e := range sol.Employees() {
		deviation := assignedCount[e.Name] - e.TargetShiftCount
		if deviation < 0 {
			deviation = -deviation
		}
		s.EmployeeLoads = append(s.EmployeeLoads, EmployeeLoad{
			EmployeeName: e.Name,
			Assigned:     assignedCount[e.Name],
			Target:       e.TargetShiftCount,
			Deviation:    deviation,
		})
		s.TotalDeviation += deviation
	}

	return s
}
