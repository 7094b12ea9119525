package stats

import (
	"testing"

	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/availability"
	"github.com/roster/roster/pkg/solver/solution"
)

func buildSolution(t *testing.T) (*solution.RosterSolution, []*model.Employee, []*model.ConcreteShift) {
	t.Helper()
	base := &model.Shift{BaseModel: model.NewBaseModel(), Name: "白班", StartTime: "09:00", EndTime: "17:00"}

	entries := []*model.AvailabilityEntry{
		{BaseModel: model.NewBaseModel(), StaffName: "张三", TargetShiftCount: 2},
		{BaseModel: model.NewBaseModel(), StaffName: "李四", TargetShiftCount: 1},
	}
	employees := []*model.Employee{
		model.EmployeeFromEntry(entries[0]),
		model.EmployeeFromEntry(entries[1]),
	}

	var shifts []*model.ConcreteShift
	for _, date := range []string{"2026-01-12", "2026-01-13", "2026-01-14", "2026-01-15"} {
		cs, err := model.NewConcreteShift(base, "前台", date)
		if err != nil {
			t.Fatal(err)
		}
		shifts = append(shifts, cs)
	}

	return solution.New(employees, shifts, availability.NewIndex(entries)), employees, shifts
}

func TestAnalyze(t *testing.T) {
	sol, employees, shifts := buildSolution(t)

	// 张三2个班次（达标），李四1个（达标），1个空班次
	if err := sol.Assign(shifts[0].ID, employees[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := sol.Assign(shifts[1].ID, employees[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := sol.Assign(shifts[2].ID, employees[1].ID); err != nil {
		t.Fatal(err)
	}

	s := Analyze(sol)

	if s.TotalShifts != 4 {
		t.Errorf("TotalShifts = %d, expected 4", s.TotalShifts)
	}
	if s.FilledShifts != 3 {
		t.Errorf("FilledShifts = %d, expected 3", s.FilledShifts)
	}
	if s.UnfilledShifts != 1 {
		t.Errorf("UnfilledShifts = %d, expected 1", s.UnfilledShifts)
	}
	if s.FillRate != 0.75 {
		t.Errorf("FillRate = %f, expected 0.75", s.FillRate)
	}
	if s.TotalDeviation != 0 {
		t.Errorf("TotalDeviation = %d, expected 0", s.TotalDeviation)
	}

	if len(s.EmployeeLoads) != 2 {
		t.Fatalf("len(EmployeeLoads) = %d, expected 2", len(s.EmployeeLoads))
	}
	for _, load := range s.EmployeeLoads {
		if load.Deviation != 0 {
			t.Errorf("%s 的偏差 = %d, expected 0", load.EmployeeName, load.Deviation)
		}
	}
}

func TestAnalyze_Deviation(t *testing.T) {
	sol, employees, shifts := buildSolution(t)

	// 李四拿到2个班次（目标1，偏差1），张三0个（目标2，偏差2）
	if err := sol.Assign(shifts[0].ID, employees[1].ID); err != nil {
		t.Fatal(err)
	}
	if err := sol.Assign(shifts[1].ID, employees[1].ID); err != nil {
		t.Fatal(err)
	}

	s := Analyze(sol)

	if s.TotalDeviation != 3 {
		t.Errorf("TotalDeviation = %d, expected 3", s.TotalDeviation)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	sol := solution.New(nil, nil, availability.NewIndex(nil))

	s := Analyze(sol)
	if s.TotalShifts != 0 || s.FillRate != 0 {
		t.Error("空模型的统计应为零值")
	}
}
