package solution

import (
	"testing"

	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/availability"
)

func employee(name string, target int) *model.Employee {
	e := model.EmployeeFromEntry(&model.AvailabilityEntry{
		BaseModel:        model.NewBaseModel(),
		StaffName:        name,
		TargetShiftCount: target,
	})
	return e
}

func concrete(t *testing.T, name, start, end, position, date string) *model.ConcreteShift {
	t.Helper()
	base := &model.Shift{
		BaseModel: model.NewBaseModel(),
		Name:      name,
		StartTime: start,
		EndTime:   end,
	}
	cs, err := model.NewConcreteShift(base, position, date)
	if err != nil {
		t.Fatalf("构造具体班次失败: %v", err)
	}
	return cs
}

func indexWith(entries ...*model.AvailabilityEntry) *availability.Index {
	return availability.NewIndex(entries)
}

func TestSolution_AssignUnassign(t *testing.T) {
	emp := employee("张三", 1)
	sh := concrete(t, "早班", "08:00", "16:00", "服务员", "2026-01-12")
	sol := New([]*model.Employee{emp}, []*model.ConcreteShift{sh}, indexWith())

	if err := sol.Assign(sh.ID, emp.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	got, ok := sol.AssignedEmployee(sh.ID)
	if !ok || got.Name != "张三" {
		t.Error("分配后应能查询到员工")
	}
	if len(sol.UnassignedShifts()) != 0 {
		t.Error("不应有未分配班次")
	}

	sol.Unassign(sh.ID)
	if _, ok := sol.AssignedEmployee(sh.ID); ok {
		t.Error("取消分配后不应查询到员工")
	}
}

func TestSolution_AssignUnknownIDs(t *testing.T) {
	emp := employee("张三", 1)
	sh := concrete(t, "早班", "08:00", "16:00", "服务员", "2026-01-12")
	other := concrete(t, "晚班", "16:00", "23:00", "服务员", "2026-01-12")
	sol := New([]*model.Employee{emp}, []*model.ConcreteShift{sh}, indexWith())

	if err := sol.Assign(other.ID, emp.ID); err == nil {
		t.Error("未知班次ID应返回错误")
	}
	if err := sol.Assign(sh.ID, other.ID); err == nil {
		t.Error("未知员工ID应返回错误")
	}
}

func TestSolution_Score_UnassignedShifts(t *testing.T) {
	emp := employee("张三", 0)
	s1 := concrete(t, "早班", "08:00", "16:00", "A", "2026-01-12")
	s2 := concrete(t, "晚班", "16:00", "23:00", "A", "2026-01-12")
	sol := New([]*model.Employee{emp}, []*model.ConcreteShift{s1, s2}, indexWith())

	score := sol.Score()
	if score.Hard != 0 {
		t.Errorf("Hard = %d, expected 0", score.Hard)
	}
	// 两个未分配班次各-1
	if score.Soft != -2 {
		t.Errorf("Soft = %d, expected -2", score.Soft)
	}
}

func TestSolution_Score_UnavailableDay(t *testing.T) {
	entry := &model.AvailabilityEntry{
		BaseModel:        model.NewBaseModel(),
		StaffName:        "张三",
		TargetShiftCount: 1,
		Details: []model.AvailabilityDetail{
			{Date: "2026-01-12", Status: model.StatusUnavailable},
		},
	}
	emp := model.EmployeeFromEntry(entry)
	sh := concrete(t, "早班", "08:00", "16:00", "A", "2026-01-12")
	sol := New([]*model.Employee{emp}, []*model.ConcreteShift{sh}, indexWith(entry))

	if err := sol.Assign(sh.ID, emp.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	score := sol.Score()
	if score.Hard != -1 {
		t.Errorf("不可用日分配 Hard = %d, expected -1", score.Hard)
	}
	if score.Soft != 0 {
		t.Errorf("Soft = %d, expected 0", score.Soft)
	}
}

func TestSolution_Score_OverlapPairs(t *testing.T) {
	emp := employee("张三", 3)
	// 三个两两重叠的班次
	s1 := concrete(t, "甲", "08:00", "12:00", "A", "2026-01-12")
	s2 := concrete(t, "乙", "09:00", "13:00", "A", "2026-01-12")
	s3 := concrete(t, "丙", "10:00", "14:00", "A", "2026-01-12")
	sol := New([]*model.Employee{emp}, []*model.ConcreteShift{s1, s2, s3}, indexWith())

	for _, sh := range []*model.ConcreteShift{s1, s2, s3} {
		if err := sol.Assign(sh.ID, emp.ID); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
	}

	score := sol.Score()
	// 三个班次构成3个重叠对
	if score.Hard != -3 {
		t.Errorf("Hard = %d, expected -3", score.Hard)
	}
}

func TestSolution_Score_TargetDeviation(t *testing.T) {
	over := employee("张三", 1)
	under := employee("李四", 2)
	s1 := concrete(t, "甲", "08:00", "12:00", "A", "2026-01-12")
	s2 := concrete(t, "乙", "13:00", "17:00", "A", "2026-01-12")
	sol := New([]*model.Employee{over, under}, []*model.ConcreteShift{s1, s2}, indexWith())

	// 张三拿到2个班次（目标1，偏差1），李四0个（目标2，偏差2）
	if err := sol.Assign(s1.ID, over.ID); err != nil {
		t.Fatal(err)
	}
	if err := sol.Assign(s2.ID, over.ID); err != nil {
		t.Fatal(err)
	}

	score := sol.Score()
	if score.Hard != 0 {
		t.Errorf("Hard = %d, expected 0", score.Hard)
	}
	if score.Soft != -3 {
		t.Errorf("Soft = %d, expected -3 (偏差1+2)", score.Soft)
	}
}

func TestSolution_HasConflict(t *testing.T) {
	emp := employee("张三", 2)
	s1 := concrete(t, "甲", "08:00", "16:00", "A", "2026-01-12")
	s2 := concrete(t, "乙", "12:00", "20:00", "A", "2026-01-12")
	s3 := concrete(t, "丙", "16:00", "23:00", "A", "2026-01-12")
	sol := New([]*model.Employee{emp}, []*model.ConcreteShift{s1, s2, s3}, indexWith())

	if err := sol.Assign(s1.ID, emp.ID); err != nil {
		t.Fatal(err)
	}

	if !sol.HasConflict(s2, emp.ID) {
		t.Error("重叠班次应检测为冲突")
	}
	if sol.HasConflict(s3, emp.ID) {
		t.Error("首尾相接的班次不是冲突")
	}
}

func TestSolution_Assignments_OneToOne(t *testing.T) {
	emp := employee("张三", 1)
	s1 := concrete(t, "甲", "08:00", "12:00", "A", "2026-01-12")
	s2 := concrete(t, "乙", "13:00", "17:00", "A", "2026-01-12")
	sol := New([]*model.Employee{emp}, []*model.ConcreteShift{s1, s2}, indexWith())

	if err := sol.Assign(s1.ID, emp.ID); err != nil {
		t.Fatal(err)
	}

	// 每个班次恰好一条分配记录，未分配的保留空员工行
	assignments := sol.Assignments()
	if len(assignments) != 2 {
		t.Fatalf("len(assignments) = %d, expected 2", len(assignments))
	}

	filled := 0
	for _, a := range assignments {
		if a.Employee != nil {
			filled++
		}
	}
	if filled != 1 {
		t.Errorf("filled = %d, expected 1", filled)
	}
}

func TestSolution_CloneIndependence(t *testing.T) {
	emp := employee("张三", 1)
	sh := concrete(t, "早班", "08:00", "16:00", "A", "2026-01-12")
	sol := New([]*model.Employee{emp}, []*model.ConcreteShift{sh}, indexWith())

	if err := sol.Assign(sh.ID, emp.ID); err != nil {
		t.Fatal(err)
	}

	clone := sol.Clone()
	clone.Unassign(sh.ID)

	if _, ok := sol.AssignedEmployee(sh.ID); !ok {
		t.Error("修改克隆不应影响原状态")
	}
	if _, ok := clone.AssignedEmployee(sh.ID); ok {
		t.Error("克隆的修改应生效")
	}
}

func TestScore_CompareAndFeasible(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Score
		expected int
	}{
		{"硬约束优先", Score{Hard: 0, Soft: -100}, Score{Hard: -1, Soft: 0}, 1},
		{"硬相同比软", Score{Hard: 0, Soft: -1}, Score{Hard: 0, Soft: -2}, 1},
		{"完全相同", Score{Hard: -1, Soft: -1}, Score{Hard: -1, Soft: -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.a.Compare(tt.b); result != tt.expected {
				t.Errorf("Compare() = %d, expected %d", result, tt.expected)
			}
		})
	}

	if !(Score{Hard: 0, Soft: -5}).Feasible() {
		t.Error("Hard=0 应为可行")
	}
	if (Score{Hard: -1, Soft: 0}).Feasible() {
		t.Error("Hard<0 不可行")
	}
	if got := (Score{Hard: 0, Soft: -2}).String(); got != "0hard/-2soft" {
		t.Errorf("String() = %q, expected %q", got, "0hard/-2soft")
	}
}
