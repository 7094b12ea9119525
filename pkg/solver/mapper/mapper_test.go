package mapper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/errors"
	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/availability"
	"github.com/roster/roster/pkg/solver/engine"
	"github.com/roster/roster/pkg/solver/solution"
)

// fakeCatalog 内存基础班次目录
type fakeCatalog struct {
	shifts map[uuid.UUID]*model.Shift
	calls  int
}

func (f *fakeCatalog) FindShiftByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	f.calls++
	s, ok := f.shifts[id]
	if !ok {
		return nil, errors.NotFound("基础班次", id.String())
	}
	return s, nil
}

func fixture(t *testing.T) (*fakeCatalog, *model.Shift, *solution.RosterSolution, *model.Employee) {
	t.Helper()

	base := &model.Shift{
		BaseModel: model.NewBaseModel(),
		Name:      "早班",
		StartTime: "08:00",
		EndTime:   "16:00",
	}
	catalog := &fakeCatalog{shifts: map[uuid.UUID]*model.Shift{base.ID: base}}

	entry := &model.AvailabilityEntry{
		BaseModel:        model.NewBaseModel(),
		StaffName:        "张三",
		TargetShiftCount: 1,
	}
	emp := model.EmployeeFromEntry(entry)

	s1, err := model.NewConcreteShift(base, "服务员", "2026-01-12")
	if err != nil {
		t.Fatal(err)
	}
	s2, err := model.NewConcreteShift(base, "服务员", "2026-01-13")
	if err != nil {
		t.Fatal(err)
	}

	sol := solution.New(
		[]*model.Employee{emp},
		[]*model.ConcreteShift{s1, s2},
		availability.NewIndex([]*model.AvailabilityEntry{entry}),
	)
	if err := sol.Assign(s1.ID, emp.ID); err != nil {
		t.Fatal(err)
	}

	return catalog, base, sol, emp
}

func TestMapper_ToProposal(t *testing.T) {
	catalog, base, sol, _ := fixture(t)
	schemaID := uuid.New()

	result := &engine.Result{
		Solution: sol,
		Score:    sol.Score(),
		State:    engine.StateTerminatedFeasible,
	}

	proposal, err := New(catalog).ToProposal(context.Background(), schemaID, result)
	if err != nil {
		t.Fatalf("ToProposal() error = %v", err)
	}

	if proposal.SchemaID != schemaID {
		t.Error("提案应归属原方案")
	}
	// 每个具体班次恰好一行，未分配的也保留
	if len(proposal.Shifts) != 2 {
		t.Fatalf("len(Shifts) = %d, expected 2", len(proposal.Shifts))
	}

	assigned := proposal.Shifts[0]
	if !assigned.IsAssigned() || *assigned.AssignedStaffName != "张三" {
		t.Error("第一行应分配给张三")
	}
	unassigned := proposal.Shifts[1]
	if unassigned.IsAssigned() {
		t.Error("第二行应保留为未分配")
	}
	if unassigned.AssignedStaffName != nil {
		t.Error("未分配行的员工名应为 nil")
	}

	for _, row := range proposal.Shifts {
		if row.BaseShiftID != base.ID {
			t.Error("提案行应回链到基础班次")
		}
		if row.BaseShiftName != "早班" {
			t.Errorf("BaseShiftName = %q, expected 早班", row.BaseShiftName)
		}
		// ID由持久化层分配，转换阶段保持为空保证幂等
		if row.ID != uuid.Nil || row.ProposalID != uuid.Nil {
			t.Error("转换阶段不应分配行ID")
		}
	}
	if proposal.ID != uuid.Nil {
		t.Error("转换阶段不应分配提案ID")
	}
}

func TestMapper_ToProposal_StatusByHardScore(t *testing.T) {
	catalog, _, sol, _ := fixture(t)

	tests := []struct {
		name     string
		score    solution.Score
		expected model.ProposalStatus
	}{
		{"硬约束为0可行", solution.Score{Hard: 0, Soft: -3}, model.ProposalFeasible},
		{"硬约束为负不可行", solution.Score{Hard: -1, Soft: 0}, model.ProposalInfeasible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &engine.Result{Solution: sol, Score: tt.score}
			proposal, err := New(catalog).ToProposal(context.Background(), uuid.New(), result)
			if err != nil {
				t.Fatalf("ToProposal() error = %v", err)
			}
			if proposal.Status != tt.expected {
				t.Errorf("Status = %s, expected %s", proposal.Status, tt.expected)
			}
			if proposal.HardScore != tt.score.Hard || proposal.SoftScore != tt.score.Soft {
				t.Error("提案应记录最终得分")
			}
		})
	}
}

func TestMapper_ToProposal_CachesCatalogLookups(t *testing.T) {
	catalog, _, sol, _ := fixture(t)

	result := &engine.Result{Solution: sol, Score: sol.Score()}
	if _, err := New(catalog).ToProposal(context.Background(), uuid.New(), result); err != nil {
		t.Fatal(err)
	}

	// 两个具体班次共享同一基础班次，目录只应查询一次
	if catalog.calls != 1 {
		t.Errorf("目录查询次数 = %d, expected 1", catalog.calls)
	}
}

func TestMapper_ToProposal_UnresolvedBaseShift(t *testing.T) {
	_, _, sol, _ := fixture(t)
	empty := &fakeCatalog{shifts: map[uuid.UUID]*model.Shift{}}

	result := &engine.Result{Solution: sol, Score: sol.Score()}
	_, err := New(empty).ToProposal(context.Background(), uuid.New(), result)
	if err == nil {
		t.Fatal("基础班次无法解析应返回错误")
	}
	if !errors.Is(err, errors.CodeInvariantViolation) {
		t.Errorf("错误码 = %v, expected INVARIANT_VIOLATION", errors.GetCode(err))
	}
}
