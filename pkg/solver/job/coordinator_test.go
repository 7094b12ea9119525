package job

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/errors"
	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/availability"
	"github.com/roster/roster/pkg/solver/engine"
	"github.com/roster/roster/pkg/solver/solution"
)

// slowConfig 长时间运行的配置，用于测试在途任务语义
func slowConfig() *engine.Config {
	return &engine.Config{
		MaxIterations:    100_000_000,
		MaxTime:          30 * time.Second,
		TabuSize:         50,
		StopOnPlateau:    false,
		InitialTemp:      10.0,
		CoolingRate:      0.9999,
		Seed:             42,
	}
}

// fastConfig 快速结束的配置
func fastConfig() *engine.Config {
	return &engine.Config{
		MaxIterations:    100,
		MaxTime:          5 * time.Second,
		TabuSize:         10,
		StopOnPlateau:    true,
		PlateauThreshold: 10,
		InitialTemp:      10.0,
		CoolingRate:      0.995,
		Seed:             42,
	}
}

func testSolution(t *testing.T) *solution.RosterSolution {
	t.Helper()
	base := &model.Shift{BaseModel: model.NewBaseModel(), Name: "白班", StartTime: "09:00", EndTime: "17:00"}

	entries := []*model.AvailabilityEntry{
		{BaseModel: model.NewBaseModel(), StaffName: "张三", TargetShiftCount: 1},
		{BaseModel: model.NewBaseModel(), StaffName: "李四", TargetShiftCount: 1},
	}
	employees := []*model.Employee{
		model.EmployeeFromEntry(entries[0]),
		model.EmployeeFromEntry(entries[1]),
	}

	var shifts []*model.ConcreteShift
	for _, date := range []string{"2026-01-12", "2026-01-13"} {
		cs, err := model.NewConcreteShift(base, "前台", date)
		if err != nil {
			t.Fatal(err)
		}
		shifts = append(shifts, cs)
	}

	return solution.New(employees, shifts, availability.NewIndex(entries))
}

func TestCoordinator_RejectsConcurrentSubmit(t *testing.T) {
	c := NewCoordinator(slowConfig())
	schemaID := uuid.New()

	j, err := c.Submit(schemaID, testSolution(t))
	if err != nil {
		t.Fatalf("第一次提交失败: %v", err)
	}
	defer func() {
		j.Cancel()
		<-j.Done()
	}()

	// 同一方案在途时拒绝新提交
	if _, err := c.Submit(schemaID, testSolution(t)); !errors.Is(err, errors.CodeSolveInProgress) {
		t.Errorf("并发提交应返回 SOLVE_IN_PROGRESS, got %v", err)
	}
}

func TestCoordinator_ParallelSchemas(t *testing.T) {
	c := NewCoordinator(slowConfig())

	j1, err := c.Submit(uuid.New(), testSolution(t))
	if err != nil {
		t.Fatalf("提交方案1失败: %v", err)
	}
	j2, err := c.Submit(uuid.New(), testSolution(t))
	if err != nil {
		t.Fatalf("不同方案应可并行提交: %v", err)
	}

	if c.ActiveCount() != 2 {
		t.Errorf("ActiveCount() = %d, expected 2", c.ActiveCount())
	}

	j1.Cancel()
	j2.Cancel()
	<-j1.Done()
	<-j2.Done()
}

func TestCoordinator_CancelReturnsBestEffort(t *testing.T) {
	c := NewCoordinator(slowConfig())
	schemaID := uuid.New()

	j, err := c.Submit(schemaID, testSolution(t))
	if err != nil {
		t.Fatal(err)
	}

	if !c.Cancel(schemaID) {
		t.Error("在途任务应可取消")
	}

	select {
	case <-j.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("取消后任务应很快结束")
	}

	result := j.Result()
	if result == nil {
		t.Fatal("取消后仍应有结果")
	}
	if result.State != engine.StateCancelled {
		t.Errorf("State = %s, expected CANCELLED", result.State)
	}
	if result.Solution == nil {
		t.Error("取消后应返回当前最优解")
	}

	// 已结束的任务不可重复取消
	if c.Cancel(schemaID) {
		t.Error("已结束的任务取消应返回 false")
	}
}

func TestCoordinator_ResubmitAfterFinish(t *testing.T) {
	c := NewCoordinator(fastConfig())
	schemaID := uuid.New()

	j1, err := c.Submit(schemaID, testSolution(t))
	if err != nil {
		t.Fatal(err)
	}
	<-j1.Done()

	// 旧任务完成后允许重新提交
	j2, err := c.Submit(schemaID, testSolution(t))
	if err != nil {
		t.Fatalf("完成后重新提交失败: %v", err)
	}
	<-j2.Done()

	if c.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, expected 0", c.ActiveCount())
	}
}

func TestJob_AwaitTimeoutCancelsAndReturnsBest(t *testing.T) {
	c := NewCoordinator(slowConfig())

	j, err := c.Submit(uuid.New(), testSolution(t))
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	result, err := j.Await(context.Background(), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Await 超时后应尽快返回")
	}

	// 超时触发取消，但不丢弃当前最优解
	if result.State != engine.StateCancelled {
		t.Errorf("State = %s, expected CANCELLED", result.State)
	}
	if result.Solution == nil {
		t.Error("超时后应返回当前最优解")
	}
}

func TestJob_AwaitCompleted(t *testing.T) {
	c := NewCoordinator(fastConfig())

	j, err := c.Submit(uuid.New(), testSolution(t))
	if err != nil {
		t.Fatal(err)
	}

	result, err := j.Await(context.Background(), 10*time.Second)
	if err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	if result.State != engine.StateTerminatedFeasible {
		t.Errorf("State = %s, expected TERMINATED_FEASIBLE", result.State)
	}
}

func TestCoordinator_StatusSnapshot(t *testing.T) {
	c := NewCoordinator(slowConfig())
	schemaID := uuid.New()

	if _, ok := c.Status(schemaID); ok {
		t.Error("未提交的方案不应有状态")
	}

	j, err := c.Submit(schemaID, testSolution(t))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		j.Cancel()
		<-j.Done()
	}()

	status, ok := c.Status(schemaID)
	if !ok {
		t.Fatal("在途任务应有状态")
	}
	if status.SchemaID != schemaID {
		t.Error("状态应归属原方案")
	}
	if status.State != engine.StateInitialized && status.State != engine.StateSearching {
		t.Errorf("在途状态 = %s, expected INITIALIZED 或 SEARCHING", status.State)
	}
}
