package engine

import (
	"math/rand"

	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/solution"
)

// moveKind 邻域移动类型
type moveKind int

const (
	moveAssign   moveKind = iota // 为未分配班次指派员工
	moveReassign                 // 将班次改派给另一名员工
	moveSwap                     // 交换两个班次的员工
	moveUnassign                 // 取消一个分配
)

// moveWeights 移动类型的选择权重（固定顺序，保证种子确定性）
var moveWeights = []struct {
	kind   moveKind
	weight float64
}{
	{moveAssign, 0.30},
	{moveReassign, 0.30},
	{moveSwap, 0.30},
	{moveUnassign, 0.10},
}

// move 一次可撤销的邻域移动
type move struct {
	kind   moveKind
	shiftA *model.ConcreteShift
	shiftB *model.ConcreteShift
	newEmp *model.Employee
	prevA  *model.Employee
	prevB  *model.Employee
}

// apply 将移动应用到分配模型
func (m *move) apply(sol *solution.RosterSolution) {
	switch m.kind {
	case moveAssign, moveReassign:
		_ = sol.Assign(m.shiftA.ID, m.newEmp.ID)
	case moveSwap:
		_ = sol.Assign(m.shiftA.ID, m.prevB.ID)
		_ = sol.Assign(m.shiftB.ID, m.prevA.ID)
	case moveUnassign:
		sol.Unassign(m.shiftA.ID)
	}
}

// undo 撤销移动，恢复应用前的分配
func (m *move) undo(sol *solution.RosterSolution) {
	switch m.kind {
	case moveAssign:
		sol.Unassign(m.shiftA.ID)
	case moveReassign:
		_ = sol.Assign(m.shiftA.ID, m.prevA.ID)
	case moveSwap:
		_ = sol.Assign(m.shiftA.ID, m.prevA.ID)
		_ = sol.Assign(m.shiftB.ID, m.prevB.ID)
	case moveUnassign:
		_ = sol.Assign(m.shiftA.ID, m.prevA.ID)
	}
}

// moveGenerator 邻域移动生成器
type moveGenerator struct {
	rng *rand.Rand
}

func newMoveGenerator(rng *rand.Rand) *moveGenerator {
	return &moveGenerator{rng: rng}
}

// randomMove 按权重随机生成一个移动，无法生成时返回 nil
func (g *moveGenerator) randomMove(sol *solution.RosterSolution) *move {
	r := g.rng.Float64()
	cumulative := 0.0
	kind := moveSwap
	for _, mw := range moveWeights {
		cumulative += mw.weight
		if r < cumulative {
			kind = mw.kind
			break
		}
	}

	switch kind {
	case moveAssign:
		return g.assignMove(sol)
	case moveReassign:
		return g.reassignMove(sol)
	case moveSwap:
		return g.swapMove(sol)
	case moveUnassign:
		return g.unassignMove(sol)
	}
	return nil
}

// assignMove 为随机的未分配班次挑选一名当日可用员工
func (g *moveGenerator) assignMove(sol *solution.RosterSolution) *move {
	unassigned := sol.UnassignedShifts()
	if len(unassigned) == 0 {
		return nil
	}
	shift := unassigned[g.rng.Intn(len(unassigned))]

	candidates := g.eligible(sol, shift, nil)
	if len(candidates) == 0 {
		return nil
	}

	return &move{
		kind:   moveAssign,
		shiftA: shift,
		newEmp: candidates[g.rng.Intn(len(candidates))],
	}
}

// reassignMove 将随机的已分配班次改派给另一名当日可用员工
func (g *moveGenerator) reassignMove(sol *solution.RosterSolution) *move {
	assigned := sol.AssignedShifts()
	if len(assigned) == 0 {
		return nil
	}
	shift := assigned[g.rng.Intn(len(assigned))]
	prev, _ := sol.AssignedEmployee(shift.ID)

	candidates := g.eligible(sol, shift, prev)
	if len(candidates) == 0 {
		return nil
	}

	return &move{
		kind:   moveReassign,
		shiftA: shift,
		prevA:  prev,
		newEmp: candidates[g.rng.Intn(len(candidates))],
	}
}

// swapMove 交换两个已分配班次的员工
func (g *moveGenerator) swapMove(sol *solution.RosterSolution) *move {
	assigned := sol.AssignedShifts()
	if len(assigned) < 2 {
		return nil
	}

	i := g.rng.Intn(len(assigned))
	j := g.rng.Intn(len(assigned))
	for j == i {
		j = g.rng.Intn(len(assigned))
	}

	empI, _ := sol.AssignedEmployee(assigned[i].ID)
	empJ, _ := sol.AssignedEmployee(assigned[j].ID)
	if empI.ID == empJ.ID {
		return nil
	}

	return &move{
		kind:   moveSwap,
		shiftA: assigned[i],
		shiftB: assigned[j],
		prevA:  empI,
		prevB:  empJ,
	}
}

// unassignMove 取消一个随机分配
func (g *moveGenerator) unassignMove(sol *solution.RosterSolution) *move {
	assigned := sol.AssignedShifts()
	if len(assigned) == 0 {
		return nil
	}
	shift := assigned[g.rng.Intn(len(assigned))]
	prev, _ := sol.AssignedEmployee(shift.ID)

	return &move{
		kind:   moveUnassign,
		shiftA: shift,
		prevA:  prev,
	}
}

// eligible 返回班次当日可用的候选员工（来自索引的排序输出，结果确定）
// exclude 非空时排除该员工
func (g *moveGenerator) eligible(sol *solution.RosterSolution, shift *model.ConcreteShift, exclude *model.Employee) []*model.Employee {
	names := sol.Availability().AvailableEmployees(shift.Date)
	candidates := make([]*model.Employee, 0, len(names))
	for _, name := range names {
		emp, ok := sol.EmployeeByName(name)
		if !ok {
			continue
		}
		if exclude != nil && emp.ID == exclude.ID {
			continue
		}
		candidates = append(candidates, emp)
	}
	return candidates
}
