// Package engine 提供基于局部搜索的排班求解引擎
package engine

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/roster/roster/pkg/logger"
	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/solution"
)

// State 求解状态机
// INITIALIZED → SEARCHING → (TERMINATED_FEASIBLE | TERMINATED_BEST_EFFORT | CANCELLED)
type State string

const (
	StateInitialized          State = "INITIALIZED"
	StateSearching            State = "SEARCHING"
	StateTerminatedFeasible   State = "TERMINATED_FEASIBLE"
	StateTerminatedBestEffort State = "TERMINATED_BEST_EFFORT"
	StateCancelled            State = "CANCELLED"
)

// Config 求解配置
type Config struct {
	MaxIterations    int           `json:"max_iterations"`    // 最大迭代次数
	MaxTime          time.Duration `json:"max_time"`          // 最大运行时间
	TabuSize         int           `json:"tabu_size"`         // 禁忌表大小
	StopOnPlateau    bool          `json:"stop_on_plateau"`   // 平台期停止（仅在硬约束为0时生效）
	PlateauThreshold int           `json:"plateau_threshold"` // 平台期阈值（无改进迭代次数）
	InitialTemp      float64       `json:"initial_temp"`      // 模拟退火初始温度
	CoolingRate      float64       `json:"cooling_rate"`      // 冷却速率
	Seed             int64         `json:"seed"`              // 随机种子，0表示按时间取种
}

// DefaultConfig 默认求解配置
func DefaultConfig() *Config {
	return &Config{
		MaxIterations:    5000,
		MaxTime:          30 * time.Second,
		TabuSize:         50,
		StopOnPlateau:    true,
		PlateauThreshold: 200,
		InitialTemp:      10.0,
		CoolingRate:      0.995,
	}
}

// Result 求解结果
// Solution 始终满足 1:1 班次-分配不变量，即使在取消或超时后
type Result struct {
	Solution   *solution.RosterSolution `json:"-"`
	Score      solution.Score           `json:"score"`
	State      State                    `json:"state"`
	Iterations int                      `json:"iterations"`
	Duration   time.Duration            `json:"duration"`
}

// Engine 局部搜索求解引擎
type Engine struct {
	cfg    *Config
	rng    *rand.Rand
	tabu   *TabuList
	gen    *moveGenerator
	log    *logger.SolverLogger
	onBest func(solution.Score)
}

// New 创建求解引擎
func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &Engine{
		cfg:  cfg,
		rng:  rng,
		tabu: NewTabuList(cfg.TabuSize),
		gen:  newMoveGenerator(rng),
		log:  logger.NewSolverLogger(),
	}
}

// OnImprovement 注册最优解改进回调（用于任务状态查询的得分快照）
func (e *Engine) OnImprovement(fn func(solution.Score)) {
	e.onBest = fn
}

// Solve 对分配模型执行贪心构造加局部搜索
// 取消和预算耗尽不是错误：引擎在下一个安全点停止并返回已知最优解
// 返回的最优解得分相对搜索过程单调不回退
func (e *Engine) Solve(ctx context.Context, sol *solution.RosterSolution) *Result {
	start := time.Now()

	e.constructInitial(sol)

	current := sol
	curScore := current.Score()
	best := current.Clone()
	bestScore := curScore
	e.reportBest(bestScore)

	temperature := e.cfg.InitialTemp
	noImprovement := 0
	state := StateSearching
	iterations := 0

	for i := 0; i < e.cfg.MaxIterations; i++ {
		// 移动循环粒度的协作式取消检查
		select {
		case <-ctx.Done():
			state = StateCancelled
		default:
		}
		if state == StateCancelled {
			e.log.SolveCancelled("", i)
			break
		}

		if time.Since(start) > e.cfg.MaxTime {
			break
		}

		iterations = i + 1

		mv := e.gen.randomMove(current)
		if mv == nil {
			noImprovement++
			continue
		}

		mv.apply(current)
		newScore := current.Score()

		if e.accept(curScore, newScore, temperature, current) {
			curScore = newScore
			e.tabu.Add(hashAssignments(current))

			if newScore.Better(bestScore) {
				best = current.Clone()
				bestScore = newScore
				noImprovement = 0
				e.reportBest(bestScore)
				e.log.NewBest(i, bestScore.String())
			} else {
				noImprovement++
			}
		} else {
			mv.undo(current)
			noImprovement++
		}

		// 硬约束已满足且软得分进入平台期时提前结束
		if e.cfg.StopOnPlateau && bestScore.Feasible() && noImprovement >= e.cfg.PlateauThreshold {
			break
		}

		temperature *= e.cfg.CoolingRate
	}

	if state != StateCancelled {
		if bestScore.Feasible() {
			state = StateTerminatedFeasible
		} else {
			state = StateTerminatedBestEffort
		}
	}

	return &Result{
		Solution:   best,
		Score:      bestScore,
		State:      state,
		Iterations: iterations,
		Duration:   time.Since(start),
	}
}

// accept 移动接受准则
// 硬约束变差的移动一律拒绝；改进的移动总是接受；
// 持平或软约束变差的移动在非禁忌时按模拟退火概率接受
func (e *Engine) accept(cur, next solution.Score, temperature float64, sol *solution.RosterSolution) bool {
	if next.Hard < cur.Hard {
		return false
	}

	cmp := next.Compare(cur)
	if cmp > 0 {
		return true
	}

	if e.tabu.Contains(hashAssignments(sol)) {
		return false
	}
	if cmp == 0 {
		return true
	}

	delta := float64(cur.Soft - next.Soft)
	return e.rng.Float64() < boltzmannProbability(delta, temperature)
}

// constructInitial 贪心初始构造
// 按时间顺序为每个班次挑选当日可用、无时间冲突、目标缺口最大的员工
// 候选来自索引的排序输出，缺口相同取名字靠前者，结果确定
func (e *Engine) constructInitial(sol *solution.RosterSolution) {
	for _, sh := range sol.Shifts() {
		var best *model.Employee
		bestDeficit := math.MinInt

		for _, name := range sol.Availability().AvailableEmployees(sh.Date) {
			emp, ok := sol.EmployeeByName(name)
			if !ok {
				continue
			}
			if sol.HasConflict(sh, emp.ID) {
				continue
			}
			deficit := emp.TargetShiftCount - sol.AssignedCount(emp.ID)
			if deficit > bestDeficit {
				bestDeficit = deficit
				best = emp
			}
		}

		if best != nil {
			_ = sol.Assign(sh.ID, best.ID)
		}
	}
}

// reportBest 上报最优解改进
func (e *Engine) reportBest(score solution.Score) {
	if e.onBest != nil {
		e.onBest(score)
	}
}

// hashAssignments 计算分配状态的哈希 (使用FNV-1a算法)
// 按班次时间顺序遍历，与遍历顺序无关的map不参与
func hashAssignments(sol *solution.RosterSolution) uint64 {
	h := fnv.New64a()
	for _, a := range sol.Assignments() {
		h.Write(a.Shift.ID[:])
		if a.Employee != nil {
			h.Write(a.Employee.ID[:])
		} else {
			h.Write([]byte{0})
		}
	}
	return h.Sum64()
}

// boltzmannProbability 计算模拟退火的接受概率
// delta: 能量差 (old - new 的劣化量，为正)
// temperature: 当前温度
func boltzmannProbability(delta, temperature float64) float64 {
	if delta <= 0 {
		return 1.0
	}
	if temperature <= 0 {
		return 0.0
	}
	return math.Exp(-delta / temperature)
}
