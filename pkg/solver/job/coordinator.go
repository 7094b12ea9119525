// Package job 将求解封装为可取消、可查询的任务单元
package job

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/pkg/errors"
	"github.com/roster/roster/pkg/logger"
	"github.com/roster/roster/pkg/solver/engine"
	"github.com/roster/roster/pkg/solver/solution"
)

// Status 任务状态快照
type Status struct {
	SchemaID  uuid.UUID      `json:"schema_id"`
	State     engine.State   `json:"state"`
	BestScore solution.Score `json:"best_score"`
	StartedAt time.Time      `json:"started_at"`
}

// Job 单个求解任务
// 求解协程独占持有分配模型；外部只能取消、等待和读取状态快照
type Job struct {
	schemaID uuid.UUID

	mu        sync.Mutex
	state     engine.State
	bestScore solution.Score
	result    *engine.Result

	cancel    context.CancelFunc
	done      chan struct{}
	startedAt time.Time
}

// SchemaID 返回任务绑定的方案ID
func (j *Job) SchemaID() uuid.UUID {
	return j.schemaID
}

// Cancel 请求协作式取消
// 引擎在下一个移动循环检查点停止并返回当前最优解
func (j *Job) Cancel() {
	j.cancel()
}

// Done 返回任务完成通知通道
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Snapshot 返回状态快照
func (j *Job) Snapshot() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Status{
		SchemaID:  j.schemaID,
		State:     j.state,
		BestScore: j.bestScore,
		StartedAt: j.startedAt,
	}
}

// Result 返回求解结果，任务未完成时返回 nil
func (j *Job) Result() *engine.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Await 等待任务完成，最多等待 timeout
// 超时后请求取消并继续等待引擎交回当前最优解，不丢弃结果
func (j *Job) Await(ctx context.Context, timeout time.Duration) (*engine.Result, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-j.done:
	case <-ctx.Done():
		j.Cancel()
		<-j.done
	case <-timer.C:
		j.Cancel()
		<-j.done
	}

	result := j.Result()
	if result == nil {
		return nil, errors.New(errors.CodeInternal, "求解任务未产生结果")
	}
	return result, nil
}

func (j *Job) setBest(score solution.Score) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.bestScore = score
}

func (j *Job) complete(result *engine.Result) {
	j.mu.Lock()
	j.result = result
	j.state = result.State
	j.bestScore = result.Score
	j.mu.Unlock()
	close(j.done)
}

func (j *Job) finished() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Coordinator 求解任务协调器
// 保证同一方案ID同时至多一个在途任务；并发提交采用拒绝策略
// （返回 SOLVE_IN_PROGRESS，不做取消替换），不同方案的任务完全并行
type Coordinator struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*Job
	cfg  *engine.Config
}

// NewCoordinator 创建任务协调器
func NewCoordinator(cfg *engine.Config) *Coordinator {
	if cfg == nil {
		cfg = engine.DefaultConfig()
	}
	return &Coordinator{
		jobs: make(map[uuid.UUID]*Job),
		cfg:  cfg,
	}
}

// Submit 提交求解任务
// 该方案已有未完成任务时拒绝提交；已完成的旧任务被新任务取代
func (c *Coordinator) Submit(schemaID uuid.UUID, sol *solution.RosterSolution) (*Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.jobs[schemaID]; ok && !existing.finished() {
		return nil, errors.SolveInProgress(schemaID.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &Job{
		schemaID:  schemaID,
		state:     engine.StateInitialized,
		bestScore: sol.Score(),
		cancel:    cancel,
		done:      make(chan struct{}),
		startedAt: time.Now(),
	}
	c.jobs[schemaID] = j

	go c.run(ctx, j, sol)
	return j, nil
}

// run 求解工作协程
func (c *Coordinator) run(ctx context.Context, j *Job, sol *solution.RosterSolution) {
	j.mu.Lock()
	j.state = engine.StateSearching
	j.mu.Unlock()

	eng := engine.New(c.cfg)
	eng.OnImprovement(j.setBest)

	result := eng.Solve(ctx, sol)

	logger.Info().
		Str("schema_id", j.schemaID.String()).
		Str("score", result.Score.String()).
		Str("state", string(result.State)).
		Dur("duration", result.Duration).
		Int("iterations", result.Iterations).
		Msg("求解任务结束")

	j.complete(result)
}

// Status 查询方案的任务状态
func (c *Coordinator) Status(schemaID uuid.UUID) (Status, bool) {
	c.mu.Lock()
	j, ok := c.jobs[schemaID]
	c.mu.Unlock()
	if !ok {
		return Status{}, false
	}
	return j.Snapshot(), true
}

// Cancel 取消方案的在途任务，任务存在且尚未完成时返回 true
func (c *Coordinator) Cancel(schemaID uuid.UUID) bool {
	c.mu.Lock()
	j, ok := c.jobs[schemaID]
	c.mu.Unlock()
	if !ok || j.finished() {
		return false
	}
	j.Cancel()
	return true
}

// ActiveCount 返回在途任务数
func (c *Coordinator) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, j := range c.jobs {
		if !j.finished() {
			count++
		}
	}
	return count
}
