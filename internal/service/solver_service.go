// Package service 编排求解全流程：装载、展开、求解、回写
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/roster/roster/internal/config"
	"github.com/roster/roster/internal/metrics"
	"github.com/roster/roster/internal/repository"
	"github.com/roster/roster/pkg/errors"
	"github.com/roster/roster/pkg/logger"
	"github.com/roster/roster/pkg/model"
	"github.com/roster/roster/pkg/solver/availability"
	"github.com/roster/roster/pkg/solver/engine"
	"github.com/roster/roster/pkg/solver/expander"
	"github.com/roster/roster/pkg/solver/job"
	"github.com/roster/roster/pkg/solver/mapper"
	"github.com/roster/roster/pkg/solver/solution"
	"github.com/roster/roster/pkg/stats"
)

// SolverService 求解服务
type SolverService struct {
	schemas      *repository.SchemaRepository
	templates    *repository.TemplateRepository
	shifts       *repository.ShiftRepository
	availability *repository.AvailabilityRepository
	proposals    *repository.ProposalRepository

	coordinator *job.Coordinator
	mapper      *mapper.Mapper
	cfg         *config.SolverConfig
}

// NewSolverService 创建求解服务
func NewSolverService(
	schemas *repository.SchemaRepository,
	templates *repository.TemplateRepository,
	shifts *repository.ShiftRepository,
	availabilityRepo *repository.AvailabilityRepository,
	proposals *repository.ProposalRepository,
	cfg *config.SolverConfig,
) *SolverService {
	return &SolverService{
		schemas:      schemas,
		templates:    templates,
		shifts:       shifts,
		availability: availabilityRepo,
		proposals:    proposals,
		coordinator:  job.NewCoordinator(engineConfig(cfg)),
		mapper:       mapper.New(shifts),
		cfg:          cfg,
	}
}

// engineConfig 将应用配置映射为求解引擎配置
func engineConfig(cfg *config.SolverConfig) *engine.Config {
	ec := engine.DefaultConfig()
	if cfg == nil {
		return ec
	}
	if cfg.MaxIterations > 0 {
		ec.MaxIterations = cfg.MaxIterations
	}
	if cfg.MaxTime > 0 {
		ec.MaxTime = cfg.MaxTime
	}
	if cfg.PlateauThreshold > 0 {
		ec.PlateauThreshold = cfg.PlateauThreshold
	}
	ec.Seed = cfg.Seed
	return ec
}

// SolveOutcome 一次同步求解的完整产出
type SolveOutcome struct {
	Proposal   *model.ScheduleProposal `json:"proposal"`
	Stats      *stats.RosterStats      `json:"stats"`
	State      engine.State            `json:"state"`
	Iterations int                     `json:"iterations"`
	Duration   time.Duration           `json:"duration"`
}

// Solve 同步求解：提交任务并等待完成，持久化提案后返回
// 等待超过配置的默认时限时请求取消，仍以当前最优解生成提案
func (s *SolverService) Solve(ctx context.Context, schemaID uuid.UUID) (*SolveOutcome, error) {
	sol, err := s.buildSolution(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	j, err := s.coordinator.Submit(schemaID, sol)
	if err != nil {
		return nil, err
	}
	metrics.SetActiveJobs(s.coordinator.ActiveCount())

	result, err := j.Await(ctx, s.cfg.DefaultTimeout)
	metrics.SetActiveJobs(s.coordinator.ActiveCount())
	if err != nil {
		return nil, err
	}

	proposal, err := s.persist(ctx, schemaID, result)
	if err != nil {
		return nil, err
	}

	return &SolveOutcome{
		Proposal:   proposal,
		Stats:      stats.Analyze(result.Solution),
		State:      result.State,
		Iterations: result.Iterations,
		Duration:   result.Duration,
	}, nil
}

// SolveAsync 异步求解：提交任务后立即返回状态快照
// 任务完成时在后台持久化提案，结果通过最新提案接口获取
func (s *SolverService) SolveAsync(ctx context.Context, schemaID uuid.UUID) (*job.Status, error) {
	sol, err := s.buildSolution(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	j, err := s.coordinator.Submit(schemaID, sol)
	if err != nil {
		return nil, err
	}
	metrics.SetActiveJobs(s.coordinator.ActiveCount())

	go func() {
		<-j.Done()
		metrics.SetActiveJobs(s.coordinator.ActiveCount())

		// 后台持久化不依赖请求上下文
		persistCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := s.persist(persistCtx, schemaID, j.Result()); err != nil {
			logger.Error().
				Err(err).
				Str("schema_id", schemaID.String()).
				Msg("异步求解结果持久化失败")
		}
	}()

	status := j.Snapshot()
	return &status, nil
}

// Status 查询方案的求解任务状态
func (s *SolverService) Status(schemaID uuid.UUID) (job.Status, bool) {
	return s.coordinator.Status(schemaID)
}

// Cancel 取消方案的在途求解任务
func (s *SolverService) Cancel(schemaID uuid.UUID) bool {
	ok := s.coordinator.Cancel(schemaID)
	metrics.SetActiveJobs(s.coordinator.ActiveCount())
	return ok
}

// buildSolution 装载方案的全部求解输入并构建分配模型
func (s *SolverService) buildSolution(ctx context.Context, schemaID uuid.UUID) (*solution.RosterSolution, error) {
	schema, err := s.schemas.GetByID(ctx, schemaID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "装载排班方案失败")
	}
	if schema == nil {
		return nil, errors.NotFound("排班方案", schemaID.String())
	}

	templateIDs := make([]uuid.UUID, 0, len(schema.TemplateAssignments))
	for _, ta := range schema.TemplateAssignments {
		templateIDs = append(templateIDs, ta.TemplateID)
	}
	templates, err := s.templates.GetByIDs(ctx, templateIDs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "装载周模板失败")
	}

	baseShifts, err := s.shifts.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "装载基础班次目录失败")
	}

	entries, err := s.availability.ListBySchema(ctx, schemaID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "装载可用性记录失败")
	}
	if len(entries) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "方案没有任何员工可用性记录，无法求解")
	}

	concrete, err := expander.New(templates, baseShifts).Expand(schema)
	if err != nil {
		return nil, err
	}

	employees := make([]*model.Employee, 0, len(entries))
	for _, entry := range entries {
		employees = append(employees, model.EmployeeFromEntry(entry))
	}

	return solution.New(employees, concrete, availability.NewIndex(entries)), nil
}

// persist 将求解结果转换为提案并持久化，同时上报监控指标
func (s *SolverService) persist(ctx context.Context, schemaID uuid.UUID, result *engine.Result) (*model.ScheduleProposal, error) {
	if result == nil {
		return nil, errors.New(errors.CodeInternal, "求解任务未产生结果")
	}

	proposal, err := s.mapper.ToProposal(ctx, schemaID, result)
	if err != nil {
		return nil, err
	}

	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "持久化排班提案失败")
	}

	rosterStats := stats.Analyze(result.Solution)
	metrics.RecordSolve(
		schemaID.String(),
		result.Score.Hard, result.Score.Soft,
		rosterStats.FillRate,
		result.Score.Feasible(),
		result.Duration,
	)

	return proposal, nil
}

// GetProposal 按ID获取排班提案
func (s *SolverService) GetProposal(ctx context.Context, id uuid.UUID) (*model.ScheduleProposal, error) {
	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "查询排班提案失败")
	}
	if proposal == nil {
		return nil, errors.NotFound("排班提案", id.String())
	}
	return proposal, nil
}

// GetLatestProposal 获取方案最近一次生成的提案
func (s *SolverService) GetLatestProposal(ctx context.Context, schemaID uuid.UUID) (*model.ScheduleProposal, error) {
	proposal, err := s.proposals.GetLatestBySchema(ctx, schemaID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "查询最新排班提案失败")
	}
	if proposal == nil {
		return nil, errors.NotFound("排班提案", schemaID.String())
	}
	return proposal, nil
}
