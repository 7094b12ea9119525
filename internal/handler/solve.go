package handler

import (
	"net/http"

	"github.com/roster/roster/internal/service"
	"github.com/roster/roster/pkg/errors"
)

// SolveHandler 求解处理器
type SolveHandler struct {
	svc *service.SolverService
}

// NewSolveHandler 创建求解处理器
func NewSolveHandler(svc *service.SolverService) *SolveHandler {
	return &SolveHandler{svc: svc}
}

// Solve 触发方案求解
// 默认同步等待求解完成并返回提案；?async=true 时立即返回202和任务状态
// 同一方案已有在途任务时返回409
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	schemaID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if r.URL.Query().Get("async") == "true" {
		status, err := h.svc.SolveAsync(r.Context(), schemaID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusAccepted, status)
		return
	}

	outcome, err := h.svc.Solve(r.Context(), schemaID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

// Status 查询方案的求解任务状态
func (h *SolveHandler) Status(w http.ResponseWriter, r *http.Request) {
	schemaID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	status, ok := h.svc.Status(schemaID)
	if !ok {
		respondError(w, errors.NotFound("求解任务", schemaID.String()))
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// Cancel 取消方案的在途求解任务
// 取消是协作式的：引擎在下一个检查点停止，当前最优解仍会生成提案
func (h *SolveHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	schemaID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if !h.svc.Cancel(schemaID) {
		respondError(w, errors.NotFound("在途求解任务", schemaID.String()))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cancelled": true,
		"schema_id": schemaID,
	})
}
