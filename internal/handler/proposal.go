package handler

import (
	"net/http"

	"github.com/roster/roster/internal/service"
)

// ProposalHandler 排班提案处理器
type ProposalHandler struct {
	svc *service.SolverService
}

// NewProposalHandler 创建排班提案处理器
func NewProposalHandler(svc *service.SolverService) *ProposalHandler {
	return &ProposalHandler{svc: svc}
}

// GetByID 按ID获取提案（含全部班次行）
func (h *ProposalHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	proposal, err := h.svc.GetProposal(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, proposal)
}

// Latest 获取方案最近一次生成的提案
func (h *ProposalHandler) Latest(w http.ResponseWriter, r *http.Request) {
	schemaID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	proposal, err := h.svc.GetLatestProposal(r.Context(), schemaID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, proposal)
}

// Roster 渲染方案的排班网格视图
// 按日期逐行展示班次分配，附带每日可用员工列表
func (h *ProposalHandler) Roster(w http.ResponseWriter, r *http.Request) {
	schemaID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	grid, err := h.svc.BuildRoster(r.Context(), schemaID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, grid)
}
