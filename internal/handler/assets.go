package handler

import (
	"phonics-audio/internal/dto"
	"phonics-audio/internal/response"
	"phonics-audio/internal/storage"
	"phonics-audio/log"
	apperrors "phonics-audio/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultListLimit = 100

func (h Handler) Healthz(c *gin.Context) {
	response.Success(c, dto.HealthResData{Status: "ok", Ledger: h.Ledger != nil})
}

func (h Handler) ListAssets(c *gin.Context) {
	var req dto.ListAssetsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.GetLogger().Warn("ListAssets bind query failed", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}
	if h.Ledger == nil {
		response.ErrorResponse(c, apperrors.WrapWithDetail(apperrors.CodeNotFound, "Ledger is disabled", "", nil))
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultListLimit
	}

	recs, err := h.Ledger.ListRecords(c.Request.Context(), storage.RecordFilter{
		Job:    req.Job,
		Status: req.Status,
		RunID:  req.RunId,
		Limit:  req.Limit,
	})
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, dto.ListAssetsResData{Total: len(recs), Assets: recs})
}

func (h Handler) ListRuns(c *gin.Context) {
	var req dto.ListRunsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}
	if h.Ledger == nil {
		response.ErrorResponse(c, apperrors.WrapWithDetail(apperrors.CodeNotFound, "Ledger is disabled", "", nil))
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultListLimit
	}
	runs, err := h.Ledger.ListRuns(c.Request.Context(), req.Limit)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, dto.ListRunsResData{Runs: runs})
}

func (h Handler) GetRun(c *gin.Context) {
	runID := c.Param("runId")
	if h.Ledger == nil {
		response.ErrorResponse(c, apperrors.WrapWithDetail(apperrors.CodeNotFound, "Ledger is disabled", "", nil))
		return
	}
	run, err := h.Ledger.Summary(c.Request.Context(), runID)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, run)
}
