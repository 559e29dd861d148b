package dto

import "phonics-audio/internal/types"

type ListAssetsReq struct {
	Job    string `form:"job"`
	Status string `form:"status" binding:"omitempty,oneof=generated skipped failed unmapped"`
	RunId  string `form:"run_id"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type ListAssetsResData struct {
	Total  int                 `json:"total"`
	Assets []types.AssetRecord `json:"assets"`
}

type ListRunsReq struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type ListRunsResData struct {
	Runs []types.AssetRun `json:"runs"`
}

type HealthResData struct {
	Status string `json:"status"`
	Ledger bool   `json:"ledger"`
}
