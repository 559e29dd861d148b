package handler

import (
	"phonics-audio/config"
	"phonics-audio/internal/storage"
)

type Handler struct {
	// Ledger may be nil when the ledger is disabled.
	Ledger    *storage.Ledger
	OutputDir string
}

func NewHandler(ledger *storage.Ledger) Handler {
	return Handler{Ledger: ledger, OutputDir: config.Conf.App.OutputDir}
}
